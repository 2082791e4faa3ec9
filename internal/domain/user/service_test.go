package user

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrEmailTaken
		}
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, userID string) (*User, error) {
	user, ok := r.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) EnsureUser(ctx context.Context, user *User) error {
	if _, ok := r.users[user.ID]; ok {
		return nil
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func newTestService(repo Repository) *Service {
	svc := NewService(repo)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegisterSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "  Alice@Example.com ",
		Password: "secret1",
		Name:     " Alice ",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got %q", result.Email)
	}
	if result.Name != "Alice" {
		t.Fatalf("expected trimmed name, got %q", result.Name)
	}
	if result.PasswordHash == "secret1" || result.PasswordHash == "" {
		t.Fatalf("expected hashed password")
	}
	if result.FamilyID != nil {
		t.Fatalf("expected no family on registration")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService(newFakeUserRepo())

	cases := []struct {
		name  string
		input RegisterInput
		want  error
	}{
		{name: "bad email", input: RegisterInput{Email: "nope", Password: "secret1", Name: "A"}, want: ErrInvalidEmail},
		{name: "short password", input: RegisterInput{Email: "a@b.c", Password: "123", Name: "A"}, want: ErrPasswordTooShort},
		{name: "missing name", input: RegisterInput{Email: "a@b.c", Password: "secret1", Name: "  "}, want: ErrNameRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestRegisterEmailTaken(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if _, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "secret1", Name: "A"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := svc.Register(context.Background(), RegisterInput{Email: "A@example.com", Password: "secret2", Name: "B"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	registered, err := svc.Register(context.Background(), RegisterInput{Email: "a@example.com", Password: "secret1", Name: "A"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	got, err := svc.Login(context.Background(), "A@EXAMPLE.com", "secret1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.ID != registered.ID {
		t.Fatalf("expected user %s, got %s", registered.ID, got.ID)
	}

	if _, err := svc.Login(context.Background(), "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "missing@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginRejectsPasswordlessAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo)

	if err := svc.EnsureUser(context.Background(), "dev-1", "Dev@Example.com", "Dev"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.users["dev-1"].Email != "dev@example.com" {
		t.Fatalf("expected normalized email, got %q", repo.users["dev-1"].Email)
	}
	if _, err := svc.Login(context.Background(), "dev@example.com", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestEnsureUserRequiresID(t *testing.T) {
	svc := newTestService(newFakeUserRepo())
	if err := svc.EnsureUser(context.Background(), " ", "a@b.c", "A"); err == nil {
		t.Fatalf("expected error for blank id")
	}
}
