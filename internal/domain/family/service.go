package family

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	familyCodeLength   = 6
	familyCodeAttempts = 10
	familyCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ScopeUserIDs returns the ids of every user whose checklists userID may
// read or modify: the whole family when linked, otherwise only userID.
func (s *Service) ScopeUserIDs(ctx context.Context, userID string) ([]string, error) {
	familyID, err := s.repo.GetUserFamilyID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return []string{userID}, nil
		}
		return nil, err
	}
	if familyID == nil {
		return []string{userID}, nil
	}

	ids, err := s.repo.ListMemberIDs(ctx, *familyID)
	if err != nil {
		return nil, err
	}
	if !containsString(ids, userID) {
		ids = append(ids, userID)
	}
	return ids, nil
}

// GetFamily returns nil without error when the user is not in a family.
func (s *Service) GetFamily(ctx context.Context, userID string) (*FamilyWithMembers, error) {
	familyID, err := s.repo.GetUserFamilyID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if familyID == nil {
		return nil, nil
	}

	return s.loadWithMembers(ctx, s.repo, *familyID)
}

func (s *Service) CreateFamily(ctx context.Context, userID, name string) (*FamilyWithMembers, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultFamilyName
	}

	var result *FamilyWithMembers
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetUserFamilyID(ctx, userID)
		if err != nil {
			return err
		}
		if current != nil {
			return ErrAlreadyInFamily
		}

		code, err := generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		family := Family{
			ID:   uuid.NewString(),
			Name: name,
			Code: code,
		}
		if err := tx.CreateFamily(ctx, &family); err != nil {
			return err
		}
		if err := tx.SetUserFamily(ctx, userID, &family.ID); err != nil {
			return err
		}

		result, err = s.loadWithMembers(ctx, tx, family.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) JoinFamily(ctx context.Context, userID, code string) (*FamilyWithMembers, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, ErrCodeRequired
	}

	var result *FamilyWithMembers
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		current, err := tx.GetUserFamilyID(ctx, userID)
		if err != nil {
			return err
		}
		if current != nil {
			return ErrAlreadyInFamily
		}

		family, err := tx.GetFamilyByCode(ctx, code)
		if err != nil {
			return err
		}

		if err := tx.SetUserFamily(ctx, userID, &family.ID); err != nil {
			return err
		}

		result, err = s.loadWithMembers(ctx, tx, family.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// LeaveFamily unlinks the user and deletes the family once nobody is left.
func (s *Service) LeaveFamily(ctx context.Context, userID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		familyID, err := tx.GetUserFamilyID(ctx, userID)
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return ErrNotInFamily
			}
			return err
		}
		if familyID == nil {
			return ErrNotInFamily
		}

		if err := tx.SetUserFamily(ctx, userID, nil); err != nil {
			return err
		}

		remaining, err := tx.CountMembers(ctx, *familyID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			return tx.DeleteFamily(ctx, *familyID)
		}
		return nil
	})
}

func (s *Service) loadWithMembers(ctx context.Context, repo Repository, familyID string) (*FamilyWithMembers, error) {
	family, err := repo.GetFamily(ctx, familyID)
	if err != nil {
		return nil, err
	}

	members, err := repo.ListMembers(ctx, familyID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		members = []Member{}
	}

	return &FamilyWithMembers{Family: *family, Members: members}, nil
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generateUniqueCode(ctx context.Context, repo Repository) (string, error) {
	for i := 0; i < familyCodeAttempts; i++ {
		code, err := generateCode(familyCodeLength)
		if err != nil {
			return "", err
		}
		taken, err := repo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeGenerationFailed
}

func generateCode(length int) (string, error) {
	max := big.NewInt(int64(len(familyCodeAlphabet)))

	var builder strings.Builder
	builder.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(familyCodeAlphabet[n.Int64()])
	}

	return builder.String(), nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
