package user

import "context"

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	EnsureUser(ctx context.Context, user *User) error
}
