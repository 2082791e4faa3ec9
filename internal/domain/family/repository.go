package family

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetFamily(ctx context.Context, familyID string) (*Family, error)
	GetFamilyByCode(ctx context.Context, code string) (*Family, error)
	// GetUserFamilyID returns nil when the user has no family.
	GetUserFamilyID(ctx context.Context, userID string) (*string, error)
	ListMembers(ctx context.Context, familyID string) ([]Member, error)
	ListMemberIDs(ctx context.Context, familyID string) ([]string, error)
	CreateFamily(ctx context.Context, family *Family) error
	SetUserFamily(ctx context.Context, userID string, familyID *string) error
	CountMembers(ctx context.Context, familyID string) (int64, error)
	DeleteFamily(ctx context.Context, familyID string) error
	IsCodeTaken(ctx context.Context, code string) (bool, error)
}
