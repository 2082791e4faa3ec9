package checklists

import (
	"context"
	"time"

	"packlist-go/internal/domain/templates"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// ListChecklists returns checklists owned by query.OwnerIDs, newest first.
	ListChecklists(ctx context.Context, query ListQuery) ([]Checklist, error)
	// GetChecklist returns ErrChecklistNotFound when the owner is not in
	// ownerIDs. A nil ownerIDs skips the owner check.
	GetChecklist(ctx context.Context, ownerIDs []string, checklistID string) (*Checklist, error)
	CreateChecklist(ctx context.Context, checklist *Checklist) error
	DeleteChecklist(ctx context.Context, checklistID string) error
	SetCompletedAt(ctx context.Context, checklistID string, completedAt *time.Time) error

	ListTemplateItems(ctx context.Context, templateIDs []string) ([]templates.Item, error)
	ListTemplateSummaries(ctx context.Context, templateIDs []string) ([]TemplateSummary, error)
	ListOwners(ctx context.Context, userIDs []string) ([]Owner, error)
	GetTemplateItem(ctx context.Context, templateID, itemID string) (*templates.Item, error)

	ListStates(ctx context.Context, checklistIDs []string) ([]ItemState, error)
	// GetState returns nil without error when no state row exists.
	GetState(ctx context.Context, checklistID, itemID string) (*ItemState, error)
	UpsertState(ctx context.Context, state *ItemState) error

	ListCustomItems(ctx context.Context, checklistIDs []string) ([]CustomItem, error)
	GetCustomItem(ctx context.Context, checklistID, itemID string) (*CustomItem, error)
	CreateCustomItem(ctx context.Context, item *CustomItem) error
	UpdateCustomItem(ctx context.Context, item *CustomItem) error
	DeleteCustomItem(ctx context.Context, checklistID, itemID string) error
	// MaxCustomOrder returns -1 when the checklist has no custom items.
	MaxCustomOrder(ctx context.Context, checklistID string) (int, error)
}
