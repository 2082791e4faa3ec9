package templates

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	// ListDefaults and ListByUser return templates ordered by created_at
	// with items ordered by order_index.
	ListDefaults(ctx context.Context) ([]Template, error)
	ListByUser(ctx context.Context, userID string) ([]Template, error)
	GetVisible(ctx context.Context, userID, templateID string) (*Template, error)
	// CreateTemplate stores the template row only; items go through CreateItems.
	CreateTemplate(ctx context.Context, template *Template) error
	CreateItems(ctx context.Context, items []Item) error
	CountDefaults(ctx context.Context) (int64, error)
}
