package templates

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultCacheTTL = 5 * time.Minute

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return NewServiceWithCache(repo, noopCache{}, defaultCacheTTL)
}

func NewServiceWithCache(repo Repository, cache Cache, ttl time.Duration) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		now:      time.Now,
	}
}

// ListTemplates returns the default templates plus the ones userID authored,
// oldest first.
func (s *Service) ListTemplates(ctx context.Context, userID string) ([]Template, error) {
	defaults, err := s.listDefaults(ctx)
	if err != nil {
		return nil, err
	}

	owned, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]Template, 0, len(defaults)+len(owned))
	result = append(result, defaults...)
	for _, tpl := range owned {
		if tpl.IsDefault {
			continue
		}
		result = append(result, tpl)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	for i := range result {
		sortItems(result[i].Items)
	}

	return result, nil
}

func (s *Service) GetTemplate(ctx context.Context, userID, templateID string) (*Template, error) {
	if strings.TrimSpace(templateID) == "" {
		return nil, ErrTemplateNotFound
	}

	tpl, err := s.repo.GetVisible(ctx, userID, templateID)
	if err != nil {
		return nil, err
	}
	if !tpl.VisibleTo(userID) {
		return nil, ErrTemplateNotFound
	}

	sortItems(tpl.Items)
	return tpl, nil
}

func (s *Service) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*Template, error) {
	tpl, err := buildTemplate(input, s.now().UTC())
	if err != nil {
		return nil, err
	}
	tpl.UserID = &input.UserID

	if err := s.persist(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// SeedDefaults installs the built-in catalog once. It returns the number of
// templates created, zero when defaults were already present.
func (s *Service) SeedDefaults(ctx context.Context, catalog []CreateTemplateInput) (int, error) {
	count, err := s.repo.CountDefaults(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	base := s.now().UTC()
	created := 0
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		for i, input := range catalog {
			tpl, err := buildTemplate(input, base.Add(time.Duration(i)*time.Millisecond))
			if err != nil {
				return err
			}
			tpl.IsDefault = true

			if err := createWithItems(ctx, tx, tpl); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.cache.InvalidateDefaults()
	return created, nil
}

func (s *Service) listDefaults(ctx context.Context) ([]Template, error) {
	if cached, ok := s.cache.GetDefaults(); ok {
		return cached, nil
	}

	defaults, err := s.repo.ListDefaults(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefaults(defaults, s.cacheTTL)
	return defaults, nil
}

func (s *Service) persist(ctx context.Context, tpl *Template) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		return createWithItems(ctx, tx, tpl)
	})
}

func createWithItems(ctx context.Context, repo Repository, tpl *Template) error {
	if err := repo.CreateTemplate(ctx, tpl); err != nil {
		return err
	}
	if len(tpl.Items) == 0 {
		return nil
	}
	return repo.CreateItems(ctx, tpl.Items)
}

func buildTemplate(input CreateTemplateInput, createdAt time.Time) (*Template, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	tpl := &Template{
		ID:            uuid.NewString(),
		Name:          name,
		NameEn:        trimOptional(input.NameEn),
		Description:   trimOptional(input.Description),
		DescriptionEn: trimOptional(input.DescriptionEn),
		Icon:          trimOptional(input.Icon),
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		Items:         make([]Item, 0, len(input.Items)),
	}

	for i, item := range input.Items {
		itemName := strings.TrimSpace(item.Name)
		if itemName == "" {
			return nil, ErrItemNameRequired
		}
		tpl.Items = append(tpl.Items, Item{
			ID:         uuid.NewString(),
			TemplateID: tpl.ID,
			Name:       itemName,
			NameEn:     trimOptional(item.NameEn),
			Category:   trimOptional(item.Category),
			CategoryEn: trimOptional(item.CategoryEn),
			OrderIndex: i,
		})
	}

	return tpl, nil
}

func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].OrderIndex < items[j].OrderIndex
	})
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	return optionalString(*value)
}
