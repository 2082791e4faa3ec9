package checklists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"packlist-go/internal/domain/templates"

	"github.com/google/uuid"
)

const defaultNameDateLayout = "2006-01-02"

// ScopeResolver returns the user ids whose checklists a caller may access.
type ScopeResolver interface {
	ScopeUserIDs(ctx context.Context, userID string) ([]string, error)
}

// TemplateFinder returns a template only when it is visible to userID.
type TemplateFinder interface {
	GetTemplate(ctx context.Context, userID, templateID string) (*templates.Template, error)
}

type Service struct {
	repo      Repository
	scope     ScopeResolver
	templates TemplateFinder
	now       func() time.Time
}

func NewService(repo Repository, scope ScopeResolver, finder TemplateFinder) *Service {
	return &Service{
		repo:      repo,
		scope:     scope,
		templates: finder,
		now:       time.Now,
	}
}

func (s *Service) ListChecklists(ctx context.Context, userID string, filter ListFilter) ([]ChecklistSummary, error) {
	ownerIDs, err := s.scope.ScopeUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	checklists, err := s.repo.ListChecklists(ctx, ListQuery{OwnerIDs: ownerIDs, ListFilter: filter})
	if err != nil {
		return nil, err
	}
	if len(checklists) == 0 {
		return []ChecklistSummary{}, nil
	}

	details, err := s.render(ctx, s.repo, checklists)
	if err != nil {
		return nil, err
	}

	result := make([]ChecklistSummary, 0, len(details))
	for _, detail := range details {
		result = append(result, detail.ChecklistSummary)
	}
	return result, nil
}

func (s *Service) GetChecklist(ctx context.Context, userID, checklistID string) (*ChecklistDetail, error) {
	checklist, err := s.scopedChecklist(ctx, s.repo, userID, checklistID)
	if err != nil {
		return nil, err
	}

	details, err := s.render(ctx, s.repo, []Checklist{*checklist})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Service) CreateChecklist(ctx context.Context, input CreateChecklistInput) (*ChecklistDetail, error) {
	templateID := strings.TrimSpace(input.TemplateID)
	if templateID == "" {
		return nil, ErrTemplateIDRequired
	}

	tpl, err := s.templates.GetTemplate(ctx, input.UserID, templateID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	name := ""
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	if name == "" {
		name = fmt.Sprintf("%s - %s", tpl.Name, now.Format(defaultNameDateLayout))
	}

	checklist := Checklist{
		ID:         uuid.NewString(),
		TemplateID: tpl.ID,
		UserID:     input.UserID,
		Name:       name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateChecklist(ctx, &checklist); err != nil {
		return nil, err
	}

	details, err := s.render(ctx, s.repo, []Checklist{checklist})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *Service) DeleteChecklist(ctx context.Context, userID, checklistID string) error {
	checklist, err := s.scopedChecklist(ctx, s.repo, userID, checklistID)
	if err != nil {
		return err
	}
	return s.repo.DeleteChecklist(ctx, checklist.ID)
}

// ToggleItem sets the checked flag of a custom or template item. Custom ids
// are looked up first.
func (s *Service) ToggleItem(ctx context.Context, userID, checklistID, itemID string, checked bool) (*Item, error) {
	var result Item
	err := s.mutate(ctx, userID, checklistID, func(tx Repository, checklist *Checklist) error {
		now := s.now().UTC()

		custom, err := tx.GetCustomItem(ctx, checklist.ID, itemID)
		if err != nil && !errors.Is(err, ErrItemNotFound) {
			return err
		}
		if custom != nil {
			custom.CheckedAt = nextCheckedAt(custom.Checked, custom.CheckedAt, checked, now)
			custom.Checked = checked
			if err := tx.UpdateCustomItem(ctx, custom); err != nil {
				return err
			}
			result = customItemView(*custom)
			return nil
		}

		tplItem, err := tx.GetTemplateItem(ctx, checklist.TemplateID, itemID)
		if err != nil {
			return err
		}
		state, err := tx.GetState(ctx, checklist.ID, itemID)
		if err != nil {
			return err
		}
		if state == nil {
			state = &ItemState{ChecklistID: checklist.ID, ItemID: itemID}
		}
		if state.Deleted {
			return ErrItemNotFound
		}

		state.CheckedAt = nextCheckedAt(state.Checked, state.CheckedAt, checked, now)
		state.Checked = checked
		if err := tx.UpsertState(ctx, state); err != nil {
			return err
		}
		result = templateItemView(*tplItem, *state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *Service) AddItem(ctx context.Context, userID, checklistID string, input AddItemInput) (*Item, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrItemNameRequired
	}

	var result Item
	err := s.mutate(ctx, userID, checklistID, func(tx Repository, checklist *Checklist) error {
		maxOrder, err := tx.MaxCustomOrder(ctx, checklist.ID)
		if err != nil {
			return err
		}

		item := CustomItem{
			ID:          uuid.NewString(),
			ChecklistID: checklist.ID,
			Name:        name,
			NameEn:      trimOptional(input.NameEn),
			Category:    trimOptional(input.Category),
			CategoryEn:  trimOptional(input.CategoryEn),
			OrderIndex:  maxOrder + 1,
			CreatedAt:   s.now().UTC(),
		}
		if item.Category == nil && item.CategoryEn == nil {
			category, categoryEn := CustomCategory, CustomCategoryEn
			item.Category, item.CategoryEn = &category, &categoryEn
		}

		if err := tx.CreateCustomItem(ctx, &item); err != nil {
			return err
		}
		result = customItemView(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteItem hard-deletes a custom item or hides a template item from this
// checklist only.
func (s *Service) DeleteItem(ctx context.Context, userID, checklistID, itemID string) error {
	return s.mutate(ctx, userID, checklistID, func(tx Repository, checklist *Checklist) error {
		custom, err := tx.GetCustomItem(ctx, checklist.ID, itemID)
		if err != nil && !errors.Is(err, ErrItemNotFound) {
			return err
		}
		if custom != nil {
			return tx.DeleteCustomItem(ctx, checklist.ID, custom.ID)
		}

		if _, err := tx.GetTemplateItem(ctx, checklist.TemplateID, itemID); err != nil {
			return err
		}
		state, err := tx.GetState(ctx, checklist.ID, itemID)
		if err != nil {
			return err
		}
		if state == nil {
			state = &ItemState{ChecklistID: checklist.ID, ItemID: itemID}
		}
		state.Deleted = true
		return tx.UpsertState(ctx, state)
	})
}

// RecomputeCompletion stamps completedAt when every effective item is
// checked and clears it otherwise. An existing stamp is kept while the
// checklist stays complete.
func (s *Service) RecomputeCompletion(ctx context.Context, checklistID string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		checklist, err := tx.GetChecklist(ctx, nil, checklistID)
		if err != nil {
			return err
		}
		return s.recompute(ctx, tx, checklist)
	})
}

func (s *Service) recompute(ctx context.Context, repo Repository, checklist *Checklist) error {
	items, err := s.effectiveItems(ctx, repo, checklist)
	if err != nil {
		return err
	}

	complete := ComputeProgress(items).Complete()
	if complete == (checklist.CompletedAt != nil) {
		return nil
	}

	var completedAt *time.Time
	if complete {
		now := s.now().UTC()
		completedAt = &now
	}
	if err := repo.SetCompletedAt(ctx, checklist.ID, completedAt); err != nil {
		return err
	}
	checklist.CompletedAt = completedAt
	return nil
}

func (s *Service) mutate(ctx context.Context, userID, checklistID string, fn func(tx Repository, checklist *Checklist) error) error {
	ownerIDs, err := s.scope.ScopeUserIDs(ctx, userID)
	if err != nil {
		return err
	}

	return s.repo.Transaction(ctx, func(tx Repository) error {
		checklist, err := tx.GetChecklist(ctx, ownerIDs, checklistID)
		if err != nil {
			return err
		}
		if err := fn(tx, checklist); err != nil {
			return err
		}
		return s.recompute(ctx, tx, checklist)
	})
}

func (s *Service) scopedChecklist(ctx context.Context, repo Repository, userID, checklistID string) (*Checklist, error) {
	ownerIDs, err := s.scope.ScopeUserIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return repo.GetChecklist(ctx, ownerIDs, checklistID)
}

func (s *Service) effectiveItems(ctx context.Context, repo Repository, checklist *Checklist) ([]Item, error) {
	tplItems, err := repo.ListTemplateItems(ctx, []string{checklist.TemplateID})
	if err != nil {
		return nil, err
	}
	states, err := repo.ListStates(ctx, []string{checklist.ID})
	if err != nil {
		return nil, err
	}
	customItems, err := repo.ListCustomItems(ctx, []string{checklist.ID})
	if err != nil {
		return nil, err
	}
	return MergeItems(tplItems, states, customItems), nil
}

// render loads everything needed to present checklists in a fixed number of
// queries regardless of how many checklists are passed.
func (s *Service) render(ctx context.Context, repo Repository, checklists []Checklist) ([]ChecklistDetail, error) {
	checklistIDs := make([]string, 0, len(checklists))
	templateIDs := make([]string, 0, len(checklists))
	ownerIDs := make([]string, 0, len(checklists))
	for _, checklist := range checklists {
		checklistIDs = append(checklistIDs, checklist.ID)
		templateIDs = appendUnique(templateIDs, checklist.TemplateID)
		ownerIDs = appendUnique(ownerIDs, checklist.UserID)
	}

	tplItems, err := repo.ListTemplateItems(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	summaries, err := repo.ListTemplateSummaries(ctx, templateIDs)
	if err != nil {
		return nil, err
	}
	owners, err := repo.ListOwners(ctx, ownerIDs)
	if err != nil {
		return nil, err
	}
	states, err := repo.ListStates(ctx, checklistIDs)
	if err != nil {
		return nil, err
	}
	customItems, err := repo.ListCustomItems(ctx, checklistIDs)
	if err != nil {
		return nil, err
	}

	itemsByTemplate := make(map[string][]templates.Item)
	for _, item := range tplItems {
		itemsByTemplate[item.TemplateID] = append(itemsByTemplate[item.TemplateID], item)
	}
	summaryByID := make(map[string]TemplateSummary, len(summaries))
	for _, summary := range summaries {
		summaryByID[summary.ID] = summary
	}
	ownerByID := make(map[string]Owner, len(owners))
	for _, owner := range owners {
		ownerByID[owner.ID] = owner
	}
	statesByChecklist := make(map[string][]ItemState)
	for _, state := range states {
		statesByChecklist[state.ChecklistID] = append(statesByChecklist[state.ChecklistID], state)
	}
	customByChecklist := make(map[string][]CustomItem)
	for _, item := range customItems {
		customByChecklist[item.ChecklistID] = append(customByChecklist[item.ChecklistID], item)
	}

	result := make([]ChecklistDetail, 0, len(checklists))
	for _, checklist := range checklists {
		items := MergeItems(
			itemsByTemplate[checklist.TemplateID],
			statesByChecklist[checklist.ID],
			customByChecklist[checklist.ID],
		)

		template, ok := summaryByID[checklist.TemplateID]
		if !ok {
			template = TemplateSummary{ID: checklist.TemplateID}
		}
		owner, ok := ownerByID[checklist.UserID]
		if !ok {
			owner = Owner{ID: checklist.UserID}
		}

		result = append(result, ChecklistDetail{
			ChecklistSummary: ChecklistSummary{
				Checklist: checklist,
				Template:  template,
				CreatedBy: owner,
				Progress:  ComputeProgress(items),
			},
			Items: items,
		})
	}

	return result, nil
}

// nextCheckedAt keeps the original timestamp while an item stays checked.
func nextCheckedAt(wasChecked bool, current *time.Time, checked bool, now time.Time) *time.Time {
	if !checked {
		return nil
	}
	if wasChecked && current != nil {
		return current
	}
	return &now
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
