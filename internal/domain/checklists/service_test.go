package checklists

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"packlist-go/internal/domain/templates"

	"github.com/google/go-cmp/cmp"
)

type fakeChecklistRepo struct {
	checklists    map[string]Checklist
	templates     map[string]TemplateSummary
	templateItems []templates.Item
	owners        map[string]Owner
	states        map[string]ItemState
	custom        map[string]CustomItem
	txCount       int
}

func newFakeChecklistRepo() *fakeChecklistRepo {
	return &fakeChecklistRepo{
		checklists: make(map[string]Checklist),
		templates:  make(map[string]TemplateSummary),
		owners:     make(map[string]Owner),
		states:     make(map[string]ItemState),
		custom:     make(map[string]CustomItem),
	}
}

func stateKey(checklistID, itemID string) string {
	return checklistID + "/" + itemID
}

func (r *fakeChecklistRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	r.txCount++
	return fn(r)
}

func (r *fakeChecklistRepo) ListChecklists(ctx context.Context, query ListQuery) ([]Checklist, error) {
	var result []Checklist
	for _, checklist := range r.checklists {
		if !containsString(query.OwnerIDs, checklist.UserID) {
			continue
		}
		if query.TemplateID != "" && checklist.TemplateID != query.TemplateID {
			continue
		}
		if query.Status == StatusCompleted && checklist.CompletedAt == nil {
			continue
		}
		if query.Status == StatusActive && checklist.CompletedAt != nil {
			continue
		}
		result = append(result, checklist)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *fakeChecklistRepo) GetChecklist(ctx context.Context, ownerIDs []string, checklistID string) (*Checklist, error) {
	checklist, ok := r.checklists[checklistID]
	if !ok {
		return nil, ErrChecklistNotFound
	}
	if ownerIDs != nil && !containsString(ownerIDs, checklist.UserID) {
		return nil, ErrChecklistNotFound
	}
	return &checklist, nil
}

func (r *fakeChecklistRepo) CreateChecklist(ctx context.Context, checklist *Checklist) error {
	r.checklists[checklist.ID] = *checklist
	return nil
}

func (r *fakeChecklistRepo) DeleteChecklist(ctx context.Context, checklistID string) error {
	delete(r.checklists, checklistID)
	for key, state := range r.states {
		if state.ChecklistID == checklistID {
			delete(r.states, key)
		}
	}
	for id, item := range r.custom {
		if item.ChecklistID == checklistID {
			delete(r.custom, id)
		}
	}
	return nil
}

func (r *fakeChecklistRepo) SetCompletedAt(ctx context.Context, checklistID string, completedAt *time.Time) error {
	checklist := r.checklists[checklistID]
	checklist.CompletedAt = completedAt
	r.checklists[checklistID] = checklist
	return nil
}

func (r *fakeChecklistRepo) ListTemplateItems(ctx context.Context, templateIDs []string) ([]templates.Item, error) {
	var result []templates.Item
	for _, item := range r.templateItems {
		if containsString(templateIDs, item.TemplateID) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeChecklistRepo) ListTemplateSummaries(ctx context.Context, templateIDs []string) ([]TemplateSummary, error) {
	var result []TemplateSummary
	for _, id := range templateIDs {
		if summary, ok := r.templates[id]; ok {
			result = append(result, summary)
		}
	}
	return result, nil
}

func (r *fakeChecklistRepo) ListOwners(ctx context.Context, userIDs []string) ([]Owner, error) {
	var result []Owner
	for _, id := range userIDs {
		if owner, ok := r.owners[id]; ok {
			result = append(result, owner)
		}
	}
	return result, nil
}

func (r *fakeChecklistRepo) GetTemplateItem(ctx context.Context, templateID, itemID string) (*templates.Item, error) {
	for _, item := range r.templateItems {
		if item.TemplateID == templateID && item.ID == itemID {
			copied := item
			return &copied, nil
		}
	}
	return nil, ErrItemNotFound
}

func (r *fakeChecklistRepo) ListStates(ctx context.Context, checklistIDs []string) ([]ItemState, error) {
	var result []ItemState
	for _, state := range r.states {
		if containsString(checklistIDs, state.ChecklistID) {
			result = append(result, state)
		}
	}
	return result, nil
}

func (r *fakeChecklistRepo) GetState(ctx context.Context, checklistID, itemID string) (*ItemState, error) {
	state, ok := r.states[stateKey(checklistID, itemID)]
	if !ok {
		return nil, nil
	}
	return &state, nil
}

func (r *fakeChecklistRepo) UpsertState(ctx context.Context, state *ItemState) error {
	r.states[stateKey(state.ChecklistID, state.ItemID)] = *state
	return nil
}

func (r *fakeChecklistRepo) ListCustomItems(ctx context.Context, checklistIDs []string) ([]CustomItem, error) {
	var result []CustomItem
	for _, item := range r.custom {
		if containsString(checklistIDs, item.ChecklistID) {
			result = append(result, item)
		}
	}
	return result, nil
}

func (r *fakeChecklistRepo) GetCustomItem(ctx context.Context, checklistID, itemID string) (*CustomItem, error) {
	item, ok := r.custom[itemID]
	if !ok || item.ChecklistID != checklistID {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

func (r *fakeChecklistRepo) CreateCustomItem(ctx context.Context, item *CustomItem) error {
	r.custom[item.ID] = *item
	return nil
}

func (r *fakeChecklistRepo) UpdateCustomItem(ctx context.Context, item *CustomItem) error {
	r.custom[item.ID] = *item
	return nil
}

func (r *fakeChecklistRepo) DeleteCustomItem(ctx context.Context, checklistID, itemID string) error {
	delete(r.custom, itemID)
	return nil
}

func (r *fakeChecklistRepo) MaxCustomOrder(ctx context.Context, checklistID string) (int, error) {
	maxOrder := -1
	for _, item := range r.custom {
		if item.ChecklistID == checklistID && item.OrderIndex > maxOrder {
			maxOrder = item.OrderIndex
		}
	}
	return maxOrder, nil
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

type fakeScope map[string][]string

func (f fakeScope) ScopeUserIDs(ctx context.Context, userID string) ([]string, error) {
	if ids, ok := f[userID]; ok {
		return ids, nil
	}
	return []string{userID}, nil
}

type fakeTemplates map[string]templates.Template

func (f fakeTemplates) GetTemplate(ctx context.Context, userID, templateID string) (*templates.Template, error) {
	tpl, ok := f[templateID]
	if !ok || !tpl.VisibleTo(userID) {
		return nil, templates.ErrTemplateNotFound
	}
	return &tpl, nil
}

type fixture struct {
	repo  *fakeChecklistRepo
	svc   *Service
	clock time.Time
}

// newFixture seeds a default five-item template "tpl" and a custom template
// "bob-tpl" owned by bob. Alice and carol share a family.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeChecklistRepo()
	repo.owners["alice"] = Owner{ID: "alice", Name: "Alice"}
	repo.owners["bob"] = Owner{ID: "bob", Name: "Bob"}
	repo.owners["carol"] = Owner{ID: "carol", Name: "Carol"}
	repo.templates["tpl"] = TemplateSummary{ID: "tpl", Name: "出门", NameEn: strPtr("Going Out")}
	repo.templates["bob-tpl"] = TemplateSummary{ID: "bob-tpl", Name: "Bob's"}

	tpls := fakeTemplates{
		"tpl":     {ID: "tpl", Name: "出门", IsDefault: true},
		"bob-tpl": {ID: "bob-tpl", Name: "Bob's", UserID: strPtr("bob")},
	}
	for i, id := range []string{"i0", "i1", "i2", "i3", "i4"} {
		repo.templateItems = append(repo.templateItems, templates.Item{ID: id, TemplateID: "tpl", Name: id, OrderIndex: i})
	}

	scope := fakeScope{
		"alice": {"alice", "carol"},
		"carol": {"alice", "carol"},
	}

	f := &fixture{repo: repo, clock: time.Date(2024, 7, 15, 9, 30, 0, 0, time.UTC)}
	f.svc = NewService(repo, scope, tpls)
	f.svc.now = func() time.Time {
		f.clock = f.clock.Add(time.Second)
		return f.clock
	}
	return f
}

func (f *fixture) create(t *testing.T, userID string) *ChecklistDetail {
	t.Helper()
	detail, err := f.svc.CreateChecklist(context.Background(), CreateChecklistInput{UserID: userID, TemplateID: "tpl"})
	if err != nil {
		t.Fatalf("create checklist: %v", err)
	}
	return detail
}

func TestCreateChecklistDefaults(t *testing.T) {
	f := newFixture(t)

	detail := f.create(t, "alice")
	if detail.Name != "出门 - 2024-07-15" {
		t.Fatalf("unexpected default name %q", detail.Name)
	}
	if detail.CreatedBy.Name != "Alice" || detail.Template.NameEn == nil || *detail.Template.NameEn != "Going Out" {
		t.Fatalf("unexpected owner/template %+v %+v", detail.CreatedBy, detail.Template)
	}
	if diff := cmp.Diff(Progress{Total: 5}, detail.Progress); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	if len(f.repo.states) != 0 {
		t.Fatalf("expected no state rows on creation, got %d", len(f.repo.states))
	}

	named, err := f.svc.CreateChecklist(context.Background(), CreateChecklistInput{UserID: "alice", TemplateID: "tpl", Name: strPtr(" Weekend ")})
	if err != nil {
		t.Fatalf("create checklist: %v", err)
	}
	if named.Name != "Weekend" {
		t.Fatalf("expected explicit name, got %q", named.Name)
	}
}

func TestCreateChecklistErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateChecklist(ctx, CreateChecklistInput{UserID: "alice", TemplateID: " "})
	if !errors.Is(err, ErrTemplateIDRequired) {
		t.Fatalf("expected ErrTemplateIDRequired, got %v", err)
	}

	_, err = f.svc.CreateChecklist(ctx, CreateChecklistInput{UserID: "alice", TemplateID: "bob-tpl"})
	if !errors.Is(err, templates.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound for another user's template, got %v", err)
	}
}

func TestChecklistScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	aliceList := f.create(t, "alice")
	bobList := f.create(t, "bob")

	carolView, err := f.svc.ListChecklists(ctx, "carol", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(carolView) != 1 || carolView[0].ID != aliceList.ID {
		t.Fatalf("expected carol to see alice's checklist only, got %+v", carolView)
	}

	if _, err := f.svc.GetChecklist(ctx, "carol", aliceList.ID); err != nil {
		t.Fatalf("expected family member access, got %v", err)
	}
	if _, err := f.svc.GetChecklist(ctx, "alice", bobList.ID); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound, got %v", err)
	}
	if _, err := f.svc.ToggleItem(ctx, "alice", bobList.ID, "i0", true); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound on toggle, got %v", err)
	}
	if err := f.svc.DeleteChecklist(ctx, "alice", bobList.ID); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound on delete, got %v", err)
	}
	if err := f.svc.DeleteItem(ctx, "alice", bobList.ID, "i0"); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound on item delete, got %v", err)
	}
	if _, err := f.svc.AddItem(ctx, "alice", bobList.ID, AddItemInput{Name: "x"}); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound on add, got %v", err)
	}
}

func TestListChecklistsOrderAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.create(t, "alice")
	second := f.create(t, "carol")
	for _, id := range []string{"i0", "i1", "i2", "i3", "i4"} {
		if _, err := f.svc.ToggleItem(ctx, "alice", first.ID, id, true); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}

	all, err := f.svc.ListChecklists(ctx, "alice", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest first, got %+v", all)
	}
	if all[1].Progress.Percentage != 100 || all[1].CreatedBy.Name != "Alice" {
		t.Fatalf("unexpected summary %+v", all[1])
	}

	completed, err := f.svc.ListChecklists(ctx, "alice", ListFilter{Status: StatusCompleted})
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != first.ID {
		t.Fatalf("expected only the completed checklist, got %+v", completed)
	}

	none, err := f.svc.ListChecklists(ctx, "bob", ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", none)
	}
}

func TestToggleRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	item, err := f.svc.ToggleItem(ctx, "carol", list.ID, "i1", true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.Checked || item.CheckedAt == nil {
		t.Fatalf("expected checked item with timestamp, got %+v", item)
	}
	firstCheckedAt := *item.CheckedAt

	item, err = f.svc.ToggleItem(ctx, "alice", list.ID, "i1", true)
	if err != nil {
		t.Fatalf("toggle again: %v", err)
	}
	if !item.CheckedAt.Equal(firstCheckedAt) {
		t.Fatalf("expected checkedAt preserved while checked")
	}

	item, err = f.svc.ToggleItem(ctx, "alice", list.ID, "i1", false)
	if err != nil {
		t.Fatalf("untoggle: %v", err)
	}
	if item.Checked || item.CheckedAt != nil {
		t.Fatalf("expected unchecked item without timestamp, got %+v", item)
	}

	state := f.repo.states[stateKey(list.ID, "i1")]
	if state.Checked || state.CheckedAt != nil || state.Deleted {
		t.Fatalf("unexpected persisted state %+v", state)
	}
}

func TestToggleUnknownItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	if _, err := f.svc.ToggleItem(ctx, "alice", list.ID, "nope", true); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound, got %v", err)
	}
	if err := f.svc.DeleteItem(ctx, "alice", list.ID, "i2"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.ToggleItem(ctx, "alice", list.ID, "i2", true); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound for deleted item, got %v", err)
	}
	if err := f.svc.DeleteItem(ctx, "alice", list.ID, "nope"); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("expected ErrItemNotFound on delete, got %v", err)
	}
}

func TestCustomItemWinsOnIDCollision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	f.repo.custom["i0"] = CustomItem{ID: "i0", ChecklistID: list.ID, Name: "Shadow", OrderIndex: 0}

	item, err := f.svc.ToggleItem(ctx, "alice", list.ID, "i0", true)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !item.IsCustom || item.Name != "Shadow" {
		t.Fatalf("expected custom item toggled, got %+v", item)
	}
	if !f.repo.custom["i0"].Checked {
		t.Fatalf("expected custom item persisted as checked")
	}
	if _, ok := f.repo.states[stateKey(list.ID, "i0")]; ok {
		t.Fatalf("template item state must stay untouched")
	}

	if err := f.svc.DeleteItem(ctx, "alice", list.ID, "i0"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := f.repo.custom["i0"]; ok {
		t.Fatalf("expected custom item hard-deleted")
	}
	if _, ok := f.repo.states[stateKey(list.ID, "i0")]; ok {
		t.Fatalf("template item must not be soft-deleted")
	}

	detail, err := f.svc.GetChecklist(ctx, "alice", list.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Progress.Total != 5 || detail.Items[0].ID != "i0" || detail.Items[0].IsCustom || detail.Items[0].Checked {
		t.Fatalf("expected template item i0 visible and unchecked, got %+v", detail.Items[0])
	}
}

func TestCustomItemProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	for _, id := range []string{"i0", "i1", "i2"} {
		if _, err := f.svc.ToggleItem(ctx, "alice", list.ID, id, true); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}

	added, err := f.svc.AddItem(ctx, "alice", list.ID, AddItemInput{Name: " Passport "})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !added.IsCustom || added.Name != "Passport" || added.OrderIndex != CustomOrderOffset {
		t.Fatalf("unexpected custom item %+v", added)
	}
	if *added.Category != CustomCategory || *added.CategoryEn != CustomCategoryEn {
		t.Fatalf("expected fallback category, got %v/%v", *added.Category, *added.CategoryEn)
	}

	second, err := f.svc.AddItem(ctx, "alice", list.ID, AddItemInput{Name: "Adapter", Category: strPtr("电子产品"), CategoryEn: strPtr("Electronics")})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if second.OrderIndex != CustomOrderOffset+1 || *second.CategoryEn != "Electronics" {
		t.Fatalf("unexpected second custom item %+v", second)
	}
	if err := f.svc.DeleteItem(ctx, "alice", list.ID, second.ID); err != nil {
		t.Fatalf("delete custom: %v", err)
	}

	detail, err := f.svc.GetChecklist(ctx, "alice", list.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if diff := cmp.Diff(Progress{Total: 6, Checked: 3, Percentage: 50}, detail.Progress); diff != "" {
		t.Fatalf("progress mismatch (-want +got):\n%s", diff)
	}
	last := detail.Items[len(detail.Items)-1]
	if last.ID != added.ID || !last.IsCustom {
		t.Fatalf("expected custom item last, got %+v", last)
	}
	if _, ok := f.repo.custom[second.ID]; ok {
		t.Fatalf("expected custom item hard-deleted")
	}

	if _, err := f.svc.AddItem(ctx, "alice", list.ID, AddItemInput{Name: "  "}); !errors.Is(err, ErrItemNameRequired) {
		t.Fatalf("expected ErrItemNameRequired, got %v", err)
	}
}

func TestCompletionTracksEffectiveItems(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	for _, id := range []string{"i0", "i1", "i2", "i3"} {
		if _, err := f.svc.ToggleItem(ctx, "alice", list.ID, id, true); err != nil {
			t.Fatalf("toggle %s: %v", id, err)
		}
	}
	if f.repo.checklists[list.ID].CompletedAt != nil {
		t.Fatalf("expected incomplete checklist")
	}

	// Hiding the only unchecked template item completes the list.
	if err := f.svc.DeleteItem(ctx, "alice", list.ID, "i4"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if f.repo.checklists[list.ID].CompletedAt == nil {
		t.Fatalf("expected completedAt after hiding last unchecked item")
	}

	added, err := f.svc.AddItem(ctx, "alice", list.ID, AddItemInput{Name: "Umbrella"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if f.repo.checklists[list.ID].CompletedAt != nil {
		t.Fatalf("expected new custom item to reopen checklist")
	}

	if _, err := f.svc.ToggleItem(ctx, "carol", list.ID, added.ID, true); err != nil {
		t.Fatalf("toggle custom: %v", err)
	}
	detail, err := f.svc.GetChecklist(ctx, "alice", list.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.CompletedAt == nil || detail.Progress.Percentage != 100 {
		t.Fatalf("expected completed checklist, got %+v", detail.Progress)
	}
	for _, item := range detail.Items {
		if item.ID == "i4" {
			t.Fatalf("soft-deleted item still rendered")
		}
	}

	stamped := *detail.CompletedAt
	if err := f.svc.DeleteItem(ctx, "alice", list.ID, "i0"); err != nil {
		t.Fatalf("delete checked item: %v", err)
	}
	if got := f.repo.checklists[list.ID].CompletedAt; got == nil || !got.Equal(stamped) {
		t.Fatalf("expected completedAt kept at %v, got %v", stamped, got)
	}
}

func TestDeleteItemPreservesCheckedFlag(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	if _, err := f.svc.ToggleItem(ctx, "alice", list.ID, "i0", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := f.svc.DeleteItem(ctx, "alice", list.ID, "i0"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	state := f.repo.states[stateKey(list.ID, "i0")]
	if !state.Deleted || !state.Checked {
		t.Fatalf("expected deleted state to keep checked flag, got %+v", state)
	}
}

func TestDeleteChecklistCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	if _, err := f.svc.AddItem(ctx, "alice", list.ID, AddItemInput{Name: "x"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := f.svc.DeleteChecklist(ctx, "carol", list.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.GetChecklist(ctx, "alice", list.ID); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound after delete, got %v", err)
	}
	if len(f.repo.custom) != 0 {
		t.Fatalf("expected custom items removed")
	}
}

func TestRecomputeCompletionIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	list := f.create(t, "alice")

	now := time.Now()
	f.repo.checklists[list.ID] = func() Checklist {
		c := f.repo.checklists[list.ID]
		c.CompletedAt = &now
		return c
	}()

	for i := 0; i < 2; i++ {
		if err := f.svc.RecomputeCompletion(ctx, list.ID); err != nil {
			t.Fatalf("recompute: %v", err)
		}
		if f.repo.checklists[list.ID].CompletedAt != nil {
			t.Fatalf("expected stale completedAt cleared")
		}
	}

	if err := f.svc.RecomputeCompletion(ctx, "missing"); !errors.Is(err, ErrChecklistNotFound) {
		t.Fatalf("expected ErrChecklistNotFound, got %v", err)
	}
}
