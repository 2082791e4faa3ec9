package checklists

import (
	"context"
	"errors"
	"time"

	checklistsdomain "packlist-go/internal/domain/checklists"
	templatesdomain "packlist-go/internal/domain/templates"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var checklistColumns = []string{"id", "template_id", "user_id", "name", "created_at", "updated_at", "completed_at"}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(checklistsdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListChecklists(ctx context.Context, query checklistsdomain.ListQuery) ([]checklistsdomain.Checklist, error) {
	sqlQuery, args, err := buildListQuery(query)
	if err != nil {
		return nil, err
	}

	var result []checklistsdomain.Checklist
	if err := r.db.WithContext(ctx).Raw(sqlQuery, args...).Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// buildListQuery keeps squirrel's '?' placeholders; gorm rebinds them for
// postgres.
func buildListQuery(query checklistsdomain.ListQuery) (string, []interface{}, error) {
	builder := sq.Select(checklistColumns...).
		From("checklists").
		Where(sq.Eq{"user_id": query.OwnerIDs}).
		OrderBy("created_at DESC", "id")

	if query.TemplateID != "" {
		if !isUUID(query.TemplateID) {
			return "", nil, checklistsdomain.ErrInvalidTemplateID
		}
		builder = builder.Where(sq.Eq{"template_id": query.TemplateID})
	}

	switch query.Status {
	case checklistsdomain.StatusActive:
		builder = builder.Where(sq.Eq{"completed_at": nil})
	case checklistsdomain.StatusCompleted:
		builder = builder.Where(sq.NotEq{"completed_at": nil})
	}

	return builder.ToSql()
}

func (r *PostgresRepository) GetChecklist(ctx context.Context, ownerIDs []string, checklistID string) (*checklistsdomain.Checklist, error) {
	if !isUUID(checklistID) {
		return nil, checklistsdomain.ErrChecklistNotFound
	}

	query := r.db.WithContext(ctx).Where("id = ?", checklistID)
	if ownerIDs != nil {
		query = query.Where("user_id IN ?", ownerIDs)
	}

	var checklist checklistsdomain.Checklist
	if err := query.First(&checklist).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checklistsdomain.ErrChecklistNotFound
		}
		return nil, err
	}
	return &checklist, nil
}

func (r *PostgresRepository) CreateChecklist(ctx context.Context, checklist *checklistsdomain.Checklist) error {
	return r.db.WithContext(ctx).Create(checklist).Error
}

func (r *PostgresRepository) DeleteChecklist(ctx context.Context, checklistID string) error {
	result := r.db.WithContext(ctx).Delete(&checklistsdomain.Checklist{}, "id = ?", checklistID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return checklistsdomain.ErrChecklistNotFound
	}
	return nil
}

func (r *PostgresRepository) SetCompletedAt(ctx context.Context, checklistID string, completedAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&checklistsdomain.Checklist{}).
		Where("id = ?", checklistID).
		Updates(map[string]interface{}{
			"completed_at": completedAt,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *PostgresRepository) ListTemplateItems(ctx context.Context, templateIDs []string) ([]templatesdomain.Item, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}

	var items []templatesdomain.Item
	if err := r.db.WithContext(ctx).
		Where("template_id IN ?", templateIDs).
		Order("order_index asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListTemplateSummaries(ctx context.Context, templateIDs []string) ([]checklistsdomain.TemplateSummary, error) {
	if len(templateIDs) == 0 {
		return nil, nil
	}

	var result []checklistsdomain.TemplateSummary
	if err := r.db.WithContext(ctx).
		Model(&templatesdomain.Template{}).
		Select("id, name, name_en, icon").
		Where("id IN ?", templateIDs).
		Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListOwners(ctx context.Context, userIDs []string) ([]checklistsdomain.Owner, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var result []checklistsdomain.Owner
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("id, name").
		Where("id IN ?", userIDs).
		Scan(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetTemplateItem(ctx context.Context, templateID, itemID string) (*templatesdomain.Item, error) {
	if !isUUID(itemID) {
		return nil, checklistsdomain.ErrItemNotFound
	}

	var item templatesdomain.Item
	err := r.db.WithContext(ctx).
		Where("id = ? AND template_id = ?", itemID, templateID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checklistsdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) ListStates(ctx context.Context, checklistIDs []string) ([]checklistsdomain.ItemState, error) {
	if len(checklistIDs) == 0 {
		return nil, nil
	}

	var states []checklistsdomain.ItemState
	if err := r.db.WithContext(ctx).
		Where("checklist_id IN ?", checklistIDs).
		Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}

func (r *PostgresRepository) GetState(ctx context.Context, checklistID, itemID string) (*checklistsdomain.ItemState, error) {
	if !isUUID(itemID) {
		return nil, nil
	}

	var state checklistsdomain.ItemState
	err := r.db.WithContext(ctx).
		Where("checklist_id = ? AND item_id = ?", checklistID, itemID).
		Take(&state).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

func (r *PostgresRepository) UpsertState(ctx context.Context, state *checklistsdomain.ItemState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "checklist_id"}, {Name: "item_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"checked", "checked_at", "deleted"}),
		}).
		Create(state).Error
}

func (r *PostgresRepository) ListCustomItems(ctx context.Context, checklistIDs []string) ([]checklistsdomain.CustomItem, error) {
	if len(checklistIDs) == 0 {
		return nil, nil
	}

	var items []checklistsdomain.CustomItem
	if err := r.db.WithContext(ctx).
		Where("checklist_id IN ?", checklistIDs).
		Order("order_index asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) GetCustomItem(ctx context.Context, checklistID, itemID string) (*checklistsdomain.CustomItem, error) {
	if !isUUID(itemID) {
		return nil, checklistsdomain.ErrItemNotFound
	}

	var item checklistsdomain.CustomItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND checklist_id = ?", itemID, checklistID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, checklistsdomain.ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *PostgresRepository) CreateCustomItem(ctx context.Context, item *checklistsdomain.CustomItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *PostgresRepository) UpdateCustomItem(ctx context.Context, item *checklistsdomain.CustomItem) error {
	return r.db.WithContext(ctx).
		Model(item).
		Select("checked", "checked_at").
		Updates(item).Error
}

func (r *PostgresRepository) DeleteCustomItem(ctx context.Context, checklistID, itemID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND checklist_id = ?", itemID, checklistID).
		Delete(&checklistsdomain.CustomItem{}).Error
}

func (r *PostgresRepository) MaxCustomOrder(ctx context.Context, checklistID string) (int, error) {
	var maxOrder int
	if err := r.db.WithContext(ctx).
		Model(&checklistsdomain.CustomItem{}).
		Select("COALESCE(MAX(order_index), -1)").
		Where("checklist_id = ?", checklistID).
		Scan(&maxOrder).Error; err != nil {
		return 0, err
	}
	return maxOrder, nil
}

func isUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
