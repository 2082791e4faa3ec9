package templates

import (
	"context"
	"errors"

	templatesdomain "packlist-go/internal/domain/templates"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(templatesdomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) ListDefaults(ctx context.Context) ([]templatesdomain.Template, error) {
	var result []templatesdomain.Template
	if err := r.withItems(ctx).
		Where("is_default = ?", true).
		Order("created_at asc").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]templatesdomain.Template, error) {
	var result []templatesdomain.Template
	if err := r.withItems(ctx).
		Where("user_id = ? AND is_default = ?", userID, false).
		Order("created_at asc").
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetVisible(ctx context.Context, userID, templateID string) (*templatesdomain.Template, error) {
	if _, err := uuid.Parse(templateID); err != nil {
		return nil, templatesdomain.ErrTemplateNotFound
	}

	var tpl templatesdomain.Template
	err := r.withItems(ctx).
		Where("id = ?", templateID).
		Where("is_default = ? OR user_id = ?", true, userID).
		First(&tpl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, templatesdomain.ErrTemplateNotFound
		}
		return nil, err
	}
	return &tpl, nil
}

func (r *PostgresRepository) CreateTemplate(ctx context.Context, template *templatesdomain.Template) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(template).Error
}

func (r *PostgresRepository) CreateItems(ctx context.Context, items []templatesdomain.Item) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *PostgresRepository) CountDefaults(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&templatesdomain.Template{}).
		Where("is_default = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	})
}
