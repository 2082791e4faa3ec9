package family

import (
	"context"
	"errors"
	"time"

	familydomain "packlist-go/internal/domain/family"
	"packlist-go/internal/repository/postgres"

	"gorm.io/gorm"
)

const usersTable = "users"

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(familydomain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetFamily(ctx context.Context, familyID string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("id = ?", familyID).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetFamilyByCode(ctx context.Context, code string) (*familydomain.Family, error) {
	var family familydomain.Family
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&family).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrFamilyCodeNotFound
		}
		return nil, err
	}
	return &family, nil
}

func (r *PostgresRepository) GetUserFamilyID(ctx context.Context, userID string) (*string, error) {
	type row struct {
		FamilyID *string `gorm:"column:family_id"`
	}

	var result row
	err := r.db.WithContext(ctx).
		Table(usersTable).
		Select("family_id").
		Where("id = ?", userID).
		Take(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, familydomain.ErrUserNotFound
		}
		return nil, err
	}
	return result.FamilyID, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, familyID string) ([]familydomain.Member, error) {
	var members []familydomain.Member
	if err := r.db.WithContext(ctx).
		Table(usersTable).
		Select("id, name, email").
		Where("family_id = ?", familyID).
		Order("created_at asc").
		Scan(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) ListMemberIDs(ctx context.Context, familyID string) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Table(usersTable).
		Where("family_id = ?", familyID).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresRepository) CreateFamily(ctx context.Context, family *familydomain.Family) error {
	err := r.db.WithContext(ctx).Create(family).Error
	if postgres.IsUniqueViolation(err) {
		return familydomain.ErrCodeGenerationFailed
	}
	return err
}

func (r *PostgresRepository) SetUserFamily(ctx context.Context, userID string, familyID *string) error {
	var value interface{} = gorm.Expr("NULL")
	if familyID != nil {
		value = *familyID
	}

	result := r.db.WithContext(ctx).
		Table(usersTable).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"family_id":  value,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return familydomain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) CountMembers(ctx context.Context, familyID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Table(usersTable).Where("family_id = ?", familyID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) DeleteFamily(ctx context.Context, familyID string) error {
	return r.db.WithContext(ctx).Delete(&familydomain.Family{}, "id = ?", familyID).Error
}

func (r *PostgresRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&familydomain.Family{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
