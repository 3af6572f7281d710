package repository

import (
	"context"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionRepository handles permission matrix data access operations
type PermissionRepository struct {
	db *gorm.DB
}

// NewPermissionRepository creates a new permission repository instance
func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// ListByGroup returns a group's permission rows ordered for display
func (r *PermissionRepository) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Permission, error) {
	var permissions []domain.Permission
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&permissions).Error
	return permissions, err
}

// CountByGroup counts a group's permission rows
func (r *PermissionRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Permission{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	return count, err
}

// CreateBatch inserts a set of permission rows in one transaction
func (r *PermissionRepository) CreateBatch(ctx context.Context, permissions []domain.Permission) error {
	if len(permissions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range permissions {
			if err := tx.Create(&permissions[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a permission row by its ID
func (r *PermissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Permission, error) {
	var permission domain.Permission
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&permission).Error
	if err != nil {
		return nil, err
	}
	return &permission, nil
}

// UpdateGrants applies several grant tuples atomically. A tuple referencing a
// missing row fails the whole batch.
func (r *PermissionRepository) UpdateGrants(ctx context.Context, updates []domain.PermissionGrantUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, u := range updates {
			result := tx.Model(&domain.Permission{}).
				Where("id = ?", u.ID).
				Updates(map[string]interface{}{
					"can_view":   u.CanView,
					"can_add":    u.CanAdd,
					"can_edit":   u.CanEdit,
					"can_delete": u.CanDelete,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
