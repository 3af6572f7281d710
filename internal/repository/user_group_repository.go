package repository

import (
	"context"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserGroupRepository handles permission group data access operations
type UserGroupRepository struct {
	db *gorm.DB
}

// NewUserGroupRepository creates a new user group repository instance
func NewUserGroupRepository(db *gorm.DB) *UserGroupRepository {
	return &UserGroupRepository{db: db}
}

// Create inserts a group
func (r *UserGroupRepository) Create(ctx context.Context, group *domain.UserGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID retrieves a group by its ID
func (r *UserGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserGroup, error) {
	var group domain.UserGroup
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns every group ordered by code
func (r *UserGroupRepository) List(ctx context.Context) ([]domain.UserGroup, error) {
	var groups []domain.UserGroup
	err := r.db.WithContext(ctx).Order("code ASC").Find(&groups).Error
	return groups, err
}

// Update saves the full group row
func (r *UserGroupRepository) Update(ctx context.Context, group *domain.UserGroup) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes a group together with its permission matrix
func (r *UserGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&domain.Permission{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.UserGroup{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CodeExists reports whether a group code is already taken
func (r *UserGroupRepository) CodeExists(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.UserGroup{}).Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}
