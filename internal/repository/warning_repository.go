package repository

import (
	"context"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WarningRepository handles warning data access operations
type WarningRepository struct {
	db *gorm.DB
}

// NewWarningRepository creates a new warning repository instance
func NewWarningRepository(db *gorm.DB) *WarningRepository {
	return &WarningRepository{db: db}
}

// Create inserts a warning
func (r *WarningRepository) Create(ctx context.Context, warning *domain.Warning) error {
	return r.db.WithContext(ctx).Create(warning).Error
}

// GetByID retrieves a warning by its ID
func (r *WarningRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Warning, error) {
	var warning domain.Warning
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&warning).Error
	if err != nil {
		return nil, err
	}
	return &warning, nil
}

// List returns warnings matching the filters, most urgent first
func (r *WarningRepository) List(ctx context.Context, filters *domain.WarningFilters) ([]domain.Warning, error) {
	var warnings []domain.Warning

	query := r.db.WithContext(ctx).Model(&domain.Warning{})
	if filters != nil {
		if filters.Kind != nil {
			query = query.Where("type = ?", *filters.Kind)
		}
		if filters.Status != nil {
			query = query.Where("status = ?", *filters.Status)
		}
		if filters.StartDate != nil {
			query = query.Where("due_date >= ?", *filters.StartDate)
		}
		if filters.EndDate != nil {
			query = query.Where("due_date <= ?", *filters.EndDate)
		}
	}

	err := query.Order("due_date ASC, created_at DESC").Find(&warnings).Error
	return warnings, err
}

// Update saves the full warning row
func (r *WarningRepository) Update(ctx context.Context, warning *domain.Warning) error {
	return r.db.WithContext(ctx).Save(warning).Error
}

// Delete removes a warning
func (r *WarningRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.Warning{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindGenerated looks up the warning the generator would produce for the
// given contract, kind and due date. Returns nil when no such row exists.
// Due dates are compared at day granularity.
func (r *WarningRepository) FindGenerated(ctx context.Context, contractID uuid.UUID, kind domain.WarningKind, dueDate time.Time) (*domain.Warning, error) {
	dayStart := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, dueDate.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var warning domain.Warning
	err := r.db.WithContext(ctx).
		Where("contract_id = ? AND type = ? AND due_date >= ? AND due_date < ?",
			contractID, kind, dayStart, dayEnd).
		First(&warning).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &warning, nil
}

// DeleteByContract removes every warning attached to a contract
func (r *WarningRepository) DeleteByContract(ctx context.Context, tx *gorm.DB, contractID uuid.UUID) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Delete(&domain.Warning{}, "contract_id = ?", contractID).Error
}

// Soonest returns the n unresolved warnings with the nearest due dates
func (r *WarningRepository) Soonest(ctx context.Context, n int) ([]domain.Warning, error) {
	var warnings []domain.Warning
	err := r.db.WithContext(ctx).
		Where("status != ?", domain.WarningStatusResolved).
		Order("due_date ASC").
		Limit(n).
		Find(&warnings).Error
	return warnings, err
}

// CountUnresolved counts warnings not yet resolved
func (r *WarningRepository) CountUnresolved(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Warning{}).
		Where("status != ?", domain.WarningStatusResolved).
		Count(&count).Error
	return count, err
}
