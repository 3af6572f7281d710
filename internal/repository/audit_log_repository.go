package repository

import (
	"context"

	"github.com/ceh-soft/contract-api/internal/domain"
	"gorm.io/gorm"
)

// AuditLogRepository handles append-only audit log access
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository instance
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Create appends an audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List returns audit entries matching the filters, newest first
func (r *AuditLogRepository) List(ctx context.Context, filters *domain.AuditLogFilters) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog

	query := r.db.WithContext(ctx).Model(&domain.AuditLog{}).Preload("User")
	limit := 100
	if filters != nil {
		if filters.Screen != "" {
			query = query.Where("screen = ?", filters.Screen)
		}
		if filters.Action != "" {
			query = query.Where("action = ?", filters.Action)
		}
		if filters.StartDate != nil {
			query = query.Where("created_at >= ?", *filters.StartDate)
		}
		if filters.EndDate != nil {
			query = query.Where("created_at <= ?", *filters.EndDate)
		}
		if filters.Limit > 0 {
			limit = filters.Limit
		}
	}

	err := query.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
