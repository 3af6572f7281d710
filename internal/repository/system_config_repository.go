package repository

import (
	"context"

	"github.com/ceh-soft/contract-api/internal/domain"
	"gorm.io/gorm"
)

// SystemConfigRepository handles system configuration access
type SystemConfigRepository struct {
	db *gorm.DB
}

// NewSystemConfigRepository creates a new system config repository instance
func NewSystemConfigRepository(db *gorm.DB) *SystemConfigRepository {
	return &SystemConfigRepository{db: db}
}

// List returns all config rows, optionally narrowed to a category
func (r *SystemConfigRepository) List(ctx context.Context, category string) ([]domain.SystemConfig, error) {
	var configs []domain.SystemConfig
	query := r.db.WithContext(ctx).Order("category ASC, key ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Find(&configs).Error
	return configs, err
}

// GetByKey retrieves a config row by its unique key
func (r *SystemConfigRepository) GetByKey(ctx context.Context, key string) (*domain.SystemConfig, error) {
	var config domain.SystemConfig
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// Update saves the full config row
func (r *SystemConfigRepository) Update(ctx context.Context, config *domain.SystemConfig) error {
	return r.db.WithContext(ctx).Save(config).Error
}

// Seed inserts config rows that do not exist yet, keyed by Key
func (r *SystemConfigRepository) Seed(ctx context.Context, defaults []domain.SystemConfig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range defaults {
			var count int64
			if err := tx.Model(&domain.SystemConfig{}).
				Where("key = ?", defaults[i].Key).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			if err := tx.Create(&defaults[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
