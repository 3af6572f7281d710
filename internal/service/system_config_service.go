package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SystemConfigService manages runtime settings stored in the database
type SystemConfigService struct {
	configRepo *repository.SystemConfigRepository
	logger     *zap.Logger
}

// NewSystemConfigService creates a new system config service instance
func NewSystemConfigService(configRepo *repository.SystemConfigRepository, logger *zap.Logger) *SystemConfigService {
	return &SystemConfigService{configRepo: configRepo, logger: logger}
}

// List returns config rows, optionally narrowed to a category
func (s *SystemConfigService) List(ctx context.Context, category string) ([]domain.SystemConfig, error) {
	return s.configRepo.List(ctx, category)
}

// GetByKey returns one config row
func (s *SystemConfigService) GetByKey(ctx context.Context, key string) (*domain.SystemConfig, error) {
	config, err := s.configRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config, nil
}

// Update changes an editable config row's value. The value must parse
// according to the row's declared type.
func (s *SystemConfigService) Update(ctx context.Context, key string, req *domain.UpdateConfigRequest) (*domain.SystemConfig, error) {
	config, err := s.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !config.IsEditable {
		return nil, ErrConfigNotEditable
	}
	if err := validateConfigValue(config.ValueType, req.Value); err != nil {
		return nil, err
	}

	config.Value = req.Value
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to update config: %w", err)
	}

	s.logger.Info("config updated", zap.String("key", key))
	return config, nil
}

// SeedDefaults inserts the default config catalog, skipping keys that
// already exist. Safe to run on every startup.
func (s *SystemConfigService) SeedDefaults(ctx context.Context) error {
	defaults := []domain.SystemConfig{
		{
			Key:         "system_name",
			Value:       "CEH Contract Management System",
			ValueType:   domain.ConfigTypeString,
			Category:    "general",
			Description: "Display name of the system",
			IsEditable:  true,
		},
		{
			Key:         "company_name",
			Value:       "CEH Software",
			ValueType:   domain.ConfigTypeString,
			Category:    "general",
			Description: "Operating company name",
			IsEditable:  true,
		},
		{
			Key:         "warning_days_before",
			Value:       "30",
			ValueType:   domain.ConfigTypeNumber,
			Category:    "notification",
			Description: "Days before a deadline that a warning is raised",
			IsEditable:  true,
		},
		{
			Key:         "enable_email_notification",
			Value:       "true",
			ValueType:   domain.ConfigTypeBoolean,
			Category:    "notification",
			Description: "Send warning emails",
			IsEditable:  true,
		},
		{
			Key:         "schema_revision",
			Value:       "1",
			ValueType:   domain.ConfigTypeNumber,
			Category:    "general",
			Description: "Internal schema revision marker",
			IsEditable:  false,
		},
	}
	return s.configRepo.Seed(ctx, defaults)
}

// IntValue reads a numeric config value, falling back when absent or invalid
func (s *SystemConfigService) IntValue(ctx context.Context, key string, fallback int) int {
	config, err := s.configRepo.GetByKey(ctx, key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(config.Value)
	if err != nil {
		return fallback
	}
	return n
}

func validateConfigValue(valueType domain.ConfigValueType, value string) error {
	switch valueType {
	case domain.ConfigTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value must be numeric: %w", err)
		}
	case domain.ConfigTypeBoolean:
		if _, err := strconv.ParseBool(value); err != nil {
			return fmt.Errorf("value must be boolean: %w", err)
		}
	case domain.ConfigTypeJSON:
		if !jsonValid(value) {
			return errors.New("value must be valid JSON")
		}
	}
	return nil
}

func jsonValid(s string) bool {
	var v interface{}
	return json.Unmarshal([]byte(s), &v) == nil
}
