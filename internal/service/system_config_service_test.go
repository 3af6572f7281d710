package service_test

import (
	"context"
	"testing"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newConfigService(db *gorm.DB) *service.SystemConfigService {
	return service.NewSystemConfigService(repository.NewSystemConfigRepository(db), zap.NewNop())
}

func TestSystemConfigService_SeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newConfigService(db)

	require.NoError(t, svc.SeedDefaults(context.Background()))

	configs, err := svc.List(context.Background(), "")
	require.NoError(t, err)
	assert.NotEmpty(t, configs)

	days, err := svc.GetByKey(context.Background(), "warning_days_before")
	require.NoError(t, err)
	assert.Equal(t, "30", days.Value)
	assert.Equal(t, domain.ConfigTypeNumber, days.ValueType)

	t.Run("reseeding preserves edited values", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "warning_days_before", &domain.UpdateConfigRequest{Value: "14"})
		require.NoError(t, err)

		require.NoError(t, svc.SeedDefaults(context.Background()))

		days, err := svc.GetByKey(context.Background(), "warning_days_before")
		require.NoError(t, err)
		assert.Equal(t, "14", days.Value)
	})
}

func TestSystemConfigService_Update_NotEditable(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newConfigService(db)
	require.NoError(t, db.Create(&domain.SystemConfig{
		Key:        "locked_setting",
		Value:      "fixed",
		ValueType:  domain.ConfigTypeString,
		IsEditable: false,
	}).Error)

	_, err := svc.Update(context.Background(), "locked_setting", &domain.UpdateConfigRequest{Value: "changed"})
	assert.ErrorIs(t, err, service.ErrConfigNotEditable)
}

func TestSystemConfigService_Update_TypeValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newConfigService(db)
	require.NoError(t, svc.SeedDefaults(context.Background()))

	t.Run("number rejects text", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "warning_days_before", &domain.UpdateConfigRequest{Value: "soon"})
		assert.Error(t, err)
	})

	t.Run("boolean rejects text", func(t *testing.T) {
		_, err := svc.Update(context.Background(), "enable_email_notification", &domain.UpdateConfigRequest{Value: "maybe"})
		assert.Error(t, err)
	})

	t.Run("boolean accepts false", func(t *testing.T) {
		cfg, err := svc.Update(context.Background(), "enable_email_notification", &domain.UpdateConfigRequest{Value: "false"})
		require.NoError(t, err)
		assert.Equal(t, "false", cfg.Value)
	})
}

func TestSystemConfigService_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newConfigService(db)

	_, err := svc.Update(context.Background(), "missing_key", &domain.UpdateConfigRequest{Value: "x"})
	assert.ErrorIs(t, err, service.ErrConfigNotFound)
}

func TestSystemConfigService_IntValue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newConfigService(db)
	require.NoError(t, svc.SeedDefaults(context.Background()))

	assert.Equal(t, 30, svc.IntValue(context.Background(), "warning_days_before", 7))
	assert.Equal(t, 7, svc.IntValue(context.Background(), "missing_key", 7))

	// Non-numeric stored value falls back too.
	require.NoError(t, db.Model(&domain.SystemConfig{}).
		Where("key = ?", "system_name").
		Update("value", "CEH").Error)
	assert.Equal(t, 7, svc.IntValue(context.Background(), "system_name", 7))
}
