package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedAuditLogs(t *testing.T, db *gorm.DB) {
	t.Helper()
	now := time.Now().UTC()
	entries := []domain.AuditLog{
		{Screen: "contracts", Action: "create", Details: "null", CreatedAt: now.Add(-2 * time.Hour)},
		{Screen: "contracts", Action: "delete", Details: "null", CreatedAt: now.Add(-1 * time.Hour)},
		{Screen: "users", Action: "create", Details: "null", CreatedAt: now},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}

func TestAuditLogService_List(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAuditLogService(repository.NewAuditLogRepository(db), zap.NewNop())
	seedAuditLogs(t, db)

	t.Run("all entries newest first", func(t *testing.T) {
		logs, err := svc.List(context.Background(), &domain.AuditLogFilters{})
		require.NoError(t, err)
		require.Len(t, logs, 3)
		assert.Equal(t, "users", logs[0].Screen)
	})

	t.Run("filter by screen", func(t *testing.T) {
		logs, err := svc.List(context.Background(), &domain.AuditLogFilters{Screen: "contracts"})
		require.NoError(t, err)
		require.Len(t, logs, 2)
	})

	t.Run("filter by action", func(t *testing.T) {
		logs, err := svc.List(context.Background(), &domain.AuditLogFilters{Screen: "contracts", Action: "delete"})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "delete", logs[0].Action)
	})

	t.Run("limit", func(t *testing.T) {
		logs, err := svc.List(context.Background(), &domain.AuditLogFilters{Limit: 1})
		require.NoError(t, err)
		require.Len(t, logs, 1)
	})
}
