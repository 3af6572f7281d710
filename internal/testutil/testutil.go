// Package testutil provides shared helpers for package tests. Tests run
// against an in-memory SQLite database so no external services are needed.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var seq int64

// NextCode returns a unique short code for test fixtures
func NextCode(prefix string) string {
	return fmt.Sprintf("%s-%04d", prefix, atomic.AddInt64(&seq, 1))
}

// SetupTestDB opens a fresh in-memory database with the full schema migrated
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Customer{},
		&domain.Supplier{},
		&domain.Software{},
		&domain.Status{},
		&domain.ContractType{},
		&domain.Unit{},
		&domain.Personnel{},
		&domain.UserGroup{},
		&domain.User{},
		&domain.Permission{},
		&domain.Contract{},
		&domain.PaymentTerm{},
		&domain.Expense{},
		&domain.ProjectMember{},
		&domain.ContractAttachment{},
		&domain.Warning{},
		&domain.AuditLog{},
		&domain.SystemConfig{},
	)
	require.NoError(t, err)

	return db
}

// CreateTestCustomer inserts a customer fixture
func CreateTestCustomer(t *testing.T, db *gorm.DB, name string) *domain.Customer {
	t.Helper()
	customer := &domain.Customer{
		Code:   NextCode("CUST"),
		Name:   name,
		Email:  "customer@example.com",
		Status: domain.RecordStatusActive,
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

// CreateTestSupplier inserts a supplier fixture
func CreateTestSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()
	supplier := &domain.Supplier{
		Code:   NextCode("SUP"),
		Name:   name,
		Status: domain.RecordStatusActive,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// CreateTestSoftware inserts a software catalog fixture
func CreateTestSoftware(t *testing.T, db *gorm.DB, name string) *domain.Software {
	t.Helper()
	software := &domain.Software{
		Code: NextCode("SW"),
		Name: name,
	}
	require.NoError(t, db.Create(software).Error)
	return software
}

// CreateTestStatus inserts a delivery status fixture
func CreateTestStatus(t *testing.T, db *gorm.DB, code, name string) *domain.Status {
	t.Helper()
	status := &domain.Status{
		Code: code,
		Name: name,
	}
	require.NoError(t, db.Create(status).Error)
	return status
}

// CreateTestGroup inserts a user group fixture
func CreateTestGroup(t *testing.T, db *gorm.DB, name string) *domain.UserGroup {
	t.Helper()
	group := &domain.UserGroup{
		Code:   NextCode("GRP"),
		Name:   name,
		Status: domain.RecordStatusActive,
	}
	require.NoError(t, db.Create(group).Error)
	return group
}
