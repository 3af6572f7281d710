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

func newDashboardService(db *gorm.DB) *service.DashboardService {
	return service.NewDashboardService(
		repository.NewContractRepository(db),
		repository.NewWarningRepository(db),
		zap.NewNop(),
	)
}

func seedDashboardData(t *testing.T, db *gorm.DB) {
	t.Helper()
	acme := testutil.CreateTestCustomer(t, db, "Acme Corp")
	umbrella := testutil.CreateTestCustomer(t, db, "Umbrella Inc")
	status := testutil.CreateTestStatus(t, db, "DELIVERY", "In delivery")

	require.NoError(t, db.Create(&domain.Contract{
		Code: testutil.NextCode("HD"), SignDate: signDate(), CustomerID: acme.ID,
		ValuePostVAT: 1000, StatusID: &status.ID, Version: 1,
		Expenses: []domain.Expense{{Category: "travel", TotalAmount: 100}},
	}).Error)
	require.NoError(t, db.Create(&domain.Contract{
		Code: testutil.NextCode("HD"), SignDate: signDate(), CustomerID: acme.ID,
		ValuePostVAT: 500, Version: 1,
	}).Error)
	require.NoError(t, db.Create(&domain.Contract{
		Code: testutil.NextCode("HD"), SignDate: signDate(), CustomerID: umbrella.ID,
		ValuePostVAT: 2000, Version: 1,
	}).Error)
}

func TestDashboardService_KPIs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(db)
	seedDashboardData(t, db)

	kpis, err := svc.KPIs(context.Background())
	require.NoError(t, err)
	require.Len(t, kpis, 4)

	byTitle := make(map[string]domain.KPIDTO)
	for _, kpi := range kpis {
		byTitle[kpi.Title] = kpi
	}
	assert.Equal(t, int64(3), byTitle["Total contracts"].Value)
	assert.Equal(t, int64(1), byTitle["Contracts in delivery"].Value)
	assert.Equal(t, int64(3500), byTitle["Revenue"].Value)
	assert.Equal(t, int64(100), byTitle["Expenses"].Value)
}

func TestDashboardService_KPIs_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(db)

	kpis, err := svc.KPIs(context.Background())
	require.NoError(t, err)
	require.Len(t, kpis, 4)
	for _, kpi := range kpis {
		assert.Zero(t, kpi.Value)
	}
}

func TestDashboardService_TopCustomers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(db)
	seedDashboardData(t, db)

	top, err := svc.TopCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, top, 2)

	assert.Equal(t, "Umbrella Inc", top[0].Name)
	assert.Equal(t, int64(2000), top[0].Revenue)
	assert.Equal(t, 1, top[0].Contracts)
	assert.Equal(t, "Acme Corp", top[1].Name)
	assert.Equal(t, int64(1500), top[1].Revenue)
	assert.Equal(t, 2, top[1].Contracts)
}

func TestDashboardService_WarningsSummary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newDashboardService(db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := &domain.Contract{
		Code: testutil.NextCode("HD"), SignDate: signDate(), CustomerID: customer.ID, Version: 1,
	}
	require.NoError(t, db.Create(contract).Error)

	now := time.Now().UTC()
	for i, status := range []domain.WarningStatus{
		domain.WarningStatusPending,
		domain.WarningStatusResolved,
		domain.WarningStatusProcessing,
	} {
		require.NoError(t, db.Create(&domain.Warning{
			Kind:         domain.WarningPaymentUpcoming,
			ContractID:   contract.ID,
			ContractCode: contract.Code,
			CustomerName: customer.Name,
			DueDate:      now.AddDate(0, 0, i+1),
			Status:       status,
		}).Error)
	}

	warnings, err := svc.WarningsSummary(context.Background())
	require.NoError(t, err)
	require.Len(t, warnings, 2, "resolved warnings are excluded")
	for _, w := range warnings {
		assert.NotEqual(t, domain.WarningStatusResolved, w.Status)
	}
}
