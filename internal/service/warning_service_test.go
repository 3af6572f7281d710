package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newWarningService(t *testing.T, db *gorm.DB) *service.WarningService {
	t.Helper()
	return service.NewWarningService(
		repository.NewWarningRepository(db),
		repository.NewContractRepository(db),
		zap.NewNop(),
		30,
	)
}

// seedWarningContract inserts a contract with an acceptance date and one
// uncollected payment term, both inside the look-ahead window.
func seedWarningContract(t *testing.T, db *gorm.DB, acceptance, collection time.Time) *domain.Contract {
	t.Helper()
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := &domain.Contract{
		Code:           testutil.NextCode("HD"),
		SignDate:       signDate(),
		CustomerID:     customer.ID,
		ValuePostVAT:   1100,
		AcceptanceDate: &acceptance,
		Version:        1,
		PaymentTerms: []domain.PaymentTerm{
			{Batch: "1", Ratio: 100, Value: 1100, CollectionDate: &collection},
		},
	}
	require.NoError(t, db.Create(contract).Error)
	return contract
}

func TestWarningService_Generate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	soon := time.Now().UTC().AddDate(0, 0, 10)
	contract := seedWarningContract(t, db, soon, soon.AddDate(0, 0, 5))

	created, refreshed, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Zero(t, refreshed)

	var warnings []domain.Warning
	require.NoError(t, db.Order("type").Find(&warnings).Error)
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.Equal(t, contract.ID, w.ContractID)
		assert.Equal(t, contract.Code, w.ContractCode)
		assert.Equal(t, "Acme Corp", w.CustomerName)
		assert.Equal(t, domain.WarningStatusPending, w.Status)
		assert.Greater(t, w.DaysDiff, 0)
	}
	assert.Equal(t, domain.WarningAcceptanceUpcoming, warnings[0].Kind)
	assert.Equal(t, domain.WarningPaymentUpcoming, warnings[1].Kind)
}

func TestWarningService_Generate_OverdueKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	past := time.Now().UTC().AddDate(0, 0, -7)
	seedWarningContract(t, db, past, past)

	created, _, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	var warnings []domain.Warning
	require.NoError(t, db.Order("type").Find(&warnings).Error)
	require.Len(t, warnings, 2)
	assert.Equal(t, domain.WarningAcceptanceOverdue, warnings[0].Kind)
	assert.Equal(t, domain.WarningPaymentOverdue, warnings[1].Kind)
	for _, w := range warnings {
		assert.Less(t, w.DaysDiff, 0)
	}
}

func TestWarningService_Generate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	soon := time.Now().UTC().AddDate(0, 0, 10)
	seedWarningContract(t, db, soon, soon.AddDate(0, 0, 5))

	created, refreshed, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Zero(t, refreshed)

	created, refreshed, err = svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 2, refreshed)

	var count int64
	require.NoError(t, db.Model(&domain.Warning{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestWarningService_Generate_ResolvedStaysResolved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	soon := time.Now().UTC().AddDate(0, 0, 10)
	seedWarningContract(t, db, soon, soon.AddDate(0, 0, 5))

	_, _, err := svc.Generate(context.Background())
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.Warning{}).
		Where("type = ?", domain.WarningAcceptanceUpcoming).
		Update("status", domain.WarningStatusResolved).Error)

	created, refreshed, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Equal(t, 1, refreshed, "only the unresolved warning is refreshed")

	var resolved domain.Warning
	require.NoError(t, db.Where("type = ?", domain.WarningAcceptanceUpcoming).First(&resolved).Error)
	assert.Equal(t, domain.WarningStatusResolved, resolved.Status)
}

func TestWarningService_Generate_SkipsOutOfScopeTerms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")

	farOut := time.Now().UTC().AddDate(0, 0, 90)
	soon := time.Now().UTC().AddDate(0, 0, 5)
	contract := &domain.Contract{
		Code:       testutil.NextCode("HD"),
		SignDate:   signDate(),
		CustomerID: customer.ID,
		Version:    1,
		PaymentTerms: []domain.PaymentTerm{
			{Batch: "1", Ratio: 25, Value: 100, CollectionDate: &farOut},
			{Batch: "2", Ratio: 25, Value: 100, CollectionDate: &soon, IsCollected: true},
			{Batch: "3", Ratio: 25, Value: 100},
			{Batch: "4", Ratio: 25, Value: 100, CollectionDate: &soon},
		},
	}
	require.NoError(t, db.Create(contract).Error)

	created, _, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created, "beyond-horizon, collected and undated terms are skipped")
}

func TestWarningService_ManualCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	soon := time.Now().UTC().AddDate(0, 0, 10)
	contract := seedWarningContract(t, db, soon, soon)

	dto, err := svc.Create(context.Background(), &domain.CreateWarningRequest{
		Kind:       domain.WarningContractExpired,
		ContractID: contract.ID,
		DueDate:    soon,
		Amount:     500,
		Note:       "follow up with the customer",
	})
	require.NoError(t, err)
	assert.Equal(t, contract.Code, dto.ContractCode)
	assert.Equal(t, "Acme Corp", dto.CustomerName)
	assert.Equal(t, domain.WarningStatusPending, dto.Status)

	t.Run("unknown contract", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &domain.CreateWarningRequest{
			Kind:       domain.WarningContractExpired,
			ContractID: uuid.New(),
			DueDate:    soon,
		})
		assert.ErrorIs(t, err, service.ErrContractNotFound)
	})
}

func TestWarningService_UpdateStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newWarningService(t, db)
	soon := time.Now().UTC().AddDate(0, 0, 10)
	contract := seedWarningContract(t, db, soon, soon)

	dto, err := svc.Create(context.Background(), &domain.CreateWarningRequest{
		Kind:       domain.WarningPaymentUpcoming,
		ContractID: contract.ID,
		DueDate:    soon,
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), dto.ID, &domain.UpdateWarningRequest{
		Status: domain.WarningStatusResolved,
		Note:   "invoice settled",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.WarningStatusResolved, updated.Status)
	assert.Equal(t, "invoice settled", updated.Note)

	t.Run("unknown warning", func(t *testing.T) {
		_, err := svc.Update(context.Background(), uuid.New(), &domain.UpdateWarningRequest{
			Status: domain.WarningStatusResolved,
		})
		assert.ErrorIs(t, err, service.ErrWarningNotFound)
	})
}
