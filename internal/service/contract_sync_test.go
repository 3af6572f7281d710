package service_test

import (
	"context"
	"testing"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string       { return &s }
func int64Ptr(v int64) *int64       { return &v }
func idPtr(id uuid.UUID) *uuid.UUID { return &id }

// seedContract creates a contract with two payment terms worth 100 each.
func seedContract(t *testing.T, svc *service.ContractService, customerID uuid.UUID) *domain.ContractDTO {
	t.Helper()
	dto, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code:       testutil.NextCode("HD"),
		SignDate:   signDate(),
		CustomerID: customerID,
		PaymentTerms: []domain.PaymentTermInput{
			{Batch: "1", Ratio: 50, Value: 100},
			{Batch: "2", Ratio: 50, Value: 100},
		},
	})
	require.NoError(t, err)
	require.Len(t, dto.PaymentTerms, 2)
	return dto
}

func TestContractUpdate_ReconcilesSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	first := contract.PaymentTerms[0]
	second := contract.PaymentTerms[1]

	// Resubmit the full snapshot: keep the first term with a new value, drop
	// the second, add a fresh one.
	updated, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		PaymentTerms: []domain.PaymentTermInput{
			{ID: idPtr(first.ID), Batch: "1", Ratio: 75, Value: 150},
			{Batch: "3", Ratio: 25, Value: 50},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.PaymentTerms, 2)

	var total int64
	byID := make(map[uuid.UUID]domain.PaymentTermDTO)
	for _, term := range updated.PaymentTerms {
		byID[term.ID] = term
		total += term.Value
	}
	assert.Equal(t, int64(200), total)

	kept, ok := byID[first.ID]
	require.True(t, ok, "updated term keeps its identity")
	assert.Equal(t, int64(150), kept.Value)
	assert.Equal(t, 75.0, kept.Ratio)

	_, stillThere := byID[second.ID]
	assert.False(t, stillThere, "term absent from the snapshot is deleted")
}

func TestContractUpdate_NilCollectionUntouched(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	updated, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		Content: strPtr("amended scope"),
	})
	require.NoError(t, err)

	assert.Equal(t, "amended scope", updated.Content)
	require.Len(t, updated.PaymentTerms, 2)
	assert.Equal(t, contract.PaymentTerms[0].ID, updated.PaymentTerms[0].ID)
	assert.Equal(t, contract.PaymentTerms[1].ID, updated.PaymentTerms[1].ID)
}

func TestContractUpdate_EmptyCollectionDeletesAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	updated, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		PaymentTerms: []domain.PaymentTermInput{},
	})
	require.NoError(t, err)
	assert.Empty(t, updated.PaymentTerms)

	var count int64
	require.NoError(t, db.Model(&domain.PaymentTerm{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestContractUpdate_ForeignIDRecreated(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	// An id that does not belong to this contract must never turn into an
	// UPDATE; the row is inserted under a fresh identifier.
	foreign := uuid.New()
	updated, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		PaymentTerms: []domain.PaymentTermInput{
			{ID: idPtr(foreign), Batch: "9", Ratio: 100, Value: 999},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.PaymentTerms, 1)
	assert.NotEqual(t, foreign, updated.PaymentTerms[0].ID)
	assert.Equal(t, int64(999), updated.PaymentTerms[0].Value)
}

func TestContractUpdate_VersionConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	// First writer bumps the version.
	_, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		Content: strPtr("first edit"),
		Version: int64Ptr(contract.Version),
	})
	require.NoError(t, err)

	// Second writer still holds the old version and is refused.
	_, err = svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		Content: strPtr("second edit"),
		Version: int64Ptr(contract.Version),
	})
	assert.ErrorIs(t, err, service.ErrVersionConflict)
}

func TestContractUpdate_VersionIncrements(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)
	assert.Equal(t, int64(1), contract.Version)

	updated, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		Content: strPtr("edit"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)
}

func TestContractUpdate_SoftwareReplaceAndClear(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	swA := testutil.CreateTestSoftware(t, db, "ERP")
	swB := testutil.CreateTestSoftware(t, db, "CRM")

	contract, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code:        testutil.NextCode("HD"),
		SignDate:    signDate(),
		CustomerID:  customer.ID,
		SoftwareIDs: []uuid.UUID{swA.ID},
	})
	require.NoError(t, err)
	require.Len(t, contract.SoftwareTypes, 1)

	replaced, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		SoftwareIDs: []uuid.UUID{swB.ID},
	})
	require.NoError(t, err)
	require.Len(t, replaced.SoftwareTypes, 1)
	assert.Equal(t, swB.ID, replaced.SoftwareTypes[0].ID)

	cleared, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		SoftwareIDs: []uuid.UUID{},
	})
	require.NoError(t, err)
	assert.Empty(t, cleared.SoftwareTypes)
}

func TestContractUpdate_DuplicateCodeRefused(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	first := seedContract(t, svc, customer.ID)
	second := seedContract(t, svc, customer.ID)

	_, err := svc.Update(context.Background(), second.ID, &domain.UpdateContractRequest{
		Code: strPtr(first.Code),
	})
	assert.ErrorIs(t, err, service.ErrDuplicateContract)
}

func TestContractUpdate_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)

	_, err := svc.Update(context.Background(), uuid.New(), &domain.UpdateContractRequest{
		Content: strPtr("nope"),
	})
	assert.ErrorIs(t, err, service.ErrContractNotFound)
}

func TestContractUpdate_AtomicOnFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	// Unknown software id fails the transaction; the term snapshot submitted
	// alongside it must not be applied.
	_, err := svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		PaymentTerms: []domain.PaymentTermInput{},
		SoftwareIDs:  []uuid.UUID{uuid.New()},
	})
	require.Error(t, err)

	reloaded, err := svc.GetByID(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.PaymentTerms, 2, "rolled-back update must not delete terms")
	assert.Equal(t, contract.Version, reloaded.Version)
}
