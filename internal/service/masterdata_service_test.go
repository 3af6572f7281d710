package service_test

import (
	"context"
	"testing"

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

func newMasterDataService(db *gorm.DB) *service.MasterDataService {
	return service.NewMasterDataService(
		repository.NewMasterDataRepository(db),
		repository.NewContractRepository(db),
		zap.NewNop(),
	)
}

func TestParseMasterDataKind(t *testing.T) {
	for _, valid := range []string{
		"customers", "suppliers", "software", "status", "contract-types", "units", "personnel",
	} {
		kind, ok := repository.ParseMasterDataKind(valid)
		assert.True(t, ok, "expected %q to parse", valid)
		assert.NotEmpty(t, kind)
	}

	_, ok := repository.ParseMasterDataKind("projects")
	assert.False(t, ok)
}

func TestMasterDataService_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)

	record, err := svc.Create(context.Background(), repository.KindCustomer, &domain.MasterDataInput{
		Code:  "KH001",
		Name:  "Acme Corp",
		Email: "hello@acme.example",
	})
	require.NoError(t, err)

	customer, ok := record.(*domain.Customer)
	require.True(t, ok)
	assert.Equal(t, "KH001", customer.Code)
	assert.Equal(t, domain.RecordStatusActive, customer.Status)

	got, err := svc.GetByID(context.Background(), repository.KindCustomer, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, got.(*domain.Customer).ID)
}

func TestMasterDataService_DuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)

	in := &domain.MasterDataInput{Code: "PM001", Name: "ERP Suite"}
	_, err := svc.Create(context.Background(), repository.KindSoftware, in)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), repository.KindSoftware, in)
	assert.ErrorIs(t, err, service.ErrDuplicateCode)

	// The same code is fine in a different table.
	_, err = svc.Create(context.Background(), repository.KindUnit, in)
	assert.NoError(t, err)
}

func TestMasterDataService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)

	record, err := svc.Create(context.Background(), repository.KindStatus, &domain.MasterDataInput{
		Code: "ST01", Name: "In progress", Color: "#ffaa00",
	})
	require.NoError(t, err)
	status := record.(*domain.Status)

	updated, err := svc.Update(context.Background(), repository.KindStatus, status.ID, &domain.MasterDataInput{
		Code: "ST01", Name: "Delivered", Color: "#00aa00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Delivered", updated.(*domain.Status).Name)
	assert.Equal(t, "#00aa00", updated.(*domain.Status).Color)

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(context.Background(), repository.KindStatus, uuid.New(), &domain.MasterDataInput{
			Code: "ST99", Name: "Nope",
		})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})
}

func TestMasterDataService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)

	record, err := svc.Create(context.Background(), repository.KindSupplier, &domain.MasterDataInput{
		Code: "NCC01", Name: "Parts AS",
	})
	require.NoError(t, err)
	supplier := record.(*domain.Supplier)

	require.NoError(t, svc.Delete(context.Background(), repository.KindSupplier, supplier.ID))

	_, err = svc.GetByID(context.Background(), repository.KindSupplier, supplier.ID)
	assert.ErrorIs(t, err, service.ErrItemNotFound)
}

func TestMasterDataService_DeleteCustomerInUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")

	require.NoError(t, db.Create(&domain.Contract{
		Code:       testutil.NextCode("HD"),
		SignDate:   signDate(),
		CustomerID: customer.ID,
		Version:    1,
	}).Error)

	err := svc.Delete(context.Background(), repository.KindCustomer, customer.ID)
	assert.ErrorIs(t, err, service.ErrItemInUse)

	// Still present.
	_, err = svc.GetByID(context.Background(), repository.KindCustomer, customer.ID)
	assert.NoError(t, err)
}

func TestMasterDataService_ListWithSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)

	_, err := svc.Create(context.Background(), repository.KindCustomer, &domain.MasterDataInput{Code: "KH010", Name: "Acme Corp"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), repository.KindCustomer, &domain.MasterDataInput{Code: "KH011", Name: "Umbrella Inc"})
	require.NoError(t, err)

	rows, err := svc.List(context.Background(), repository.KindCustomer, "umbrella")
	require.NoError(t, err)
	customers, ok := rows.([]domain.Customer)
	require.True(t, ok)
	require.Len(t, customers, 1)
	assert.Equal(t, "Umbrella Inc", customers[0].Name)
}

func TestMasterDataService_UpdatePreservesStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newMasterDataService(db)

	inactive := domain.RecordStatusInactive
	code := testutil.NextCode("CUST")
	created, err := svc.Create(context.Background(), repository.KindCustomer, &domain.MasterDataInput{
		Code: code, Name: "Dormant AS", Status: &inactive,
	})
	require.NoError(t, err)
	customer := created.(*domain.Customer)
	require.Equal(t, domain.RecordStatusInactive, customer.Status)

	// Renaming without submitting a status must not resurrect the row.
	updated, err := svc.Update(context.Background(), repository.KindCustomer, customer.ID, &domain.MasterDataInput{
		Code: code, Name: "Dormant Holding AS",
	})
	require.NoError(t, err)
	renamed := updated.(*domain.Customer)
	assert.Equal(t, "Dormant Holding AS", renamed.Name)
	assert.Equal(t, domain.RecordStatusInactive, renamed.Status)

	active := domain.RecordStatusActive
	updated, err = svc.Update(context.Background(), repository.KindCustomer, customer.ID, &domain.MasterDataInput{
		Code: code, Name: "Dormant Holding AS", Status: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusActive, updated.(*domain.Customer).Status)
}
