package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/storage"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newContractService(t *testing.T, db *gorm.DB) *service.ContractService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return service.NewContractService(
		repository.NewContractRepository(db),
		repository.NewMasterDataRepository(db),
		repository.NewWarningRepository(db),
		store,
		zap.NewNop(),
		db,
	)
}

func signDate() time.Time {
	return time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
}

func TestContractService_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")

	dto, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code:         "HD-2026-001",
		SignDate:     signDate(),
		CustomerID:   customer.ID,
		ValuePreVAT:  1000,
		VAT:          100,
		ValuePostVAT: 1100,
		PaymentTerms: []domain.PaymentTermInput{
			{Batch: "1", Ratio: 50, Value: 550},
			{Batch: "2", Ratio: 50, Value: 550},
		},
		Members: []domain.ProjectMemberInput{
			{Name: "Alice", Role: "PM"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "HD-2026-001", dto.Code)
	assert.Equal(t, int64(1), dto.Version)
	assert.Equal(t, customer.ID, dto.CustomerID)
	require.NotNil(t, dto.Customer)
	assert.Equal(t, "Acme Corp", dto.Customer.Name)
	assert.Len(t, dto.PaymentTerms, 2)
	assert.Len(t, dto.Members, 1)
	assert.Empty(t, dto.Expenses)
	for _, term := range dto.PaymentTerms {
		assert.NotEqual(t, uuid.Nil, term.ID)
		assert.Equal(t, dto.ID, term.ContractID)
		assert.Equal(t, domain.InvoiceStatusNotExported, term.InvoiceStatus)
	}
}

func TestContractService_Create_DuplicateCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")

	req := &domain.CreateContractRequest{
		Code:       "HD-2026-002",
		SignDate:   signDate(),
		CustomerID: customer.ID,
	}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrDuplicateContract)
}

func TestContractService_Create_UnknownCustomer(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)

	_, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code:       "HD-2026-003",
		SignDate:   signDate(),
		CustomerID: uuid.New(),
	})
	assert.ErrorIs(t, err, service.ErrCustomerNotFound)
}

func TestContractService_Create_WithSoftware(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	swA := testutil.CreateTestSoftware(t, db, "ERP")
	swB := testutil.CreateTestSoftware(t, db, "CRM")

	dto, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code:        "HD-2026-004",
		SignDate:    signDate(),
		CustomerID:  customer.ID,
		SoftwareIDs: []uuid.UUID{swA.ID, swB.ID},
	})
	require.NoError(t, err)
	assert.Len(t, dto.SoftwareTypes, 2)

	t.Run("unknown software id is rejected", func(t *testing.T) {
		_, err := svc.Create(context.Background(), &domain.CreateContractRequest{
			Code:        "HD-2026-005",
			SignDate:    signDate(),
			CustomerID:  customer.ID,
			SoftwareIDs: []uuid.UUID{swA.ID, uuid.New()},
		})
		assert.ErrorIs(t, err, service.ErrItemNotFound)
	})
}

func TestContractService_Delete_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	sw := testutil.CreateTestSoftware(t, db, "ERP")

	dto, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code:        "HD-2026-010",
		SignDate:    signDate(),
		CustomerID:  customer.ID,
		SoftwareIDs: []uuid.UUID{sw.ID},
		PaymentTerms: []domain.PaymentTermInput{
			{Batch: "1", Ratio: 100, Value: 500},
		},
		Expenses: []domain.ExpenseInput{
			{Category: "travel", TotalAmount: 50},
		},
		Members: []domain.ProjectMemberInput{
			{Name: "Alice"},
		},
	})
	require.NoError(t, err)

	// Hang a warning and an attachment row off the contract as well.
	require.NoError(t, db.Create(&domain.Warning{
		Kind:         domain.WarningAcceptanceUpcoming,
		ContractID:   dto.ID,
		ContractCode: dto.Code,
		CustomerName: customer.Name,
		DueDate:      signDate(),
		Status:       domain.WarningStatusPending,
	}).Error)
	require.NoError(t, db.Create(&domain.ContractAttachment{
		ContractID: dto.ID,
		Name:       "contract.pdf",
		Size:       10,
	}).Error)

	require.NoError(t, svc.Delete(context.Background(), dto.ID))

	for name, model := range map[string]interface{}{
		"contracts":            &domain.Contract{},
		"payment_terms":        &domain.PaymentTerm{},
		"expenses":             &domain.Expense{},
		"project_members":      &domain.ProjectMember{},
		"contract_attachments": &domain.ContractAttachment{},
		"warnings":             &domain.Warning{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "expected no rows left in %s", name)
	}

	var links int64
	require.NoError(t, db.Table("contract_software").Count(&links).Error)
	assert.Zero(t, links)

	// The software catalog itself is untouched.
	var software int64
	require.NoError(t, db.Model(&domain.Software{}).Count(&software).Error)
	assert.Equal(t, int64(1), software)
}

func TestContractService_Delete_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrContractNotFound)
}

func TestContractService_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	acme := testutil.CreateTestCustomer(t, db, "Acme Corp")
	umbrella := testutil.CreateTestCustomer(t, db, "Umbrella Inc")

	_, err := svc.Create(context.Background(), &domain.CreateContractRequest{
		Code: "HD-2026-020", SignDate: signDate(), CustomerID: acme.ID,
	})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), &domain.CreateContractRequest{
		Code: "HD-2026-021", SignDate: signDate().AddDate(0, 1, 0), CustomerID: umbrella.ID,
	})
	require.NoError(t, err)

	all, err := svc.List(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCustomer, err := svc.List(context.Background(), &repository.ContractFilters{CustomerID: &acme.ID})
	require.NoError(t, err)
	require.Len(t, byCustomer, 1)
	assert.Equal(t, "HD-2026-020", byCustomer[0].Code)

	search, err := svc.List(context.Background(), &repository.ContractFilters{Search: "2026-021"})
	require.NoError(t, err)
	require.Len(t, search, 1)
	assert.Equal(t, "HD-2026-021", search[0].Code)
}
