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

func TestContractService_AddPaymentTerm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	term, err := svc.AddPaymentTerm(context.Background(), contract.ID, &domain.PaymentTermInput{
		Batch: "3", Ratio: 0, Value: 75,
	})
	require.NoError(t, err)
	assert.Equal(t, contract.ID, term.ContractID)
	assert.Equal(t, domain.InvoiceStatusNotExported, term.InvoiceStatus)

	reloaded, err := svc.GetByID(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.PaymentTerms, 3)
	assert.Equal(t, contract.Version+1, reloaded.Version, "single-row writes bump the version")
}

func TestContractService_AddPaymentTerm_UnknownContract(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)

	_, err := svc.AddPaymentTerm(context.Background(), uuid.New(), &domain.PaymentTermInput{
		Batch: "1", Value: 100,
	})
	assert.ErrorIs(t, err, service.ErrContractNotFound)
}

func TestContractService_UpdatePaymentTerm(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)
	target := contract.PaymentTerms[0]

	term, err := svc.UpdatePaymentTerm(context.Background(), contract.ID, target.ID, &domain.PaymentTermInput{
		Batch: "1", Ratio: 60, Value: 120, IsCollected: true,
	})
	require.NoError(t, err)
	assert.Equal(t, target.ID, term.ID)
	assert.Equal(t, int64(120), term.Value)
	assert.True(t, term.IsCollected)

	reloaded, err := svc.GetByID(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.PaymentTerms, 2, "updating never adds rows")
}

func TestContractService_UpdatePaymentTerm_WrongContract(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)
	other := seedContract(t, svc, customer.ID)

	// A term id belonging to another contract must not be reachable.
	_, err := svc.UpdatePaymentTerm(context.Background(), contract.ID, other.PaymentTerms[0].ID, &domain.PaymentTermInput{
		Batch: "1", Value: 999,
	})
	assert.ErrorIs(t, err, service.ErrPaymentTermNotFound)

	reloaded, err := svc.GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(100), reloaded.PaymentTerms[0].Value)
}

func TestContractService_AddAndUpdateExpense(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	supplier := testutil.CreateTestSupplier(t, db, "Parts AS")
	contract := seedContract(t, svc, customer.ID)

	expense, err := svc.AddExpense(context.Background(), contract.ID, &domain.ExpenseInput{
		Category: "hardware", TotalAmount: 400, SupplierID: &supplier.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusUnpaid, expense.PaymentStatus)
	require.NotNil(t, expense.Supplier)
	assert.Equal(t, "Parts AS", expense.Supplier.Name)

	updated, err := svc.UpdateExpense(context.Background(), contract.ID, expense.ID, &domain.ExpenseInput{
		Category: "hardware", TotalAmount: 450, PaymentStatus: domain.PaymentStatusPaid,
	})
	require.NoError(t, err)
	assert.Equal(t, expense.ID, updated.ID)
	assert.Equal(t, int64(450), updated.TotalAmount)
	assert.Equal(t, domain.PaymentStatusPaid, updated.PaymentStatus)

	_, err = svc.UpdateExpense(context.Background(), contract.ID, uuid.New(), &domain.ExpenseInput{
		Category: "hardware", TotalAmount: 1,
	})
	assert.ErrorIs(t, err, service.ErrExpenseNotFound)
}

func TestContractService_AddAndRemoveMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	member, err := svc.AddMember(context.Background(), contract.ID, &domain.ProjectMemberInput{
		Name: "Kari Hansen", Role: "lead",
	})
	require.NoError(t, err)
	assert.Equal(t, contract.ID, member.ContractID)

	require.NoError(t, svc.RemoveMember(context.Background(), contract.ID, member.ID))

	reloaded, err := svc.GetByID(context.Background(), contract.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Members)

	assert.ErrorIs(t, svc.RemoveMember(context.Background(), contract.ID, member.ID), service.ErrMemberNotFound)
}

func TestContractService_ChildWriteConflictsWithStaleSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newContractService(t, db)
	customer := testutil.CreateTestCustomer(t, db, "Acme Corp")
	contract := seedContract(t, svc, customer.ID)

	_, err := svc.AddMember(context.Background(), contract.ID, &domain.ProjectMemberInput{Name: "Ola"})
	require.NoError(t, err)

	// A snapshot update carrying the version read before the member was added
	// must be refused.
	staleVersion := contract.Version
	_, err = svc.Update(context.Background(), contract.ID, &domain.UpdateContractRequest{
		Version:      &staleVersion,
		PaymentTerms: []domain.PaymentTermInput{},
	})
	assert.ErrorIs(t, err, service.ErrVersionConflict)
}
