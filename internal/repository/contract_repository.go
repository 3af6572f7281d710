package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContractFilters defines filter options for contract listing
type ContractFilters struct {
	Search     string
	CustomerID *uuid.UUID
	StatusID   *uuid.UUID
	TypeID     *uuid.UUID
	SignedFrom *time.Time
	SignedTo   *time.Time
}

// ContractRepository handles contract data access operations
type ContractRepository struct {
	db *gorm.DB
}

// NewContractRepository creates a new contract repository instance
func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// DB exposes the underlying handle for transactional flows owned by services
func (r *ContractRepository) DB() *gorm.DB {
	return r.db
}

// Create inserts a contract together with any nested rows already attached
func (r *ContractRepository) Create(ctx context.Context, contract *domain.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

// GetByID retrieves a bare contract row without associations
func (r *ContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetFull retrieves a contract with every association preloaded. This is the
// shape returned to clients after reads and after every write.
func (r *ContractRepository) GetFull(ctx context.Context, id uuid.UUID) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("ContractType").
		Preload("Status").
		Preload("CreatedBy").
		Preload("SoftwareTypes").
		Preload("PaymentTerms", func(db *gorm.DB) *gorm.DB {
			return db.Order("batch ASC, created_at ASC")
		}).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Expenses.Supplier").
		Preload("Members", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Attachments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// GetByCode finds a contract by its unique code; returns nil when absent
func (r *ContractRepository) GetByCode(ctx context.Context, code string) (*domain.Contract, error) {
	var contract domain.Contract
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&contract).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &contract, nil
}

// List returns contracts matching the filters, newest first
func (r *ContractRepository) List(ctx context.Context, filters *ContractFilters) ([]domain.Contract, error) {
	var contracts []domain.Contract

	query := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Preload("Customer").
		Preload("ContractType").
		Preload("Status").
		Preload("CreatedBy").
		Preload("SoftwareTypes")

	if filters != nil {
		if filters.Search != "" {
			pattern := "%" + strings.ToLower(filters.Search) + "%"
			query = query.Where("LOWER(code) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
		}
		if filters.CustomerID != nil {
			query = query.Where("customer_id = ?", *filters.CustomerID)
		}
		if filters.StatusID != nil {
			query = query.Where("status_id = ?", *filters.StatusID)
		}
		if filters.TypeID != nil {
			query = query.Where("contract_type_id = ?", *filters.TypeID)
		}
		if filters.SignedFrom != nil {
			query = query.Where("sign_date >= ?", *filters.SignedFrom)
		}
		if filters.SignedTo != nil {
			query = query.Where("sign_date <= ?", *filters.SignedTo)
		}
	}

	err := query.Order("created_at DESC").Find(&contracts).Error
	return contracts, err
}

// Count returns the total number of contracts
func (r *ContractRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).Count(&count).Error
	return count, err
}

// CountByStatusCode counts contracts whose status row carries the given code
func (r *ContractRepository) CountByStatusCode(ctx context.Context, statusCode string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Joins("JOIN master_data_status ON master_data_status.id = contracts.status_id").
		Where("master_data_status.code = ?", statusCode).
		Count(&count).Error
	return count, err
}

// SumValuePostVAT totals the post-VAT value across all contracts
func (r *ContractRepository) SumValuePostVAT(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Select("SUM(value_post_vat)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}

// TopCustomerRow is one row of the revenue-by-customer aggregation
type TopCustomerRow struct {
	Name      string
	Code      string
	Revenue   int64
	Contracts int
}

// TopCustomersByRevenue returns the highest-revenue customers, descending
func (r *ContractRepository) TopCustomersByRevenue(ctx context.Context, limit int) ([]TopCustomerRow, error) {
	var rows []TopCustomerRow
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Select("master_data_customers.name AS name, master_data_customers.code AS code, SUM(contracts.value_post_vat) AS revenue, COUNT(contracts.id) AS contracts").
		Joins("JOIN master_data_customers ON master_data_customers.id = contracts.customer_id").
		Group("master_data_customers.id, master_data_customers.name, master_data_customers.code").
		Order("revenue DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// CountByCustomer counts contracts referencing a customer. Used to refuse
// deleting customers that are still in use.
func (r *ContractRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

// CountWithStatus counts contracts that have any delivery status assigned
func (r *ContractRepository) CountWithStatus(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Contract{}).
		Where("status_id IS NOT NULL").
		Count(&count).Error
	return count, err
}

// SumExpenses totals every expense amount across all contracts
func (r *ContractRepository) SumExpenses(ctx context.Context) (int64, error) {
	var total *int64
	err := r.db.WithContext(ctx).Model(&domain.Expense{}).
		Select("SUM(total_amount)").
		Scan(&total).Error
	if err != nil || total == nil {
		return 0, err
	}
	return *total, nil
}
