package repository

import (
	"context"
	"strings"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MasterDataKind selects one of the reference-data tables. The set is closed:
// adding a table means adding a constant and extending the switches below.
type MasterDataKind string

const (
	KindCustomer     MasterDataKind = "customers"
	KindSupplier     MasterDataKind = "suppliers"
	KindSoftware     MasterDataKind = "software"
	KindStatus       MasterDataKind = "status"
	KindContractType MasterDataKind = "contract-types"
	KindUnit         MasterDataKind = "units"
	KindPersonnel    MasterDataKind = "personnel"
)

// ParseMasterDataKind maps a URL path segment onto a kind
func ParseMasterDataKind(s string) (MasterDataKind, bool) {
	switch MasterDataKind(s) {
	case KindCustomer, KindSupplier, KindSoftware, KindStatus,
		KindContractType, KindUnit, KindPersonnel:
		return MasterDataKind(s), true
	}
	return "", false
}

// MasterDataRepository handles reference-data access for all kinds through a
// single dispatch point.
type MasterDataRepository struct {
	db *gorm.DB
}

// NewMasterDataRepository creates a new master data repository instance
func NewMasterDataRepository(db *gorm.DB) *MasterDataRepository {
	return &MasterDataRepository{db: db}
}

// newModel returns an empty record of the kind's concrete type
func newModel(kind MasterDataKind) interface{} {
	switch kind {
	case KindCustomer:
		return &domain.Customer{}
	case KindSupplier:
		return &domain.Supplier{}
	case KindSoftware:
		return &domain.Software{}
	case KindStatus:
		return &domain.Status{}
	case KindContractType:
		return &domain.ContractType{}
	case KindUnit:
		return &domain.Unit{}
	case KindPersonnel:
		return &domain.Personnel{}
	}
	return nil
}

// List returns all rows of a kind ordered by code
func (r *MasterDataRepository) List(ctx context.Context, kind MasterDataKind, search string) (interface{}, error) {
	query := r.db.WithContext(ctx).Order("code ASC")
	if search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}

	switch kind {
	case KindCustomer:
		var rows []domain.Customer
		return rows, query.Find(&rows).Error
	case KindSupplier:
		var rows []domain.Supplier
		return rows, query.Find(&rows).Error
	case KindSoftware:
		var rows []domain.Software
		return rows, query.Find(&rows).Error
	case KindStatus:
		var rows []domain.Status
		return rows, query.Find(&rows).Error
	case KindContractType:
		var rows []domain.ContractType
		return rows, query.Find(&rows).Error
	case KindUnit:
		var rows []domain.Unit
		return rows, query.Find(&rows).Error
	case KindPersonnel:
		var rows []domain.Personnel
		return rows, query.Find(&rows).Error
	}
	return nil, gorm.ErrInvalidValue
}

// GetByID fetches a single row of a kind
func (r *MasterDataRepository) GetByID(ctx context.Context, kind MasterDataKind, id uuid.UUID) (interface{}, error) {
	record := newModel(kind)
	if record == nil {
		return nil, gorm.ErrInvalidValue
	}
	err := r.db.WithContext(ctx).Where("id = ?", id).First(record).Error
	if err != nil {
		return nil, err
	}
	return record, nil
}

// CodeExists reports whether a kind already holds the given code, optionally
// ignoring one row (used on update).
func (r *MasterDataRepository) CodeExists(ctx context.Context, kind MasterDataKind, code string, excludeID *uuid.UUID) (bool, error) {
	record := newModel(kind)
	if record == nil {
		return false, gorm.ErrInvalidValue
	}
	query := r.db.WithContext(ctx).Model(record).Where("code = ?", code)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// Create builds and inserts a row of the kind from the generic input. Fields
// the kind's table does not have are dropped.
func (r *MasterDataRepository) Create(ctx context.Context, kind MasterDataKind, in *domain.MasterDataInput) (interface{}, error) {
	record := buildRecord(kind, in)
	if record == nil {
		return nil, gorm.ErrInvalidValue
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Update overwrites a row of the kind with values from the generic input
func (r *MasterDataRepository) Update(ctx context.Context, kind MasterDataKind, id uuid.UUID, in *domain.MasterDataInput) (interface{}, error) {
	record, err := r.GetByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	applyInput(record, in)
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a row of the kind
func (r *MasterDataRepository) Delete(ctx context.Context, kind MasterDataKind, id uuid.UUID) error {
	record := newModel(kind)
	if record == nil {
		return gorm.ErrInvalidValue
	}
	result := r.db.WithContext(ctx).Delete(record, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func buildRecord(kind MasterDataKind, in *domain.MasterDataInput) interface{} {
	record := newModel(kind)
	if record == nil {
		return nil
	}
	applyInput(record, in)
	return record
}

// applyInput copies input fields onto the kind's concrete record. Status is
// only overwritten when the input carries one, so updates that omit it keep
// the stored value instead of resetting the row to active.
func applyInput(record interface{}, in *domain.MasterDataInput) {
	switch row := record.(type) {
	case *domain.Customer:
		row.Code = in.Code
		row.Name = in.Name
		row.Field = in.Field
		row.ContactPerson = in.ContactPerson
		row.Phone = in.Phone
		row.Email = in.Email
		row.Address = in.Address
		row.TaxCode = in.TaxCode
		row.Group = in.Group
		row.Status = resolveStatus(row.Status, in.Status)
	case *domain.Supplier:
		row.Code = in.Code
		row.Name = in.Name
		row.Field = in.Field
		row.TaxCode = in.TaxCode
		row.ContactPerson = in.ContactPerson
		row.Phone = in.Phone
		row.Email = in.Email
		row.Address = in.Address
		row.Status = resolveStatus(row.Status, in.Status)
	case *domain.Software:
		row.Code = in.Code
		row.Name = in.Name
		row.Description = in.Description
	case *domain.Status:
		row.Code = in.Code
		row.Name = in.Name
		row.Description = in.Description
		row.Color = in.Color
	case *domain.ContractType:
		row.Code = in.Code
		row.Name = in.Name
		row.Description = in.Description
	case *domain.Unit:
		row.Code = in.Code
		row.Name = in.Name
		row.Description = in.Description
	case *domain.Personnel:
		row.Code = in.Code
		row.Name = in.Name
		row.Description = in.Description
		row.Group = in.Group
		row.Email = in.Email
		row.Phone = in.Phone
		row.Status = resolveStatus(row.Status, in.Status)
	}
}

// resolveStatus picks the submitted status when present, keeps the stored one
// otherwise, and falls back to active for fresh records.
func resolveStatus(current domain.RecordStatus, submitted *domain.RecordStatus) domain.RecordStatus {
	if submitted != nil {
		return *submitted
	}
	if current == "" {
		return domain.RecordStatusActive
	}
	return current
}
