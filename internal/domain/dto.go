package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// ListResponse wraps collection responses with a count, matching the
// frontend's expectations.
type ListResponse struct {
	Count int         `json:"count"`
	Data  interface{} `json:"data"`
}

// MessageResponse carries a bare confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}

// ===== Contract =====

// RefDTO is a shallow reference to a master-data row embedded in responses
type RefDTO struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name"`
}

// StatusRefDTO carries the display color alongside the reference fields
type StatusRefDTO struct {
	ID    uuid.UUID `json:"id"`
	Code  string    `json:"code"`
	Name  string    `json:"name"`
	Color string    `json:"color,omitempty"`
}

// UserRefDTO is a shallow reference to the creating user
type UserRefDTO struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// PaymentTermDTO is one installment in a contract response
type PaymentTermDTO struct {
	ID             uuid.UUID     `json:"id"`
	ContractID     uuid.UUID     `json:"contractId"`
	Batch          string        `json:"batch"`
	Content        string        `json:"content,omitempty"`
	Ratio          float64       `json:"ratio"`
	Value          int64         `json:"value"`
	IsCollected    bool          `json:"isCollected"`
	CollectionDate *string       `json:"collectionDate,omitempty"` // YYYY-MM-DD
	InvoiceStatus  InvoiceStatus `json:"invoiceStatus"`
}

// ExpenseDTO is one expense row in a contract response
type ExpenseDTO struct {
	ID             uuid.UUID     `json:"id"`
	ContractID     uuid.UUID     `json:"contractId"`
	Category       string        `json:"category"`
	Description    string        `json:"description,omitempty"`
	SupplierID     *uuid.UUID    `json:"supplierId,omitempty"`
	Supplier       *RefDTO       `json:"supplier,omitempty"`
	TotalAmount    int64         `json:"totalAmount"`
	ContractStatus string        `json:"contractStatus,omitempty"`
	PaymentStatus  PaymentStatus `json:"paymentStatus"`
	PIC            string        `json:"pic,omitempty"`
	Note           string        `json:"note,omitempty"`
}

// ProjectMemberDTO is one staffing row in a contract response
type ProjectMemberDTO struct {
	ID         uuid.UUID `json:"id"`
	ContractID uuid.UUID `json:"contractId"`
	MemberCode string    `json:"memberCode,omitempty"`
	Name       string    `json:"name"`
	Role       string    `json:"role,omitempty"`
}

// AttachmentDTO is one uploaded file in a contract response
type AttachmentDTO struct {
	ID          uuid.UUID `json:"id"`
	ContractID  uuid.UUID `json:"contractId"`
	Name        string    `json:"name"`
	Size        int64     `json:"size"`
	ContentType string    `json:"contentType,omitempty"`
	UploadDate  *string   `json:"uploadDate,omitempty"` // YYYY-MM-DD
}

// ContractDTO is the full aggregate view returned after every read or write
type ContractDTO struct {
	ID             uuid.UUID          `json:"id"`
	Code           string             `json:"code"`
	SignDate       string             `json:"signDate"` // YYYY-MM-DD
	Content        string             `json:"content,omitempty"`
	CustomerID     uuid.UUID          `json:"customerId"`
	Customer       *RefDTO            `json:"customer,omitempty"`
	ContractTypeID *uuid.UUID         `json:"contractTypeId,omitempty"`
	ContractType   *RefDTO            `json:"contractType,omitempty"`
	ValuePreVAT    int64              `json:"valuePreVat"`
	VAT            int64              `json:"vat"`
	ValuePostVAT   int64              `json:"valuePostVat"`
	Duration       string             `json:"duration,omitempty"`
	StatusID       *uuid.UUID         `json:"statusId,omitempty"`
	Status         *StatusRefDTO      `json:"status,omitempty"`
	AcceptanceDate *string            `json:"acceptanceDate,omitempty"` // YYYY-MM-DD
	CreatedBy      *UserRefDTO        `json:"createdBy,omitempty"`
	Version        int64              `json:"version"`
	SoftwareTypes  []RefDTO           `json:"softwareTypes"`
	PaymentTerms   []PaymentTermDTO   `json:"paymentTerms"`
	Expenses       []ExpenseDTO       `json:"expenses"`
	Members        []ProjectMemberDTO `json:"members"`
	Attachments    []AttachmentDTO    `json:"attachments"`
	CreatedAt      string             `json:"createdAt"` // ISO 8601
	UpdatedAt      string             `json:"updatedAt"` // ISO 8601
}

// ContractSummaryDTO is the flat row used by the contract list
type ContractSummaryDTO struct {
	ID            uuid.UUID     `json:"id"`
	Code          string        `json:"code"`
	SignDate      string        `json:"signDate"`
	CustomerID    uuid.UUID     `json:"customerId"`
	Customer      *RefDTO       `json:"customer,omitempty"`
	ContractType  *RefDTO       `json:"contractType,omitempty"`
	Status        *StatusRefDTO `json:"status,omitempty"`
	ValuePreVAT   int64         `json:"valuePreVat"`
	VAT           int64         `json:"vat"`
	ValuePostVAT  int64         `json:"valuePostVat"`
	Duration      string        `json:"duration,omitempty"`
	SoftwareTypes []RefDTO      `json:"softwareTypes"`
	CreatedBy     *UserRefDTO   `json:"createdBy,omitempty"`
	CreatedAt     string        `json:"createdAt"`
}

// PaymentTermInput is one submitted installment. A nil ID means "insert a
// new row"; a non-nil ID that resolves to a stored row of the same contract
// means "update that row in place". IDs that do not resolve are treated as
// new rows and replaced with fresh identifiers.
type PaymentTermInput struct {
	ID             *uuid.UUID    `json:"id,omitempty"`
	Batch          string        `json:"batch" validate:"required,max=100"`
	Content        string        `json:"content,omitempty"`
	Ratio          float64       `json:"ratio" validate:"gte=0,lte=100"`
	Value          int64         `json:"value"`
	IsCollected    bool          `json:"isCollected"`
	CollectionDate *time.Time    `json:"collectionDate,omitempty"`
	InvoiceStatus  InvoiceStatus `json:"invoiceStatus,omitempty" validate:"omitempty,oneof=exported not_exported"`
}

// ExpenseInput is one submitted expense row; ID semantics as for PaymentTermInput
type ExpenseInput struct {
	ID             *uuid.UUID    `json:"id,omitempty"`
	Category       string        `json:"category" validate:"required,max=100"`
	Description    string        `json:"description,omitempty"`
	SupplierID     *uuid.UUID    `json:"supplierId,omitempty"`
	TotalAmount    int64         `json:"totalAmount"`
	ContractStatus string        `json:"contractStatus,omitempty" validate:"max=50"`
	PaymentStatus  PaymentStatus `json:"paymentStatus,omitempty" validate:"omitempty,oneof=paid unpaid"`
	PIC            string        `json:"pic,omitempty" validate:"max=100"`
	Note           string        `json:"note,omitempty"`
}

// ProjectMemberInput is one submitted staffing row; ID semantics as above
type ProjectMemberInput struct {
	ID         *uuid.UUID `json:"id,omitempty"`
	MemberCode string     `json:"memberCode,omitempty" validate:"max=50"`
	Name       string     `json:"name" validate:"required,max=100"`
	Role       string     `json:"role,omitempty" validate:"max=100"`
}

// CreateContractRequest carries the full aggregate for creation
type CreateContractRequest struct {
	Code           string               `json:"code" validate:"required,max=100"`
	SignDate       time.Time            `json:"signDate" validate:"required"`
	Content        string               `json:"content,omitempty"`
	CustomerID     uuid.UUID            `json:"customerId" validate:"required"`
	ContractTypeID *uuid.UUID           `json:"contractTypeId,omitempty"`
	ValuePreVAT    int64                `json:"valuePreVat"`
	VAT            int64                `json:"vat"`
	ValuePostVAT   int64                `json:"valuePostVat"`
	Duration       string               `json:"duration,omitempty" validate:"max=100"`
	StatusID       *uuid.UUID           `json:"statusId,omitempty"`
	AcceptanceDate *time.Time           `json:"acceptanceDate,omitempty"`
	SoftwareIDs    []uuid.UUID          `json:"softwareIds,omitempty"`
	PaymentTerms   []PaymentTermInput   `json:"paymentTerms,omitempty" validate:"dive"`
	Expenses       []ExpenseInput       `json:"expenses,omitempty" validate:"dive"`
	Members        []ProjectMemberInput `json:"members,omitempty" validate:"dive"`
}

// UpdateContractRequest carries a parent-field patch plus optional full
// replacement snapshots of the nested collections. A nil slice leaves the
// collection untouched; an empty slice deletes every row in it. Version, when
// supplied, must match the stored contract version or the update is refused.
type UpdateContractRequest struct {
	Code           *string              `json:"code,omitempty" validate:"omitempty,max=100"`
	SignDate       *time.Time           `json:"signDate,omitempty"`
	Content        *string              `json:"content,omitempty"`
	CustomerID     *uuid.UUID           `json:"customerId,omitempty"`
	ContractTypeID *uuid.UUID           `json:"contractTypeId,omitempty"`
	ValuePreVAT    *int64               `json:"valuePreVat,omitempty"`
	VAT            *int64               `json:"vat,omitempty"`
	ValuePostVAT   *int64               `json:"valuePostVat,omitempty"`
	Duration       *string              `json:"duration,omitempty" validate:"omitempty,max=100"`
	StatusID       *uuid.UUID           `json:"statusId,omitempty"`
	AcceptanceDate *time.Time           `json:"acceptanceDate,omitempty"`
	Version        *int64               `json:"version,omitempty"`
	SoftwareIDs    []uuid.UUID          `json:"softwareIds,omitempty"`
	PaymentTerms   []PaymentTermInput   `json:"paymentTerms,omitempty" validate:"omitempty,dive"`
	Expenses       []ExpenseInput       `json:"expenses,omitempty" validate:"omitempty,dive"`
	Members        []ProjectMemberInput `json:"members,omitempty" validate:"omitempty,dive"`
}

// ===== Warnings =====

// WarningDTO is the list/detail view of a warning
type WarningDTO struct {
	ID           uuid.UUID     `json:"id"`
	Kind         WarningKind   `json:"type"`
	ContractID   uuid.UUID     `json:"contractId"`
	ContractCode string        `json:"contractCode"`
	CustomerName string        `json:"customerName"`
	DueDate      string        `json:"dueDate"` // YYYY-MM-DD
	DaysDiff     int           `json:"daysDiff"`
	Amount       int64         `json:"amount"`
	PIC          string        `json:"pic,omitempty"`
	Status       WarningStatus `json:"status"`
	Note         string        `json:"note,omitempty"`
	Details      string        `json:"details,omitempty"`
	CreatedAt    string        `json:"createdAt"`
}

// CreateWarningRequest creates a warning manually
type CreateWarningRequest struct {
	Kind       WarningKind `json:"type" validate:"required,oneof=acceptance_upcoming acceptance_overdue payment_upcoming payment_overdue contract_expired"`
	ContractID uuid.UUID   `json:"contractId" validate:"required"`
	DueDate    time.Time   `json:"dueDate" validate:"required"`
	Amount     int64       `json:"amount"`
	PIC        string      `json:"pic,omitempty" validate:"max=100"`
	Note       string      `json:"note,omitempty"`
	Details    string      `json:"details,omitempty" validate:"max=255"`
}

// UpdateWarningRequest only allows moving the handling status and note
type UpdateWarningRequest struct {
	Status WarningStatus `json:"status" validate:"required,oneof=pending processing resolved"`
	Note   string        `json:"note,omitempty"`
}

// WarningFilters narrows the warning list query
type WarningFilters struct {
	Kind      *WarningKind
	Status    *WarningStatus
	StartDate *time.Time
	EndDate   *time.Time
}

// ===== Master data =====

// MasterDataInput is the generic payload for master-data writes. Fields that
// a given table does not have are ignored for that table.
type MasterDataInput struct {
	Code          string        `json:"code" validate:"required,max=50"`
	Name          string        `json:"name" validate:"required,max=255"`
	Description   string        `json:"description,omitempty"`
	Field         string        `json:"field,omitempty" validate:"max=100"`
	ContactPerson string        `json:"contactPerson,omitempty" validate:"max=100"`
	Phone         string        `json:"phone,omitempty" validate:"max=20"`
	Email         string        `json:"email,omitempty" validate:"omitempty,email"`
	Address       string        `json:"address,omitempty"`
	TaxCode       string        `json:"taxCode,omitempty" validate:"max=50"`
	Group         string        `json:"group,omitempty" validate:"max=50"`
	Color         string        `json:"color,omitempty" validate:"max=100"`
	Status        *RecordStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// ===== Auth & admin =====

// LoginRequest authenticates a user by email and password
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest creates a new account (admin only)
type RegisterRequest struct {
	Name     string   `json:"name" validate:"required,max=100"`
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	Role     UserRole `json:"role,omitempty" validate:"omitempty,oneof=user manager admin"`
}

// UpdateProfileRequest lets an authenticated user edit their own account.
// Changing the password requires the current one.
type UpdateProfileRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Email           *string `json:"email,omitempty" validate:"omitempty,email"`
	CurrentPassword *string `json:"currentPassword,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty" validate:"omitempty,min=6"`
}

// UserDTO is the public view of a user account
type UserDTO struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      UserRole     `json:"role"`
	GroupID   *uuid.UUID   `json:"groupId,omitempty"`
	Group     *RefDTO      `json:"group,omitempty"`
	Status    RecordStatus `json:"status"`
	CreatedAt string       `json:"createdAt"`
}

// LoginResponse carries the signed token and the authenticated user
type LoginResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

// UpdateUserRequest patches an account; a non-empty password is re-hashed
type UpdateUserRequest struct {
	Name     *string       `json:"name,omitempty" validate:"omitempty,max=100"`
	Email    *string       `json:"email,omitempty" validate:"omitempty,email"`
	Role     *UserRole     `json:"role,omitempty" validate:"omitempty,oneof=user manager admin"`
	GroupID  *uuid.UUID    `json:"groupId,omitempty"`
	Status   *RecordStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Password *string       `json:"password,omitempty" validate:"omitempty,min=6"`
}

// CreateGroupRequest creates a permission group
type CreateGroupRequest struct {
	Code string `json:"code" validate:"required,max=50"`
	Name string `json:"name" validate:"required,max=100"`
	Note string `json:"note,omitempty"`
}

// UpdateGroupRequest patches a permission group
type UpdateGroupRequest struct {
	Code   *string       `json:"code,omitempty" validate:"omitempty,max=50"`
	Name   *string       `json:"name,omitempty" validate:"omitempty,max=100"`
	Note   *string       `json:"note,omitempty"`
	Status *RecordStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// PermissionGrantUpdate is one tuple of a bulk permission update
type PermissionGrantUpdate struct {
	ID        uuid.UUID `json:"id" validate:"required"`
	CanView   bool      `json:"canView"`
	CanAdd    bool      `json:"canAdd"`
	CanEdit   bool      `json:"canEdit"`
	CanDelete bool      `json:"canDelete"`
}

// BulkPermissionsRequest applies several grant tuples in one call
type BulkPermissionsRequest struct {
	Permissions []PermissionGrantUpdate `json:"permissions" validate:"required,dive"`
}

// UpdateConfigRequest changes the value of an editable system config row
type UpdateConfigRequest struct {
	Value string `json:"value"`
}

// AuditLogFilters narrows the audit log query
type AuditLogFilters struct {
	Screen    string
	Action    string
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
}

// ===== Dashboard =====

// KPIDTO is one headline metric card
type KPIDTO struct {
	Title      string `json:"title"`
	Value      int64  `json:"value"`
	Icon       string `json:"icon"`
	Trend      int    `json:"trend"`
	IsPositive bool   `json:"isPositive"`
	TrendLabel string `json:"trendLabel"`
}

// TopCustomerDTO is one row of the revenue leaderboard
type TopCustomerDTO struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Revenue   int64  `json:"revenue"`
	Contracts int    `json:"contracts"`
}
