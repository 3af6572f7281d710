package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// BeforeCreate assigns a fresh UUID when the caller did not supply one.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// RecordStatus is the shared active/inactive flag on reference data
type RecordStatus string

const (
	RecordStatusActive   RecordStatus = "active"
	RecordStatusInactive RecordStatus = "inactive"
)

// Customer is a master-data row describing a contract counterparty
type Customer struct {
	BaseModel
	Code          string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name          string       `gorm:"type:varchar(255);not null;index" json:"name"`
	Field         string       `gorm:"type:varchar(100)" json:"field,omitempty"`
	ContactPerson string       `gorm:"type:varchar(100);column:contact_person" json:"contactPerson,omitempty"`
	Phone         string       `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email         string       `gorm:"type:varchar(100)" json:"email,omitempty"`
	Address       string       `gorm:"type:text" json:"address,omitempty"`
	TaxCode       string       `gorm:"type:varchar(50);column:tax_code" json:"taxCode,omitempty"`
	Group         string       `gorm:"type:varchar(50)" json:"group,omitempty"`
	Status        RecordStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

func (Customer) TableName() string { return "master_data_customers" }

// Supplier is a master-data row for expense counterparties
type Supplier struct {
	BaseModel
	Code          string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name          string       `gorm:"type:varchar(255);not null;index" json:"name"`
	Field         string       `gorm:"type:varchar(100)" json:"field,omitempty"`
	TaxCode       string       `gorm:"type:varchar(50);column:tax_code" json:"taxCode,omitempty"`
	ContactPerson string       `gorm:"type:varchar(100);column:contact_person" json:"contactPerson,omitempty"`
	Phone         string       `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Email         string       `gorm:"type:varchar(100)" json:"email,omitempty"`
	Address       string       `gorm:"type:text" json:"address,omitempty"`
	Status        RecordStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

func (Supplier) TableName() string { return "master_data_suppliers" }

// Software is a master-data row in the software catalog
type Software struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Software) TableName() string { return "master_data_software" }

// Status is a master-data row describing a contract delivery status
type Status struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
	Color       string `gorm:"type:varchar(100)" json:"color,omitempty"`
}

func (Status) TableName() string { return "master_data_status" }

// ContractType is a master-data row classifying contracts
type ContractType struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (ContractType) TableName() string { return "master_data_contract_types" }

// Unit is a master-data row for executing units
type Unit struct {
	BaseModel
	Code        string `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	Description string `gorm:"type:text" json:"description,omitempty"`
}

func (Unit) TableName() string { return "master_data_units" }

// Personnel is a master-data row for staff referenced by reports
type Personnel struct {
	BaseModel
	Code        string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string       `gorm:"type:varchar(100);not null" json:"name"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	Group       string       `gorm:"type:varchar(50)" json:"group,omitempty"`
	Email       string       `gorm:"type:varchar(100)" json:"email,omitempty"`
	Phone       string       `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Status      RecordStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

func (Personnel) TableName() string { return "master_data_personnel" }

// Contract is the aggregate root. It owns payment terms, expenses, project
// members and attachments, and is associated many-to-many with software types.
type Contract struct {
	BaseModel
	Code           string               `gorm:"type:varchar(100);not null;uniqueIndex" json:"code"`
	SignDate       time.Time            `gorm:"type:date;not null;column:sign_date" json:"signDate"`
	Content        string               `gorm:"type:text" json:"content,omitempty"`
	CustomerID     uuid.UUID            `gorm:"type:uuid;not null;index;column:customer_id" json:"customerId"`
	Customer       *Customer            `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"customer,omitempty"`
	ContractTypeID *uuid.UUID           `gorm:"type:uuid;column:contract_type_id" json:"contractTypeId,omitempty"`
	ContractType   *ContractType        `gorm:"foreignKey:ContractTypeID;constraint:OnDelete:SET NULL" json:"contractType,omitempty"`
	ValuePreVAT    int64                `gorm:"not null;default:0;column:value_pre_vat" json:"valuePreVat"`
	VAT            int64                `gorm:"not null;default:0;column:vat" json:"vat"`
	ValuePostVAT   int64                `gorm:"not null;default:0;column:value_post_vat" json:"valuePostVat"`
	Duration       string               `gorm:"type:varchar(100)" json:"duration,omitempty"`
	StatusID       *uuid.UUID           `gorm:"type:uuid;column:status_id" json:"statusId,omitempty"`
	Status         *Status              `gorm:"foreignKey:StatusID;constraint:OnDelete:SET NULL" json:"status,omitempty"`
	AcceptanceDate *time.Time           `gorm:"type:date;column:acceptance_date" json:"acceptanceDate,omitempty"`
	CreatedByID    *uuid.UUID           `gorm:"type:uuid;column:created_by_id" json:"createdById,omitempty"`
	CreatedBy      *User                `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"createdBy,omitempty"`
	Version        int64                `gorm:"not null;default:1" json:"version"`
	SoftwareTypes  []Software           `gorm:"many2many:contract_software;constraint:OnDelete:CASCADE" json:"softwareTypes,omitempty"`
	PaymentTerms   []PaymentTerm        `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"paymentTerms,omitempty"`
	Expenses       []Expense            `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"expenses,omitempty"`
	Members        []ProjectMember      `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Attachments    []ContractAttachment `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// InvoiceStatus tracks whether an invoice was exported for a payment term
type InvoiceStatus string

const (
	InvoiceStatusExported    InvoiceStatus = "exported"
	InvoiceStatusNotExported InvoiceStatus = "not_exported"
)

// PaymentTerm is one installment of a contract's payment schedule
type PaymentTerm struct {
	BaseModel
	ContractID     uuid.UUID     `gorm:"type:uuid;not null;index;column:contract_id" json:"contractId"`
	Batch          string        `gorm:"type:varchar(100);not null" json:"batch"`
	Content        string        `gorm:"type:text" json:"content,omitempty"`
	Ratio          float64       `gorm:"type:decimal(5,2);not null" json:"ratio"`
	Value          int64         `gorm:"not null" json:"value"`
	IsCollected    bool          `gorm:"not null;default:false;column:is_collected" json:"isCollected"`
	CollectionDate *time.Time    `gorm:"type:date;column:collection_date" json:"collectionDate,omitempty"`
	InvoiceStatus  InvoiceStatus `gorm:"type:varchar(20);not null;default:'not_exported';column:invoice_status" json:"invoiceStatus"`
}

func (PaymentTerm) TableName() string { return "payment_terms" }

// PaymentStatus tracks whether an expense has been paid
type PaymentStatus string

const (
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusUnpaid PaymentStatus = "unpaid"
)

// Expense is an outgoing cost booked against a contract
type Expense struct {
	BaseModel
	ContractID     uuid.UUID     `gorm:"type:uuid;not null;index;column:contract_id" json:"contractId"`
	Category       string        `gorm:"type:varchar(100);not null" json:"category"`
	Description    string        `gorm:"type:text" json:"description,omitempty"`
	SupplierID     *uuid.UUID    `gorm:"type:uuid;column:supplier_id" json:"supplierId,omitempty"`
	Supplier       *Supplier     `gorm:"foreignKey:SupplierID;constraint:OnDelete:SET NULL" json:"supplier,omitempty"`
	TotalAmount    int64         `gorm:"not null;column:total_amount" json:"totalAmount"`
	ContractStatus string        `gorm:"type:varchar(50);column:contract_status" json:"contractStatus,omitempty"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(20);not null;default:'unpaid';column:payment_status" json:"paymentStatus"`
	PIC            string        `gorm:"type:varchar(100);column:pic" json:"pic,omitempty"`
	Note           string        `gorm:"type:text" json:"note,omitempty"`
}

func (Expense) TableName() string { return "expenses" }

// ProjectMember is a person staffed on a contract. Name and role are free
// text, deliberately not linked to the personnel master data.
type ProjectMember struct {
	BaseModel
	ContractID uuid.UUID `gorm:"type:uuid;not null;index;column:contract_id" json:"contractId"`
	MemberCode string    `gorm:"type:varchar(50);column:member_code" json:"memberCode,omitempty"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	Role       string    `gorm:"type:varchar(100)" json:"role,omitempty"`
}

func (ProjectMember) TableName() string { return "project_members" }

// ContractAttachment is an uploaded file linked to a contract
type ContractAttachment struct {
	BaseModel
	ContractID  uuid.UUID  `gorm:"type:uuid;not null;index;column:contract_id" json:"contractId"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Size        int64      `gorm:"not null;default:0" json:"size"`
	ContentType string     `gorm:"type:varchar(100);column:content_type" json:"contentType,omitempty"`
	UploadDate  *time.Time `gorm:"type:date;column:upload_date" json:"uploadDate,omitempty"`
	StoragePath string     `gorm:"type:varchar(500);column:storage_path" json:"storagePath,omitempty"`
}

func (ContractAttachment) TableName() string { return "contract_attachments" }

// WarningKind classifies a contract milestone alert
type WarningKind string

const (
	WarningAcceptanceUpcoming WarningKind = "acceptance_upcoming"
	WarningAcceptanceOverdue  WarningKind = "acceptance_overdue"
	WarningPaymentUpcoming    WarningKind = "payment_upcoming"
	WarningPaymentOverdue     WarningKind = "payment_overdue"
	WarningContractExpired    WarningKind = "contract_expired"
)

// IsValid checks if the WarningKind is a valid enum value
func (k WarningKind) IsValid() bool {
	switch k {
	case WarningAcceptanceUpcoming, WarningAcceptanceOverdue,
		WarningPaymentUpcoming, WarningPaymentOverdue, WarningContractExpired:
		return true
	}
	return false
}

// WarningStatus tracks how far a warning has been handled
type WarningStatus string

const (
	WarningStatusPending    WarningStatus = "pending"
	WarningStatusProcessing WarningStatus = "processing"
	WarningStatusResolved   WarningStatus = "resolved"
)

// IsValid checks if the WarningStatus is a valid enum value
func (s WarningStatus) IsValid() bool {
	switch s {
	case WarningStatusPending, WarningStatusProcessing, WarningStatusResolved:
		return true
	}
	return false
}

// Warning is a due-date alert derived from a contract. Contract code and
// customer name are denormalized at creation so the row stays readable even
// if the contract's display fields change later.
type Warning struct {
	BaseModel
	Kind         WarningKind   `gorm:"type:varchar(50);not null;index;column:type" json:"type"`
	ContractID   uuid.UUID     `gorm:"type:uuid;not null;index;column:contract_id" json:"contractId"`
	Contract     *Contract     `gorm:"foreignKey:ContractID;constraint:OnDelete:CASCADE" json:"contract,omitempty"`
	ContractCode string        `gorm:"type:varchar(100);not null;column:contract_code" json:"contractCode"`
	CustomerName string        `gorm:"type:varchar(255);not null;column:customer_name" json:"customerName"`
	DueDate      time.Time     `gorm:"type:date;not null;index;column:due_date" json:"dueDate"`
	DaysDiff     int           `gorm:"not null;column:days_diff" json:"daysDiff"`
	Amount       int64         `gorm:"default:0" json:"amount"`
	PIC          string        `gorm:"type:varchar(100);column:pic" json:"pic,omitempty"`
	Status       WarningStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Note         string        `gorm:"type:text" json:"note,omitempty"`
	Details      string        `gorm:"type:varchar(255)" json:"details,omitempty"`
}

func (Warning) TableName() string { return "warnings" }

// UserRole is the coarse role gating API routes
type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleManager UserRole = "manager"
	RoleAdmin   UserRole = "admin"
)

// IsValid checks if the UserRole is a valid enum value
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// User is an account that can sign in to the API
type User struct {
	BaseModel
	Name         string       `gorm:"type:varchar(100);not null" json:"name"`
	Email        string       `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	PasswordHash string       `gorm:"type:varchar(255);not null;column:password" json:"-"`
	GroupID      *uuid.UUID   `gorm:"type:uuid;column:group_id" json:"groupId,omitempty"`
	Group        *UserGroup   `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Role         UserRole     `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Status       RecordStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

func (User) TableName() string { return "users" }

// UserGroup is a named set of users sharing a permission matrix
type UserGroup struct {
	BaseModel
	Code   string       `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name   string       `gorm:"type:varchar(100);not null" json:"name"`
	Note   string       `gorm:"type:text" json:"note,omitempty"`
	Status RecordStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
}

func (UserGroup) TableName() string { return "user_groups" }

// Permission is one screen entry in a group's permission matrix.
// ParentID is a reserved self-reference for hierarchical grouping; the seeder
// leaves it null and population is up to the caller.
type Permission struct {
	BaseModel
	GroupID   uuid.UUID  `gorm:"type:uuid;not null;index;column:group_id" json:"groupId"`
	Code      string     `gorm:"type:varchar(50);not null" json:"code"`
	Name      string     `gorm:"type:varchar(100);not null" json:"name"`
	IsParent  bool       `gorm:"not null;default:false;column:is_parent" json:"isParent"`
	ParentID  *uuid.UUID `gorm:"type:uuid;column:parent_id" json:"parentId,omitempty"`
	CanView   bool       `gorm:"not null;default:false;column:can_view" json:"canView"`
	CanAdd    bool       `gorm:"not null;default:false;column:can_add" json:"canAdd"`
	CanEdit   bool       `gorm:"not null;default:false;column:can_edit" json:"canEdit"`
	CanDelete bool       `gorm:"not null;default:false;column:can_delete" json:"canDelete"`
}

func (Permission) TableName() string { return "permissions" }

// AuditLog is an append-only record of who did what. Rows are never updated
// or deleted by the application.
type AuditLog struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID    *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"userId,omitempty"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Screen    string     `gorm:"type:varchar(50);not null;index" json:"screen"`
	Action    string     `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   string     `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress string     `gorm:"type:varchar(45);column:ip_address" json:"ipAddress,omitempty"`
	UserAgent string     `gorm:"type:text;column:user_agent" json:"userAgent,omitempty"`
	CreatedAt time.Time  `gorm:"not null;index" json:"createdAt"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// BeforeCreate assigns a fresh UUID when the caller did not supply one.
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ConfigValueType declares how a SystemConfig value should be parsed
type ConfigValueType string

const (
	ConfigTypeString  ConfigValueType = "string"
	ConfigTypeNumber  ConfigValueType = "number"
	ConfigTypeBoolean ConfigValueType = "boolean"
	ConfigTypeJSON    ConfigValueType = "json"
)

// SystemConfig is a key/value setting; only rows flagged editable may be
// changed through the API.
type SystemConfig struct {
	BaseModel
	Key         string          `gorm:"type:varchar(100);not null;uniqueIndex" json:"key"`
	Value       string          `gorm:"type:text" json:"value"`
	ValueType   ConfigValueType `gorm:"type:varchar(20);not null;default:'string';column:type" json:"type"`
	Category    string          `gorm:"type:varchar(50);index" json:"category,omitempty"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	IsEditable  bool            `gorm:"not null;default:true;column:is_editable" json:"isEditable"`
}

func (SystemConfig) TableName() string { return "system_configs" }
