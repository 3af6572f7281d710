package service

import "errors"

// Sentinel errors returned by services. Handlers map these onto HTTP status
// codes in one place.
var (
	ErrContractNotFound      = errors.New("contract not found")
	ErrPaymentTermNotFound   = errors.New("payment term not found")
	ErrExpenseNotFound       = errors.New("expense not found")
	ErrMemberNotFound        = errors.New("project member not found")
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrWarningNotFound       = errors.New("warning not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrGroupNotFound         = errors.New("group not found")
	ErrPermissionNotFound    = errors.New("permission not found")
	ErrConfigNotFound        = errors.New("config entry not found")
	ErrItemNotFound          = errors.New("item not found")
	ErrAttachmentNotFound    = errors.New("attachment not found")
	ErrAuditLogNotFound      = errors.New("audit log not found")
	ErrInvalidMasterDataKind = errors.New("unknown master data type")
	ErrDuplicateCode         = errors.New("code already in use")
	ErrDuplicateContract     = errors.New("contract code already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInactiveAccount       = errors.New("account is deactivated")
	ErrEmailTaken            = errors.New("email already registered")
	ErrConfigNotEditable     = errors.New("config entry is not editable")
	ErrVersionConflict       = errors.New("contract was modified by someone else")
	ErrGroupInUse            = errors.New("group still has members")
	ErrItemInUse             = errors.New("item is still referenced")
)
