package mapper

import (
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
)

const dateLayout = "2006-01-02"
const timestampLayout = "2006-01-02T15:04:05Z"

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func customerRef(c *domain.Customer) *domain.RefDTO {
	if c == nil {
		return nil
	}
	return &domain.RefDTO{ID: c.ID, Code: c.Code, Name: c.Name}
}

func supplierRef(s *domain.Supplier) *domain.RefDTO {
	if s == nil {
		return nil
	}
	return &domain.RefDTO{ID: s.ID, Code: s.Code, Name: s.Name}
}

func contractTypeRef(t *domain.ContractType) *domain.RefDTO {
	if t == nil {
		return nil
	}
	return &domain.RefDTO{ID: t.ID, Code: t.Code, Name: t.Name}
}

func statusRef(s *domain.Status) *domain.StatusRefDTO {
	if s == nil {
		return nil
	}
	return &domain.StatusRefDTO{ID: s.ID, Code: s.Code, Name: s.Name, Color: s.Color}
}

func userRef(u *domain.User) *domain.UserRefDTO {
	if u == nil {
		return nil
	}
	return &domain.UserRefDTO{ID: u.ID, Name: u.Name, Email: u.Email}
}

func softwareRefs(software []domain.Software) []domain.RefDTO {
	refs := make([]domain.RefDTO, 0, len(software))
	for _, s := range software {
		refs = append(refs, domain.RefDTO{ID: s.ID, Code: s.Code, Name: s.Name})
	}
	return refs
}

// ToPaymentTermDTO converts PaymentTerm to PaymentTermDTO
func ToPaymentTermDTO(term *domain.PaymentTerm) domain.PaymentTermDTO {
	return domain.PaymentTermDTO{
		ID:             term.ID,
		ContractID:     term.ContractID,
		Batch:          term.Batch,
		Content:        term.Content,
		Ratio:          term.Ratio,
		Value:          term.Value,
		IsCollected:    term.IsCollected,
		CollectionDate: formatDatePtr(term.CollectionDate),
		InvoiceStatus:  term.InvoiceStatus,
	}
}

// ToExpenseDTO converts Expense to ExpenseDTO
func ToExpenseDTO(expense *domain.Expense) domain.ExpenseDTO {
	return domain.ExpenseDTO{
		ID:             expense.ID,
		ContractID:     expense.ContractID,
		Category:       expense.Category,
		Description:    expense.Description,
		SupplierID:     expense.SupplierID,
		Supplier:       supplierRef(expense.Supplier),
		TotalAmount:    expense.TotalAmount,
		ContractStatus: expense.ContractStatus,
		PaymentStatus:  expense.PaymentStatus,
		PIC:            expense.PIC,
		Note:           expense.Note,
	}
}

// ToProjectMemberDTO converts ProjectMember to ProjectMemberDTO
func ToProjectMemberDTO(member *domain.ProjectMember) domain.ProjectMemberDTO {
	return domain.ProjectMemberDTO{
		ID:         member.ID,
		ContractID: member.ContractID,
		MemberCode: member.MemberCode,
		Name:       member.Name,
		Role:       member.Role,
	}
}

// ToAttachmentDTO converts ContractAttachment to AttachmentDTO
func ToAttachmentDTO(attachment *domain.ContractAttachment) domain.AttachmentDTO {
	return domain.AttachmentDTO{
		ID:          attachment.ID,
		ContractID:  attachment.ContractID,
		Name:        attachment.Name,
		Size:        attachment.Size,
		ContentType: attachment.ContentType,
		UploadDate:  formatDatePtr(attachment.UploadDate),
	}
}

// ToContractDTO converts a fully loaded Contract aggregate to its DTO
func ToContractDTO(contract *domain.Contract) domain.ContractDTO {
	dto := domain.ContractDTO{
		ID:             contract.ID,
		Code:           contract.Code,
		SignDate:       formatDate(contract.SignDate),
		Content:        contract.Content,
		CustomerID:     contract.CustomerID,
		Customer:       customerRef(contract.Customer),
		ContractTypeID: contract.ContractTypeID,
		ContractType:   contractTypeRef(contract.ContractType),
		ValuePreVAT:    contract.ValuePreVAT,
		VAT:            contract.VAT,
		ValuePostVAT:   contract.ValuePostVAT,
		Duration:       contract.Duration,
		StatusID:       contract.StatusID,
		Status:         statusRef(contract.Status),
		AcceptanceDate: formatDatePtr(contract.AcceptanceDate),
		CreatedBy:      userRef(contract.CreatedBy),
		Version:        contract.Version,
		SoftwareTypes:  softwareRefs(contract.SoftwareTypes),
		PaymentTerms:   make([]domain.PaymentTermDTO, 0, len(contract.PaymentTerms)),
		Expenses:       make([]domain.ExpenseDTO, 0, len(contract.Expenses)),
		Members:        make([]domain.ProjectMemberDTO, 0, len(contract.Members)),
		Attachments:    make([]domain.AttachmentDTO, 0, len(contract.Attachments)),
		CreatedAt:      contract.CreatedAt.Format(timestampLayout),
		UpdatedAt:      contract.UpdatedAt.Format(timestampLayout),
	}
	for i := range contract.PaymentTerms {
		dto.PaymentTerms = append(dto.PaymentTerms, ToPaymentTermDTO(&contract.PaymentTerms[i]))
	}
	for i := range contract.Expenses {
		dto.Expenses = append(dto.Expenses, ToExpenseDTO(&contract.Expenses[i]))
	}
	for i := range contract.Members {
		dto.Members = append(dto.Members, ToProjectMemberDTO(&contract.Members[i]))
	}
	for i := range contract.Attachments {
		dto.Attachments = append(dto.Attachments, ToAttachmentDTO(&contract.Attachments[i]))
	}
	return dto
}

// ToContractSummaryDTO converts a Contract to its flat list row
func ToContractSummaryDTO(contract *domain.Contract) domain.ContractSummaryDTO {
	return domain.ContractSummaryDTO{
		ID:            contract.ID,
		Code:          contract.Code,
		SignDate:      formatDate(contract.SignDate),
		CustomerID:    contract.CustomerID,
		Customer:      customerRef(contract.Customer),
		ContractType:  contractTypeRef(contract.ContractType),
		Status:        statusRef(contract.Status),
		ValuePreVAT:   contract.ValuePreVAT,
		VAT:           contract.VAT,
		ValuePostVAT:  contract.ValuePostVAT,
		Duration:      contract.Duration,
		SoftwareTypes: softwareRefs(contract.SoftwareTypes),
		CreatedBy:     userRef(contract.CreatedBy),
		CreatedAt:     contract.CreatedAt.Format(timestampLayout),
	}
}

// ToWarningDTO converts Warning to WarningDTO
func ToWarningDTO(warning *domain.Warning) domain.WarningDTO {
	return domain.WarningDTO{
		ID:           warning.ID,
		Kind:         warning.Kind,
		ContractID:   warning.ContractID,
		ContractCode: warning.ContractCode,
		CustomerName: warning.CustomerName,
		DueDate:      formatDate(warning.DueDate),
		DaysDiff:     warning.DaysDiff,
		Amount:       warning.Amount,
		PIC:          warning.PIC,
		Status:       warning.Status,
		Note:         warning.Note,
		Details:      warning.Details,
		CreatedAt:    warning.CreatedAt.Format(timestampLayout),
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	dto := domain.UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		GroupID:   user.GroupID,
		Status:    user.Status,
		CreatedAt: user.CreatedAt.Format(timestampLayout),
	}
	if user.Group != nil {
		dto.Group = &domain.RefDTO{ID: user.Group.ID, Code: user.Group.Code, Name: user.Group.Name}
	}
	return dto
}
