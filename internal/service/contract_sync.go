package service

// Full-snapshot updates for the contract aggregate. The client resubmits the
// complete state of each nested collection; the reconciliation below works out
// the row-level deletes, updates and inserts and applies them atomically with
// the parent patch.

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Update patches the contract's own fields and reconciles every submitted
// nested collection against the stored rows. A nil collection in the request
// leaves that collection untouched; an empty one deletes all its rows. The
// whole operation runs in one transaction and the reloaded aggregate is
// returned on success.
func (s *ContractService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateContractRequest) (*domain.ContractDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contract domain.Contract
		if err := tx.Where("id = ?", id).First(&contract).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractNotFound
			}
			return err
		}

		if req.Version != nil && *req.Version != contract.Version {
			return ErrVersionConflict
		}

		if err := s.applyParentPatch(ctx, tx, &contract, req); err != nil {
			return err
		}

		contract.Version++
		if err := tx.Save(&contract).Error; err != nil {
			return fmt.Errorf("failed to update contract: %w", err)
		}

		if req.PaymentTerms != nil {
			if err := syncPaymentTerms(tx, contract.ID, req.PaymentTerms); err != nil {
				return err
			}
		}
		if req.Expenses != nil {
			if err := syncExpenses(tx, contract.ID, req.Expenses); err != nil {
				return err
			}
		}
		if req.Members != nil {
			if err := syncMembers(tx, contract.ID, req.Members); err != nil {
				return err
			}
		}
		if req.SoftwareIDs != nil {
			if err := s.replaceSoftware(ctx, tx, &contract, req.SoftwareIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("contract updated", zap.String("contract_id", id.String()))
	return s.getDTO(ctx, id)
}

// applyParentPatch copies non-nil request fields onto the contract row,
// re-checking code uniqueness and customer existence when those change.
func (s *ContractService) applyParentPatch(ctx context.Context, tx *gorm.DB, contract *domain.Contract, req *domain.UpdateContractRequest) error {
	if req.Code != nil && *req.Code != contract.Code {
		var count int64
		if err := tx.Model(&domain.Contract{}).
			Where("code = ? AND id != ?", *req.Code, contract.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateContract
		}
		contract.Code = *req.Code
	}
	if req.CustomerID != nil && *req.CustomerID != contract.CustomerID {
		var count int64
		if err := tx.Model(&domain.Customer{}).
			Where("id = ?", *req.CustomerID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrCustomerNotFound
		}
		contract.CustomerID = *req.CustomerID
	}
	if req.SignDate != nil {
		contract.SignDate = *req.SignDate
	}
	if req.Content != nil {
		contract.Content = *req.Content
	}
	if req.ContractTypeID != nil {
		contract.ContractTypeID = req.ContractTypeID
	}
	if req.ValuePreVAT != nil {
		contract.ValuePreVAT = *req.ValuePreVAT
	}
	if req.VAT != nil {
		contract.VAT = *req.VAT
	}
	if req.ValuePostVAT != nil {
		contract.ValuePostVAT = *req.ValuePostVAT
	}
	if req.Duration != nil {
		contract.Duration = *req.Duration
	}
	if req.StatusID != nil {
		contract.StatusID = req.StatusID
	}
	if req.AcceptanceDate != nil {
		contract.AcceptanceDate = req.AcceptanceDate
	}
	return nil
}

// replaceSoftware swaps the contract's software associations for exactly the
// submitted set. An empty set clears them.
func (s *ContractService) replaceSoftware(ctx context.Context, tx *gorm.DB, contract *domain.Contract, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return tx.Model(contract).Association("SoftwareTypes").Clear()
	}
	software, err := s.loadSoftware(ctx, tx, ids)
	if err != nil {
		return err
	}
	return tx.Model(contract).Association("SoftwareTypes").Replace(software)
}

// partition splits the submitted rows of one collection into updates (rows
// whose id resolves to a stored row of this contract) and creates (rows with
// no id or an id that does not resolve). Stored ids absent from the submitted
// snapshot are returned for deletion. Foreign or stale ids never leak into an
// UPDATE: those rows are re-created under fresh ids.
func partition(existing []uuid.UUID, submitted []*uuid.UUID) (toDelete []uuid.UUID, keep map[uuid.UUID]bool) {
	stored := make(map[uuid.UUID]bool, len(existing))
	for _, id := range existing {
		stored[id] = true
	}
	keep = make(map[uuid.UUID]bool)
	for _, id := range submitted {
		if id != nil && stored[*id] {
			keep[*id] = true
		}
	}
	for _, id := range existing {
		if !keep[id] {
			toDelete = append(toDelete, id)
		}
	}
	return toDelete, keep
}

func syncPaymentTerms(tx *gorm.DB, contractID uuid.UUID, inputs []domain.PaymentTermInput) error {
	var existing []domain.PaymentTerm
	if err := tx.Where("contract_id = ?", contractID).Find(&existing).Error; err != nil {
		return err
	}

	existingIDs := make([]uuid.UUID, len(existing))
	for i := range existing {
		existingIDs[i] = existing[i].ID
	}
	submittedIDs := make([]*uuid.UUID, len(inputs))
	for i := range inputs {
		submittedIDs[i] = inputs[i].ID
	}
	toDelete, keep := partition(existingIDs, submittedIDs)

	if len(toDelete) > 0 {
		if err := tx.Delete(&domain.PaymentTerm{}, "id IN ?", toDelete).Error; err != nil {
			return fmt.Errorf("failed to delete payment terms: %w", err)
		}
	}
	for i := range inputs {
		in := &inputs[i]
		if in.ID != nil && keep[*in.ID] {
			row := paymentTermFromInput(in, contractID)
			row.ID = *in.ID
			if err := tx.Model(&domain.PaymentTerm{}).
				Where("id = ?", *in.ID).
				Select("batch", "content", "ratio", "value", "is_collected", "collection_date", "invoice_status").
				Updates(&row).Error; err != nil {
				return fmt.Errorf("failed to update payment term: %w", err)
			}
			continue
		}
		row := paymentTermFromInput(in, contractID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create payment term: %w", err)
		}
	}
	return nil
}

func syncExpenses(tx *gorm.DB, contractID uuid.UUID, inputs []domain.ExpenseInput) error {
	var existing []domain.Expense
	if err := tx.Where("contract_id = ?", contractID).Find(&existing).Error; err != nil {
		return err
	}

	existingIDs := make([]uuid.UUID, len(existing))
	for i := range existing {
		existingIDs[i] = existing[i].ID
	}
	submittedIDs := make([]*uuid.UUID, len(inputs))
	for i := range inputs {
		submittedIDs[i] = inputs[i].ID
	}
	toDelete, keep := partition(existingIDs, submittedIDs)

	if len(toDelete) > 0 {
		if err := tx.Delete(&domain.Expense{}, "id IN ?", toDelete).Error; err != nil {
			return fmt.Errorf("failed to delete expenses: %w", err)
		}
	}
	for i := range inputs {
		in := &inputs[i]
		if in.ID != nil && keep[*in.ID] {
			row := expenseFromInput(in, contractID)
			row.ID = *in.ID
			if err := tx.Model(&domain.Expense{}).
				Where("id = ?", *in.ID).
				Select("category", "description", "supplier_id", "total_amount", "contract_status", "payment_status", "pic", "note").
				Updates(&row).Error; err != nil {
				return fmt.Errorf("failed to update expense: %w", err)
			}
			continue
		}
		row := expenseFromInput(in, contractID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
	}
	return nil
}

func syncMembers(tx *gorm.DB, contractID uuid.UUID, inputs []domain.ProjectMemberInput) error {
	var existing []domain.ProjectMember
	if err := tx.Where("contract_id = ?", contractID).Find(&existing).Error; err != nil {
		return err
	}

	existingIDs := make([]uuid.UUID, len(existing))
	for i := range existing {
		existingIDs[i] = existing[i].ID
	}
	submittedIDs := make([]*uuid.UUID, len(inputs))
	for i := range inputs {
		submittedIDs[i] = inputs[i].ID
	}
	toDelete, keep := partition(existingIDs, submittedIDs)

	if len(toDelete) > 0 {
		if err := tx.Delete(&domain.ProjectMember{}, "id IN ?", toDelete).Error; err != nil {
			return fmt.Errorf("failed to delete project members: %w", err)
		}
	}
	for i := range inputs {
		in := &inputs[i]
		if in.ID != nil && keep[*in.ID] {
			row := memberFromInput(in, contractID)
			row.ID = *in.ID
			if err := tx.Model(&domain.ProjectMember{}).
				Where("id = ?", *in.ID).
				Select("member_code", "name", "role").
				Updates(&row).Error; err != nil {
				return fmt.Errorf("failed to update project member: %w", err)
			}
			continue
		}
		row := memberFromInput(in, contractID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create project member: %w", err)
		}
	}
	return nil
}
