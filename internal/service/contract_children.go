package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/mapper"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Single-row operations on a contract's nested collections. These are the
// lightweight alternative to a full snapshot update: each call touches one
// child row and bumps the contract version so interleaved snapshot updates
// still detect the change.

// AddPaymentTerm appends one installment to a contract
func (s *ContractService) AddPaymentTerm(ctx context.Context, contractID uuid.UUID, in *domain.PaymentTermInput) (*domain.PaymentTermDTO, error) {
	var row domain.PaymentTerm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireContract(tx, contractID); err != nil {
			return err
		}
		row = paymentTermFromInput(in, contractID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create payment term: %w", err)
		}
		return bumpVersion(tx, contractID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment term added",
		zap.String("contract_id", contractID.String()),
		zap.String("term_id", row.ID.String()))

	dto := mapper.ToPaymentTermDTO(&row)
	return &dto, nil
}

// UpdatePaymentTerm overwrites one installment of a contract
func (s *ContractService) UpdatePaymentTerm(ctx context.Context, contractID, termID uuid.UUID, in *domain.PaymentTermInput) (*domain.PaymentTermDTO, error) {
	var row domain.PaymentTerm
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND contract_id = ?", termID, contractID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentTermNotFound
			}
			return err
		}
		patch := paymentTermFromInput(in, contractID)
		patch.ID = termID
		if err := tx.Model(&domain.PaymentTerm{}).
			Where("id = ?", termID).
			Select("batch", "content", "ratio", "value", "is_collected", "collection_date", "invoice_status").
			Updates(&patch).Error; err != nil {
			return fmt.Errorf("failed to update payment term: %w", err)
		}
		if err := tx.Where("id = ?", termID).First(&row).Error; err != nil {
			return err
		}
		return bumpVersion(tx, contractID)
	})
	if err != nil {
		return nil, err
	}

	dto := mapper.ToPaymentTermDTO(&row)
	return &dto, nil
}

// AddExpense appends one expense row to a contract
func (s *ContractService) AddExpense(ctx context.Context, contractID uuid.UUID, in *domain.ExpenseInput) (*domain.ExpenseDTO, error) {
	var row domain.Expense
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireContract(tx, contractID); err != nil {
			return err
		}
		row = expenseFromInput(in, contractID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create expense: %w", err)
		}
		return bumpVersion(tx, contractID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("expense added",
		zap.String("contract_id", contractID.String()),
		zap.String("expense_id", row.ID.String()))

	return s.expenseDTO(ctx, row.ID)
}

// UpdateExpense overwrites one expense row of a contract
func (s *ContractService) UpdateExpense(ctx context.Context, contractID, expenseID uuid.UUID, in *domain.ExpenseInput) (*domain.ExpenseDTO, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row domain.Expense
		if err := tx.Where("id = ? AND contract_id = ?", expenseID, contractID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrExpenseNotFound
			}
			return err
		}
		patch := expenseFromInput(in, contractID)
		patch.ID = expenseID
		if err := tx.Model(&domain.Expense{}).
			Where("id = ?", expenseID).
			Select("category", "description", "supplier_id", "total_amount", "contract_status", "payment_status", "pic", "note").
			Updates(&patch).Error; err != nil {
			return fmt.Errorf("failed to update expense: %w", err)
		}
		return bumpVersion(tx, contractID)
	})
	if err != nil {
		return nil, err
	}

	return s.expenseDTO(ctx, expenseID)
}

// AddMember appends one staffing row to a contract
func (s *ContractService) AddMember(ctx context.Context, contractID uuid.UUID, in *domain.ProjectMemberInput) (*domain.ProjectMemberDTO, error) {
	var row domain.ProjectMember
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireContract(tx, contractID); err != nil {
			return err
		}
		row = memberFromInput(in, contractID)
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create project member: %w", err)
		}
		return bumpVersion(tx, contractID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("project member added",
		zap.String("contract_id", contractID.String()),
		zap.String("member_id", row.ID.String()))

	dto := mapper.ToProjectMemberDTO(&row)
	return &dto, nil
}

// RemoveMember deletes one staffing row from a contract
func (s *ContractService) RemoveMember(ctx context.Context, contractID, memberID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&domain.ProjectMember{}, "id = ? AND contract_id = ?", memberID, contractID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete project member: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMemberNotFound
		}
		return bumpVersion(tx, contractID)
	})
}

func (s *ContractService) expenseDTO(ctx context.Context, id uuid.UUID) (*domain.ExpenseDTO, error) {
	var row domain.Expense
	if err := s.db.WithContext(ctx).Preload("Supplier").Where("id = ?", id).First(&row).Error; err != nil {
		return nil, fmt.Errorf("failed to reload expense: %w", err)
	}
	dto := mapper.ToExpenseDTO(&row)
	return &dto, nil
}

func requireContract(tx *gorm.DB, id uuid.UUID) error {
	var count int64
	if err := tx.Model(&domain.Contract{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrContractNotFound
	}
	return nil
}

func bumpVersion(tx *gorm.DB, contractID uuid.UUID) error {
	return tx.Model(&domain.Contract{}).
		Where("id = ?", contractID).
		UpdateColumn("version", gorm.Expr("version + 1")).Error
}
