package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/mapper"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContractService owns the contract aggregate: creation, reads, full-snapshot
// updates and cascading deletes.
type ContractService struct {
	contractRepo *repository.ContractRepository
	masterRepo   *repository.MasterDataRepository
	warningRepo  *repository.WarningRepository
	store        storage.Storage
	logger       *zap.Logger
	db           *gorm.DB
}

// NewContractService creates a new contract service instance
func NewContractService(
	contractRepo *repository.ContractRepository,
	masterRepo *repository.MasterDataRepository,
	warningRepo *repository.WarningRepository,
	store storage.Storage,
	logger *zap.Logger,
	db *gorm.DB,
) *ContractService {
	return &ContractService{
		contractRepo: contractRepo,
		masterRepo:   masterRepo,
		warningRepo:  warningRepo,
		store:        store,
		logger:       logger,
		db:           db,
	}
}

// Create inserts a contract together with its nested collections and returns
// the persisted aggregate. IDs supplied on nested rows are discarded.
func (s *ContractService) Create(ctx context.Context, req *domain.CreateContractRequest) (*domain.ContractDTO, error) {
	if _, err := s.masterRepo.GetByID(ctx, repository.KindCustomer, req.CustomerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}

	existing, err := s.contractRepo.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check contract code: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateContract
	}

	contract := &domain.Contract{
		Code:           req.Code,
		SignDate:       req.SignDate,
		Content:        req.Content,
		CustomerID:     req.CustomerID,
		ContractTypeID: req.ContractTypeID,
		ValuePreVAT:    req.ValuePreVAT,
		VAT:            req.VAT,
		ValuePostVAT:   req.ValuePostVAT,
		Duration:       req.Duration,
		StatusID:       req.StatusID,
		AcceptanceDate: req.AcceptanceDate,
		Version:        1,
	}
	if userID, ok := ctxUserID(ctx); ok {
		contract.CreatedByID = &userID
	}

	for _, in := range req.PaymentTerms {
		contract.PaymentTerms = append(contract.PaymentTerms, paymentTermFromInput(&in, uuid.Nil))
	}
	for _, in := range req.Expenses {
		contract.Expenses = append(contract.Expenses, expenseFromInput(&in, uuid.Nil))
	}
	for _, in := range req.Members {
		contract.Members = append(contract.Members, memberFromInput(&in, uuid.Nil))
	}

	if len(req.SoftwareIDs) > 0 {
		software, err := s.loadSoftware(ctx, s.db, req.SoftwareIDs)
		if err != nil {
			return nil, err
		}
		contract.SoftwareTypes = software
	}

	if err := s.contractRepo.Create(ctx, contract); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}

	s.logger.Info("contract created",
		zap.String("contract_id", contract.ID.String()),
		zap.String("code", contract.Code))

	return s.getDTO(ctx, contract.ID)
}

// GetByID returns the fully loaded aggregate
func (s *ContractService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContractDTO, error) {
	return s.getDTO(ctx, id)
}

// List returns contract summaries matching the filters
func (s *ContractService) List(ctx context.Context, filters *repository.ContractFilters) ([]domain.ContractSummaryDTO, error) {
	contracts, err := s.contractRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	dtos := make([]domain.ContractSummaryDTO, 0, len(contracts))
	for i := range contracts {
		dtos = append(dtos, mapper.ToContractSummaryDTO(&contracts[i]))
	}
	return dtos, nil
}

// Delete removes a contract and everything hanging off it: payment terms,
// expenses, members, attachments, software links and warnings. Attachment
// blobs are removed from storage best-effort after the transaction commits.
func (s *ContractService) Delete(ctx context.Context, id uuid.UUID) error {
	var attachments []domain.ContractAttachment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var contract domain.Contract
		if err := tx.Where("id = ?", id).First(&contract).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrContractNotFound
			}
			return err
		}

		if err := tx.Where("contract_id = ?", id).Find(&attachments).Error; err != nil {
			return err
		}

		if err := tx.Delete(&domain.PaymentTerm{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Expense{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.ProjectMember{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.ContractAttachment{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Warning{}, "contract_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&contract).Association("SoftwareTypes").Clear(); err != nil {
			return err
		}
		return tx.Delete(&domain.Contract{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	for _, a := range attachments {
		if a.StoragePath == "" {
			continue
		}
		if err := s.store.Delete(ctx, a.StoragePath); err != nil {
			s.logger.Warn("failed to delete attachment blob",
				zap.Error(err),
				zap.String("path", a.StoragePath))
		}
	}

	s.logger.Info("contract deleted", zap.String("contract_id", id.String()))
	return nil
}

func (s *ContractService) getDTO(ctx context.Context, id uuid.UUID) (*domain.ContractDTO, error) {
	contract, err := s.contractRepo.GetFull(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}
	dto := mapper.ToContractDTO(contract)
	return &dto, nil
}

// loadSoftware fetches the software rows for an id list, failing when any id
// does not resolve.
func (s *ContractService) loadSoftware(ctx context.Context, db *gorm.DB, ids []uuid.UUID) ([]domain.Software, error) {
	var software []domain.Software
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&software).Error; err != nil {
		return nil, fmt.Errorf("failed to load software types: %w", err)
	}
	if len(software) != len(uniqueIDs(ids)) {
		return nil, ErrItemNotFound
	}
	return software, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func paymentTermFromInput(in *domain.PaymentTermInput, contractID uuid.UUID) domain.PaymentTerm {
	status := in.InvoiceStatus
	if status == "" {
		status = domain.InvoiceStatusNotExported
	}
	return domain.PaymentTerm{
		ContractID:     contractID,
		Batch:          in.Batch,
		Content:        in.Content,
		Ratio:          in.Ratio,
		Value:          in.Value,
		IsCollected:    in.IsCollected,
		CollectionDate: in.CollectionDate,
		InvoiceStatus:  status,
	}
}

func expenseFromInput(in *domain.ExpenseInput, contractID uuid.UUID) domain.Expense {
	status := in.PaymentStatus
	if status == "" {
		status = domain.PaymentStatusUnpaid
	}
	return domain.Expense{
		ContractID:     contractID,
		Category:       in.Category,
		Description:    in.Description,
		SupplierID:     in.SupplierID,
		TotalAmount:    in.TotalAmount,
		ContractStatus: in.ContractStatus,
		PaymentStatus:  status,
		PIC:            in.PIC,
		Note:           in.Note,
	}
}

func memberFromInput(in *domain.ProjectMemberInput, contractID uuid.UUID) domain.ProjectMember {
	return domain.ProjectMember{
		ContractID: contractID,
		MemberCode: in.MemberCode,
		Name:       in.Name,
		Role:       in.Role,
	}
}
