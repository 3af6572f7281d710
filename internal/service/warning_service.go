package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/mapper"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// WarningService manages contract milestone alerts: manual CRUD plus the
// generator that derives warnings from acceptance dates and payment terms.
type WarningService struct {
	warningRepo  *repository.WarningRepository
	contractRepo *repository.ContractRepository
	logger       *zap.Logger
	daysAhead    int
}

// NewWarningService creates a new warning service instance. daysAhead is the
// look-ahead window for "upcoming" warnings, in days.
func NewWarningService(
	warningRepo *repository.WarningRepository,
	contractRepo *repository.ContractRepository,
	logger *zap.Logger,
	daysAhead int,
) *WarningService {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	return &WarningService{
		warningRepo:  warningRepo,
		contractRepo: contractRepo,
		logger:       logger,
		daysAhead:    daysAhead,
	}
}

// List returns warnings matching the filters
func (s *WarningService) List(ctx context.Context, filters *domain.WarningFilters) ([]domain.WarningDTO, error) {
	warnings, err := s.warningRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list warnings: %w", err)
	}
	dtos := make([]domain.WarningDTO, 0, len(warnings))
	for i := range warnings {
		dtos = append(dtos, mapper.ToWarningDTO(&warnings[i]))
	}
	return dtos, nil
}

// GetByID returns one warning
func (s *WarningService) GetByID(ctx context.Context, id uuid.UUID) (*domain.WarningDTO, error) {
	warning, err := s.warningRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarningNotFound
		}
		return nil, fmt.Errorf("failed to load warning: %w", err)
	}
	dto := mapper.ToWarningDTO(warning)
	return &dto, nil
}

// Create records a warning manually. Contract code and customer name are
// denormalized from the referenced contract at this point.
func (s *WarningService) Create(ctx context.Context, req *domain.CreateWarningRequest) (*domain.WarningDTO, error) {
	contract, err := s.contractRepo.GetFull(ctx, req.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	customerName := ""
	if contract.Customer != nil {
		customerName = contract.Customer.Name
	}

	warning := &domain.Warning{
		Kind:         req.Kind,
		ContractID:   contract.ID,
		ContractCode: contract.Code,
		CustomerName: customerName,
		DueDate:      req.DueDate,
		DaysDiff:     daysUntil(req.DueDate, time.Now()),
		Amount:       req.Amount,
		PIC:          req.PIC,
		Status:       domain.WarningStatusPending,
		Note:         req.Note,
		Details:      req.Details,
	}
	if err := s.warningRepo.Create(ctx, warning); err != nil {
		return nil, fmt.Errorf("failed to create warning: %w", err)
	}

	dto := mapper.ToWarningDTO(warning)
	return &dto, nil
}

// Update moves a warning through its handling states
func (s *WarningService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateWarningRequest) (*domain.WarningDTO, error) {
	warning, err := s.warningRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarningNotFound
		}
		return nil, fmt.Errorf("failed to load warning: %w", err)
	}

	warning.Status = req.Status
	if req.Note != "" {
		warning.Note = req.Note
	}
	if err := s.warningRepo.Update(ctx, warning); err != nil {
		return nil, fmt.Errorf("failed to update warning: %w", err)
	}

	dto := mapper.ToWarningDTO(warning)
	return &dto, nil
}

// Delete removes a warning
func (s *WarningService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.warningRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrWarningNotFound
	}
	return err
}

// Generate derives warnings from all contracts: acceptance dates inside the
// look-ahead window or already past, and uncollected payment terms likewise.
// The pass is idempotent: an existing row for the same contract, kind and due
// date is refreshed in place, and resolved warnings are left alone. Returns
// the number of rows created and refreshed.
func (s *WarningService) Generate(ctx context.Context) (created int, refreshed int, err error) {
	contracts, err := s.contractRepo.List(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to load contracts: %w", err)
	}

	now := time.Now()
	horizon := now.AddDate(0, 0, s.daysAhead)

	for i := range contracts {
		contract := &contracts[i]
		customerName := ""
		if contract.Customer != nil {
			customerName = contract.Customer.Name
		}

		if contract.AcceptanceDate != nil && contract.AcceptanceDate.Before(horizon) {
			kind := domain.WarningAcceptanceUpcoming
			if contract.AcceptanceDate.Before(now) {
				kind = domain.WarningAcceptanceOverdue
			}
			c, r, uerr := s.upsertGenerated(ctx, contract, customerName, kind,
				*contract.AcceptanceDate, contract.ValuePostVAT, "")
			if uerr != nil {
				s.logger.Warn("failed to upsert acceptance warning",
					zap.Error(uerr),
					zap.String("contract_id", contract.ID.String()))
				continue
			}
			created += c
			refreshed += r
		}

		var terms []domain.PaymentTerm
		if err := s.contractRepo.DB().WithContext(ctx).
			Where("contract_id = ? AND is_collected = ? AND collection_date IS NOT NULL", contract.ID, false).
			Find(&terms).Error; err != nil {
			s.logger.Warn("failed to load payment terms",
				zap.Error(err),
				zap.String("contract_id", contract.ID.String()))
			continue
		}
		for j := range terms {
			term := &terms[j]
			if !term.CollectionDate.Before(horizon) {
				continue
			}
			kind := domain.WarningPaymentUpcoming
			if term.CollectionDate.Before(now) {
				kind = domain.WarningPaymentOverdue
			}
			c, r, uerr := s.upsertGenerated(ctx, contract, customerName, kind,
				*term.CollectionDate, term.Value, term.Batch)
			if uerr != nil {
				s.logger.Warn("failed to upsert payment warning",
					zap.Error(uerr),
					zap.String("contract_id", contract.ID.String()))
				continue
			}
			created += c
			refreshed += r
		}
	}

	s.logger.Info("warning generation completed",
		zap.Int("created", created),
		zap.Int("refreshed", refreshed))
	return created, refreshed, nil
}

func (s *WarningService) upsertGenerated(
	ctx context.Context,
	contract *domain.Contract,
	customerName string,
	kind domain.WarningKind,
	dueDate time.Time,
	amount int64,
	details string,
) (created int, refreshed int, err error) {
	existing, err := s.warningRepo.FindGenerated(ctx, contract.ID, kind, dueDate)
	if err != nil {
		return 0, 0, err
	}
	if existing != nil {
		// Resolved warnings stay resolved.
		if existing.Status == domain.WarningStatusResolved {
			return 0, 0, nil
		}
		existing.DaysDiff = daysUntil(dueDate, time.Now())
		existing.Amount = amount
		existing.ContractCode = contract.Code
		existing.CustomerName = customerName
		if err := s.warningRepo.Update(ctx, existing); err != nil {
			return 0, 0, err
		}
		return 0, 1, nil
	}

	warning := &domain.Warning{
		Kind:         kind,
		ContractID:   contract.ID,
		ContractCode: contract.Code,
		CustomerName: customerName,
		DueDate:      dueDate,
		DaysDiff:     daysUntil(dueDate, time.Now()),
		Amount:       amount,
		Status:       domain.WarningStatusPending,
		Details:      details,
	}
	if err := s.warningRepo.Create(ctx, warning); err != nil {
		return 0, 0, err
	}
	return 1, 0, nil
}

// daysUntil is the whole-day distance from now to due: positive before the
// due date, negative once it has passed.
func daysUntil(due, now time.Time) int {
	dueDay := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(nowDay).Hours() / 24)
}
