package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MasterDataService serves every reference-data table through one kind-keyed
// surface. Records are returned as their concrete model types; the JSON tags
// on the models shape the response.
type MasterDataService struct {
	masterRepo   *repository.MasterDataRepository
	contractRepo *repository.ContractRepository
	logger       *zap.Logger
}

// NewMasterDataService creates a new master data service instance
func NewMasterDataService(
	masterRepo *repository.MasterDataRepository,
	contractRepo *repository.ContractRepository,
	logger *zap.Logger,
) *MasterDataService {
	return &MasterDataService{
		masterRepo:   masterRepo,
		contractRepo: contractRepo,
		logger:       logger,
	}
}

// List returns all rows of a kind
func (s *MasterDataService) List(ctx context.Context, kind repository.MasterDataKind, search string) (interface{}, error) {
	rows, err := s.masterRepo.List(ctx, kind, search)
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidValue) {
			return nil, ErrInvalidMasterDataKind
		}
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}
	return rows, nil
}

// GetByID returns one row of a kind
func (s *MasterDataService) GetByID(ctx context.Context, kind repository.MasterDataKind, id uuid.UUID) (interface{}, error) {
	record, err := s.masterRepo.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		if errors.Is(err, gorm.ErrInvalidValue) {
			return nil, ErrInvalidMasterDataKind
		}
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}
	return record, nil
}

// Create inserts a row of a kind after checking code uniqueness within it
func (s *MasterDataService) Create(ctx context.Context, kind repository.MasterDataKind, in *domain.MasterDataInput) (interface{}, error) {
	taken, err := s.masterRepo.CodeExists(ctx, kind, in.Code, nil)
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidValue) {
			return nil, ErrInvalidMasterDataKind
		}
		return nil, fmt.Errorf("failed to check code: %w", err)
	}
	if taken {
		return nil, ErrDuplicateCode
	}

	record, err := s.masterRepo.Create(ctx, kind, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", kind, err)
	}

	s.logger.Info("master data created",
		zap.String("kind", string(kind)),
		zap.String("code", in.Code))
	return record, nil
}

// Update overwrites a row of a kind
func (s *MasterDataService) Update(ctx context.Context, kind repository.MasterDataKind, id uuid.UUID, in *domain.MasterDataInput) (interface{}, error) {
	taken, err := s.masterRepo.CodeExists(ctx, kind, in.Code, &id)
	if err != nil {
		if errors.Is(err, gorm.ErrInvalidValue) {
			return nil, ErrInvalidMasterDataKind
		}
		return nil, fmt.Errorf("failed to check code: %w", err)
	}
	if taken {
		return nil, ErrDuplicateCode
	}

	record, err := s.masterRepo.Update(ctx, kind, id, in)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update %s: %w", kind, err)
	}
	return record, nil
}

// Delete removes a row of a kind. Customers still referenced by contracts
// cannot be removed.
func (s *MasterDataService) Delete(ctx context.Context, kind repository.MasterDataKind, id uuid.UUID) error {
	if kind == repository.KindCustomer {
		count, err := s.contractRepo.CountByCustomer(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check customer usage: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("%w: customer has %d contracts", ErrItemInUse, count)
		}
	}

	err := s.masterRepo.Delete(ctx, kind, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrItemNotFound
	}
	if errors.Is(err, gorm.ErrInvalidValue) {
		return ErrInvalidMasterDataKind
	}
	return err
}
