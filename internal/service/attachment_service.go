package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/mapper"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AttachmentService manages contract attachment blobs and their metadata rows
type AttachmentService struct {
	attachmentRepo *repository.AttachmentRepository
	contractRepo   *repository.ContractRepository
	store          storage.Storage
	logger         *zap.Logger
}

// NewAttachmentService creates a new attachment service instance
func NewAttachmentService(
	attachmentRepo *repository.AttachmentRepository,
	contractRepo *repository.ContractRepository,
	store storage.Storage,
	logger *zap.Logger,
) *AttachmentService {
	return &AttachmentService{
		attachmentRepo: attachmentRepo,
		contractRepo:   contractRepo,
		store:          store,
		logger:         logger,
	}
}

// Upload stores the blob and records its metadata against the contract
func (s *AttachmentService) Upload(ctx context.Context, contractID uuid.UUID, filename, contentType string, data io.Reader) (*domain.AttachmentDTO, error) {
	if _, err := s.contractRepo.GetByID(ctx, contractID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		return nil, fmt.Errorf("failed to load contract: %w", err)
	}

	storagePath, size, err := s.store.Upload(ctx, filename, contentType, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	now := time.Now()
	attachment := &domain.ContractAttachment{
		ContractID:  contractID,
		Name:        filename,
		Size:        size,
		ContentType: contentType,
		UploadDate:  &now,
		StoragePath: storagePath,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		// Roll the blob back so storage does not leak.
		if derr := s.store.Delete(ctx, storagePath); derr != nil {
			s.logger.Warn("failed to clean up orphaned blob",
				zap.Error(derr),
				zap.String("path", storagePath))
		}
		return nil, fmt.Errorf("failed to record attachment: %w", err)
	}

	s.logger.Info("attachment uploaded",
		zap.String("contract_id", contractID.String()),
		zap.String("attachment_id", attachment.ID.String()),
		zap.Int64("size", size))

	dto := mapper.ToAttachmentDTO(attachment)
	return &dto, nil
}

// List returns a contract's attachment metadata
func (s *AttachmentService) List(ctx context.Context, contractID uuid.UUID) ([]domain.AttachmentDTO, error) {
	attachments, err := s.attachmentRepo.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	dtos := make([]domain.AttachmentDTO, 0, len(attachments))
	for i := range attachments {
		dtos = append(dtos, mapper.ToAttachmentDTO(&attachments[i]))
	}
	return dtos, nil
}

// Download streams an attachment blob together with its metadata
func (s *AttachmentService) Download(ctx context.Context, id uuid.UUID) (*domain.ContractAttachment, io.ReadCloser, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrAttachmentNotFound
		}
		return nil, nil, fmt.Errorf("failed to load attachment: %w", err)
	}

	reader, err := s.store.Download(ctx, attachment.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read attachment blob: %w", err)
	}
	return attachment, reader, nil
}

// Delete removes the metadata row and then the blob, best-effort
func (s *AttachmentService) Delete(ctx context.Context, id uuid.UUID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAttachmentNotFound
		}
		return fmt.Errorf("failed to load attachment: %w", err)
	}

	if err := s.attachmentRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if attachment.StoragePath != "" {
		if err := s.store.Delete(ctx, attachment.StoragePath); err != nil {
			s.logger.Warn("failed to delete attachment blob",
				zap.Error(err),
				zap.String("path", attachment.StoragePath))
		}
	}
	return nil
}
