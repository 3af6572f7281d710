package repository

import (
	"context"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttachmentRepository handles contract attachment metadata access
type AttachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository instance
func NewAttachmentRepository(db *gorm.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Create inserts an attachment row
func (r *AttachmentRepository) Create(ctx context.Context, attachment *domain.ContractAttachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

// GetByID retrieves an attachment row by its ID
func (r *AttachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContractAttachment, error) {
	var attachment domain.ContractAttachment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&attachment).Error
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}

// ListByContract returns a contract's attachments, oldest first
func (r *AttachmentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.ContractAttachment, error) {
	var attachments []domain.ContractAttachment
	err := r.db.WithContext(ctx).
		Where("contract_id = ?", contractID).
		Order("created_at ASC").
		Find(&attachments).Error
	return attachments, err
}

// Delete removes an attachment row
func (r *AttachmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&domain.ContractAttachment{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
