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

// defaultPermissionCatalog is the screen list seeded into every group's
// permission matrix on first read. All grants start denied.
var defaultPermissionCatalog = []struct {
	Code     string
	Name     string
	IsParent bool
}{
	{Code: "DASHBOARD", Name: "Dashboard", IsParent: false},
	{Code: "CONTRACT", Name: "Contract management", IsParent: true},
	{Code: "CONTRACT_LIST", Name: "Contract list", IsParent: false},
	{Code: "CONTRACT_ADD", Name: "Contract creation", IsParent: false},
	{Code: "CUSTOMER", Name: "Customer management", IsParent: false},
	{Code: "SUPPLIER", Name: "Supplier management", IsParent: false},
	{Code: "REPORTS", Name: "Reports", IsParent: false},
	{Code: "ADMIN", Name: "System administration", IsParent: true},
	{Code: "ADMIN_USERS", Name: "User management", IsParent: false},
	{Code: "ADMIN_GROUPS", Name: "Group management", IsParent: false},
	{Code: "ADMIN_LOGS", Name: "Activity log", IsParent: false},
}

// PermissionService manages per-group permission matrices. Matrices are not
// written at group creation; they are seeded the first time a group's matrix
// is read.
type PermissionService struct {
	permRepo  *repository.PermissionRepository
	groupRepo *repository.UserGroupRepository
	logger    *zap.Logger
}

// NewPermissionService creates a new permission service instance
func NewPermissionService(permRepo *repository.PermissionRepository, groupRepo *repository.UserGroupRepository, logger *zap.Logger) *PermissionService {
	return &PermissionService{permRepo: permRepo, groupRepo: groupRepo, logger: logger}
}

// ListForGroup returns a group's permission matrix, seeding the default
// catalog first when the group has none.
func (s *PermissionService) ListForGroup(ctx context.Context, groupID uuid.UUID) ([]domain.Permission, error) {
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}

	permissions, err := s.permRepo.ListByGroup(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	if len(permissions) > 0 {
		return permissions, nil
	}

	seed := make([]domain.Permission, 0, len(defaultPermissionCatalog))
	for _, entry := range defaultPermissionCatalog {
		seed = append(seed, domain.Permission{
			GroupID:  groupID,
			Code:     entry.Code,
			Name:     entry.Name,
			IsParent: entry.IsParent,
		})
	}
	if err := s.permRepo.CreateBatch(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed permissions: %w", err)
	}

	s.logger.Info("permission matrix seeded",
		zap.String("group_id", groupID.String()),
		zap.Int("entries", len(seed)))

	return s.permRepo.ListByGroup(ctx, groupID)
}

// UpdateGrant sets the four grant flags on one permission row
func (s *PermissionService) UpdateGrant(ctx context.Context, id uuid.UUID, u *domain.PermissionGrantUpdate) (*domain.Permission, error) {
	permission, err := s.permRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPermissionNotFound
		}
		return nil, fmt.Errorf("failed to load permission: %w", err)
	}

	update := *u
	update.ID = permission.ID
	if err := s.permRepo.UpdateGrants(ctx, []domain.PermissionGrantUpdate{update}); err != nil {
		return nil, fmt.Errorf("failed to update permission: %w", err)
	}
	return s.permRepo.GetByID(ctx, id)
}

// UpdateGrants applies a bulk matrix update atomically
func (s *PermissionService) UpdateGrants(ctx context.Context, req *domain.BulkPermissionsRequest) error {
	err := s.permRepo.UpdateGrants(ctx, req.Permissions)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPermissionNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update permissions: %w", err)
	}
	return nil
}
