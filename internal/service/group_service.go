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

// GroupService manages permission groups
type GroupService struct {
	groupRepo *repository.UserGroupRepository
	userRepo  *repository.UserRepository
	logger    *zap.Logger
}

// NewGroupService creates a new group service instance
func NewGroupService(groupRepo *repository.UserGroupRepository, userRepo *repository.UserRepository, logger *zap.Logger) *GroupService {
	return &GroupService{groupRepo: groupRepo, userRepo: userRepo, logger: logger}
}

// List returns every group
func (s *GroupService) List(ctx context.Context) ([]domain.UserGroup, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	return groups, nil
}

// GetByID returns one group
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserGroup, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to load group: %w", err)
	}
	return group, nil
}

// Create inserts a group
func (s *GroupService) Create(ctx context.Context, req *domain.CreateGroupRequest) (*domain.UserGroup, error) {
	taken, err := s.groupRepo.CodeExists(ctx, req.Code, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check group code: %w", err)
	}
	if taken {
		return nil, ErrDuplicateCode
	}

	group := &domain.UserGroup{
		Code:   req.Code,
		Name:   req.Name,
		Note:   req.Note,
		Status: domain.RecordStatusActive,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("group created",
		zap.String("group_id", group.ID.String()),
		zap.String("code", group.Code))
	return group, nil
}

// Update patches a group
func (s *GroupService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateGroupRequest) (*domain.UserGroup, error) {
	group, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Code != nil && *req.Code != group.Code {
		taken, err := s.groupRepo.CodeExists(ctx, *req.Code, &id)
		if err != nil {
			return nil, fmt.Errorf("failed to check group code: %w", err)
		}
		if taken {
			return nil, ErrDuplicateCode
		}
		group.Code = *req.Code
	}
	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.Note != nil {
		group.Note = *req.Note
	}
	if req.Status != nil {
		group.Status = *req.Status
	}

	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}
	return group, nil
}

// Delete removes a group and its permission matrix. Groups that still have
// members cannot be removed.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	members, err := s.userRepo.CountByGroup(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count group members: %w", err)
	}
	if members > 0 {
		return ErrGroupInUse
	}

	err = s.groupRepo.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrGroupNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	s.logger.Info("group deleted", zap.String("group_id", id.String()))
	return nil
}
