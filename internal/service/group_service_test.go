package service_test

import (
	"context"
	"testing"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newGroupService(db *gorm.DB) *service.GroupService {
	return service.NewGroupService(
		repository.NewUserGroupRepository(db),
		repository.NewUserRepository(db),
		zap.NewNop(),
	)
}

func TestGroupService_CreateAndUpdate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGroupService(db)

	group, err := svc.Create(context.Background(), &domain.CreateGroupRequest{
		Code: "SALES",
		Name: "Sales",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RecordStatusActive, group.Status)

	_, err = svc.Create(context.Background(), &domain.CreateGroupRequest{
		Code: "SALES",
		Name: "Another Sales",
	})
	assert.ErrorIs(t, err, service.ErrDuplicateCode)

	updated, err := svc.Update(context.Background(), group.ID, &domain.UpdateGroupRequest{
		Name: strPtr("Field Sales"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Field Sales", updated.Name)
	assert.Equal(t, "SALES", updated.Code)
}

func TestGroupService_DeleteWithMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGroupService(db)
	group := testutil.CreateTestGroup(t, db, "Sales")

	require.NoError(t, db.Create(&domain.User{
		Name:         "Alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		GroupID:      &group.ID,
		Role:         domain.RoleUser,
		Status:       domain.RecordStatusActive,
	}).Error)

	err := svc.Delete(context.Background(), group.ID)
	assert.ErrorIs(t, err, service.ErrGroupInUse)

	// Detach the member; the group can go now.
	require.NoError(t, db.Model(&domain.User{}).
		Where("group_id = ?", group.ID).
		Update("group_id", nil).Error)
	require.NoError(t, svc.Delete(context.Background(), group.ID))

	_, err = svc.GetByID(context.Background(), group.ID)
	assert.ErrorIs(t, err, service.ErrGroupNotFound)
}

func TestGroupService_DeleteRemovesMatrix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	groups := newGroupService(db)
	permissions := newPermissionService(db)
	group := testutil.CreateTestGroup(t, db, "Sales")

	_, err := permissions.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)

	require.NoError(t, groups.Delete(context.Background(), group.ID))

	var count int64
	require.NoError(t, db.Model(&domain.Permission{}).
		Where("group_id = ?", group.ID).
		Count(&count).Error)
	assert.Zero(t, count)
}

func TestGroupService_DeleteNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newGroupService(db)

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrGroupNotFound)
}
