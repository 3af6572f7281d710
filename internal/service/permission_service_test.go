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

func newPermissionService(db *gorm.DB) *service.PermissionService {
	return service.NewPermissionService(
		repository.NewPermissionRepository(db),
		repository.NewUserGroupRepository(db),
		zap.NewNop(),
	)
}

func TestPermissionService_LazySeed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)
	group := testutil.CreateTestGroup(t, db, "Sales")

	// No matrix exists until the first read.
	var count int64
	require.NoError(t, db.Model(&domain.Permission{}).Count(&count).Error)
	assert.Zero(t, count)

	permissions, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, permissions)

	for _, p := range permissions {
		assert.Equal(t, group.ID, p.GroupID)
		assert.False(t, p.CanView, "seeded grants start denied")
		assert.False(t, p.CanAdd)
		assert.False(t, p.CanEdit)
		assert.False(t, p.CanDelete)
		assert.Nil(t, p.ParentID)
	}
}

func TestPermissionService_SeedIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)
	group := testutil.CreateTestGroup(t, db, "Sales")

	first, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)
	second, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))

	var count int64
	require.NoError(t, db.Model(&domain.Permission{}).Count(&count).Error)
	assert.Equal(t, int64(len(first)), count, "re-reading must not seed again")
}

func TestPermissionService_SeedPerGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)
	sales := testutil.CreateTestGroup(t, db, "Sales")
	ops := testutil.CreateTestGroup(t, db, "Operations")

	salesPerms, err := svc.ListForGroup(context.Background(), sales.ID)
	require.NoError(t, err)
	opsPerms, err := svc.ListForGroup(context.Background(), ops.ID)
	require.NoError(t, err)

	assert.Equal(t, len(salesPerms), len(opsPerms))
	for i := range salesPerms {
		assert.NotEqual(t, salesPerms[i].ID, opsPerms[i].ID)
	}
}

func TestPermissionService_UnknownGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)

	_, err := svc.ListForGroup(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrGroupNotFound)
}

func TestPermissionService_UpdateGrants(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)
	group := testutil.CreateTestGroup(t, db, "Sales")

	permissions, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)
	require.NotEmpty(t, permissions)

	err = svc.UpdateGrants(context.Background(), &domain.BulkPermissionsRequest{
		Permissions: []domain.PermissionGrantUpdate{
			{ID: permissions[0].ID, CanView: true, CanEdit: true},
			{ID: permissions[1].ID, CanView: true},
		},
	})
	require.NoError(t, err)

	reloaded, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)
	byID := make(map[uuid.UUID]domain.Permission)
	for _, p := range reloaded {
		byID[p.ID] = p
	}
	assert.True(t, byID[permissions[0].ID].CanView)
	assert.True(t, byID[permissions[0].ID].CanEdit)
	assert.False(t, byID[permissions[0].ID].CanDelete)
	assert.True(t, byID[permissions[1].ID].CanView)
	assert.False(t, byID[permissions[1].ID].CanEdit)

	t.Run("unknown permission id", func(t *testing.T) {
		err := svc.UpdateGrants(context.Background(), &domain.BulkPermissionsRequest{
			Permissions: []domain.PermissionGrantUpdate{
				{ID: uuid.New(), CanView: true},
			},
		})
		assert.ErrorIs(t, err, service.ErrPermissionNotFound)
	})
}

func TestPermissionService_UpdateGrant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)
	group := testutil.CreateTestGroup(t, db, "Sales")

	permissions, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)
	target := permissions[0]

	updated, err := svc.UpdateGrant(context.Background(), target.ID, &domain.PermissionGrantUpdate{
		CanView: true, CanEdit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, target.ID, updated.ID)
	assert.True(t, updated.CanView)
	assert.True(t, updated.CanEdit)
	assert.False(t, updated.CanAdd)
	assert.False(t, updated.CanDelete)

	// Only the targeted row changes.
	reloaded, err := svc.ListForGroup(context.Background(), group.ID)
	require.NoError(t, err)
	for _, p := range reloaded {
		if p.ID == target.ID {
			continue
		}
		assert.False(t, p.CanView, "row %s must stay denied", p.Code)
	}
}

func TestPermissionService_UpdateGrant_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newPermissionService(db)

	_, err := svc.UpdateGrant(context.Background(), uuid.New(), &domain.PermissionGrantUpdate{CanView: true})
	assert.ErrorIs(t, err, service.ErrPermissionNotFound)
}
