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
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newUserService(db *gorm.DB) *service.UserService {
	return service.NewUserService(
		repository.NewUserRepository(db),
		repository.NewUserGroupRepository(db),
		zap.NewNop(),
	)
}

func seedUser(t *testing.T, db *gorm.DB, email string) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Status:       domain.RecordStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestUserService_Update(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice@example.com")
	group := testutil.CreateTestGroup(t, db, "Sales")

	role := domain.RoleManager
	dto, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Name:    strPtr("Alice"),
		Role:    &role,
		GroupID: &group.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", dto.Name)
	assert.Equal(t, domain.RoleManager, dto.Role)
	require.NotNil(t, dto.GroupID)
	assert.Equal(t, group.ID, *dto.GroupID)
	require.NotNil(t, dto.Group)
	assert.Equal(t, "Sales", dto.Group.Name)
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice@example.com")
	seedUser(t, db, "bob@example.com")

	_, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Email: strPtr("bob@example.com"),
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	// Re-submitting the user's own email is not a conflict.
	_, err = svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Email: strPtr("alice@example.com"),
	})
	assert.NoError(t, err)
}

func TestUserService_Update_UnknownGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice@example.com")

	_, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		GroupID: idPtr(uuid.New()),
	})
	assert.ErrorIs(t, err, service.ErrGroupNotFound)
}

func TestUserService_Update_RehashesPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice@example.com")
	oldHash := user.PasswordHash

	_, err := svc.Update(context.Background(), user.ID, &domain.UpdateUserRequest{
		Password: strPtr("newsecret"),
	})
	require.NoError(t, err)

	var reloaded domain.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.NotEqual(t, oldHash, reloaded.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(reloaded.PasswordHash), []byte("newsecret")))
}

func TestUserService_Update_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)

	_, err := svc.Update(context.Background(), uuid.New(), &domain.UpdateUserRequest{
		Name: strPtr("Nobody"),
	})
	assert.ErrorIs(t, err, service.ErrUserNotFound)
}

func TestUserService_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, "alice@example.com")

	require.NoError(t, svc.Delete(context.Background(), user.ID))

	_, err := svc.GetByID(context.Background(), user.ID)
	assert.ErrorIs(t, err, service.ErrUserNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), uuid.New()), service.ErrUserNotFound)
}
