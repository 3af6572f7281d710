package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/ceh-soft/contract-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB) *service.AuthService {
	tokens := auth.NewTokenManager("test-secret", "contract-api-test", time.Hour)
	return service.NewAuthService(repository.NewUserRepository(db), tokens, zap.NewNop())
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "s3cret-pw",
		Role:     domain.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, user.Role)
	assert.Equal(t, domain.RecordStatusActive, user.Status)

	resp, err := svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pw",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, user.ID, resp.User.ID)

	// The password hash never leaves the service layer in plain form.
	var stored domain.User
	require.NoError(t, db.Where("email = ?", "alice@example.com").First(&stored).Error)
	assert.NotEqual(t, "s3cret-pw", stored.PasswordHash)
}

func TestAuthService_Register_DefaultRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: "s3cret-pw",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	req := &domain.RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cret-pw"}
	_, err := svc.Register(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret-pw",
	})
	require.NoError(t, err)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(context.Background(), &domain.LoginRequest{
			Email:    "nobody@example.com",
			Password: "s3cret-pw",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_Login_InactiveAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret-pw",
	})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.User{}).
		Where("email = ?", "alice@example.com").
		Update("status", domain.RecordStatusInactive).Error)

	_, err = svc.Login(context.Background(), &domain.LoginRequest{
		Email:    "alice@example.com",
		Password: "s3cret-pw",
	})
	assert.ErrorIs(t, err, service.ErrInactiveAccount)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret-pw",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, &domain.UpdateProfileRequest{
		Name:  strPtr("Alice Berg"),
		Email: strPtr("alice.berg@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Berg", updated.Name)
	assert.Equal(t, "alice.berg@example.com", updated.Email)

	// The old password still works: no password fields were submitted.
	_, err = svc.Login(context.Background(), &domain.LoginRequest{
		Email: "alice.berg@example.com", Password: "s3cret-pw",
	})
	assert.NoError(t, err)
}

func TestAuthService_UpdateProfile_PasswordChange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret-pw",
	})
	require.NoError(t, err)

	t.Run("requires current password", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), user.ID, &domain.UpdateProfileRequest{
			NewPassword: strPtr("brand-new-pw"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), user.ID, &domain.UpdateProfileRequest{
			CurrentPassword: strPtr("not-it"),
			NewPassword:     strPtr("brand-new-pw"),
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("changes with correct current password", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), user.ID, &domain.UpdateProfileRequest{
			CurrentPassword: strPtr("s3cret-pw"),
			NewPassword:     strPtr("brand-new-pw"),
		})
		require.NoError(t, err)

		_, err = svc.Login(context.Background(), &domain.LoginRequest{
			Email: "alice@example.com", Password: "brand-new-pw",
		})
		assert.NoError(t, err)

		_, err = svc.Login(context.Background(), &domain.LoginRequest{
			Email: "alice@example.com", Password: "s3cret-pw",
		})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestAuthService_UpdateProfile_EmailTaken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := newAuthService(db)

	alice, err := svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Alice", Email: "alice@example.com", Password: "s3cret-pw",
	})
	require.NoError(t, err)
	_, err = svc.Register(context.Background(), &domain.RegisterRequest{
		Name: "Bob", Email: "bob@example.com", Password: "s3cret-pw",
	})
	require.NoError(t, err)

	_, err = svc.UpdateProfile(context.Background(), alice.ID, &domain.UpdateProfileRequest{
		Email: strPtr("bob@example.com"),
	})
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}
