package auth_test

import (
	"testing"
	"time"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *domain.User {
	return &domain.User{
		BaseModel: domain.BaseModel{ID: uuid.New()},
		Name:      "Alice",
		Email:     "alice@example.com",
		Role:      domain.RoleManager,
	}
}

func TestTokenManager_IssueAndValidate(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "contract-api", time.Hour)
	user := testUser()

	signed, err := tokens.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	userCtx, err := tokens.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userCtx.UserID)
	assert.Equal(t, user.Name, userCtx.Name)
	assert.Equal(t, user.Email, userCtx.Email)
	assert.Equal(t, domain.RoleManager, userCtx.Role)
}

func TestTokenManager_Expired(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "contract-api", time.Millisecond)

	signed, err := tokens.Issue(testUser())
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)

	_, err = tokens.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := auth.NewTokenManager("secret-a", "contract-api", time.Hour)
	verifier := auth.NewTokenManager("secret-b", "contract-api", time.Hour)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_WrongIssuer(t *testing.T) {
	issuer := auth.NewTokenManager("test-secret", "someone-else", time.Hour)
	verifier := auth.NewTokenManager("test-secret", "contract-api", time.Hour)

	signed, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = verifier.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_Garbage(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "contract-api", time.Hour)

	_, err := tokens.Validate("not.a.token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenManager_UnknownRole(t *testing.T) {
	tokens := auth.NewTokenManager("test-secret", "contract-api", time.Hour)
	user := testUser()
	user.Role = "superuser"

	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	_, err = tokens.Validate(signed)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
