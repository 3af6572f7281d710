package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMiddleware() (*auth.Middleware, *auth.TokenManager) {
	tokens := auth.NewTokenManager("test-secret", "contract-api", time.Hour)
	return auth.NewMiddleware(tokens, zap.NewNop()), tokens
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticate(t *testing.T) {
	mw, tokens := newTestMiddleware()
	user := testUser()
	signed, err := tokens.Issue(user)
	require.NoError(t, err)

	var captured *auth.UserContext
	handler := mw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = auth.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		require.NotNil(t, captured)
		assert.Equal(t, user.ID, captured.UserID)
		assert.Equal(t, domain.RoleManager, captured.Role)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set("Authorization", signed)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/contracts", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	mw, tokens := newTestMiddleware()

	issue := func(t *testing.T, role domain.UserRole) string {
		t.Helper()
		user := testUser()
		user.Role = role
		signed, err := tokens.Issue(user)
		require.NoError(t, err)
		return signed
	}

	adminOnly := mw.Authenticate(mw.RequireRole(domain.RoleAdmin)(okHandler()))
	writers := mw.Authenticate(mw.RequireRole(domain.RoleManager, domain.RoleAdmin)(okHandler()))

	call := func(handler http.Handler, token string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/contracts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call(adminOnly, issue(t, domain.RoleAdmin)))
	assert.Equal(t, http.StatusForbidden, call(adminOnly, issue(t, domain.RoleManager)))
	assert.Equal(t, http.StatusForbidden, call(adminOnly, issue(t, domain.RoleUser)))

	assert.Equal(t, http.StatusOK, call(writers, issue(t, domain.RoleAdmin)))
	assert.Equal(t, http.StatusOK, call(writers, issue(t, domain.RoleManager)))
	assert.Equal(t, http.StatusForbidden, call(writers, issue(t, domain.RoleUser)))
}

func TestRequireRole_WithoutAuthenticate(t *testing.T) {
	mw, _ := newTestMiddleware()
	handler := mw.RequireRole(domain.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
