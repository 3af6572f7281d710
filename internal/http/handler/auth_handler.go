package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/auth"
	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService  *service.AuthService
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, auditService *service.AuditLogService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		auditService: auditService,
		logger:       logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Exchange email and password for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "Account inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid email or password",
			})
		case errors.Is(err, service.ErrInactiveAccount):
			respondJSON(w, http.StatusForbidden, domain.ErrorResponse{
				Error:   "Forbidden",
				Message: "Account is inactive",
			})
		default:
			h.logger.Error("login failed", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to log in",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "auth", "login", map[string]string{
		"email": req.Email,
	})

	respondJSON(w, http.StatusOK, resp)
}

// Register godoc
// @Summary Register account
// @Description Create a new user account. Restricted to administrators.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "New account"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Email already in use"
// @Security BearerAuth
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "An account with this email already exists",
			})
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create account",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "users", "create", map[string]string{
		"userId": user.ID.String(),
		"email":  user.Email,
	})

	respondJSON(w, http.StatusCreated, user)
}

// Me godoc
// @Summary Current user
// @Description Get the account behind the presented token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Authentication required",
		})
		return
	}

	user, err := h.authService.CurrentUser(r.Context(), userCtx.UserID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Account no longer exists",
			})
			return
		}
		h.logger.Error("failed to load current user", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to load account",
		})
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Description Edit the authenticated user's name, email or password. A password change requires the current password.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse "Wrong current password"
// @Failure 409 {object} domain.ErrorResponse "Email already in use"
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
			Error:   "Unauthorized",
			Message: "Authentication required",
		})
		return
	}

	var req domain.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), userCtx.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Account no longer exists",
			})
		case errors.Is(err, service.ErrEmailTaken):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Email already in use",
			})
		case errors.Is(err, service.ErrInvalidCredentials):
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Current password is incorrect",
			})
		default:
			h.logger.Error("failed to update profile", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update profile",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "auth", "update_profile", map[string]string{
		"userId": userCtx.UserID.String(),
	})

	respondJSON(w, http.StatusOK, user)
}

// Logout godoc
// @Summary Log out
// @Description Tokens are stateless, so logout only records the event; the client discards its token.
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.MessageResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if userCtx, ok := auth.FromContext(r.Context()); ok {
		h.auditService.Record(r.Context(), r, "auth", "logout", map[string]string{
			"userId": userCtx.UserID.String(),
		})
	}

	respondJSON(w, http.StatusOK, domain.MessageResponse{Message: "Logged out successfully"})
}
