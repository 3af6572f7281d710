package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type SystemConfigHandler struct {
	configService *service.SystemConfigService
	auditService  *service.AuditLogService
	logger        *zap.Logger
}

func NewSystemConfigHandler(configService *service.SystemConfigService, auditService *service.AuditLogService, logger *zap.Logger) *SystemConfigHandler {
	return &SystemConfigHandler{
		configService: configService,
		auditService:  auditService,
		logger:        logger,
	}
}

// List godoc
// @Summary List system configs
// @Tags Admin
// @Accept json
// @Produce json
// @Param category query string false "Filter by category"
// @Success 200 {object} domain.ListResponse{data=[]domain.SystemConfig}
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/configs [get]
func (h *SystemConfigHandler) List(w http.ResponseWriter, r *http.Request) {
	configs, err := h.configService.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.logger.Error("failed to list system configs", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list configs",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(configs), Data: configs})
}

// GetByKey godoc
// @Summary Get system config
// @Tags Admin
// @Accept json
// @Produce json
// @Param key path string true "Config key"
// @Success 200 {object} domain.SystemConfig
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/configs/{key} [get]
func (h *SystemConfigHandler) GetByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	cfg, err := h.configService.GetByKey(r.Context(), key)
	if err != nil {
		if errors.Is(err, service.ErrConfigNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Config not found",
			})
			return
		}
		h.logger.Error("failed to get system config", zap.Error(err), zap.String("key", key))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get config",
		})
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// Update godoc
// @Summary Update system config
// @Description Change the value of an editable config. The value must parse according to the config's declared type.
// @Tags Admin
// @Accept json
// @Produce json
// @Param key path string true "Config key"
// @Param request body domain.UpdateConfigRequest true "New value"
// @Success 200 {object} domain.SystemConfig
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "Config is read-only"
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/configs/{key} [put]
func (h *SystemConfigHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req domain.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	cfg, err := h.configService.Update(r.Context(), key, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConfigNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Config not found",
			})
		case errors.Is(err, service.ErrConfigNotEditable):
			respondJSON(w, http.StatusForbidden, domain.ErrorResponse{
				Error:   "Forbidden",
				Message: "Config is read-only",
			})
		default:
			h.logger.Error("failed to update system config", zap.Error(err), zap.String("key", key))
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "configs", "update", map[string]string{
		"key":   key,
		"value": req.Value,
	})

	respondJSON(w, http.StatusOK, cfg)
}
