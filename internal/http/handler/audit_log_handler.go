package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"go.uber.org/zap"
)

type AuditLogHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

func NewAuditLogHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditLogHandler {
	return &AuditLogHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Get the audit trail, newest first
// @Tags Admin
// @Accept json
// @Produce json
// @Param screen query string false "Filter by screen"
// @Param action query string false "Filter by action" Enums(create, update, delete, login, generate)
// @Param startDate query string false "Recorded on or after (YYYY-MM-DD)"
// @Param endDate query string false "Recorded on or before (YYYY-MM-DD)"
// @Param limit query int false "Maximum rows" default(100)
// @Success 200 {object} domain.ListResponse{data=[]domain.AuditLog}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /admin/logs [get]
func (h *AuditLogHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &domain.AuditLogFilters{
		Screen: r.URL.Query().Get("screen"),
		Action: r.URL.Query().Get("action"),
	}

	if raw := r.URL.Query().Get("startDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "startDate must be formatted as YYYY-MM-DD",
			})
			return
		}
		filters.StartDate = &t
	}
	if raw := r.URL.Query().Get("endDate"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "endDate must be formatted as YYYY-MM-DD",
			})
			return
		}
		filters.EndDate = &t
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "limit must be a positive integer",
			})
			return
		}
		filters.Limit = limit
	}

	logs, err := h.auditService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list audit logs",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(logs), Data: logs})
}
