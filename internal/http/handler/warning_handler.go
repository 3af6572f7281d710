package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type WarningHandler struct {
	warningService *service.WarningService
	auditService   *service.AuditLogService
	logger         *zap.Logger
}

func NewWarningHandler(warningService *service.WarningService, auditService *service.AuditLogService, logger *zap.Logger) *WarningHandler {
	return &WarningHandler{
		warningService: warningService,
		auditService:   auditService,
		logger:         logger,
	}
}

// List godoc
// @Summary List warnings
// @Description Get contract deadline warnings with optional filters
// @Tags Warnings
// @Accept json
// @Produce json
// @Param type query string false "Filter by kind" Enums(acceptance_upcoming, acceptance_overdue, payment_upcoming, payment_overdue, contract_expired)
// @Param status query string false "Filter by handling status" Enums(pending, processing, resolved)
// @Param startDate query string false "Due on or after (YYYY-MM-DD)"
// @Param endDate query string false "Due on or before (YYYY-MM-DD)"
// @Success 200 {object} domain.ListResponse{data=[]domain.WarningDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /warnings [get]
func (h *WarningHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &domain.WarningFilters{}

	if raw := r.URL.Query().Get("type"); raw != "" {
		kind := domain.WarningKind(raw)
		filters.Kind = &kind
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.WarningStatus(raw)
		filters.Status = &status
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

	warnings, err := h.warningService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list warnings", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list warnings",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(warnings), Data: warnings})
}

// GetByID godoc
// @Summary Get warning by ID
// @Tags Warnings
// @Accept json
// @Produce json
// @Param id path string true "Warning ID" format(uuid)
// @Success 200 {object} domain.WarningDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /warnings/{id} [get]
func (h *WarningHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid warning ID format",
		})
		return
	}

	warning, err := h.warningService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrWarningNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Warning not found",
			})
			return
		}
		h.logger.Error("failed to get warning", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get warning",
		})
		return
	}

	respondJSON(w, http.StatusOK, warning)
}

// Create godoc
// @Summary Create warning
// @Description Create a manual warning attached to a contract
// @Tags Warnings
// @Accept json
// @Produce json
// @Param request body domain.CreateWarningRequest true "Warning data"
// @Success 201 {object} domain.WarningDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /warnings [post]
func (h *WarningHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateWarningRequest
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

	warning, err := h.warningService.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Contract does not exist",
			})
			return
		}
		h.logger.Error("failed to create warning", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create warning",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "warnings", "create", map[string]string{
		"warningId":  warning.ID.String(),
		"contractId": req.ContractID.String(),
	})

	respondJSON(w, http.StatusCreated, warning)
}

// Update godoc
// @Summary Update warning status
// @Description Move a warning through its handling states
// @Tags Warnings
// @Accept json
// @Produce json
// @Param id path string true "Warning ID" format(uuid)
// @Param request body domain.UpdateWarningRequest true "Status change"
// @Success 200 {object} domain.WarningDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /warnings/{id} [put]
func (h *WarningHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid warning ID format",
		})
		return
	}

	var req domain.UpdateWarningRequest
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

	warning, err := h.warningService.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrWarningNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Warning not found",
			})
			return
		}
		h.logger.Error("failed to update warning", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update warning",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "warnings", "update", map[string]string{
		"warningId": id.String(),
		"status":    string(req.Status),
	})

	respondJSON(w, http.StatusOK, warning)
}

// Delete godoc
// @Summary Delete warning
// @Tags Warnings
// @Accept json
// @Produce json
// @Param id path string true "Warning ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /warnings/{id} [delete]
func (h *WarningHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid warning ID format",
		})
		return
	}

	if err := h.warningService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrWarningNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Warning not found",
			})
			return
		}
		h.logger.Error("failed to delete warning", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete warning",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "warnings", "delete", map[string]string{
		"warningId": id.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}

// Generate godoc
// @Summary Generate warnings
// @Description Run the deadline warning sweep over all contracts immediately
// @Tags Warnings
// @Accept json
// @Produce json
// @Success 200 {object} map[string]int
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /warnings/generate [post]
func (h *WarningHandler) Generate(w http.ResponseWriter, r *http.Request) {
	created, refreshed, err := h.warningService.Generate(r.Context())
	if err != nil {
		h.logger.Error("warning generation failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to generate warnings",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "warnings", "generate", map[string]int{
		"created":   created,
		"refreshed": refreshed,
	})

	respondJSON(w, http.StatusOK, map[string]int{
		"created":   created,
		"refreshed": refreshed,
	})
}
