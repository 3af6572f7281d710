package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MasterDataHandler serves the seven reference-data tables through one
// kind-parameterized endpoint set.
type MasterDataHandler struct {
	masterService *service.MasterDataService
	auditService  *service.AuditLogService
	logger        *zap.Logger
}

func NewMasterDataHandler(masterService *service.MasterDataService, auditService *service.AuditLogService, logger *zap.Logger) *MasterDataHandler {
	return &MasterDataHandler{
		masterService: masterService,
		auditService:  auditService,
		logger:        logger,
	}
}

func (h *MasterDataHandler) kind(w http.ResponseWriter, r *http.Request) (repository.MasterDataKind, bool) {
	kind, ok := repository.ParseMasterDataKind(chi.URLParam(r, "kind"))
	if !ok {
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "Unknown master data kind",
		})
		return "", false
	}
	return kind, true
}

// List godoc
// @Summary List master data records
// @Description Get all records of one master data kind, optionally filtered by a search term
// @Tags MasterData
// @Accept json
// @Produce json
// @Param kind path string true "Master data kind" Enums(customers, suppliers, software, status, contract-types, units, personnel)
// @Param search query string false "Search by code or name"
// @Success 200 {object} domain.ListResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /master-data/{kind} [get]
func (h *MasterDataHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	records, err := h.masterService.List(r.Context(), kind, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list master data", zap.Error(err), zap.String("kind", string(kind)))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list records",
		})
		return
	}

	respondJSON(w, http.StatusOK, records)
}

// GetByID godoc
// @Summary Get master data record
// @Tags MasterData
// @Accept json
// @Produce json
// @Param kind path string true "Master data kind" Enums(customers, suppliers, software, status, contract-types, units, personnel)
// @Param id path string true "Record ID" format(uuid)
// @Success 200 {object} interface{}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /master-data/{kind}/{id} [get]
func (h *MasterDataHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid record ID format",
		})
		return
	}

	record, err := h.masterService.GetByID(r.Context(), kind, id)
	if err != nil {
		if errors.Is(err, service.ErrItemNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Record not found",
			})
			return
		}
		h.logger.Error("failed to get master data record", zap.Error(err), zap.String("kind", string(kind)))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get record",
		})
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// Create godoc
// @Summary Create master data record
// @Tags MasterData
// @Accept json
// @Produce json
// @Param kind path string true "Master data kind" Enums(customers, suppliers, software, status, contract-types, units, personnel)
// @Param request body domain.MasterDataInput true "Record data"
// @Success 201 {object} interface{}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate code"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /master-data/{kind} [post]
func (h *MasterDataHandler) Create(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	var in domain.MasterDataInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(in); err != nil {
		respondValidationError(w, err)
		return
	}

	record, err := h.masterService.Create(r.Context(), kind, &in)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateCode) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A record with this code already exists",
			})
			return
		}
		h.logger.Error("failed to create master data record", zap.Error(err), zap.String("kind", string(kind)))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create record",
		})
		return
	}

	h.auditService.Record(r.Context(), r, string(kind), "create", map[string]string{
		"code": in.Code,
		"name": in.Name,
	})

	respondJSON(w, http.StatusCreated, record)
}

// Update godoc
// @Summary Update master data record
// @Tags MasterData
// @Accept json
// @Produce json
// @Param kind path string true "Master data kind" Enums(customers, suppliers, software, status, contract-types, units, personnel)
// @Param id path string true "Record ID" format(uuid)
// @Param request body domain.MasterDataInput true "Record data"
// @Success 200 {object} interface{}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate code"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /master-data/{kind}/{id} [put]
func (h *MasterDataHandler) Update(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid record ID format",
		})
		return
	}

	var in domain.MasterDataInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(in); err != nil {
		respondValidationError(w, err)
		return
	}

	record, err := h.masterService.Update(r.Context(), kind, id, &in)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Record not found",
			})
		case errors.Is(err, service.ErrDuplicateCode):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A record with this code already exists",
			})
		default:
			h.logger.Error("failed to update master data record", zap.Error(err), zap.String("kind", string(kind)))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update record",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, string(kind), "update", map[string]string{
		"id":   id.String(),
		"code": in.Code,
	})

	respondJSON(w, http.StatusOK, record)
}

// Delete godoc
// @Summary Delete master data record
// @Description Delete a record. Customers that are referenced by contracts cannot be deleted.
// @Tags MasterData
// @Accept json
// @Produce json
// @Param kind path string true "Master data kind" Enums(customers, suppliers, software, status, contract-types, units, personnel)
// @Param id path string true "Record ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Record is in use"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /master-data/{kind}/{id} [delete]
func (h *MasterDataHandler) Delete(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.kind(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid record ID format",
		})
		return
	}

	if err := h.masterService.Delete(r.Context(), kind, id); err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Record not found",
			})
		case errors.Is(err, service.ErrItemInUse):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
			})
		default:
			h.logger.Error("failed to delete master data record", zap.Error(err), zap.String("kind", string(kind)))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to delete record",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, string(kind), "delete", map[string]string{
		"id": id.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}
