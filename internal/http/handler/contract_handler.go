package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/repository"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContractHandler struct {
	contractService *service.ContractService
	auditService    *service.AuditLogService
	logger          *zap.Logger
}

func NewContractHandler(contractService *service.ContractService, auditService *service.AuditLogService, logger *zap.Logger) *ContractHandler {
	return &ContractHandler{
		contractService: contractService,
		auditService:    auditService,
		logger:          logger,
	}
}

// List godoc
// @Summary List contracts
// @Description Get contract summaries with optional filters
// @Tags Contracts
// @Accept json
// @Produce json
// @Param search query string false "Search by contract code or name"
// @Param customerId query string false "Filter by customer" format(uuid)
// @Param statusId query string false "Filter by status" format(uuid)
// @Param typeId query string false "Filter by contract type" format(uuid)
// @Param signedFrom query string false "Signed on or after (YYYY-MM-DD)"
// @Param signedTo query string false "Signed on or before (YYYY-MM-DD)"
// @Success 200 {object} domain.ListResponse{data=[]domain.ContractSummaryDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := &repository.ContractFilters{
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("customerId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid customerId format",
			})
			return
		}
		filters.CustomerID = &id
	}

	if raw := r.URL.Query().Get("statusId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid statusId format",
			})
			return
		}
		filters.StatusID = &id
	}

	if raw := r.URL.Query().Get("typeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid typeId format",
			})
			return
		}
		filters.TypeID = &id
	}

	if raw := r.URL.Query().Get("signedFrom"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "signedFrom must be formatted as YYYY-MM-DD",
			})
			return
		}
		filters.SignedFrom = &t
	}

	if raw := r.URL.Query().Get("signedTo"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "signedTo must be formatted as YYYY-MM-DD",
			})
			return
		}
		filters.SignedTo = &t
	}

	contracts, err := h.contractService.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("failed to list contracts", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list contracts",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.ListResponse{Count: len(contracts), Data: contracts})
}

// GetByID godoc
// @Summary Get contract by ID
// @Description Get a contract with all nested collections
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	contract, err := h.contractService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
			return
		}
		h.logger.Error("failed to get contract", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get contract",
		})
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// Create godoc
// @Summary Create contract
// @Description Create a contract together with its nested payment terms, expenses and project members
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body domain.CreateContractRequest true "Contract data"
// @Success 201 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate contract code"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
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

	contract, err := h.contractService.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDuplicateContract):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A contract with this code already exists",
			})
		case errors.Is(err, service.ErrCustomerNotFound):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Customer does not exist",
			})
		case errors.Is(err, service.ErrItemNotFound):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "One or more referenced software types do not exist",
			})
		default:
			h.logger.Error("failed to create contract", zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to create contract",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "create", map[string]string{
		"contractId":   contract.ID.String(),
		"contractCode": contract.Code,
	})

	w.Header().Set("Location", "/api/contracts/"+contract.ID.String())
	respondJSON(w, http.StatusCreated, contract)
}

// Update godoc
// @Summary Update contract
// @Description Full-snapshot update of a contract. Omitted nested collections stay untouched, empty arrays delete all rows, submitted rows are reconciled against stored rows by ID.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.UpdateContractRequest true "Contract data"
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate code or stale version"
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	var req domain.UpdateContractRequest
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

	contract, err := h.contractService.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrContractNotFound):
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
		case errors.Is(err, service.ErrVersionConflict):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "Contract was modified by someone else, reload and try again",
			})
		case errors.Is(err, service.ErrDuplicateContract):
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A contract with this code already exists",
			})
		case errors.Is(err, service.ErrCustomerNotFound):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Customer does not exist",
			})
		case errors.Is(err, service.ErrItemNotFound):
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "One or more referenced software types do not exist",
			})
		default:
			h.logger.Error("failed to update contract", zap.Error(err), zap.String("contract_id", id.String()))
			respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
				Error:   "Internal Server Error",
				Message: "Failed to update contract",
			})
		}
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "update", map[string]string{
		"contractId":   contract.ID.String(),
		"contractCode": contract.Code,
	})

	respondJSON(w, http.StatusOK, contract)
}

// Delete godoc
// @Summary Delete contract
// @Description Delete a contract together with all nested rows, warnings and stored attachments
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	if err := h.contractService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
			return
		}
		h.logger.Error("failed to delete contract", zap.Error(err), zap.String("contract_id", id.String()))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete contract",
		})
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "delete", map[string]string{
		"contractId": id.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}
