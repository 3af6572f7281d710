package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Single-row endpoints for a contract's nested collections. The snapshot
// update on PUT /contracts/{id} remains the primary write path; these exist
// for screens that edit one row at a time.

// AddPaymentTerm godoc
// @Summary Add payment term
// @Description Append one installment to a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.PaymentTermInput true "Payment term data"
// @Success 201 {object} domain.PaymentTermDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/payment-terms [post]
func (h *ContractHandler) AddPaymentTerm(w http.ResponseWriter, r *http.Request) {
	contractID, ok := parseContractID(w, r)
	if !ok {
		return
	}

	var in domain.PaymentTermInput
	if !decodeChildInput(w, r, &in) {
		return
	}

	term, err := h.contractService.AddPaymentTerm(r.Context(), contractID, &in)
	if err != nil {
		h.respondChildError(w, err, "payment term")
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "add_payment_term", map[string]string{
		"contractId": contractID.String(),
		"termId":     term.ID.String(),
	})

	respondJSON(w, http.StatusCreated, term)
}

// UpdatePaymentTerm godoc
// @Summary Update payment term
// @Description Overwrite one installment of a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param termId path string true "Payment term ID" format(uuid)
// @Param request body domain.PaymentTermInput true "Payment term data"
// @Success 200 {object} domain.PaymentTermDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/payment-terms/{termId} [put]
func (h *ContractHandler) UpdatePaymentTerm(w http.ResponseWriter, r *http.Request) {
	contractID, ok := parseContractID(w, r)
	if !ok {
		return
	}
	termID, ok := parseChildID(w, r, "termId", "payment term")
	if !ok {
		return
	}

	var in domain.PaymentTermInput
	if !decodeChildInput(w, r, &in) {
		return
	}

	term, err := h.contractService.UpdatePaymentTerm(r.Context(), contractID, termID, &in)
	if err != nil {
		h.respondChildError(w, err, "payment term")
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "update_payment_term", map[string]string{
		"contractId": contractID.String(),
		"termId":     termID.String(),
	})

	respondJSON(w, http.StatusOK, term)
}

// AddExpense godoc
// @Summary Add expense
// @Description Append one expense row to a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.ExpenseInput true "Expense data"
// @Success 201 {object} domain.ExpenseDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/expenses [post]
func (h *ContractHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	contractID, ok := parseContractID(w, r)
	if !ok {
		return
	}

	var in domain.ExpenseInput
	if !decodeChildInput(w, r, &in) {
		return
	}

	expense, err := h.contractService.AddExpense(r.Context(), contractID, &in)
	if err != nil {
		h.respondChildError(w, err, "expense")
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "add_expense", map[string]string{
		"contractId": contractID.String(),
		"expenseId":  expense.ID.String(),
	})

	respondJSON(w, http.StatusCreated, expense)
}

// UpdateExpense godoc
// @Summary Update expense
// @Description Overwrite one expense row of a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param expenseId path string true "Expense ID" format(uuid)
// @Param request body domain.ExpenseInput true "Expense data"
// @Success 200 {object} domain.ExpenseDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/expenses/{expenseId} [put]
func (h *ContractHandler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
	contractID, ok := parseContractID(w, r)
	if !ok {
		return
	}
	expenseID, ok := parseChildID(w, r, "expenseId", "expense")
	if !ok {
		return
	}

	var in domain.ExpenseInput
	if !decodeChildInput(w, r, &in) {
		return
	}

	expense, err := h.contractService.UpdateExpense(r.Context(), contractID, expenseID, &in)
	if err != nil {
		h.respondChildError(w, err, "expense")
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "update_expense", map[string]string{
		"contractId": contractID.String(),
		"expenseId":  expenseID.String(),
	})

	respondJSON(w, http.StatusOK, expense)
}

// AddMember godoc
// @Summary Add project member
// @Description Append one staffing row to a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.ProjectMemberInput true "Member data"
// @Success 201 {object} domain.ProjectMemberDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/members [post]
func (h *ContractHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	contractID, ok := parseContractID(w, r)
	if !ok {
		return
	}

	var in domain.ProjectMemberInput
	if !decodeChildInput(w, r, &in) {
		return
	}

	member, err := h.contractService.AddMember(r.Context(), contractID, &in)
	if err != nil {
		h.respondChildError(w, err, "project member")
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "add_member", map[string]string{
		"contractId": contractID.String(),
		"memberId":   member.ID.String(),
	})

	respondJSON(w, http.StatusCreated, member)
}

// RemoveMember godoc
// @Summary Remove project member
// @Description Delete one staffing row from a contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param memberId path string true "Member ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/members/{memberId} [delete]
func (h *ContractHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	contractID, ok := parseContractID(w, r)
	if !ok {
		return
	}
	memberID, ok := parseChildID(w, r, "memberId", "member")
	if !ok {
		return
	}

	if err := h.contractService.RemoveMember(r.Context(), contractID, memberID); err != nil {
		h.respondChildError(w, err, "project member")
		return
	}

	h.auditService.Record(r.Context(), r, "contracts", "remove_member", map[string]string{
		"contractId": contractID.String(),
		"memberId":   memberID.String(),
	})

	w.WriteHeader(http.StatusNoContent)
}

func parseContractID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func parseChildID(w http.ResponseWriter, r *http.Request, param, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid " + label + " ID format",
		})
		return uuid.Nil, false
	}
	return id, true
}

func decodeChildInput(w http.ResponseWriter, r *http.Request, in interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(in); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return false
	}
	if err := validate.Struct(in); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

func (h *ContractHandler) respondChildError(w http.ResponseWriter, err error, label string) {
	switch {
	case errors.Is(err, service.ErrContractNotFound):
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "Contract not found",
		})
	case errors.Is(err, service.ErrPaymentTermNotFound),
		errors.Is(err, service.ErrExpenseNotFound),
		errors.Is(err, service.ErrMemberNotFound):
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "The " + label + " does not exist on this contract",
		})
	default:
		h.logger.Error("contract child operation failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to modify " + label,
		})
	}
}
