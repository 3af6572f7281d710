package handler

import (
	"net/http"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// KPIs godoc
// @Summary Dashboard KPI cards
// @Description Headline metrics: total contracts, contracts in delivery, revenue and expenses
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {array} domain.KPIDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/kpis [get]
func (h *DashboardHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.dashboardService.KPIs(r.Context())
	if err != nil {
		h.logger.Error("failed to build dashboard KPIs", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build dashboard metrics",
		})
		return
	}

	respondJSON(w, http.StatusOK, kpis)
}

// TopCustomers godoc
// @Summary Top customers by revenue
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {array} domain.TopCustomerDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/top-customers [get]
func (h *DashboardHandler) TopCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.dashboardService.TopCustomers(r.Context())
	if err != nil {
		h.logger.Error("failed to rank customers", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to rank customers",
		})
		return
	}

	respondJSON(w, http.StatusOK, customers)
}

// Warnings godoc
// @Summary Soonest unresolved warnings
// @Tags Dashboard
// @Accept json
// @Produce json
// @Success 200 {array} domain.WarningDTO
// @Failure 401 {object} domain.ErrorResponse
// @Failure 500 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /dashboard/warnings [get]
func (h *DashboardHandler) Warnings(w http.ResponseWriter, r *http.Request) {
	warnings, err := h.dashboardService.WarningsSummary(r.Context())
	if err != nil {
		h.logger.Error("failed to summarize warnings", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to summarize warnings",
		})
		return
	}

	respondJSON(w, http.StatusOK, warnings)
}
