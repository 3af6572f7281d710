package service

import (
	"context"
	"fmt"

	"github.com/ceh-soft/contract-api/internal/domain"
	"github.com/ceh-soft/contract-api/internal/mapper"
	"github.com/ceh-soft/contract-api/internal/repository"
	"go.uber.org/zap"
)

// DashboardService aggregates the headline numbers for the landing screen
type DashboardService struct {
	contractRepo *repository.ContractRepository
	warningRepo  *repository.WarningRepository
	logger       *zap.Logger
}

// NewDashboardService creates a new dashboard service instance
func NewDashboardService(contractRepo *repository.ContractRepository, warningRepo *repository.WarningRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		contractRepo: contractRepo,
		warningRepo:  warningRepo,
		logger:       logger,
	}
}

// KPIs returns the four headline metric cards: contract count, contracts in
// delivery, total revenue and total expenses.
func (s *DashboardService) KPIs(ctx context.Context) ([]domain.KPIDTO, error) {
	totalContracts, err := s.contractRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count contracts: %w", err)
	}
	inDelivery, err := s.contractRepo.CountWithStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count contracts in delivery: %w", err)
	}
	revenue, err := s.contractRepo.SumValuePostVAT(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	expenses, err := s.contractRepo.SumExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return []domain.KPIDTO{
		{
			Title:      "Total contracts",
			Value:      totalContracts,
			Icon:       "file",
			Trend:      12,
			IsPositive: true,
			TrendLabel: "vs last month",
		},
		{
			Title:      "Contracts in delivery",
			Value:      inDelivery,
			Icon:       "files",
			Trend:      8,
			IsPositive: true,
			TrendLabel: "steady growth",
		},
		{
			Title:      "Revenue",
			Value:      revenue,
			Icon:       "dollar",
			Trend:      15,
			IsPositive: true,
			TrendLabel: "solid growth",
		},
		{
			Title:      "Expenses",
			Value:      expenses,
			Icon:       "report",
			Trend:      -5,
			IsPositive: false,
			TrendLabel: "down vs last month",
		},
	}, nil
}

// TopCustomers returns the five customers with the highest contract revenue
func (s *DashboardService) TopCustomers(ctx context.Context) ([]domain.TopCustomerDTO, error) {
	rows, err := s.contractRepo.TopCustomersByRevenue(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load top customers: %w", err)
	}
	dtos := make([]domain.TopCustomerDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, domain.TopCustomerDTO{
			Name:      row.Name,
			Code:      row.Code,
			Revenue:   row.Revenue,
			Contracts: row.Contracts,
		})
	}
	return dtos, nil
}

// WarningsSummary returns the five unresolved warnings with the nearest due
// dates.
func (s *DashboardService) WarningsSummary(ctx context.Context) ([]domain.WarningDTO, error) {
	warnings, err := s.warningRepo.Soonest(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to load warnings: %w", err)
	}
	dtos := make([]domain.WarningDTO, 0, len(warnings))
	for i := range warnings {
		dtos = append(dtos, mapper.ToWarningDTO(&warnings[i]))
	}
	return dtos, nil
}
