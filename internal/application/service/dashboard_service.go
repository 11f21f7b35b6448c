package service

import (
	"context"

	"github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
)

// DashboardService provides shop-level statistics over the ledger and the
// drawer.
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	customerRepo  repository.CustomerRepository
	sessionRepo   repository.CashSessionRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	customerRepo repository.CustomerRepository,
	sessionRepo repository.CashSessionRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		customerRepo:  customerRepo,
		sessionRepo:   sessionRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers   int64            `json:"total_customers"`
	IndebtedCount    int64            `json:"indebted_count"`
	TotalOutstanding float64          `json:"total_outstanding"`
	TotalOverdue     float64          `json:"total_overdue"`
	OverdueCount     int64            `json:"overdue_count"`
	DiscountedCount  int64            `json:"discounted_count"`
	DiscountedTotal  float64          `json:"discounted_total"`
	RegisterOpen     bool             `json:"register_open"`
	TopDebtors       []DebtorPoint    `json:"top_debtors"`
	DailyFlowData    []DailyFlowPoint `json:"daily_flow_data"`
}

// DebtorPoint represents one customer's outstanding position
type DebtorPoint struct {
	CustomerID   string  `json:"customer_id"`
	CustomerName string  `json:"customer_name"`
	CurrentDebt  float64 `json:"current_debt"`
	Overdue      float64 `json:"overdue"`
}

// DailyFlowPoint represents one day of ledger movement
type DailyFlowPoint struct {
	Date      string  `json:"date"`
	Extended  float64 `json:"extended"`
	Collected float64 `json:"collected"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	// Counts come from the paged listings; only the totals are needed
	paginationParams := pagination.DefaultPagination()
	paginationParams.PerPage = 1

	_, customerCount, err := s.customerRepo.List(ctx, paginationParams, "")
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	_, indebtedCount, err := s.customerRepo.ListIndebted(ctx, paginationParams)
	if err != nil {
		return nil, err
	}
	stats.IndebtedCount = indebtedCount

	outstanding, err := s.analyticsRepo.GetTotalOutstanding(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalOutstanding = float64(outstanding) / 100

	overdueAmount, overdueCount, err := s.analyticsRepo.GetOverdueTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats.TotalOverdue = float64(overdueAmount) / 100
	stats.OverdueCount = overdueCount

	discountCount, discountTotal, err := s.analyticsRepo.GetDiscountTotals(ctx)
	if err != nil {
		return nil, err
	}
	stats.DiscountedCount = discountCount
	stats.DiscountedTotal = float64(discountTotal) / 100

	openSession, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return nil, err
	}
	stats.RegisterOpen = openSession != nil

	debtors, err := s.analyticsRepo.GetTopDebtors(ctx, 5)
	if err != nil {
		return nil, err
	}
	stats.TopDebtors = make([]DebtorPoint, 0, len(debtors))
	for _, d := range debtors {
		stats.TopDebtors = append(stats.TopDebtors, DebtorPoint{
			CustomerID:   d.CustomerID.String(),
			CustomerName: d.CustomerName,
			CurrentDebt:  float64(d.CurrentDebt) / 100,
			Overdue:      float64(d.OverdueAmount) / 100,
		})
	}

	flow, err := s.analyticsRepo.GetDailyFlow(ctx, 7)
	if err != nil {
		return nil, err
	}
	stats.DailyFlowData = make([]DailyFlowPoint, 0, len(flow))
	for _, f := range flow {
		stats.DailyFlowData = append(stats.DailyFlowData, DailyFlowPoint{
			Date:      f.Date.Format("Jan 02"),
			Extended:  float64(f.Extended) / 100,
			Collected: float64(f.Collected) / 100,
		})
	}

	return stats, nil
}
