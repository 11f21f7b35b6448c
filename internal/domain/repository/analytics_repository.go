package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DebtorResult represents a customer's outstanding position
type DebtorResult struct {
	CustomerID    uuid.UUID
	CustomerName  string
	CurrentDebt   int64
	OverdueAmount int64
}

// DailyFlowResult represents ledger movement for a single day
type DailyFlowResult struct {
	Date      time.Time
	Extended  int64
	Collected int64
}

// AnalyticsRepository defines interface for ledger aggregation queries
type AnalyticsRepository interface {
	// GetTotalOutstanding returns the sum of all customer debts
	GetTotalOutstanding(ctx context.Context) (int64, error)

	// GetOverdueTotals returns the total amount and entry count of overdue debts
	GetOverdueTotals(ctx context.Context) (int64, int64, error)

	// GetTopDebtors returns customers with the largest outstanding debt
	GetTopDebtors(ctx context.Context, limit int) ([]DebtorResult, error)

	// GetDailyFlow returns per-day extended credit and collected payments for the last N days
	GetDailyFlow(ctx context.Context, days int) ([]DailyFlowResult, error)

	// GetDiscountTotals returns the count of discounted entries and the total amount forgiven
	GetDiscountTotals(ctx context.Context) (int64, int64, error)
}
