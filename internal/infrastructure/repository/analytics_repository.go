package repository

import (
	"context"
	"database/sql"
	"time"

	domainRepo "github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTotalOutstanding(ctx context.Context) (int64, error) {
	var total sql.NullInt64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(current_debt), 0)
		FROM customers
		WHERE deleted_at IS NULL
	`).Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func (r *analyticsRepository) GetOverdueTotals(ctx context.Context) (int64, int64, error) {
	var result struct {
		Amount sql.NullInt64
		Count  int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0) as amount, COUNT(*) as count
		FROM credit_transactions
		WHERE deleted_at IS NULL AND type = 0 AND status = 1
	`).Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Amount.Int64, result.Count, nil
}

func (r *analyticsRepository) GetTopDebtors(ctx context.Context, limit int) ([]domainRepo.DebtorResult, error) {
	var results []domainRepo.DebtorResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			c.current_debt as current_debt,
			COALESCE(SUM(t.amount) FILTER (WHERE t.status = 1 AND t.type = 0), 0) as overdue_amount
		FROM customers c
		LEFT JOIN credit_transactions t ON t.customer_id = c.id AND t.deleted_at IS NULL
		WHERE c.deleted_at IS NULL AND c.current_debt > 0
		GROUP BY c.id, c.name, c.current_debt
		ORDER BY c.current_debt DESC
		LIMIT ?
	`, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailyFlow(ctx context.Context, days int) ([]domainRepo.DailyFlowResult, error) {
	results := make([]domainRepo.DailyFlowResult, 0, days)
	now := time.Now()

	// One query per day keeps the SQL portable across postgres versions
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var row struct {
			Extended  sql.NullInt64
			Collected sql.NullInt64
		}
		err := r.db.WithContext(ctx).Raw(`
			SELECT
				COALESCE(SUM(amount) FILTER (WHERE type = 0), 0) as extended,
				COALESCE(SUM(amount) FILTER (WHERE type = 1), 0) as collected
			FROM credit_transactions
			WHERE deleted_at IS NULL AND date >= ? AND date < ?
		`, startOfDay, endOfDay).Scan(&row).Error
		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailyFlowResult{
			Date:      startOfDay,
			Extended:  row.Extended.Int64,
			Collected: row.Collected.Int64,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetDiscountTotals(ctx context.Context) (int64, int64, error) {
	var result struct {
		Count      int64
		Discounted sql.NullInt64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) as count, COALESCE(SUM(discount_amount), 0) as discounted
		FROM credit_transactions
		WHERE deleted_at IS NULL AND discount_amount IS NOT NULL AND discount_amount > 0
	`).Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Count, result.Discounted.Int64, nil
}
