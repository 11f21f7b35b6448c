package service

import (
	"context"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
)

// LedgerService owns the customer tab: it is the only writer of
// Customer.CurrentDebt and of CreditTransaction rows.
type LedgerService struct {
	customerRepo repository.CustomerRepository
	creditRepo   repository.CreditTransactionRepository
	dueSoonDays  int
}

// NewLedgerService creates a new ledger service. dueSoonDays is the
// look-ahead window for the approaching-due computation.
func NewLedgerService(
	customerRepo repository.CustomerRepository,
	creditRepo repository.CreditTransactionRepository,
	dueSoonDays int,
) *LedgerService {
	if dueSoonDays <= 0 {
		dueSoonDays = 7
	}
	return &LedgerService{
		customerRepo: customerRepo,
		creditRepo:   creditRepo,
		dueSoonDays:  dueSoonDays,
	}
}

// DiscountProvenance records how a checkout discount produced the entry's
// final amount.
type DiscountProvenance struct {
	OriginalAmount int64
	DiscountAmount int64
	Type           enum.DiscountType
	Value          float64
}

// AddTransactionInput represents a new ledger entry
type AddTransactionInput struct {
	CustomerID    uuid.UUID
	Type          enum.CreditType
	Amount        int64 // kuruş, > 0
	Description   string
	DueDate       *time.Time
	RelatedSaleID *uuid.UUID
	Discount      *DiscountProvenance
}

// AddTransactionResult carries the created entry plus, for payments, the
// overpayment beyond the customer's total outstanding debt.
type AddTransactionResult struct {
	Transaction *entity.CreditTransaction
	Surplus     int64
}

// AddTransaction records a debt or payment on the customer's tab. Debts are
// checked against the credit limit; payments trigger FIFO settlement of the
// oldest outstanding debts.
func (s *LedgerService) AddTransaction(ctx context.Context, input *AddTransactionInput) (*AddTransactionResult, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.Type == enum.CreditTypeDebt && customer.CurrentDebt+input.Amount > customer.CreditLimit {
		return nil, apperror.ErrLimitExceeded
	}

	tx := &entity.CreditTransaction{
		CustomerID:    input.CustomerID,
		Type:          input.Type,
		Status:        enum.CreditStatusActive,
		Amount:        input.Amount,
		Date:          time.Now(),
		Description:   input.Description,
		RelatedSaleID: input.RelatedSaleID,
	}
	if input.Type == enum.CreditTypeDebt {
		tx.DueDate = input.DueDate
	}
	if input.Discount != nil && input.Discount.Type != enum.DiscountTypeNone {
		original := input.Discount.OriginalAmount
		discount := input.Discount.DiscountAmount
		value := input.Discount.Value
		tx.OriginalAmount = &original
		tx.DiscountAmount = &discount
		tx.DiscountType = input.Discount.Type
		tx.DiscountValue = &value
	}

	if err := s.creditRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	result := &AddTransactionResult{Transaction: tx}

	switch input.Type {
	case enum.CreditTypeDebt:
		customer.CurrentDebt += input.Amount
	case enum.CreditTypePayment:
		surplus, err := s.settlePayment(ctx, input.CustomerID, input.Amount)
		if err != nil {
			return nil, err
		}
		// The payment is fully applied the moment settlement ran, so the
		// entry is retired immediately. Keeps the outstanding-entries sum in
		// step with CurrentDebt.
		tx.Status = enum.CreditStatusPaid
		if err := s.creditRepo.Update(ctx, tx); err != nil {
			return nil, err
		}
		result.Surplus = surplus
		customer.CurrentDebt -= input.Amount - surplus
		if customer.CurrentDebt < 0 {
			customer.CurrentDebt = 0
		}
	}

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, err
	}

	return result, nil
}

// settlePayment walks the customer's outstanding debts oldest first, retiring
// each fully covered entry and partially reducing the first one the payment
// cannot cover. Returns whatever is left of the payment once every debt is
// retired.
func (s *LedgerService) settlePayment(ctx context.Context, customerID uuid.UUID, paymentAmount int64) (int64, error) {
	debts, err := s.creditRepo.ListOutstandingDebts(ctx, customerID)
	if err != nil {
		return 0, err
	}

	remaining := paymentAmount
	for i := range debts {
		if remaining <= 0 {
			break
		}
		debt := &debts[i]
		if remaining >= debt.Amount {
			remaining -= debt.Amount
			debt.Status = enum.CreditStatusPaid
		} else {
			debt.Amount -= remaining
			remaining = 0
		}
		if err := s.creditRepo.Update(ctx, debt); err != nil {
			return 0, err
		}
	}

	return remaining, nil
}

// GetTransaction retrieves a ledger entry by ID
func (s *LedgerService) GetTransaction(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error) {
	tx, err := s.creditRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, apperror.NewNotFoundError("Transaction")
	}
	return tx, nil
}

// ListTransactions lists a customer's ledger entries, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CreditTransaction], error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	txs, total, err := s.creditRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(txs, pag), nil
}

// CustomerSummary aggregates a customer's ledger position
type CustomerSummary struct {
	CustomerID          uuid.UUID  `json:"customer_id"`
	TotalDebt           float64    `json:"total_debt"`
	TotalOverdue        float64    `json:"total_overdue"`
	ActiveCount         int        `json:"active_count"`
	OverdueCount        int        `json:"overdue_count"`
	ApproachingDueCount int        `json:"approaching_due_count"`
	DiscountedCount     int        `json:"discounted_count"`
	DiscountedTotal     float64    `json:"discounted_total"`
	LastTransactionDate *time.Time `json:"last_transaction_date,omitempty"`
}

// GetCustomerSummary computes the customer's aggregate position from their
// outstanding entries.
func (s *LedgerService) GetCustomerSummary(ctx context.Context, customerID uuid.UUID) (*CustomerSummary, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	entries, err := s.creditRepo.ListOutstandingByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	summary := &CustomerSummary{CustomerID: customerID}

	var totalDebt, totalOverdue, discounted int64
	today := startOfDay(time.Now())
	dueCutoff := today.AddDate(0, 0, s.dueSoonDays)

	for i := range entries {
		e := &entries[i]
		if e.Type == enum.CreditTypeDebt {
			totalDebt += e.Amount
		} else {
			totalDebt -= e.Amount
		}
		switch e.Status {
		case enum.CreditStatusActive:
			summary.ActiveCount++
		case enum.CreditStatusOverdue:
			summary.OverdueCount++
			if e.Type == enum.CreditTypeDebt {
				totalOverdue += e.Amount
			}
		}
		if e.Type == enum.CreditTypeDebt && e.Status == enum.CreditStatusActive && e.DueDate != nil {
			due := startOfDay(*e.DueDate)
			if !due.Before(today) && !due.After(dueCutoff) {
				summary.ApproachingDueCount++
			}
		}
	}

	// Discount statistics and last activity cover the full history, not just
	// outstanding entries.
	for page := 1; ; page++ {
		all, total, err := s.creditRepo.ListByCustomer(ctx, customerID, &pagination.PaginationParams{Page: page, PerPage: 100})
		if err != nil {
			return nil, err
		}
		for i := range all {
			e := &all[i]
			if e.Discounted() {
				summary.DiscountedCount++
				discounted += *e.DiscountAmount
			}
			if summary.LastTransactionDate == nil || e.Date.After(*summary.LastTransactionDate) {
				d := e.Date
				summary.LastTransactionDate = &d
			}
		}
		if int64(page*100) >= total || len(all) == 0 {
			break
		}
	}

	// Display rule: a settled customer never shows approaching-due entries,
	// even when raw entries with near-term due dates exist.
	if customer.CurrentDebt == 0 {
		summary.ApproachingDueCount = 0
	}

	summary.TotalDebt = float64(totalDebt) / 100
	summary.TotalOverdue = float64(totalOverdue) / 100
	summary.DiscountedTotal = float64(discounted) / 100
	return summary, nil
}

// RefreshOverdueStatuses flips active debt entries past their due date to
// Overdue. Returns the number of entries updated. Meant to run at startup and
// once per day thereafter.
func (s *LedgerService) RefreshOverdueStatuses(ctx context.Context) (int, error) {
	cutoff := startOfDay(time.Now())
	entries, err := s.creditRepo.ListDueBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range entries {
		entries[i].Status = enum.CreditStatusOverdue
		if err := s.creditRepo.Update(ctx, &entries[i]); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

// ForceSettleCustomer marks every outstanding entry of the customer as Paid.
// Repair path used before deleting a customer whose CurrentDebt is already
// zero but whose entries were left outstanding by an external correction.
func (s *LedgerService) ForceSettleCustomer(ctx context.Context, customerID uuid.UUID) error {
	entries, err := s.creditRepo.ListOutstandingByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Status = enum.CreditStatusPaid
		if err := s.creditRepo.Update(ctx, &entries[i]); err != nil {
			return err
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
