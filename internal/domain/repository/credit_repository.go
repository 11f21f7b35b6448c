package repository

import (
	"context"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
)

// CreditTransactionRepository defines the interface for ledger entry operations
type CreditTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CreditTransaction) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error)
	Update(ctx context.Context, tx *entity.CreditTransaction) error
	// ListByCustomer returns all entries for a customer, newest first.
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.CreditTransaction, int64, error)
	// ListOutstandingDebts returns Active and Overdue debt entries for a
	// customer ordered by entry date ascending. FIFO settlement walks this
	// list oldest first.
	ListOutstandingDebts(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error)
	// ListOutstandingByCustomer returns every outstanding entry (debt and
	// payment) for a customer.
	ListOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error)
	// ListDueBefore returns Active debt entries whose due date falls strictly
	// before the cutoff. Feeds the overdue status refresh.
	ListDueBefore(ctx context.Context, cutoff time.Time) ([]entity.CreditTransaction, error)
}
