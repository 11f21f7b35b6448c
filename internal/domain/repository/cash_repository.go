package repository

import (
	"context"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
)

// CashSessionRepository defines the interface for cash session operations.
// The currently open session is looked up here rather than held as a
// process-wide singleton, so independent session lifecycles can coexist in
// tests.
type CashSessionRepository interface {
	Create(ctx context.Context, session *entity.CashSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error)
	// GetOpenSession returns the single Open session, or nil when the
	// register is closed.
	GetOpenSession(ctx context.Context) (*entity.CashSession, error)
	Update(ctx context.Context, session *entity.CashSession) error
	// List returns sessions newest first.
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashSession, int64, error)
}

// CashTransactionRepository defines the interface for drawer movements.
// Movements are append-only: there is deliberately no Update or Delete.
type CashTransactionRepository interface {
	Create(ctx context.Context, tx *entity.CashTransaction) error
	// ListBySession returns all movements of a session, oldest first.
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashTransaction, error)
}
