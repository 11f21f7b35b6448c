package repository

import (
	"context"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository stores processed commit keys so settlement retries
// can replay the cached response instead of re-running the commit.
type IdempotencyRepository interface {
	// GetByKey looks up a key scoped to the operator that sent it.
	GetByKey(ctx context.Context, key string, userID uuid.UUID) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// DeleteExpired purges keys past their TTL, run by the daily
	// maintenance ticker.
	DeleteExpired(ctx context.Context) error
}
