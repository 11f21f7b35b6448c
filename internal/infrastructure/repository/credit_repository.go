package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	domainRepo "github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type creditTransactionRepository struct {
	db *gorm.DB
}

// NewCreditTransactionRepository creates a new credit transaction repository
func NewCreditTransactionRepository(db *gorm.DB) domainRepo.CreditTransactionRepository {
	return &creditTransactionRepository{db: db}
}

func (r *creditTransactionRepository) Create(ctx context.Context, tx *entity.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *creditTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CreditTransaction, error) {
	var tx entity.CreditTransaction
	err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &tx, err
}

func (r *creditTransactionRepository) Update(ctx context.Context, tx *entity.CreditTransaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *creditTransactionRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.CreditTransaction, int64, error) {
	var txs []entity.CreditTransaction
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CreditTransaction{}).
		Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("date DESC").
		Find(&txs).Error

	return txs, total, err
}

func (r *creditTransactionRepository) ListOutstandingDebts(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	var txs []entity.CreditTransaction
	// Oldest first: FIFO settlement retires the entries in this order
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND type = ? AND status IN ?",
			customerID, enum.CreditTypeDebt,
			[]enum.CreditStatus{enum.CreditStatusActive, enum.CreditStatusOverdue}).
		Order("date ASC").
		Find(&txs).Error
	return txs, err
}

func (r *creditTransactionRepository) ListOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) ([]entity.CreditTransaction, error) {
	var txs []entity.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?",
			customerID,
			[]enum.CreditStatus{enum.CreditStatusActive, enum.CreditStatusOverdue}).
		Order("date ASC").
		Find(&txs).Error
	return txs, err
}

func (r *creditTransactionRepository) ListDueBefore(ctx context.Context, cutoff time.Time) ([]entity.CreditTransaction, error) {
	var txs []entity.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ? AND due_date IS NOT NULL AND due_date < ?",
			enum.CreditTypeDebt, enum.CreditStatusActive, cutoff).
		Find(&txs).Error
	return txs, err
}
