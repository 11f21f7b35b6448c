package repository

import (
	"context"
	"errors"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	domainRepo "github.com/bkaradeniz/veresiye-api/internal/domain/repository"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type cashSessionRepository struct {
	db *gorm.DB
}

// NewCashSessionRepository creates a new cash session repository
func NewCashSessionRepository(db *gorm.DB) domainRepo.CashSessionRepository {
	return &cashSessionRepository{db: db}
}

func (r *cashSessionRepository) Create(ctx context.Context, session *entity.CashSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *cashSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.CashSession, error) {
	var session entity.CashSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) GetOpenSession(ctx context.Context) (*entity.CashSession, error) {
	var session entity.CashSession
	err := r.db.WithContext(ctx).
		Where("status = ?", enum.SessionStatusOpen).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *cashSessionRepository) Update(ctx context.Context, session *entity.CashSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *cashSessionRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.CashSession, int64, error) {
	var sessions []entity.CashSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.CashSession{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opening_date DESC").
		Find(&sessions).Error

	return sessions, total, err
}

type cashTransactionRepository struct {
	db *gorm.DB
}

// NewCashTransactionRepository creates a new cash transaction repository
func NewCashTransactionRepository(db *gorm.DB) domainRepo.CashTransactionRepository {
	return &cashTransactionRepository{db: db}
}

func (r *cashTransactionRepository) Create(ctx context.Context, tx *entity.CashTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *cashTransactionRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashTransaction, error) {
	var txs []entity.CashTransaction
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("date ASC").
		Find(&txs).Error
	return txs, err
}
