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

// CashService manages the drawer: one open session at a time, append-only
// movements, end-of-day counting and close.
type CashService struct {
	sessionRepo repository.CashSessionRepository
	cashTxRepo  repository.CashTransactionRepository
}

// NewCashService creates a new cash service
func NewCashService(
	sessionRepo repository.CashSessionRepository,
	cashTxRepo repository.CashTransactionRepository,
) *CashService {
	return &CashService{
		sessionRepo: sessionRepo,
		cashTxRepo:  cashTxRepo,
	}
}

// OpenSession opens the register with a starting float
func (s *CashService) OpenSession(ctx context.Context, openedBy uuid.UUID, openingBalance int64) (*entity.CashSession, error) {
	if openingBalance < 0 {
		return nil, apperror.NewBadRequestError("Opening balance cannot be negative")
	}

	existing, err := s.sessionRepo.GetOpenSession(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.ErrSessionAlreadyOpen
	}

	session := &entity.CashSession{
		Status:         enum.SessionStatusOpen,
		OpeningDate:    time.Now(),
		OpeningBalance: openingBalance,
		OpenedBy:       openedBy,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetOpenSession returns the currently open session, or nil when the
// register is closed.
func (s *CashService) GetOpenSession(ctx context.Context) (*entity.CashSession, error) {
	return s.sessionRepo.GetOpenSession(ctx)
}

// AddCashTransactionInput represents a drawer movement
type AddCashTransactionInput struct {
	SessionID     uuid.UUID
	Type          enum.CashFlowType
	Amount        int64 // kuruş, > 0
	Description   string
	RelatedSaleID *uuid.UUID
}

// AddCashTransaction appends a movement to an open session. Mutating a
// closed session is an integrity violation, not a validation slip.
func (s *CashService) AddCashTransaction(ctx context.Context, input *AddCashTransactionInput) (*entity.CashTransaction, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}

	session, err := s.sessionRepo.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	if !session.Open() {
		return nil, apperror.NewIntegrityError("Kapalı kasa oturumuna hareket eklenemez")
	}

	tx := &entity.CashTransaction{
		SessionID:     input.SessionID,
		Type:          input.Type,
		Amount:        input.Amount,
		Date:          time.Now(),
		Description:   input.Description,
		RelatedSaleID: input.RelatedSaleID,
	}
	if err := s.cashTxRepo.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// TheoreticalBalance computes opening float plus signed movements
func (s *CashService) TheoreticalBalance(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if session == nil {
		return 0, apperror.NewNotFoundError("Session")
	}

	txs, err := s.cashTxRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}

	balance := session.OpeningBalance
	for i := range txs {
		balance += txs[i].Signed()
	}
	return balance, nil
}

// CountingResult compares a physical count against the theoretical balance
type CountingResult struct {
	SessionID      uuid.UUID `json:"session_id"`
	Theoretical    float64   `json:"theoretical_balance"`
	Counted        float64   `json:"counted_amount"`
	Difference     float64   `json:"counting_difference"`
	Classification string    `json:"classification"`
}

// RecordCounting stores the operator's physical count on the session and
// classifies the difference. Informational only: it flags operator error but
// never corrects the drawer.
func (s *CashService) RecordCounting(ctx context.Context, sessionID uuid.UUID, countedAmount int64) (*CountingResult, error) {
	if countedAmount < 0 {
		return nil, apperror.NewBadRequestError("Counted amount cannot be negative")
	}

	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}

	theoretical, err := s.TheoreticalBalance(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	difference := countedAmount - theoretical
	now := time.Now()
	session.CountedAmount = &countedAmount
	session.CountingDifference = &difference
	session.CountedAt = &now
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	classification := "exact"
	switch {
	case difference > 0:
		classification = "surplus"
	case difference < 0:
		classification = "shortfall"
	}

	return &CountingResult{
		SessionID:      sessionID,
		Theoretical:    float64(theoretical) / 100,
		Counted:        float64(countedAmount) / 100,
		Difference:     float64(difference) / 100,
		Classification: classification,
	}, nil
}

// CloseSession transitions the open session to closed history
func (s *CashService) CloseSession(ctx context.Context, sessionID uuid.UUID) (*entity.CashSession, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}
	if !session.Open() {
		return nil, apperror.NewIntegrityError("Kasa oturumu zaten kapalı")
	}

	now := time.Now()
	session.Status = enum.SessionStatusClosed
	session.ClosedAt = &now
	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions lists drawer sessions newest first
func (s *CashService) ListSessions(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.CashSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// SessionReport is the end-of-day view of one session
type SessionReport struct {
	Session      *entity.CashSession      `json:"session"`
	Transactions []entity.CashTransaction `json:"transactions"`
	Deposits     float64                  `json:"deposits"`
	Withdrawals  float64                  `json:"withdrawals"`
	SaleCount    int                      `json:"sale_count"`
	Theoretical  float64                  `json:"theoretical_balance"`
	Counted      *float64                 `json:"counted_amount,omitempty"`
	Difference   *float64                 `json:"counting_difference,omitempty"`
}

// GetSessionReport summarizes one session's movements
func (s *CashService) GetSessionReport(ctx context.Context, sessionID uuid.UUID) (*SessionReport, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Session")
	}

	txs, err := s.cashTxRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report := &SessionReport{
		Session:      session,
		Transactions: txs,
	}

	balance := session.OpeningBalance
	var deposits, withdrawals int64
	for i := range txs {
		tx := &txs[i]
		balance += tx.Signed()
		if tx.Type == enum.CashFlowDeposit {
			deposits += tx.Amount
		} else {
			withdrawals += tx.Amount
		}
		if tx.RelatedSaleID != nil {
			report.SaleCount++
		}
	}

	report.Deposits = float64(deposits) / 100
	report.Withdrawals = float64(withdrawals) / 100
	report.Theoretical = float64(balance) / 100
	if session.CountedAmount != nil {
		v := float64(*session.CountedAmount) / 100
		report.Counted = &v
	}
	if session.CountingDifference != nil {
		v := float64(*session.CountingDifference) / 100
		report.Difference = &v
	}

	return report, nil
}
