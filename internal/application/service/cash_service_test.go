package service

import (
	"context"
	"testing"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/repository/memory"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCashFixture(t *testing.T) (*memory.Store, *CashService, *entity.CashSession) {
	t.Helper()
	store := memory.NewStore()
	cash := NewCashService(store.CashSessions(), store.CashTransactions())

	session, err := cash.OpenSession(context.Background(), uuid.New(), 50000) // 500 ₺ float
	require.NoError(t, err)
	return store, cash, session
}

func TestOpenSession(t *testing.T) {
	_, cash, session := newCashFixture(t)

	assert.Equal(t, enum.SessionStatusOpen, session.Status)
	assert.Equal(t, int64(50000), session.OpeningBalance)

	open, err := cash.GetOpenSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, session.ID, open.ID)
}

func TestOpenSessionRejectsSecondOpen(t *testing.T) {
	_, cash, _ := newCashFixture(t)

	_, err := cash.OpenSession(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, apperror.ErrSessionAlreadyOpen)
}

func TestOpenSessionRejectsNegativeFloat(t *testing.T) {
	store := memory.NewStore()
	cash := NewCashService(store.CashSessions(), store.CashTransactions())

	_, err := cash.OpenSession(context.Background(), uuid.New(), -100)
	assert.Error(t, err)
}

func TestTheoreticalBalance(t *testing.T) {
	_, cash, session := newCashFixture(t)
	ctx := context.Background()

	deposit := func(amount int64) {
		_, err := cash.AddCashTransaction(ctx, &AddCashTransactionInput{
			SessionID: session.ID,
			Type:      enum.CashFlowDeposit,
			Amount:    amount,
		})
		require.NoError(t, err)
	}
	deposit(8000)
	deposit(2000)
	_, err := cash.AddCashTransaction(ctx, &AddCashTransactionInput{
		SessionID:   session.ID,
		Type:        enum.CashFlowWithdrawal,
		Amount:      1000,
		Description: "Poşet alımı",
	})
	require.NoError(t, err)

	// 500 + 80 + 20 − 10 = 590 ₺
	balance, err := cash.TheoreticalBalance(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(59000), balance)
}

func TestRecordCounting(t *testing.T) {
	_, cash, session := newCashFixture(t)
	ctx := context.Background()

	_, err := cash.AddCashTransaction(ctx, &AddCashTransactionInput{
		SessionID: session.ID,
		Type:      enum.CashFlowDeposit,
		Amount:    9000,
	})
	require.NoError(t, err)

	// Theoretical is 590 ₺, operator counted 600 ₺.
	result, err := cash.RecordCounting(ctx, session.ID, 60000)
	require.NoError(t, err)
	assert.Equal(t, 590.0, result.Theoretical)
	assert.Equal(t, 600.0, result.Counted)
	assert.Equal(t, 10.0, result.Difference)
	assert.Equal(t, "surplus", result.Classification)

	result, err = cash.RecordCounting(ctx, session.ID, 58000)
	require.NoError(t, err)
	assert.Equal(t, -10.0, result.Difference)
	assert.Equal(t, "shortfall", result.Classification)

	result, err = cash.RecordCounting(ctx, session.ID, 59000)
	require.NoError(t, err)
	assert.Equal(t, "exact", result.Classification)

	// The count is persisted on the session.
	got, err := cash.GetSessionReport(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Session.CountedAmount)
	assert.Equal(t, int64(59000), *got.Session.CountedAmount)
}

func TestClosedSessionRejectsMovements(t *testing.T) {
	_, cash, session := newCashFixture(t)
	ctx := context.Background()

	closed, err := cash.CloseSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.SessionStatusClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	_, err = cash.AddCashTransaction(ctx, &AddCashTransactionInput{
		SessionID: session.ID,
		Type:      enum.CashFlowDeposit,
		Amount:    1000,
	})
	assert.Error(t, err)

	// Closing twice is also refused.
	_, err = cash.CloseSession(ctx, session.ID)
	assert.Error(t, err)

	// A new session can open once the previous one is closed.
	_, err = cash.OpenSession(ctx, uuid.New(), 10000)
	assert.NoError(t, err)
}

func TestGetSessionReport(t *testing.T) {
	_, cash, session := newCashFixture(t)
	ctx := context.Background()

	saleID := uuid.New()
	_, err := cash.AddCashTransaction(ctx, &AddCashTransactionInput{
		SessionID:     session.ID,
		Type:          enum.CashFlowDeposit,
		Amount:        23600,
		Description:   "Satış",
		RelatedSaleID: &saleID,
	})
	require.NoError(t, err)
	_, err = cash.AddCashTransaction(ctx, &AddCashTransactionInput{
		SessionID: session.ID,
		Type:      enum.CashFlowWithdrawal,
		Amount:    5000,
	})
	require.NoError(t, err)

	report, err := cash.GetSessionReport(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, report.Transactions, 2)
	assert.Equal(t, 236.0, report.Deposits)
	assert.Equal(t, 50.0, report.Withdrawals)
	assert.Equal(t, 1, report.SaleCount)
	assert.Equal(t, 686.0, report.Theoretical)
}
