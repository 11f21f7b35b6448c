package service

import (
	"context"
	"testing"
	"time"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/repository/memory"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerFixture(t *testing.T) (*memory.Store, *LedgerService, *entity.Customer) {
	t.Helper()
	store := memory.NewStore()
	ledger := NewLedgerService(store.Customers(), store.CreditTransactions(), 7)

	customer := &entity.Customer{
		Name:        "Ahmet Yılmaz",
		CreditLimit: 50000, // 500 ₺
	}
	require.NoError(t, store.Customers().Create(context.Background(), customer))
	return store, ledger, customer
}

func addDebt(t *testing.T, store *memory.Store, ledger *LedgerService, customerID uuid.UUID, amount int64, date time.Time, dueDate *time.Time) *entity.CreditTransaction {
	t.Helper()
	result, err := ledger.AddTransaction(context.Background(), &AddTransactionInput{
		CustomerID: customerID,
		Type:       enum.CreditTypeDebt,
		Amount:     amount,
		DueDate:    dueDate,
	})
	require.NoError(t, err)

	// Pin the entry date so FIFO ordering is deterministic in tests.
	tx := result.Transaction
	tx.Date = date
	require.NoError(t, store.CreditTransactions().Update(context.Background(), tx))
	return tx
}

func TestAddTransactionDebt(t *testing.T) {
	_, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	result, err := ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID:  customer.ID,
		Type:        enum.CreditTypeDebt,
		Amount:      10000,
		Description: "Market alışverişi",
	})
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusActive, result.Transaction.Status)
	assert.Equal(t, int64(10000), result.Transaction.Amount)

	updated, err := ledger.customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), updated.CurrentDebt)
}

func TestAddTransactionRejectsNonPositiveAmount(t *testing.T) {
	_, ledger, customer := newLedgerFixture(t)

	_, err := ledger.AddTransaction(context.Background(), &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     0,
	})
	assert.Error(t, err)
}

func TestAddTransactionCreditLimit(t *testing.T) {
	_, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	// Bring the customer to 450 ₺ of a 500 ₺ limit.
	_, err := ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     45000,
	})
	require.NoError(t, err)

	// 60 ₺ more would exceed the limit.
	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     6000,
	})
	assert.ErrorIs(t, err, apperror.ErrLimitExceeded)

	// Exactly reaching the limit is allowed.
	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     5000,
	})
	assert.NoError(t, err)
}

func TestPaymentSettlesOldestDebtsFirst(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	older := addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-48*time.Hour), nil)
	newer := addDebt(t, store, ledger, customer.ID, 5000, time.Now().Add(-24*time.Hour), nil)

	result, err := ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypePayment,
		Amount:     12000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Surplus)

	// Oldest debt fully retired, newer one partially reduced in place.
	got, err := ledger.GetTransaction(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusPaid, got.Status)

	got, err = ledger.GetTransaction(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusActive, got.Status)
	assert.Equal(t, int64(3000), got.Amount)

	// The payment entry itself is retired once applied.
	payment, err := ledger.GetTransaction(ctx, result.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusPaid, payment.Status)

	updated, err := ledger.customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), updated.CurrentDebt)
}

func TestPaymentSurplus(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-time.Hour), nil)

	result, err := ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypePayment,
		Amount:     15000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), result.Surplus)

	updated, err := ledger.customerRepo.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.CurrentDebt)
}

func TestGetCustomerSummary(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 3)
	later := time.Now().AddDate(0, 0, 30)
	addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-48*time.Hour), &soon)
	addDebt(t, store, ledger, customer.ID, 5000, time.Now().Add(-24*time.Hour), &later)

	summary, err := ledger.GetCustomerSummary(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 150.0, summary.TotalDebt)
	assert.Equal(t, 2, summary.ActiveCount)
	assert.Equal(t, 1, summary.ApproachingDueCount)
	assert.Equal(t, 0, summary.OverdueCount)
	require.NotNil(t, summary.LastTransactionDate)
}

func TestGetCustomerSummaryIsIdempotent(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 3)
	addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-48*time.Hour), &soon)
	addDebt(t, store, ledger, customer.ID, 5000, time.Now().Add(-24*time.Hour), nil)

	first, err := ledger.GetCustomerSummary(ctx, customer.ID)
	require.NoError(t, err)

	// Reading the summary writes nothing, so reading it again returns the
	// same numbers.
	second, err := ledger.GetCustomerSummary(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSummaryHidesApproachingDueWhenSettled(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	soon := time.Now().AddDate(0, 0, 2)
	addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-time.Hour), &soon)

	_, err := ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypePayment,
		Amount:     10000,
	})
	require.NoError(t, err)

	summary, err := ledger.GetCustomerSummary(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.TotalDebt)
	assert.Equal(t, 0, summary.ApproachingDueCount)
}

func TestRefreshOverdueStatuses(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -3)
	future := time.Now().AddDate(0, 0, 10)
	overdueTx := addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-96*time.Hour), &past)
	currentTx := addDebt(t, store, ledger, customer.ID, 5000, time.Now().Add(-time.Hour), &future)

	updated, err := ledger.RefreshOverdueStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	got, err := ledger.GetTransaction(ctx, overdueTx.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusOverdue, got.Status)

	got, err = ledger.GetTransaction(ctx, currentTx.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusActive, got.Status)

	// Already-overdue entries are not counted again.
	updated, err = ledger.RefreshOverdueStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, updated)

	summary, err := ledger.GetCustomerSummary(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.TotalOverdue)
	assert.Equal(t, 1, summary.OverdueCount)
}

func TestOverduePaidBeforeActiveWhenOlder(t *testing.T) {
	store, ledger, customer := newLedgerFixture(t)
	ctx := context.Background()

	past := time.Now().AddDate(0, 0, -5)
	overdueTx := addDebt(t, store, ledger, customer.ID, 10000, time.Now().Add(-120*time.Hour), &past)
	activeTx := addDebt(t, store, ledger, customer.ID, 5000, time.Now().Add(-time.Hour), nil)

	_, err := ledger.RefreshOverdueStatuses(ctx)
	require.NoError(t, err)

	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypePayment,
		Amount:     10000,
	})
	require.NoError(t, err)

	// Settlement order is strictly by date, regardless of status.
	got, err := ledger.GetTransaction(ctx, overdueTx.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusPaid, got.Status)

	got, err = ledger.GetTransaction(ctx, activeTx.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.CreditStatusActive, got.Status)
	assert.Equal(t, int64(5000), got.Amount)
}

func TestAddTransactionUnknownCustomer(t *testing.T) {
	store := memory.NewStore()
	ledger := NewLedgerService(store.Customers(), store.CreditTransactions(), 7)

	_, err := ledger.AddTransaction(context.Background(), &AddTransactionInput{
		CustomerID: uuid.New(),
		Type:       enum.CreditTypeDebt,
		Amount:     1000,
	})
	assert.Error(t, err)
}
