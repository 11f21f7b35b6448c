package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bkaradeniz/veresiye-api/internal/domain/entity"
	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/repository/memory"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/bkaradeniz/veresiye-api/pkg/terminal"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTerminal scripts the card terminal and records the call sequence.
type fakeTerminal struct {
	connectErr  error
	paymentErr  error
	decline     bool
	connects    int
	disconnects int
	charged     []int64
}

func (f *fakeTerminal) IsManualMode() bool { return false }

func (f *fakeTerminal) Connect(device string) error { f.connects++; return f.connectErr }

func (f *fakeTerminal) ProcessPayment(amount int64) (*terminal.PaymentResult, error) {
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	if f.decline {
		return &terminal.PaymentResult{Success: false, Message: "Kart reddedildi"}, nil
	}
	f.charged = append(f.charged, amount)
	return &terminal.PaymentResult{Success: true}, nil
}

func (f *fakeTerminal) Disconnect() { f.disconnects++ }

type settlementFixture struct {
	store      *memory.Store
	ledger     *LedgerService
	cash       *CashService
	settlement *SettlementService
	term       *fakeTerminal
	customer   *entity.Customer
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()
	store := memory.NewStore()
	ledger := NewLedgerService(store.Customers(), store.CreditTransactions(), 7)
	cash := NewCashService(store.CashSessions(), store.CashTransactions())
	term := &fakeTerminal{}
	settlement := NewSettlementService(ledger, cash, store.Customers(), term, "kasa-1", 20)

	customer := &entity.Customer{
		Name:        "Fatma Demir",
		CreditLimit: 100000,
	}
	require.NoError(t, store.Customers().Create(context.Background(), customer))

	return &settlementFixture{
		store:      store,
		ledger:     ledger,
		cash:       cash,
		settlement: settlement,
		term:       term,
		customer:   customer,
	}
}

func (f *settlementFixture) openRegister(t *testing.T, openingBalance int64) *entity.CashSession {
	t.Helper()
	session, err := f.cash.OpenSession(context.Background(), uuid.New(), openingBalance)
	require.NoError(t, err)
	return session
}

func TestSettleNormalCash(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	session := f.openRegister(t, 50000)

	result, err := f.settlement.SettleNormal(ctx, &NormalSettlementInput{
		Total:    23600,
		Method:   enum.PaymentMethodCash,
		Received: 25000,
	})
	require.NoError(t, err)
	assert.Equal(t, 236.0, result.DiscountedTotal)
	assert.Equal(t, 14.0, result.Change)
	// 236 ₺ at 20% VAT contains 39.33 ₺ of tax.
	assert.Equal(t, 39.33, result.VATIncluded)
	assert.True(t, result.CashLinked)
	assert.NotEmpty(t, result.ReceiptNo)
	assert.Zero(t, f.term.connects)

	// The full sale amount lands in the drawer, change comes out of the float.
	balance, err := f.cash.TheoreticalBalance(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000+23600), balance)
}

func TestSettleNormalCashInsufficient(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.settlement.SettleNormal(context.Background(), &NormalSettlementInput{
		Total:    23600,
		Method:   enum.PaymentMethodCash,
		Received: 20000,
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientAmount)
}

func TestSettleNormalCashWithoutOpenRegister(t *testing.T) {
	f := newSettlementFixture(t)

	result, err := f.settlement.SettleNormal(context.Background(), &NormalSettlementInput{
		Total:    10000,
		Method:   enum.PaymentMethodCash,
		Received: 10000,
	})
	require.NoError(t, err)
	assert.False(t, result.CashLinked)
}

func TestSettleNormalCard(t *testing.T) {
	f := newSettlementFixture(t)

	result, err := f.settlement.SettleNormal(context.Background(), &NormalSettlementInput{
		Total:    15000,
		Discount: Discount{Type: enum.DiscountTypePercent, Value: 10},
		Method:   enum.PaymentMethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, 135.0, result.DiscountedTotal)

	// Terminal charged the discounted amount, one connect/disconnect pair.
	assert.Equal(t, []int64{13500}, f.term.charged)
	assert.Equal(t, 1, f.term.connects)
	assert.Equal(t, 1, f.term.disconnects)
}

func TestSettleNormalCardDeclineLeavesStateUntouched(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	session := f.openRegister(t, 50000)
	f.term.decline = true

	_, err := f.settlement.SettleNormal(ctx, &NormalSettlementInput{
		Total:  15000,
		Method: enum.PaymentMethodCard,
	})
	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.True(t, appErr.Retryable)

	// Disconnect still ran after the successful connect.
	assert.Equal(t, 1, f.term.connects)
	assert.Equal(t, 1, f.term.disconnects)

	// Nothing was written to the drawer.
	balance, err := f.cash.TheoreticalBalance(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), balance)
}

func TestSettleNormalCredit(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	result, err := f.settlement.SettleNormal(ctx, &NormalSettlementInput{
		Total:      20000,
		Discount:   Discount{Type: enum.DiscountTypeAmount, Value: 20},
		Method:     enum.PaymentMethodCredit,
		CustomerID: &f.customer.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, result.Transaction)
	assert.Equal(t, int64(18000), result.Transaction.Amount)
	assert.True(t, result.Transaction.Discounted())

	updated, err := f.store.Customers().GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(18000), updated.CurrentDebt)
}

func TestSettleNormalCreditRequiresCustomer(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.settlement.SettleNormal(context.Background(), &NormalSettlementInput{
		Total:  10000,
		Method: enum.PaymentMethodCredit,
	})
	assert.Error(t, err)
}

func TestSettleNormalCreditOverLimitChargesNothing(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.settlement.SettleNormal(context.Background(), &NormalSettlementInput{
		Total:      150000,
		Method:     enum.PaymentMethodCredit,
		CustomerID: &f.customer.ID,
	})
	assert.ErrorIs(t, err, apperror.ErrLimitExceeded)
}

func TestSettleProductSplit(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.openRegister(t, 0)

	saleID := uuid.New()
	items := []SplitItem{
		{Name: "Çay", UnitPrice: 15, Quantity: 2},
		{Name: "Tost", UnitPrice: 60, Quantity: 1},
	}

	// First diner pays one tea and the toast in cash.
	leg, err := f.settlement.SettleProductSplitLeg(ctx, &ProductSplitLegInput{
		SaleID: saleID,
		Items:  items,
		Selections: []SplitSelection{
			{Index: 0, Quantity: 1},
			{Index: 1, Quantity: 1},
		},
		Method:   enum.PaymentMethodCash,
		Received: 7500,
	})
	require.NoError(t, err)
	assert.Equal(t, 75.0, leg.Paid)
	assert.False(t, leg.Completed)
	require.Len(t, leg.Remaining, 1)
	assert.Equal(t, "Çay", leg.Remaining[0].Name)
	assert.Equal(t, 1, leg.Remaining[0].Quantity)

	// Second diner puts the last tea on their tab.
	leg, err = f.settlement.SettleProductSplitLeg(ctx, &ProductSplitLegInput{
		SaleID:     saleID,
		Items:      leg.Remaining,
		Selections: []SplitSelection{{Index: 0, Quantity: 1}},
		Method:     enum.PaymentMethodCredit,
		CustomerID: &f.customer.ID,
	})
	require.NoError(t, err)
	assert.True(t, leg.Completed)
	assert.Empty(t, leg.Remaining)

	updated, err := f.store.Customers().GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), updated.CurrentDebt)
}

func TestSettleProductSplitRejectsBadSelection(t *testing.T) {
	f := newSettlementFixture(t)
	items := []SplitItem{{Name: "Çay", UnitPrice: 15, Quantity: 2}}

	_, err := f.settlement.SettleProductSplitLeg(context.Background(), &ProductSplitLegInput{
		SaleID:     uuid.New(),
		Items:      items,
		Selections: []SplitSelection{{Index: 5, Quantity: 1}},
		Method:     enum.PaymentMethodCash,
		Received:   10000,
	})
	assert.Error(t, err)

	_, err = f.settlement.SettleProductSplitLeg(context.Background(), &ProductSplitLegInput{
		SaleID:     uuid.New(),
		Items:      items,
		Selections: []SplitSelection{{Index: 0, Quantity: 3}},
		Method:     enum.PaymentMethodCash,
		Received:   10000,
	})
	assert.Error(t, err)
}

func TestSettleProductSplitDuplicateSelections(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.openRegister(t, 0)
	items := []SplitItem{{Name: "Çay", UnitPrice: 15, Quantity: 2}}

	// Selections of the same item are summed: 2+1 exceeds the 2 available.
	_, err := f.settlement.SettleProductSplitLeg(ctx, &ProductSplitLegInput{
		SaleID: uuid.New(),
		Items:  items,
		Selections: []SplitSelection{
			{Index: 0, Quantity: 2},
			{Index: 0, Quantity: 1},
		},
		Method:   enum.PaymentMethodCash,
		Received: 10000,
	})
	assert.Error(t, err)

	// Within the available quantity, duplicates are a valid selection.
	leg, err := f.settlement.SettleProductSplitLeg(ctx, &ProductSplitLegInput{
		SaleID: uuid.New(),
		Items:  items,
		Selections: []SplitSelection{
			{Index: 0, Quantity: 1},
			{Index: 0, Quantity: 1},
		},
		Method:   enum.PaymentMethodCash,
		Received: 3000,
	})
	require.NoError(t, err)
	assert.Equal(t, 30.0, leg.Paid)
	assert.True(t, leg.Completed)
	assert.Empty(t, leg.Remaining)
}

func TestSettleEqualSplit(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.openRegister(t, 0)

	result, err := f.settlement.SettleEqualSplit(ctx, &EqualSplitInput{
		Total: 23600,
		Participants: []SplitParticipant{
			{Method: enum.PaymentMethodCash, Received: 11800},
			{Method: enum.PaymentMethodCard, Received: 11800},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Surplus)
	assert.Len(t, result.Committed, 2)
	assert.True(t, result.Committed[0].CashLinked)
	assert.Equal(t, []int64{11800}, f.term.charged)
}

func TestSettleEqualSplitShortfall(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.settlement.SettleEqualSplit(context.Background(), &EqualSplitInput{
		Total: 23600,
		Participants: []SplitParticipant{
			{Method: enum.PaymentMethodCash, Received: 10000},
			{Method: enum.PaymentMethodCash, Received: 10000},
		},
	})
	assert.ErrorIs(t, err, apperror.ErrInsufficientAmount)
}

func TestSettleEqualSplitOverpayNeedsConfirmation(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	input := &EqualSplitInput{
		Total: 20000,
		Participants: []SplitParticipant{
			{Method: enum.PaymentMethodCash, Received: 12000},
			{Method: enum.PaymentMethodCash, Received: 12000},
		},
	}

	_, err := f.settlement.SettleEqualSplit(ctx, input)
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	input.ConfirmOverpay = true
	result, err := f.settlement.SettleEqualSplit(ctx, input)
	require.NoError(t, err)
	assert.Equal(t, 40.0, result.Surplus)
}

func TestSettleEqualSplitReportsCommittedLegsOnFailure(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.openRegister(t, 0)
	f.term.paymentErr = errors.New("connection reset")

	result, err := f.settlement.SettleEqualSplit(ctx, &EqualSplitInput{
		Total: 20000,
		Participants: []SplitParticipant{
			{Method: enum.PaymentMethodCash, Received: 10000},
			{Method: enum.PaymentMethodCard, Received: 10000},
		},
	})
	require.Error(t, err)
	require.NotNil(t, result)

	// The cash leg went through before the card leg failed.
	require.Len(t, result.Committed, 1)
	assert.Equal(t, enum.PaymentMethodCash, result.Committed[0].Method)
}

func TestCollectPaymentCash(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	session := f.openRegister(t, 0)

	_, err := f.ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: f.customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     30000,
	})
	require.NoError(t, err)

	result, err := f.settlement.CollectPayment(ctx, &CollectPaymentInput{
		CustomerID: f.customer.ID,
		Amount:     20000,
		Method:     enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.True(t, result.CashLinked)
	assert.Equal(t, 0.0, result.Surplus)

	updated, err := f.store.Customers().GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), updated.CurrentDebt)

	balance, err := f.cash.TheoreticalBalance(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), balance)
}

func TestCollectPaymentRejectsCreditMethod(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.settlement.CollectPayment(context.Background(), &CollectPaymentInput{
		CustomerID: f.customer.ID,
		Amount:     10000,
		Method:     enum.PaymentMethodCredit,
	})
	assert.Error(t, err)
}

func TestCollectPaymentClosedRegisterSkipsDrawer(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()

	_, err := f.ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: f.customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     30000,
	})
	require.NoError(t, err)

	result, err := f.settlement.CollectPayment(ctx, &CollectPaymentInput{
		CustomerID: f.customer.ID,
		Amount:     10000,
		Method:     enum.PaymentMethodCash,
	})
	require.NoError(t, err)
	assert.False(t, result.CashLinked)
}

func TestCollectPaymentSurfacesDrawerFailure(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.openRegister(t, 0)

	_, err := f.ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: f.customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     30000,
	})
	require.NoError(t, err)

	f.store.FailNextCashCreate = errors.New("disk full")
	_, err = f.settlement.CollectPayment(ctx, &CollectPaymentInput{
		CustomerID: f.customer.ID,
		Amount:     10000,
		Method:     enum.PaymentMethodCash,
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)

	// The ledger write stands even though the drawer write failed.
	updated, err := f.store.Customers().GetByID(ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.CurrentDebt)
}

func TestSettleNormalTerminalDrawerFailure(t *testing.T) {
	f := newSettlementFixture(t)
	ctx := context.Background()
	f.openRegister(t, 0)

	f.store.FailNextCashCreate = errors.New("disk full")
	_, err := f.settlement.SettleNormal(ctx, &NormalSettlementInput{
		Total:    23600,
		Method:   enum.PaymentMethodCashTerminal,
		Received: 23600,
	})
	require.Error(t, err)

	// The terminal already took the money, so the failed drawer write is an
	// integrity gap rather than a plain repository error.
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
	assert.Equal(t, []int64{23600}, f.term.charged)
	assert.Equal(t, 1, f.term.disconnects)
}

func TestTerminalConnectFailure(t *testing.T) {
	f := newSettlementFixture(t)
	f.term.connectErr = errors.New("no route to host")

	_, err := f.settlement.SettleNormal(context.Background(), &NormalSettlementInput{
		Total:    10000,
		Method:   enum.PaymentMethodCashTerminal,
		Received: 10000,
	})
	require.Error(t, err)
	assert.True(t, apperror.GetAppError(err).Retryable)

	// Disconnect is never called when the connect itself failed.
	assert.Equal(t, 1, f.term.connects)
	assert.Zero(t, f.term.disconnects)
}
