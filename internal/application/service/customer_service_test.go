package service

import (
	"context"
	"testing"

	"github.com/bkaradeniz/veresiye-api/internal/domain/enum"
	"github.com/bkaradeniz/veresiye-api/internal/infrastructure/repository/memory"
	"github.com/bkaradeniz/veresiye-api/pkg/apperror"
	"github.com/bkaradeniz/veresiye-api/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCustomerFixture(t *testing.T) (*memory.Store, *CustomerService, *LedgerService) {
	t.Helper()
	store := memory.NewStore()
	ledger := NewLedgerService(store.Customers(), store.CreditTransactions(), 7)
	return store, NewCustomerService(store.Customers(), ledger), ledger
}

func TestCreateCustomer(t *testing.T) {
	_, svc, _ := newCustomerFixture(t)

	customer, err := svc.CreateCustomer(context.Background(), &CreateCustomerInput{
		Name:        "Ayşe Kaya",
		CreditLimit: 25000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), customer.CreditLimit)
	assert.Equal(t, int64(0), customer.CurrentDebt)

	_, err = svc.CreateCustomer(context.Background(), &CreateCustomerInput{Name: ""})
	assert.Error(t, err)

	_, err = svc.CreateCustomer(context.Background(), &CreateCustomerInput{
		Name:        "Negatif",
		CreditLimit: -1,
	})
	assert.Error(t, err)
}

func TestUpdateCustomerAllowsLoweringLimitBelowDebt(t *testing.T) {
	_, svc, ledger := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, &CreateCustomerInput{
		Name:        "Mehmet Öz",
		CreditLimit: 50000,
	})
	require.NoError(t, err)

	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     40000,
	})
	require.NoError(t, err)

	// The old debt stands, new credit is blocked.
	newLimit := int64(20000)
	updated, err := svc.UpdateCustomer(ctx, &UpdateCustomerInput{
		ID:          customer.ID,
		CreditLimit: &newLimit,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20000), updated.CreditLimit)

	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     100,
	})
	assert.ErrorIs(t, err, apperror.ErrLimitExceeded)
}

func TestDeleteCustomerWithDebt(t *testing.T) {
	_, svc, ledger := newCustomerFixture(t)
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, &CreateCustomerInput{
		Name:        "Borçlu Müşteri",
		CreditLimit: 50000,
	})
	require.NoError(t, err)

	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypeDebt,
		Amount:     10000,
	})
	require.NoError(t, err)

	err = svc.DeleteCustomer(ctx, customer.ID)
	assert.ErrorIs(t, err, apperror.ErrHasOutstandingDebt)

	// Paying off the tab unblocks deletion.
	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: customer.ID,
		Type:       enum.CreditTypePayment,
		Amount:     10000,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCustomer(ctx, customer.ID))

	_, err = svc.GetCustomer(ctx, customer.ID)
	assert.Error(t, err)
}

func TestListIndebted(t *testing.T) {
	_, svc, ledger := newCustomerFixture(t)
	ctx := context.Background()

	small, err := svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Az Borçlu", CreditLimit: 50000})
	require.NoError(t, err)
	big, err := svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Çok Borçlu", CreditLimit: 50000})
	require.NoError(t, err)
	_, err = svc.CreateCustomer(ctx, &CreateCustomerInput{Name: "Borçsuz", CreditLimit: 50000})
	require.NoError(t, err)

	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: small.ID, Type: enum.CreditTypeDebt, Amount: 5000,
	})
	require.NoError(t, err)
	_, err = ledger.AddTransaction(ctx, &AddTransactionInput{
		CustomerID: big.ID, Type: enum.CreditTypeDebt, Amount: 30000,
	})
	require.NoError(t, err)

	result, err := svc.ListIndebted(ctx, pagination.DefaultPagination())
	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	assert.Equal(t, big.ID, result.Items[0].ID)
	assert.Equal(t, small.ID, result.Items[1].ID)
}
