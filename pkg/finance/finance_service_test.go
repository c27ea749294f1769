package finance

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = test_utils.AdminContext()

var financeRepoStub = NewStubRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(financeRepoStub)
	return func() {
		t.Log("Teardown after test")
		financeRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should assign an id and default the date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Transaction{TransactionType: TransactionExpense, Amount: 99.50, Category: "hosting"})

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.Date.IsZero())
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Transaction{TransactionType: TransactionIncome, Amount: 1})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_SummaryForMonth(t *testing.T) {
	t.Run("should sum income and expenses of the month only", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		march := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
		april := time.Date(2025, 4, 2, 0, 0, 0, 0, time.UTC)
		_, err := service.Create(ctx, Transaction{TransactionType: TransactionIncome, Amount: 4000, Date: march})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{TransactionType: TransactionExpense, Amount: 1500, Date: march})
		require.NoError(t, err)
		_, err = service.Create(ctx, Transaction{TransactionType: TransactionIncome, Amount: 999, Date: april})
		require.NoError(t, err)

		// when
		summary, err := service.SummaryForMonth(ctx, 2025, time.March)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 4000.0, summary.Income)
		assert.Equal(t, 1500.0, summary.Expense)
		assert.Equal(t, 2500.0, summary.Balance)
	})

	t.Run("should return zeros for an empty month", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		summary, err := service.SummaryForMonth(ctx, 2025, time.December)

		// then
		assert.NoError(t, err)
		assert.Zero(t, summary.Income)
		assert.Zero(t, summary.Expense)
		assert.Zero(t, summary.Balance)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should update an existing transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Transaction{TransactionType: TransactionExpense, Amount: 10})
		require.NoError(t, err)
		created.Amount = 25

		// when
		updated, err := service.Update(ctx, created)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 25.0, updated.Amount)
	})

	t.Run("should return not found for unknown transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Update(ctx, Transaction{ID: "missing", Amount: 1})

		// then
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an existing transaction", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Transaction{TransactionType: TransactionExpense, Amount: 5})
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}
