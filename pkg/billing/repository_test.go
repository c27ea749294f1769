package billing

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/crewdeck/crewdeck/pkg/finance"
	"github.com/crewdeck/crewdeck/pkg/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepository(t *testing.T) (context.Context, *sql.DB, Repository, int) {
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	_, err := db.Exec(`INSERT INTO app_user (id, uid, email, name, role, password_hash)
					   VALUES (1, 'u1', 'admin@example.com', 'Test Admin', 'admin', 'x')`)
	require.NoError(t, err)
	return ctx, db, NewRepository(db), 1
}

func storeTask(t *testing.T, ctx context.Context, db *sql.DB, userId int, tsk task.Task) {
	t.Helper()
	err := task.NewRepo(db).Store(ctx, userId, tsk)
	require.NoError(t, err)
}

func ledgerEntry(id string, txType finance.TransactionType, amount float64, taskId string) finance.Transaction {
	return finance.Transaction{
		ID:              id,
		TransactionType: txType,
		Amount:          amount,
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Category:        "billing",
		Description:     "Test entry",
		TaskID:          taskId,
	}
}

func countLedgerRows(t *testing.T, db *sql.DB, taskId string) int {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ledger_transaction WHERE task_id = ?`, taskId).Scan(&count)
	require.NoError(t, err)
	return count
}

func TestRepositoryImpl_RefreshAppliedRates(t *testing.T) {
	// given
	ctx, db, repo, userId := setupTestRepository(t)
	storeTask(t, ctx, db, userId, task.Task{ID: "t1", Content: "Work", Priority: task.PriorityMedium, Billable: true})

	// when
	err := repo.RefreshAppliedRates(ctx, userId, task.Task{
		ID:                "t1",
		AppliedCostRate:   intPtr(200),
		AppliedBillRate:   intPtr(800),
		AppliedHourlyRate: intPtr(800),
	})

	// then
	assert.NoError(t, err)
	stored, err := task.NewRepo(db).Get(ctx, userId, "t1")
	require.NoError(t, err)
	require.NotNil(t, stored.AppliedCostRate)
	assert.Equal(t, 200, *stored.AppliedCostRate)
	assert.Equal(t, 800, *stored.AppliedBillRate)
	assert.Equal(t, 800, *stored.AppliedHourlyRate)
	assert.Empty(t, stored.IncomeTxID, "refresh must not touch ledger linkage")
}

func TestRepositoryImpl_PostLedger(t *testing.T) {
	t.Run("should insert entries and link them onto the task", func(t *testing.T) {
		// given
		ctx, db, repo, userId := setupTestRepository(t)
		storeTask(t, ctx, db, userId, task.Task{ID: "t1", Content: "Work", Priority: task.PriorityMedium, Billable: true})
		posted := task.Task{
			ID:                "t1",
			AppliedCostRate:   intPtr(200),
			AppliedBillRate:   intPtr(800),
			AppliedHourlyRate: intPtr(800),
			IncomeTxID:        "inc-1",
			ExpenseTxID:       "exp-1",
		}

		// when
		err := repo.PostLedger(ctx, userId, posted, []finance.Transaction{
			ledgerEntry("inc-1", finance.TransactionIncome, 4000, "t1"),
			ledgerEntry("exp-1", finance.TransactionExpense, 1000, "t1"),
		})

		// then
		assert.NoError(t, err)
		assert.Equal(t, 2, countLedgerRows(t, db, "t1"))
		stored, err := task.NewRepo(db).Get(ctx, userId, "t1")
		require.NoError(t, err)
		assert.Equal(t, "inc-1", stored.IncomeTxID)
		assert.Equal(t, "exp-1", stored.ExpenseTxID)
		assert.Equal(t, 200, *stored.AppliedCostRate)

		income, err := finance.NewRepo(db).Get(ctx, userId, "inc-1")
		require.NoError(t, err)
		assert.Equal(t, 4000.0, income.Amount)
		assert.Equal(t, "t1", income.TaskID)
	})

	t.Run("should roll back inserts when the task is already linked", func(t *testing.T) {
		// given
		ctx, db, repo, userId := setupTestRepository(t)
		storeTask(t, ctx, db, userId, task.Task{ID: "t1", Content: "Work", Priority: task.PriorityMedium, Billable: true})
		first := task.Task{ID: "t1", IncomeTxID: "inc-1", ExpenseTxID: "exp-1"}
		err := repo.PostLedger(ctx, userId, first, []finance.Transaction{
			ledgerEntry("inc-1", finance.TransactionIncome, 4000, "t1"),
			ledgerEntry("exp-1", finance.TransactionExpense, 1000, "t1"),
		})
		require.NoError(t, err)

		// when - a second invocation races in with its own fresh ids
		second := task.Task{ID: "t1", IncomeTxID: "inc-2", ExpenseTxID: "exp-2"}
		err = repo.PostLedger(ctx, userId, second, []finance.Transaction{
			ledgerEntry("inc-2", finance.TransactionIncome, 4000, "t1"),
			ledgerEntry("exp-2", finance.TransactionExpense, 1000, "t1"),
		})

		// then
		assert.ErrorIs(t, err, ErrAlreadyGenerated)
		assert.Equal(t, 2, countLedgerRows(t, db, "t1"), "loser's inserts must be rolled back")
		stored, err := task.NewRepo(db).Get(ctx, userId, "t1")
		require.NoError(t, err)
		assert.Equal(t, "inc-1", stored.IncomeTxID, "winner's linkage must survive")
		assert.Equal(t, "exp-1", stored.ExpenseTxID)
	})

	t.Run("should not link a task owned by another user", func(t *testing.T) {
		// given
		ctx, db, repo, userId := setupTestRepository(t)
		storeTask(t, ctx, db, userId, task.Task{ID: "t1", Content: "Work", Priority: task.PriorityMedium, Billable: true})
		_, err := db.Exec(`INSERT INTO app_user (id, uid, email, name, role, password_hash)
						   VALUES (999, 'u999', 'other@example.com', 'Other', 'admin', 'x')`)
		require.NoError(t, err)

		// when
		err = repo.PostLedger(ctx, 999, task.Task{ID: "t1", IncomeTxID: "inc-1"}, []finance.Transaction{
			ledgerEntry("inc-1", finance.TransactionIncome, 4000, "t1"),
		})

		// then
		assert.ErrorIs(t, err, ErrAlreadyGenerated)
		assert.Equal(t, 0, countLedgerRows(t, db, "t1"))
	})
}

func TestRepositoryImpl_TxIds(t *testing.T) {
	t.Run("should return the current linkage", func(t *testing.T) {
		// given
		ctx, db, repo, userId := setupTestRepository(t)
		storeTask(t, ctx, db, userId, task.Task{ID: "t1", Content: "Work", Priority: task.PriorityMedium, Billable: true})
		err := repo.PostLedger(ctx, userId, task.Task{ID: "t1", IncomeTxID: "inc-1", ExpenseTxID: "exp-1"}, []finance.Transaction{
			ledgerEntry("inc-1", finance.TransactionIncome, 4000, "t1"),
			ledgerEntry("exp-1", finance.TransactionExpense, 1000, "t1"),
		})
		require.NoError(t, err)

		// when
		incomeTxId, expenseTxId, err := repo.TxIds(ctx, userId, "t1")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "inc-1", incomeTxId)
		assert.Equal(t, "exp-1", expenseTxId)
	})

	t.Run("should return not found for an unknown task", func(t *testing.T) {
		// given
		ctx, _, repo, userId := setupTestRepository(t)

		// when
		_, _, err := repo.TxIds(ctx, userId, "missing")

		// then
		assert.ErrorIs(t, err, task.ErrTaskNotFound)
	})
}
