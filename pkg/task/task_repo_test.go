package task

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepo(t *testing.T) (context.Context, *sql.DB, Repo, int) {
	ctx := context.Background()
	db := test_utils.SetupTestDB(t)
	_, err := db.Exec(`INSERT INTO app_user (id, uid, email, name, role, password_hash)
					   VALUES (1, 'u1', 'admin@example.com', 'Test Admin', 'admin', 'x')`)
	require.NoError(t, err)
	return ctx, db, NewRepo(db), 1
}

func rate(v int) *int { return &v }

func TestRepoImpl_StoreAndGet(t *testing.T) {
	// given
	ctx, _, repo, userId := setupTestRepo(t)
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	stored := Task{
		ID:                 "t1",
		Content:            "Quarterly report",
		Priority:           PriorityHigh,
		DueDate:            due,
		HoursSpent:         5.7,
		Billable:           true,
		CostRateOverride:   rate(250),
		HourlyRateOverride: rate(400),
	}

	// when
	err := repo.Store(ctx, userId, stored)

	// then
	require.NoError(t, err)
	got, err := repo.Get(ctx, userId, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Quarterly report", got.Content)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, due, got.DueDate)
	assert.Equal(t, 5.7, got.HoursSpent)
	require.NotNil(t, got.CostRateOverride)
	assert.Equal(t, 250, *got.CostRateOverride)
	assert.Nil(t, got.BillRateOverride)
	require.NotNil(t, got.HourlyRateOverride)
	assert.Equal(t, 400, *got.HourlyRateOverride)
	assert.Equal(t, StateOpen, got.State())
	assert.False(t, got.FinanceGenerated())
}

func TestRepoImpl_Get(t *testing.T) {
	t.Run("should return not found for an unknown id", func(t *testing.T) {
		// given
		ctx, _, repo, userId := setupTestRepo(t)

		// when
		_, err := repo.Get(ctx, userId, "missing")

		// then
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})

	t.Run("should not return another tenant's task", func(t *testing.T) {
		// given
		ctx, db, repo, userId := setupTestRepo(t)
		_, err := db.Exec(`INSERT INTO app_user (id, uid, email, name, role, password_hash)
						   VALUES (2, 'u2', 'other@example.com', 'Other', 'user', 'x')`)
		require.NoError(t, err)
		require.NoError(t, repo.Store(ctx, 2, Task{ID: "t1", Content: "Theirs", Priority: PriorityMedium}))

		// when
		_, err = repo.Get(ctx, userId, "t1")

		// then
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestRepoImpl_FindByText(t *testing.T) {
	// given
	ctx, _, repo, userId := setupTestRepo(t)
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "t1", Content: "Prepare the Quarterly Report", Priority: PriorityMedium}))

	// when
	found, err := repo.FindByText(ctx, userId, "quarterly")

	// then
	require.NoError(t, err)
	assert.Equal(t, "t1", found.ID)

	// when
	_, err = repo.FindByText(ctx, userId, "nonexistent")

	// then
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestRepoImpl_ListOverdue(t *testing.T) {
	// given
	ctx, _, repo, userId := setupTestRepo(t)
	today := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "late", Content: "Late", Priority: PriorityMedium,
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "late-done", Content: "Late but done", Priority: PriorityMedium,
		DueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), Done: true}))
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "future", Content: "Future", Priority: PriorityMedium,
		DueDate: time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)}))
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "undated", Content: "No due date", Priority: PriorityMedium}))

	// when
	overdue, err := repo.ListOverdue(ctx, userId, today)

	// then
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].ID)
}

func TestRepoImpl_Update(t *testing.T) {
	t.Run("should not touch completion or ledger columns", func(t *testing.T) {
		// given
		ctx, _, repo, userId := setupTestRepo(t)
		approvedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.Store(ctx, userId, Task{
			ID: "t1", Content: "Work", Priority: PriorityMedium, Billable: true,
			Done: true, Approved: true, ApprovedAt: &approvedAt,
			IncomeTxID: "tx-in", ExpenseTxID: "tx-out",
		}))

		// when
		updated, err := repo.Update(ctx, userId, Task{ID: "t1", Content: "Renamed", Priority: PriorityLow, Billable: true})

		// then
		require.NoError(t, err)
		assert.True(t, updated)
		got, err := repo.Get(ctx, userId, "t1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Content)
		assert.True(t, got.Done)
		assert.True(t, got.Approved)
		require.NotNil(t, got.ApprovedAt)
		assert.Equal(t, approvedAt, *got.ApprovedAt)
		assert.Equal(t, "tx-in", got.IncomeTxID)
		assert.Equal(t, "tx-out", got.ExpenseTxID)
	})

	t.Run("should report false for an unknown task", func(t *testing.T) {
		// given
		ctx, _, repo, userId := setupTestRepo(t)

		// when
		updated, err := repo.Update(ctx, userId, Task{ID: "missing", Content: "X", Priority: PriorityMedium})

		// then
		require.NoError(t, err)
		assert.False(t, updated)
	})
}

func TestRepoImpl_UpdateCompletion(t *testing.T) {
	// given
	ctx, _, repo, userId := setupTestRepo(t)
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "t1", Content: "Work", Priority: PriorityMedium}))
	approvedAt := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// when
	updated, err := repo.UpdateCompletion(ctx, userId, "t1", true, true, &approvedAt)

	// then
	require.NoError(t, err)
	assert.True(t, updated)
	got, err := repo.Get(ctx, userId, "t1")
	require.NoError(t, err)
	assert.Equal(t, StateApproved, got.State())
	require.NotNil(t, got.ApprovedAt)
	assert.Equal(t, approvedAt, *got.ApprovedAt)

	// when - reopening clears the approval timestamp
	updated, err = repo.UpdateCompletion(ctx, userId, "t1", false, false, nil)

	// then
	require.NoError(t, err)
	assert.True(t, updated)
	got, err = repo.Get(ctx, userId, "t1")
	require.NoError(t, err)
	assert.Equal(t, StateOpen, got.State())
	assert.Nil(t, got.ApprovedAt)
}

func TestRepoImpl_Delete(t *testing.T) {
	// given
	ctx, _, repo, userId := setupTestRepo(t)
	require.NoError(t, repo.Store(ctx, userId, Task{ID: "t1", Content: "Work", Priority: PriorityMedium}))

	// when
	deleted, err := repo.Delete(ctx, userId, "t1")

	// then
	require.NoError(t, err)
	assert.True(t, deleted)
	_, err = repo.Get(ctx, userId, "t1")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
