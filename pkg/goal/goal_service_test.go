package goal

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = test_utils.AdminContext()

var goalRepoStub = NewStubRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(goalRepoStub)
	return func() {
		t.Log("Teardown after test")
		goalRepoStub.Cleanup()
	}
}

func newGoal() Goal {
	return Goal{
		Title:     "Ship the quarterly release",
		Period:    PeriodQuarterly,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should default status to active", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, newGoal())

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, StatusActive, created.Status)
		assert.Equal(t, 0, created.Progress)
	})

	t.Run("should clamp progress on create", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		g := newGoal()
		g.Progress = 150

		// when
		created, err := service.Create(ctx, g)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 100, created.Progress)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), newGoal())

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_UpdateProgress(t *testing.T) {
	t.Run("should clamp negative progress to zero", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, newGoal())

		// when
		updated, err := service.UpdateProgress(ctx, created.ID, -20)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 0, updated.Progress)
	})

	t.Run("should mark the goal completed at 100", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, newGoal())

		// when
		updated, err := service.UpdateProgress(ctx, created.ID, 130)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 100, updated.Progress)
		assert.Equal(t, StatusCompleted, updated.Status)
	})

	t.Run("should reactivate a completed goal dropping below 100", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, newGoal())
		_, err := service.UpdateProgress(ctx, created.ID, 100)
		require.NoError(t, err)

		// when
		updated, err := service.UpdateProgress(ctx, created.ID, 80)

		// then
		assert.NoError(t, err)
		assert.Equal(t, 80, updated.Progress)
		assert.Equal(t, StatusActive, updated.Status)
	})

	t.Run("should return not found for unknown goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.UpdateProgress(ctx, "missing", 50)

		// then
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	t.Run("should update an existing goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, newGoal())
		created.Title = "Renamed"

		// when
		updated, err := service.Update(ctx, created)

		// then
		assert.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an existing goal", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, newGoal())

		// when
		err := service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrGoalNotFound)
	})
}
