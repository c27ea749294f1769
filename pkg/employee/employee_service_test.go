package employee

import (
	"context"
	"testing"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = test_utils.AdminContext()

var employeeRepoStub = NewStubRepo()

var service Service

func setup(t *testing.T) func() {
	service = NewService(employeeRepoStub)
	return func() {
		t.Log("Teardown after test")
		employeeRepoStub.Cleanup()
	}
}

func testIntPtr(v int) *int { return &v }

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should assign an id and stamp the status date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Employee{Name: "Ada Lovelace", Position: "Engineer"})

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.False(t, created.StatusDate.IsZero())
	})

	t.Run("should keep nullable rate fields as provided", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Employee{Name: "Ada", CostHourlyRate: testIntPtr(250)})

		// then
		require.NoError(t, err)
		stored, err := service.Get(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.CostHourlyRate)
		assert.Equal(t, 250, *stored.CostHourlyRate)
		assert.Nil(t, stored.BillHourlyRate)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Employee{Name: "Nobody"})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_FindByName(t *testing.T) {
	t.Run("should match case-insensitively on a fragment", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Employee{Name: "Grace Hopper"})
		require.NoError(t, err)

		// when
		found, err := service.FindByName(ctx, "grace")

		// then
		assert.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("should reject an empty name", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.FindByName(ctx, "")

		// then
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestServiceImpl_UpdateStatus(t *testing.T) {
	t.Run("should set status, tag and a fresh status date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Employee{Name: "Ada"})
		require.NoError(t, err)

		// when
		updated, err := service.UpdateStatus(ctx, created.ID, "on vacation", "away")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "on vacation", updated.CurrentStatus)
		assert.Equal(t, "away", updated.StatusTag)
		assert.False(t, updated.StatusDate.Before(created.StatusDate))
	})

	t.Run("should return not found for unknown employee", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.UpdateStatus(ctx, "missing", "busy", "")

		// then
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an existing employee", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, err := service.Create(ctx, Employee{Name: "Temp"})
		require.NoError(t, err)

		// when
		err = service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrEmployeeNotFound)
	})
}
