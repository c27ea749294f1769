package reading

import (
	"context"
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/test_utils"
	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ctx = test_utils.AdminContext()

var readingRepoStub = NewStubRepo()

var service Service

func setup(t *testing.T) func() {
	clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	service = NewService(readingRepoStub, clock)
	return func() {
		t.Log("Teardown after test")
		readingRepoStub.Cleanup()
	}
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should fill defaults", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		created, err := service.Create(ctx, Item{Title: "Designing Data-Intensive Applications"})

		// then
		assert.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, StatusToRead, created.Status)
		assert.Equal(t, PriorityMedium, created.Priority)
		assert.Equal(t, TypeOther, created.ItemType)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), created.AddedDate)
	})

	t.Run("should return error when context has no user", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.Create(context.Background(), Item{Title: "Test"})

		// then
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to get current user")
	})
}

func TestServiceImpl_MarkReading(t *testing.T) {
	t.Run("should move the item to reading", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Item{Title: "An article", ItemType: TypeArticle})

		// when
		updated, err := service.MarkReading(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StatusReading, updated.Status)
		assert.Nil(t, updated.CompletedDate)
	})

	t.Run("should clear the completed date when reopening", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Item{Title: "A book", ItemType: TypeBook})
		_, err := service.MarkCompleted(ctx, created.ID)
		require.NoError(t, err)

		// when
		updated, err := service.MarkReading(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StatusReading, updated.Status)
		assert.Nil(t, updated.CompletedDate)
	})
}

func TestServiceImpl_MarkCompleted(t *testing.T) {
	t.Run("should stamp the completed date", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Item{Title: "A course", ItemType: TypeCourse})

		// when
		updated, err := service.MarkCompleted(ctx, created.ID)

		// then
		assert.NoError(t, err)
		assert.Equal(t, StatusCompleted, updated.Status)
		require.NotNil(t, updated.CompletedDate)
		assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), *updated.CompletedDate)
	})

	t.Run("should return not found for unknown item", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// when
		_, err := service.MarkCompleted(ctx, "missing")

		// then
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should delete an existing item", func(t *testing.T) {
		teardown := setup(t)
		defer teardown()

		// given
		created, _ := service.Create(ctx, Item{Title: "To delete"})

		// when
		err := service.Delete(ctx, created.ID)

		// then
		assert.NoError(t, err)
		_, err = service.Get(ctx, created.ID)
		assert.ErrorIs(t, err, ErrItemNotFound)
	})
}
