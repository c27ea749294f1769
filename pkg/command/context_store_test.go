package command

import (
	"testing"
	"time"

	"github.com/crewdeck/crewdeck/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestContextStore(t *testing.T) {
	t.Run("should remember the session context", func(t *testing.T) {
		// given
		clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
		store := NewContextStore(30*time.Minute, clock)

		// when
		store.Update("session-1", func(c *SessionContext) { c.LastTaskID = "task-1" })

		// then
		assert.Equal(t, "task-1", store.Get("session-1").LastTaskID)
		assert.Empty(t, store.Get("session-2").LastTaskID)
	})

	t.Run("should evict a session after the TTL", func(t *testing.T) {
		// given
		clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
		store := NewContextStore(30*time.Minute, clock)
		store.Update("session-1", func(c *SessionContext) { c.LastTaskID = "task-1" })

		// when
		clock.SetNow(clock.FixedNow.Add(31 * time.Minute))

		// then
		assert.Empty(t, store.Get("session-1").LastTaskID)
	})

	t.Run("should refresh the TTL on access", func(t *testing.T) {
		// given
		clock := &utils.MockClock{FixedNow: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
		store := NewContextStore(30*time.Minute, clock)
		store.Update("session-1", func(c *SessionContext) { c.LastTaskID = "task-1" })

		// when - touched every 20 minutes, the session stays warm
		clock.SetNow(clock.FixedNow.Add(20 * time.Minute))
		assert.Equal(t, "task-1", store.Get("session-1").LastTaskID)
		clock.SetNow(clock.FixedNow.Add(20 * time.Minute))

		// then
		assert.Equal(t, "task-1", store.Get("session-1").LastTaskID)
	})
}
