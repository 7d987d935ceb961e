package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletionChange(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	t.Run("entering done stamps", func(t *testing.T) {
		stamp, clear := completionChange(false, true, now)
		require.NotNil(t, stamp)
		assert.True(t, stamp.Equal(now))
		assert.False(t, clear)
	})

	t.Run("leaving done clears", func(t *testing.T) {
		stamp, clear := completionChange(true, false, now)
		assert.Nil(t, stamp)
		assert.True(t, clear)
	})

	t.Run("staying done keeps the first stamp", func(t *testing.T) {
		stamp, clear := completionChange(true, true, now)
		assert.Nil(t, stamp)
		assert.False(t, clear)
	})

	t.Run("staying outside done is a no-op", func(t *testing.T) {
		stamp, clear := completionChange(false, false, now)
		assert.Nil(t, stamp)
		assert.False(t, clear)
	})

	// applying the same done->done update twice yields the same taskUpdate,
	// so a repeated request cannot move the completion time
	t.Run("repeated updates are stable", func(t *testing.T) {
		later := now.Add(time.Hour)
		stamp1, clear1 := completionChange(true, true, now)
		stamp2, clear2 := completionChange(true, true, later)
		assert.Equal(t, stamp1, stamp2)
		assert.Equal(t, clear1, clear2)
	})
}
