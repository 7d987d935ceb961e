package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"to-do", "in-progress", "review", "done"} {
		st, ok := statusFromLabel(label)
		require.True(t, ok, "label %q must resolve", label)
		assert.Equal(t, label, statusLabel(st))
	}
}

func TestStatusFromLabel_Unknown(t *testing.T) {
	for _, label := range []string{"", "todo", "TO-DO", "To-Do", "doing", "done "} {
		_, ok := statusFromLabel(label)
		assert.False(t, ok, "label %q must be rejected", label)
	}
}

func TestPriorityLabelRoundTrip(t *testing.T) {
	for _, label := range []string{"low", "medium", "high", "critical"} {
		p, ok := priorityFromLabel(label)
		require.True(t, ok)
		assert.Equal(t, label, priorityLabel(p))
	}
}

func TestPriorityFromLabel_CaseInsensitive(t *testing.T) {
	for _, label := range []string{"LOW", "Medium", "hIgH", "CRITICAL"} {
		p, ok := priorityFromLabel(label)
		require.True(t, ok, "label %q must resolve", label)
		assert.NotEmpty(t, priorityLabel(p))
	}
}

func TestPriorityFromLabel_Unknown(t *testing.T) {
	for _, label := range []string{"", "urgent", "p1", "highest"} {
		_, ok := priorityFromLabel(label)
		assert.False(t, ok, "label %q must be rejected", label)
	}
}
