package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func timep(ts time.Time) *time.Time { return &ts }

func TestIsUrgent_DueDateWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	base := Task{ColumnStatus: strp(StatusTodo), Priority: PriorityHigh}

	due := func(days int) *time.Time {
		d := dateOnly(now).AddDate(0, 0, days)
		return &d
	}

	t.Run("today is included", func(t *testing.T) {
		task := base
		task.DueDate = due(0)
		assert.True(t, isUrgent(task, now))
	})
	t.Run("today plus seven is included", func(t *testing.T) {
		task := base
		task.DueDate = due(7)
		assert.True(t, isUrgent(task, now))
	})
	t.Run("today plus eight is excluded", func(t *testing.T) {
		task := base
		task.DueDate = due(8)
		assert.False(t, isUrgent(task, now))
	})
	t.Run("yesterday is excluded", func(t *testing.T) {
		task := base
		task.DueDate = due(-1)
		assert.False(t, isUrgent(task, now))
	})
	t.Run("no due date is excluded", func(t *testing.T) {
		assert.False(t, isUrgent(base, now))
	})
}

func TestIsUrgent_StatusAndPriority(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	due := dateOnly(now).AddDate(0, 0, 3)

	task := Task{ColumnStatus: strp(StatusTodo), Priority: PriorityCritical, DueDate: &due}
	assert.True(t, isUrgent(task, now), "critical counts as urgent")

	task.Priority = PriorityMedium
	assert.False(t, isUrgent(task, now), "medium is never urgent")

	task.Priority = PriorityHigh
	task.ColumnStatus = strp(StatusInProgress)
	assert.False(t, isUrgent(task, now), "only the to-do column counts")

	task.ColumnStatus = nil
	assert.False(t, isUrgent(task, now), "a task without a column has no status")
}

func TestIsDoneRecently(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)

	t.Run("thirteen days ago is included", func(t *testing.T) {
		task := Task{ColumnStatus: strp(StatusDone), CompletedAt: timep(now.Add(-13 * 24 * time.Hour))}
		assert.True(t, isDoneRecently(task, now))
	})
	t.Run("fifteen days ago is excluded", func(t *testing.T) {
		task := Task{ColumnStatus: strp(StatusDone), CompletedAt: timep(now.Add(-15 * 24 * time.Hour))}
		assert.False(t, isDoneRecently(task, now))
	})
	t.Run("exactly fourteen days ago is included", func(t *testing.T) {
		task := Task{ColumnStatus: strp(StatusDone), CompletedAt: timep(now.Add(-14 * 24 * time.Hour))}
		assert.True(t, isDoneRecently(task, now))
	})
	t.Run("not in the done column is excluded", func(t *testing.T) {
		task := Task{ColumnStatus: strp(StatusReview), CompletedAt: timep(now)}
		assert.False(t, isDoneRecently(task, now))
	})
	t.Run("no completion timestamp is excluded", func(t *testing.T) {
		task := Task{ColumnStatus: strp(StatusDone)}
		assert.False(t, isDoneRecently(task, now))
	})
}

func TestComputeTaskStats(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	dueSoon := dateOnly(now).AddDate(0, 0, 2)
	dueLate := dateOnly(now).AddDate(0, 0, 9)

	tasks := []Task{
		{ColumnStatus: strp(StatusTodo), Priority: PriorityHigh, DueDate: &dueSoon},
		{ColumnStatus: strp(StatusTodo), Priority: PriorityCritical, DueDate: &dueLate},
		{ColumnStatus: strp(StatusDone), Priority: PriorityLow, CompletedAt: timep(now.Add(-48 * time.Hour))},
		{ColumnStatus: strp(StatusDone), Priority: PriorityLow, CompletedAt: timep(now.Add(-20 * 24 * time.Hour))},
		{ColumnStatus: nil, Priority: PriorityHigh},
	}

	assigned, urgent, doneRecent := computeTaskStats(tasks, now)
	assert.Equal(t, 5, assigned)
	assert.Equal(t, 1, urgent)
	assert.Equal(t, 1, doneRecent)
}

func TestComputeTaskStats_Empty(t *testing.T) {
	assigned, urgent, doneRecent := computeTaskStats(nil, time.Now())
	assert.Zero(t, assigned)
	assert.Zero(t, urgent)
	assert.Zero(t, doneRecent)
}
