package main

import (
	"net/http"
	"time"
)

type dashboardStats struct {
	BoardsMemberOf    int `json:"boards_member_of"`
	TasksAssignedToMe int `json:"tasks_assigned_to_me"`
	UrgentTasksCount  int `json:"urgent_tasks_count"`
	DoneLast14Days    int `json:"done_last_14_days"`
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// isUrgent: to-do column, high or critical priority, due within the next
// seven days (inclusive on both ends).
func isUrgent(t Task, now time.Time) bool {
	if t.ColumnStatus == nil || *t.ColumnStatus != StatusTodo {
		return false
	}
	if t.Priority != PriorityHigh && t.Priority != PriorityCritical {
		return false
	}
	if t.DueDate == nil {
		return false
	}
	due := dateOnly(*t.DueDate)
	today := dateOnly(now)
	return !due.Before(today) && !due.After(today.AddDate(0, 0, 7))
}

// isDoneRecently: done column with completed_at inside the last 14 days.
func isDoneRecently(t Task, now time.Time) bool {
	if t.ColumnStatus == nil || *t.ColumnStatus != StatusDone {
		return false
	}
	if t.CompletedAt == nil {
		return false
	}
	return !t.CompletedAt.Before(now.Add(-14 * 24 * time.Hour))
}

// computeTaskStats folds the assigned-task candidate set into the three
// task counters of the dashboard.
func computeTaskStats(tasks []Task, now time.Time) (assigned, urgent, doneRecent int) {
	assigned = len(tasks)
	for _, t := range tasks {
		if isUrgent(t, now) {
			urgent++
		}
		if isDoneRecently(t, now) {
			doneRecent++
		}
	}
	return assigned, urgent, doneRecent
}

// GET /api/dashboard/stats — independent snapshots computed per request.
func (a *api) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	boards, err := a.store.BoardsMemberOfCount(r.Context(), me.ID)
	if err != nil {
		a.log.Error("boards count", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	tasks, err := a.store.AssignedTasksOnMemberBoards(r.Context(), me.ID)
	if err != nil {
		a.log.Error("assigned tasks", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	assigned, urgent, doneRecent := computeTaskStats(tasks, time.Now())
	writeJSON(w, 200, dashboardStats{
		BoardsMemberOf:    boards,
		TasksAssignedToMe: assigned,
		UrgentTasksCount:  urgent,
		DoneLast14Days:    doneRecent,
	})
}
