package main

import "strings"

// Column statuses as stored. Every board has exactly one column per status.
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusReview     = "REVIEW"
	StatusDone       = "DONE"
)

// Task priorities as stored.
const (
	PriorityLow      = "LOW"
	PriorityMedium   = "MEDIUM"
	PriorityHigh     = "HIGH"
	PriorityCritical = "CRITICAL"
)

// External status labels are case-sensitive; unknown labels are rejected,
// never defaulted.
var statusByLabel = map[string]string{
	"to-do":       StatusTodo,
	"in-progress": StatusInProgress,
	"review":      StatusReview,
	"done":        StatusDone,
}

var labelByStatus = map[string]string{
	StatusTodo:       "to-do",
	StatusInProgress: "in-progress",
	StatusReview:     "review",
	StatusDone:       "done",
}

// External priority labels are matched case-insensitively and always
// rendered lowercase.
var priorityByLabel = map[string]string{
	"low":      PriorityLow,
	"medium":   PriorityMedium,
	"high":     PriorityHigh,
	"critical": PriorityCritical,
}

var labelByPriority = map[string]string{
	PriorityLow:      "low",
	PriorityMedium:   "medium",
	PriorityHigh:     "high",
	PriorityCritical: "critical",
}

func statusFromLabel(label string) (string, bool) {
	st, ok := statusByLabel[label]
	return st, ok
}

func statusLabel(status string) string { return labelByStatus[status] }

func priorityFromLabel(label string) (string, bool) {
	p, ok := priorityByLabel[strings.ToLower(label)]
	return p, ok
}

func priorityLabel(priority string) string { return labelByPriority[priority] }
