package main

import (
	"strings"
	"time"
)

type User struct {
	ID        int64
	Username  string
	Email     string
	FirstName string
	LastName  string
	CreatedAt time.Time
}

// UserSummary is the compact user shape embedded in board and task payloads.
type UserSummary struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
}

type Board struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	OwnerID   int64     `json:"owner_id"`
	CreatedAt time.Time `json:"-"`
}

// BoardSummary is the list-item shape with aggregate counts computed in SQL.
type BoardSummary struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	MemberCount    int    `json:"member_count"`
	TicketCount    int    `json:"ticket_count"`
	TasksToDoCount int    `json:"tasks_to_do_count"`
	TasksHighPrio  int    `json:"tasks_high_prio_count"`
	OwnerID        int64  `json:"owner_id"`
}

type Column struct {
	ID       int64  `json:"id"`
	BoardID  int64  `json:"board"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Position int64  `json:"position"`
}

// Task carries the stored row plus read-side derived fields: ColumnStatus is
// the status of the linked column (nil when the task sits in no column),
// Assignee/Reviewer are joined user summaries, CommentsCount is a subselect.
type Task struct {
	ID            int64
	BoardID       int64
	ColumnID      *int64
	ColumnStatus  *string
	Title         string
	Description   string
	DueDate       *time.Time
	Priority      string
	AssigneeID    *int64
	Assignee      *UserSummary
	ReviewerID    *int64
	Reviewer      *UserSummary
	Position      int64
	CreatedBy     *int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	CommentsCount int
}

// canUpdate reports whether user may modify the task: board owner, assignee
// or reviewer.
func (t Task) canUpdate(boardOwnerID, userID int64) bool {
	if boardOwnerID == userID {
		return true
	}
	if t.AssigneeID != nil && *t.AssigneeID == userID {
		return true
	}
	return t.ReviewerID != nil && *t.ReviewerID == userID
}

// canDelete reports whether user may delete the task: board owner or the
// task's creator. Assignee/reviewer rights do not extend to deletion.
func (t Task) canDelete(boardOwnerID, userID int64) bool {
	if boardOwnerID == userID {
		return true
	}
	return t.CreatedBy != nil && *t.CreatedBy == userID
}

type Activity struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"-"`
	AuthorID  *int64    `json:"-"`
	Author    string    `json:"author"`
	Message   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// canDelete reports whether user authored the comment. Authorship is the
// only gate: board membership and board ownership are not consulted.
func (a Activity) canDelete(userID int64) bool {
	return a.AuthorID != nil && *a.AuthorID == userID
}

// displayName combines first and last name, falling back to the username.
func displayName(first, last, username string) string {
	full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last))
	if full == "" {
		return username
	}
	return full
}

func (u User) Fullname() string { return displayName(u.FirstName, u.LastName, u.Username) }

func (u User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Email: u.Email, Fullname: u.Fullname()}
}
