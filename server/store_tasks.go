package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const taskSelect = `select t.id, t.board_id, t.column_id, c.status, t.title, t.description, t.due_date, t.priority,
	t.assignee_id, au.email, au.username, au.first_name, au.last_name,
	t.reviewer_id, ru.email, ru.username, ru.first_name, ru.last_name,
	t.position, t.created_by, t.created_at, t.updated_at, t.completed_at,
	(select count(*) from activities a where a.task_id=t.id) as comments_count
	from tasks t
	left join columns c on c.id=t.column_id
	left join users au on au.id=t.assignee_id
	left join users ru on ru.id=t.reviewer_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(sc rowScanner) (Task, error) {
	var t Task
	var colID, assigneeID, reviewerID, createdBy sql.NullInt64
	var colStatus sql.NullString
	var aEmail, aUser, aFirst, aLast sql.NullString
	var rEmail, rUser, rFirst, rLast sql.NullString
	var due, completed sql.NullTime
	err := sc.Scan(&t.ID, &t.BoardID, &colID, &colStatus, &t.Title, &t.Description, &due, &t.Priority,
		&assigneeID, &aEmail, &aUser, &aFirst, &aLast,
		&reviewerID, &rEmail, &rUser, &rFirst, &rLast,
		&t.Position, &createdBy, &t.CreatedAt, &t.UpdatedAt, &completed,
		&t.CommentsCount)
	if err != nil {
		return Task{}, err
	}
	if colID.Valid {
		t.ColumnID = &colID.Int64
	}
	if colStatus.Valid {
		t.ColumnStatus = &colStatus.String
	}
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	if completed.Valid {
		c := completed.Time
		t.CompletedAt = &c
	}
	if createdBy.Valid {
		t.CreatedBy = &createdBy.Int64
	}
	if assigneeID.Valid {
		t.AssigneeID = &assigneeID.Int64
		t.Assignee = &UserSummary{ID: assigneeID.Int64, Email: aEmail.String,
			Fullname: displayName(aFirst.String, aLast.String, aUser.String)}
	}
	if reviewerID.Valid {
		t.ReviewerID = &reviewerID.Int64
		t.Reviewer = &UserSummary{ID: reviewerID.Int64, Email: rEmail.String,
			Fullname: displayName(rFirst.String, rLast.String, rUser.String)}
	}
	return t, nil
}

func (s *Store) queryTasks(ctx context.Context, query string, args ...any) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id int64) (Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, taskSelect+` where t.id=$1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

// ListTasksForUser returns tasks on boards the user owns or is a member of.
func (s *Store) ListTasksForUser(ctx context.Context, userID int64) ([]Task, error) {
	return s.queryTasks(ctx, taskSelect+`
		join boards b on b.id=t.board_id
		where b.owner_id=$1 or exists (select 1 from board_members m where m.board_id=b.id and m.user_id=$1)
		order by c.position, t.position, t.id`, userID)
}

func (s *Store) TasksByBoard(ctx context.Context, boardID int64) ([]Task, error) {
	return s.queryTasks(ctx, taskSelect+` where t.board_id=$1 order by c.position, t.position, t.id`, boardID)
}

func (s *Store) TasksByAssignee(ctx context.Context, userID int64) ([]Task, error) {
	return s.queryTasks(ctx, taskSelect+` where t.assignee_id=$1 order by t.due_date, t.id`, userID)
}

func (s *Store) TasksByReviewer(ctx context.Context, userID int64) ([]Task, error) {
	return s.queryTasks(ctx, taskSelect+` where t.reviewer_id=$1 order by t.due_date, t.id`, userID)
}

// AssignedTasksOnMemberBoards returns the dashboard candidate set: tasks
// assigned to the user on boards where the user is in the member set.
func (s *Store) AssignedTasksOnMemberBoards(ctx context.Context, userID int64) ([]Task, error) {
	return s.queryTasks(ctx, taskSelect+`
		where t.assignee_id=$1 and exists
			(select 1 from board_members m where m.board_id=t.board_id and m.user_id=$1)
		order by t.id`, userID)
}

func (s *Store) BoardsMemberOfCount(ctx context.Context, userID int64) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `select count(*) from board_members where user_id=$1`, userID).Scan(&n)
	return n, err
}

type newTask struct {
	BoardID     int64
	ColumnID    int64
	Title       string
	Description string
	DueDate     *time.Time
	Priority    string
	AssigneeID  *int64
	ReviewerID  *int64
	CreatedBy   int64
}

func (s *Store) CreateTask(ctx context.Context, nt newTask) (int64, error) {
	var next int64 = 1000
	_ = s.db.QueryRowContext(ctx, `select coalesce(max(position),0)+1000 from tasks where column_id=$1`, nt.ColumnID).Scan(&next)
	var completed *time.Time
	if c, err := s.GetColumn(ctx, nt.ColumnID); err == nil && c.Status == StatusDone {
		now := time.Now()
		completed = &now
	}
	var id int64
	err := s.db.QueryRowContext(ctx, `insert into tasks(board_id, column_id, title, description, due_date, priority,
		assignee_id, reviewer_id, position, created_by, completed_at)
		values($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11) returning id`,
		nt.BoardID, nt.ColumnID, nt.Title, nt.Description, nt.DueDate, nt.Priority,
		nt.AssigneeID, nt.ReviewerID, next, nt.CreatedBy, completed).Scan(&id)
	return id, err
}

type taskUpdate struct {
	Title       *string
	Description *string
	ColumnID    *int64
	Priority    *string
	DueDate     *time.Time
	AssigneeID  *int64
	ReviewerID  *int64
	// CompletedAt is stamped on a transition into DONE and cleared on a
	// transition out of it.
	CompletedAt    *time.Time
	ClearCompleted bool
}

func (s *Store) UpdateTask(ctx context.Context, id int64, upd taskUpdate) error {
	set := []string{"updated_at=now()"}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.ColumnID != nil {
		add("column_id", *upd.ColumnID)
	}
	if upd.Priority != nil {
		add("priority", *upd.Priority)
	}
	if upd.DueDate != nil {
		add("due_date", *upd.DueDate)
	}
	if upd.AssigneeID != nil {
		add("assignee_id", *upd.AssigneeID)
	}
	if upd.ReviewerID != nil {
		add("reviewer_id", *upd.ReviewerID)
	}
	if upd.CompletedAt != nil {
		add("completed_at", *upd.CompletedAt)
	} else if upd.ClearCompleted {
		set = append(set, "completed_at=null")
	}
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, fmt.Sprintf("update tasks set %s where id=$%d", joinComma(set), idx), args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from tasks where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Activities ---

func (s *Store) CommentsByTask(ctx context.Context, taskID int64) ([]Activity, error) {
	rows, err := s.db.QueryContext(ctx, `select a.id, a.task_id, a.author_id,
		coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.username,''), a.message, a.created_at
		from activities a left join users u on u.id=a.author_id
		where a.task_id=$1 order by a.created_at, a.id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanActivity(sc rowScanner) (Activity, error) {
	var a Activity
	var authorID sql.NullInt64
	var first, last, username string
	if err := sc.Scan(&a.ID, &a.TaskID, &authorID, &first, &last, &username, &a.Message, &a.CreatedAt); err != nil {
		return Activity{}, err
	}
	if authorID.Valid {
		a.AuthorID = &authorID.Int64
		a.Author = displayName(first, last, username)
	} else {
		a.Author = "Unknown"
	}
	return a, nil
}

func (s *Store) AddComment(ctx context.Context, taskID, authorID int64, message string) (Activity, error) {
	var a Activity
	err := s.db.QueryRowContext(ctx, `insert into activities(task_id, author_id, message) values($1,$2,$3)
		returning id, task_id, author_id, message, created_at`, taskID, authorID, message).
		Scan(&a.ID, &a.TaskID, &a.AuthorID, &a.Message, &a.CreatedAt)
	return a, err
}

// GetComment fetches a comment scoped to its task; a comment id under the
// wrong task resolves to ErrNotFound.
func (s *Store) GetComment(ctx context.Context, taskID, commentID int64) (Activity, error) {
	a, err := scanActivity(s.db.QueryRowContext(ctx, `select a.id, a.task_id, a.author_id,
		coalesce(u.first_name,''), coalesce(u.last_name,''), coalesce(u.username,''), a.message, a.created_at
		from activities a left join users u on u.id=a.author_id
		where a.id=$1 and a.task_id=$2`, commentID, taskID))
	if errors.Is(err, sql.ErrNoRows) {
		return Activity{}, ErrNotFound
	}
	return a, err
}

func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from activities where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
