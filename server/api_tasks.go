package main

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

const dueDateLayout = "2006-01-02"

// taskPayload renders the task read shape. The board id is omitted from
// board-detail embeddings and from PATCH responses; comments_count likewise
// from PATCH responses.
func taskPayload(t Task, withBoard, withComments bool) map[string]any {
	out := map[string]any{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"priority":    priorityLabel(t.Priority),
		"assignee":    t.Assignee,
		"reviewer":    t.Reviewer,
	}
	if t.ColumnStatus != nil {
		out["status"] = statusLabel(*t.ColumnStatus)
	} else {
		out["status"] = nil
	}
	if t.DueDate != nil {
		out["due_date"] = t.DueDate.Format(dueDateLayout)
	} else {
		out["due_date"] = nil
	}
	if withBoard {
		out["board"] = t.BoardID
	}
	if withComments {
		out["comments_count"] = t.CommentsCount
	}
	return out
}

type taskRequest struct {
	Board       *int64  `json:"board"`
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	AssigneeID  *int64  `json:"assignee_id"`
	ReviewerID  *int64  `json:"reviewer_id"`
}

// completionChange decides how completed_at moves with a status change:
// entering the Done column stamps it, leaving clears it. A task already on
// either side keeps its existing value, so a done task keeps its first stamp.
func completionChange(wasDone, isDone bool, now time.Time) (stamp *time.Time, clear bool) {
	switch {
	case isDone && !wasDone:
		return &now, false
	case wasDone && !isDone:
		return nil, true
	default:
		return nil, false
	}
}

func (a *api) parseDueDate(s string) (*time.Time, error) {
	d, err := time.Parse(dueDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// checkPerson validates an assignee_id/reviewer_id reference.
func (a *api) checkPerson(w http.ResponseWriter, r *http.Request, field string, id int64) bool {
	ok, err := a.store.UserExists(r.Context(), id)
	if err != nil {
		a.log.Error("user lookup", "err", err)
		writeError(w, 500, "internal error")
		return false
	}
	if !ok {
		writeFieldErrors(w, fieldErrors{field: "unknown user"})
		return false
	}
	return true
}

// POST /api/tasks
func (a *api) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req taskRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	errs := fieldErrors{}
	if req.Board == nil {
		errs["board"] = "this field is required"
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		errs["title"] = "this field is required"
	}
	if req.Status == nil {
		errs["status"] = "this field is required"
	}
	if req.Priority == nil {
		errs["priority"] = "this field is required"
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	if _, err := a.store.GetBoard(r.Context(), *req.Board); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "board not found")
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	ok, e := a.store.CanAccessBoard(r.Context(), me.ID, *req.Board)
	if e != nil {
		a.log.Error("access check", "err", e)
	}
	if !ok {
		writeError(w, 403, "must be a member of the board to create a task")
		return
	}
	status, ok := statusFromLabel(*req.Status)
	if !ok {
		writeFieldErrors(w, fieldErrors{"status": "invalid status; allowed: to-do, in-progress, review, done"})
		return
	}
	col, err := a.store.ColumnByStatus(r.Context(), *req.Board, status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeFieldErrors(w, fieldErrors{"status": "this board has no column with this status"})
			return
		}
		a.log.Error("column by status", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	priority, ok := priorityFromLabel(*req.Priority)
	if !ok {
		writeFieldErrors(w, fieldErrors{"priority": "invalid priority; allowed: low, medium, high, critical"})
		return
	}
	nt := newTask{
		BoardID:   *req.Board,
		ColumnID:  col.ID,
		Title:     strings.TrimSpace(*req.Title),
		Priority:  priority,
		CreatedBy: me.ID,
	}
	if req.Description != nil {
		nt.Description = *req.Description
	}
	if req.DueDate != nil {
		d, err := a.parseDueDate(*req.DueDate)
		if err != nil {
			writeFieldErrors(w, fieldErrors{"due_date": "expected YYYY-MM-DD"})
			return
		}
		nt.DueDate = d
	}
	if req.AssigneeID != nil {
		if !a.checkPerson(w, r, "assignee_id", *req.AssigneeID) {
			return
		}
		nt.AssigneeID = req.AssigneeID
	}
	if req.ReviewerID != nil {
		if !a.checkPerson(w, r, "reviewer_id", *req.ReviewerID) {
			return
		}
		nt.ReviewerID = req.ReviewerID
	}
	id, err := a.store.CreateTask(r.Context(), nt)
	if err != nil {
		a.log.Error("create task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	t, err := a.store.GetTask(r.Context(), id)
	if err != nil {
		a.log.Error("get task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, taskPayload(t, true, true))
}

// GET /api/tasks
func (a *api) handleListTasks(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	tasks, err := a.store.ListTasksForUser(r.Context(), me.ID)
	if err != nil {
		a.log.Error("list tasks", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, taskList(tasks))
}

func taskList(tasks []Task) []map[string]any {
	out := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskPayload(t, true, true))
	}
	return out
}

// getTaskForMember loads a task and enforces board membership for reads.
func (a *api) getTaskForMember(w http.ResponseWriter, r *http.Request, userID int64) (Task, bool) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return Task{}, false
	}
	t, err := a.store.GetTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return Task{}, false
		}
		a.log.Error("get task", "err", err)
		writeError(w, 500, "internal error")
		return Task{}, false
	}
	ok, e := a.store.CanAccessBoard(r.Context(), userID, t.BoardID)
	if e != nil {
		a.log.Error("access check", "err", e)
	}
	if !ok {
		writeError(w, 403, "forbidden")
		return Task{}, false
	}
	return t, true
}

// GET /api/tasks/{id}
func (a *api) handleGetTask(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	t, ok := a.getTaskForMember(w, r, me.ID)
	if !ok {
		return
	}
	writeJSON(w, 200, taskPayload(t, true, true))
}

// PATCH/PUT /api/tasks/{id}. The board reference is immutable: a board value
// in the payload is silently discarded. On a full replace status and
// priority are required; on partial update omitted fields stay untouched.
func (a *api) handleUpdateTask(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		me, errU := a.currentUser(r)
		if errU != nil {
			writeError(w, 401, "unauthorized")
			return
		}
		t, ok := a.getTaskForMember(w, r, me.ID)
		if !ok {
			return
		}
		b, err := a.store.GetBoard(r.Context(), t.BoardID)
		if err != nil {
			a.log.Error("get board", "err", err)
			writeError(w, 500, "internal error")
			return
		}
		if !t.canUpdate(b.OwnerID, me.ID) {
			writeError(w, 403, "forbidden")
			return
		}
		var req taskRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, 400, "invalid payload")
			return
		}
		if !partial {
			errs := fieldErrors{}
			if req.Status == nil {
				errs["status"] = "this field is required"
			}
			if req.Priority == nil {
				errs["priority"] = "this field is required"
			}
			if len(errs) > 0 {
				writeFieldErrors(w, errs)
				return
			}
		}
		var upd taskUpdate
		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				writeFieldErrors(w, fieldErrors{"title": "title cannot be empty"})
				return
			}
			upd.Title = &title
		}
		upd.Description = req.Description
		if req.Status != nil {
			status, ok := statusFromLabel(*req.Status)
			if !ok {
				writeFieldErrors(w, fieldErrors{"status": "invalid status; allowed: to-do, in-progress, review, done"})
				return
			}
			// the column is always resolved on the task's own board
			col, err := a.store.ColumnByStatus(r.Context(), t.BoardID, status)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					writeFieldErrors(w, fieldErrors{"status": "this board has no column with this status"})
					return
				}
				a.log.Error("column by status", "err", err)
				writeError(w, 500, "internal error")
				return
			}
			upd.ColumnID = &col.ID
			wasDone := t.ColumnStatus != nil && *t.ColumnStatus == StatusDone
			upd.CompletedAt, upd.ClearCompleted = completionChange(wasDone, status == StatusDone, time.Now())
		}
		if req.Priority != nil {
			priority, ok := priorityFromLabel(*req.Priority)
			if !ok {
				writeFieldErrors(w, fieldErrors{"priority": "invalid priority; allowed: low, medium, high, critical"})
				return
			}
			upd.Priority = &priority
		}
		if req.DueDate != nil {
			d, err := a.parseDueDate(*req.DueDate)
			if err != nil {
				writeFieldErrors(w, fieldErrors{"due_date": "expected YYYY-MM-DD"})
				return
			}
			upd.DueDate = d
		}
		if req.AssigneeID != nil {
			if !a.checkPerson(w, r, "assignee_id", *req.AssigneeID) {
				return
			}
			upd.AssigneeID = req.AssigneeID
		}
		if req.ReviewerID != nil {
			if !a.checkPerson(w, r, "reviewer_id", *req.ReviewerID) {
				return
			}
			upd.ReviewerID = req.ReviewerID
		}
		if err := a.store.UpdateTask(r.Context(), t.ID, upd); err != nil {
			a.log.Error("update task", "err", err)
			writeError(w, 500, "internal error")
			return
		}
		t2, err := a.store.GetTask(r.Context(), t.ID)
		if err != nil {
			a.log.Error("get task", "err", err)
			writeError(w, 500, "internal error")
			return
		}
		writeJSON(w, 200, taskPayload(t2, !partial, !partial))
	}
}

// DELETE /api/tasks/{id}: board owner or the task's creator only.
func (a *api) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	t, ok := a.getTaskForMember(w, r, me.ID)
	if !ok {
		return
	}
	b, err := a.store.GetBoard(r.Context(), t.BoardID)
	if err != nil {
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	if !t.canDelete(b.OwnerID, me.ID) {
		writeError(w, 403, "forbidden")
		return
	}
	if err := a.store.DeleteTask(r.Context(), t.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("delete task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/tasks/assigned-to-me
func (a *api) handleAssignedToMe(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	tasks, err := a.store.TasksByAssignee(r.Context(), me.ID)
	if err != nil {
		a.log.Error("assigned tasks", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, taskList(tasks))
}

// GET /api/tasks/reviewing
func (a *api) handleReviewing(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	tasks, err := a.store.TasksByReviewer(r.Context(), me.ID)
	if err != nil {
		a.log.Error("reviewing tasks", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, taskList(tasks))
}
