package main

import (
	"errors"
	"net/http"
	"strings"
)

func (a *api) handleListBoards(w http.ResponseWriter, r *http.Request) {
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.ListBoards(r.Context(), u.ID)
	if err != nil {
		a.log.Error("list boards", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

func (a *api) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Title   string  `json:"title"`
		Members []int64 `json:"members"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		writeFieldErrors(w, fieldErrors{"title": "this field is required"})
		return
	}
	for _, m := range req.Members {
		if ok, err := a.store.UserExists(r.Context(), m); err != nil {
			a.log.Error("member lookup", "err", err)
			writeError(w, 500, "internal error")
			return
		} else if !ok {
			writeFieldErrors(w, fieldErrors{"members": "unknown user in member list"})
			return
		}
	}
	id, err := a.store.CreateBoard(r.Context(), u.ID, title, req.Members)
	if err != nil {
		a.log.Error("create board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	b, err := a.store.BoardSummaryByID(r.Context(), id)
	if err != nil {
		a.log.Error("board summary", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, b)
}

func (a *api) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	b, err := a.store.GetBoard(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	ok, e := a.store.CanAccessBoard(r.Context(), u.ID, id)
	if e != nil {
		a.log.Error("access check", "err", e)
	}
	if !ok {
		writeError(w, 403, "forbidden")
		return
	}
	members, err := a.store.BoardMembers(r.Context(), id)
	if err != nil {
		a.log.Error("board members", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	tasks, err := a.store.TasksByBoard(r.Context(), id)
	if err != nil {
		a.log.Error("tasks by board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	memberOut := make([]UserSummary, 0, len(members))
	for _, m := range members {
		memberOut = append(memberOut, m.Summary())
	}
	taskOut := make([]map[string]any, 0, len(tasks))
	for _, t := range tasks {
		taskOut = append(taskOut, taskPayload(t, false, true))
	}
	writeJSON(w, 200, map[string]any{
		"id":       b.ID,
		"title":    b.Title,
		"owner_id": b.OwnerID,
		"members":  memberOut,
		"tasks":    taskOut,
	})
}

func (a *api) handleUpdateBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	b, err := a.store.GetBoard(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	// any member (or the owner) may update title and member set
	ok, e := a.store.CanAccessBoard(r.Context(), u.ID, id)
	if e != nil {
		a.log.Error("access check", "err", e)
	}
	if !ok {
		writeError(w, 403, "forbidden")
		return
	}
	var req struct {
		Title   *string  `json:"title"`
		Members *[]int64 `json:"members"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	var title *string
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		if t == "" {
			writeFieldErrors(w, fieldErrors{"title": "title cannot be empty"})
			return
		}
		title = &t
	}
	if req.Members != nil {
		for _, m := range *req.Members {
			if ok, err := a.store.UserExists(r.Context(), m); err != nil {
				a.log.Error("member lookup", "err", err)
				writeError(w, 500, "internal error")
				return
			} else if !ok {
				writeFieldErrors(w, fieldErrors{"members": "unknown user in member list"})
				return
			}
		}
	}
	// validation first, then title and member set land in one transaction
	if err := a.store.UpdateBoard(r.Context(), id, title, req.Members); err != nil {
		a.log.Error("update board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	b, err = a.store.GetBoard(r.Context(), id)
	if err != nil {
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	owner, err := a.store.UserByID(r.Context(), b.OwnerID)
	if err != nil {
		a.log.Error("board owner", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	members, err := a.store.BoardMembers(r.Context(), id)
	if err != nil {
		a.log.Error("board members", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	memberOut := make([]UserSummary, 0, len(members))
	for _, m := range members {
		memberOut = append(memberOut, m.Summary())
	}
	writeJSON(w, 200, map[string]any{
		"id":           b.ID,
		"title":        b.Title,
		"owner_data":   owner.Summary(),
		"members_data": memberOut,
	})
}

func (a *api) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	if _, err := a.store.GetBoard(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("get board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	// only the owner can delete; members get 403
	if own, e := a.store.IsBoardOwner(r.Context(), id, u.ID); e != nil || !own {
		if e != nil {
			a.log.Error("owner check", "err", e)
		}
		writeError(w, 403, "forbidden")
		return
	}
	if err := a.store.DeleteBoard(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("delete board", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
