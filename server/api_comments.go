package main

import (
	"errors"
	"net/http"
	"strings"
)

// GET /api/tasks/{id}/comments
func (a *api) handleListComments(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	t, ok := a.getTaskForMember(w, r, me.ID)
	if !ok {
		return
	}
	items, err := a.store.CommentsByTask(r.Context(), t.ID)
	if err != nil {
		a.log.Error("comments by task", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/tasks/{id}/comments. Author and timestamp are server-assigned;
// the body only carries the content.
func (a *api) handleAddComment(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	t, ok := a.getTaskForMember(w, r, me.ID)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeFieldErrors(w, fieldErrors{"content": "this field is required"})
		return
	}
	c, err := a.store.AddComment(r.Context(), t.ID, me.ID, req.Content)
	if err != nil {
		a.log.Error("add comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	c.Author = me.Fullname()
	writeJSON(w, 201, c)
}

// DELETE /api/tasks/{id}/comments/{cid}: only the author may delete, the
// board owner included in the refusal. Membership is not checked here, so
// an author who has since left the board can still remove their comment.
func (a *api) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	me, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	tid, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	cid, err := parseID(r.PathValue("cid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	c, err := a.store.GetComment(r.Context(), tid, cid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("get comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	if !c.canDelete(me.ID) {
		writeError(w, 403, "only the author may delete this comment")
		return
	}
	if err := a.store.DeleteComment(r.Context(), c.ID); err != nil {
		a.log.Error("delete comment", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
