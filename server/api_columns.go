package main

import (
	"errors"
	"net/http"
	"strings"
)

func (a *api) handleListColumns(w http.ResponseWriter, r *http.Request) {
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.ColumnsForUser(r.Context(), u.ID)
	if err != nil {
		a.log.Error("list columns", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// getColumnForMember loads the column and enforces board membership. Writes
// the error response itself and returns ok=false when the caller is done.
func (a *api) getColumnForMember(w http.ResponseWriter, r *http.Request, userID int64) (Column, bool) {
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return Column{}, false
	}
	c, err := a.store.GetColumn(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return Column{}, false
		}
		a.log.Error("get column", "err", err)
		writeError(w, 500, "internal error")
		return Column{}, false
	}
	ok, e := a.store.CanAccessBoard(r.Context(), userID, c.BoardID)
	if e != nil {
		a.log.Error("access check", "err", e)
	}
	if !ok {
		writeError(w, 403, "forbidden")
		return Column{}, false
	}
	return c, true
}

func (a *api) handleGetColumn(w http.ResponseWriter, r *http.Request) {
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	c, ok := a.getColumnForMember(w, r, u.ID)
	if !ok {
		return
	}
	writeJSON(w, 200, c)
}

// PATCH /api/columns/{id} renames or repositions a column. The status of a
// column is fixed for the life of the board.
func (a *api) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	u, errU := a.currentUser(r)
	if errU != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	c, ok := a.getColumnForMember(w, r, u.ID)
	if !ok {
		return
	}
	var req struct {
		Name     *string `json:"name"`
		Position *int64  `json:"position"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		writeFieldErrors(w, fieldErrors{"name": "name cannot be empty"})
		return
	}
	if err := a.store.UpdateColumn(r.Context(), c.ID, req.Name, req.Position); err != nil {
		a.log.Error("update column", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	c, err := a.store.GetColumn(r.Context(), c.ID)
	if err != nil {
		a.log.Error("get column", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, c)
}
