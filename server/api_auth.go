package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 8

// usernameBase derives the username seed from the email's local part.
func usernameBase(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(local)
	if local == "" {
		return "user"
	}
	return local
}

// deriveUsername appends a counter suffix to base until taken reports free.
func deriveUsername(base string, taken func(string) (bool, error)) (string, error) {
	name := base
	for i := 1; ; i++ {
		inUse, err := taken(name)
		if err != nil {
			return "", err
		}
		if !inUse {
			return name, nil
		}
		name = fmt.Sprintf("%s%d", base, i)
	}
}

// splitFullname splits on the first space: everything before is the first
// name, the rest the last name.
func splitFullname(fullname string) (first, last string) {
	fullname = strings.TrimSpace(fullname)
	if fullname == "" {
		return "", ""
	}
	first, last, _ = strings.Cut(fullname, " ")
	return first, last
}

func authPayload(u User, token string) map[string]any {
	return map[string]any{
		"token":    token,
		"fullname": u.Fullname(),
		"email":    u.Email,
		"user_id":  u.ID,
	}
}

// POST /api/registration
func (a *api) handleRegistration(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Fullname         string `json:"fullname"`
		Email            string `json:"email"`
		Password         string `json:"password"`
		RepeatedPassword string `json:"repeated_password"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	email := strings.TrimSpace(req.Email)
	errs := fieldErrors{}
	if email == "" || !strings.Contains(email, "@") {
		errs["email"] = "a valid email address is required"
	}
	if req.Password != req.RepeatedPassword {
		errs["password"] = "passwords do not match"
	} else if len(req.Password) < minPasswordLen {
		errs["password"] = fmt.Sprintf("password must be at least %d characters", minPasswordLen)
	}
	if len(errs) > 0 {
		writeFieldErrors(w, errs)
		return
	}
	if exists, err := a.store.EmailExists(r.Context(), email); err != nil {
		a.log.Error("email exists", "err", err)
		writeError(w, 500, "internal error")
		return
	} else if exists {
		writeFieldErrors(w, fieldErrors{"email": "a user with this email already exists"})
		return
	}
	username, err := deriveUsername(usernameBase(email), func(name string) (bool, error) {
		return a.store.UsernameExists(r.Context(), name)
	})
	if err != nil {
		a.log.Error("derive username", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	first, last := splitFullname(req.Fullname)
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		a.log.Error("bcrypt", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	u, err := a.store.CreateUser(r.Context(), username, email, string(hashBytes), first, last)
	if err != nil {
		// a concurrent registration may win the unique email index
		if isUniqueViolation(err) {
			writeFieldErrors(w, fieldErrors{"email": "a user with this email already exists"})
			return
		}
		a.log.Error("create user", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	token, err := a.store.GetOrCreateToken(r.Context(), u.ID)
	if err != nil {
		a.log.Error("create token", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, authPayload(u, token))
}

// POST /api/login
func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(w, r, &req); err != nil || req.Email == "" || req.Password == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	u, hash, err := a.store.userCredsByEmail(r.Context(), req.Email)
	if err != nil || bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		writeError(w, 400, "invalid email or password")
		return
	}
	token, err := a.store.GetOrCreateToken(r.Context(), u.ID)
	if err != nil {
		a.log.Error("create token", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, authPayload(u, token))
}

// GET /api/email-check?email=...
func (a *api) handleEmailCheck(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeFieldErrors(w, fieldErrors{"email": "this query parameter is required"})
		return
	}
	u, err := a.store.UserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "email not found")
			return
		}
		a.log.Error("email check", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, u.Summary())
}
