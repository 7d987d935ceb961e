package main

import (
	"net/http"
	"time"
)

func (a *api) routes(mux *http.ServeMux) {
	// Auth endpoints
	mux.HandleFunc("POST /api/registration", a.withRateLimit("auth", 20, time.Minute, a.handleRegistration))
	mux.HandleFunc("POST /api/login", a.withRateLimit("auth", 30, time.Minute, a.handleLogin))
	mux.HandleFunc("GET /api/email-check", a.requireAuth(a.handleEmailCheck))

	mux.HandleFunc("GET /api/health", a.handleHealth)

	mux.HandleFunc("GET /api/boards", a.requireAuth(a.handleListBoards))
	mux.HandleFunc("POST /api/boards", a.requireAuth(a.handleCreateBoard))
	mux.HandleFunc("GET /api/boards/{id}", a.requireAuth(a.handleGetBoard))
	mux.HandleFunc("PATCH /api/boards/{id}", a.requireAuth(a.handleUpdateBoard))
	mux.HandleFunc("DELETE /api/boards/{id}", a.requireAuth(a.handleDeleteBoard))

	mux.HandleFunc("GET /api/columns", a.requireAuth(a.handleListColumns))
	mux.HandleFunc("GET /api/columns/{id}", a.requireAuth(a.handleGetColumn))
	mux.HandleFunc("PATCH /api/columns/{id}", a.requireAuth(a.handleUpdateColumn))

	mux.HandleFunc("GET /api/tasks", a.requireAuth(a.handleListTasks))
	mux.HandleFunc("POST /api/tasks", a.requireAuth(a.handleCreateTask))
	mux.HandleFunc("GET /api/tasks/assigned-to-me", a.requireAuth(a.handleAssignedToMe))
	mux.HandleFunc("GET /api/tasks/reviewing", a.requireAuth(a.handleReviewing))
	mux.HandleFunc("GET /api/tasks/{id}", a.requireAuth(a.handleGetTask))
	mux.HandleFunc("PATCH /api/tasks/{id}", a.requireAuth(a.handleUpdateTask(true)))
	mux.HandleFunc("PUT /api/tasks/{id}", a.requireAuth(a.handleUpdateTask(false)))
	mux.HandleFunc("DELETE /api/tasks/{id}", a.requireAuth(a.handleDeleteTask))

	mux.HandleFunc("GET /api/tasks/{id}/comments", a.requireAuth(a.handleListComments))
	mux.HandleFunc("POST /api/tasks/{id}/comments", a.requireAuth(a.handleAddComment))
	mux.HandleFunc("DELETE /api/tasks/{id}/comments/{cid}", a.requireAuth(a.handleDeleteComment))

	mux.HandleFunc("GET /api/dashboard/stats", a.requireAuth(a.handleDashboardStats))
}
