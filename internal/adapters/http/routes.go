package web

import (
	"net/http"

	"clubhouse/internal/adapters/http/middleware"
)

// registerRoutes attaches every API route. Public routes serve the
// unauthenticated pages; everything else goes through RequireAuth or
// RequireAdmin.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAuth(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	// Session
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/logout", s.handleLogout)
	mux.Handle("GET /api/me", authed(s.handleMe))
	mux.HandleFunc("GET /api/status", s.handleStatus)

	// Activities and points
	mux.Handle("GET /api/activities", authed(s.handleListActivities))
	mux.Handle("POST /api/activities", authed(s.handleSubmitActivity))
	mux.Handle("POST /api/activities/decide", admin(s.handleDecideActivity))
	mux.Handle("GET /api/activities/congratulation", authed(s.handleCongratulation))
	mux.Handle("GET /api/leaderboard", authed(s.handleLeaderboard))

	// Roster and profile
	mux.Handle("GET /api/users", admin(s.handleListUsers))
	mux.Handle("POST /api/users", admin(s.handleAddUser))
	mux.Handle("DELETE /api/users/{id}", admin(s.handleDeleteUser))
	mux.Handle("POST /api/users/position", admin(s.handleToggleUserPosition))
	mux.Handle("POST /api/profile", authed(s.handleUpdateProfile))

	// Announcements, notifications, feedback
	mux.HandleFunc("GET /api/announcements", s.handleListAnnouncements)
	mux.Handle("POST /api/announcements", admin(s.handleAddAnnouncement))
	mux.Handle("GET /api/notifications", authed(s.handleListNotifications))
	mux.Handle("GET /api/feedback", authed(s.handleListFeedback))
	mux.Handle("POST /api/feedback", authed(s.handleSubmitFeedback))
	mux.Handle("POST /api/feedback/reply", admin(s.handleReplyFeedback))

	// Public events
	mux.HandleFunc("GET /api/events", s.handleListEvents)
	mux.Handle("POST /api/events", admin(s.handleAddEvent))
	mux.Handle("PUT /api/events", admin(s.handleUpdateEvent))
	mux.Handle("DELETE /api/events/{id}", admin(s.handleDeleteEvent))
	mux.HandleFunc("POST /api/events/register", s.handleRegisterForEvent)
	mux.Handle("GET /api/events/registrations", admin(s.handleListRegistrations))

	// Branding and content pages
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.Handle("PUT /api/settings", admin(s.handleUpdateSettings))
	mux.HandleFunc("GET /api/about", s.handleGetAbout)
	mux.Handle("PUT /api/about", admin(s.handleUpdateAbout))

	// Uploads and diagnostics
	mux.Handle("POST /api/upload", authed(s.handleUpload))
	mux.Handle("GET /api/perf", admin(s.handlePerf))
}
