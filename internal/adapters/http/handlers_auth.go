package web

import (
	"errors"
	"net/http"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/syncstore"
	"clubhouse/internal/domain/user"
)

// userDTO is the wire shape of a roster entry. The password never leaves
// the server.
type userDTO struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Role      string   `json:"role"`
	Positions []string `json:"positions"`
	PhotoURL  string   `json:"photo_url,omitempty"`
}

func toUserDTO(u user.User) userDTO {
	positions := u.Positions
	if positions == nil {
		positions = []string{}
	}
	return userDTO{
		ID:        u.ID,
		Name:      u.Name,
		Role:      u.Role,
		Positions: positions,
		PhotoURL:  u.PhotoURL,
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID   string `json:"user_id"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	u, ok := s.store.Login(req.UserID, req.Password)
	if !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	middleware.SetSessionCookie(w, u.ID)
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(u))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": string(s.store.Status()),
	})
}

// storeError maps store errors to response codes. Anything that is not a
// known sentinel is treated as a validation failure.
func storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, syncstore.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, syncstore.ErrNotAllowed):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, syncstore.ErrImageTooLarge),
		errors.Is(err, syncstore.ErrImageType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, syncstore.ErrNoBlobStore):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}
