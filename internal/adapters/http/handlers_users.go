package web

import (
	"net/http"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/application/syncstore"
	"clubhouse/internal/domain/user"
)

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	out := make([]userDTO, len(snap.Users))
	for i, u := range snap.Users {
		out[i] = toUserDTO(u)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := s.store.AddUser(r.Context(), actor, user.User{
		Name:     req.Name,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserDTO(added))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())
	id := r.PathValue("id")

	if id == actor.ID {
		http.Error(w, "cannot delete your own account", http.StatusConflict)
		return
	}
	if err := s.store.DeleteUser(r.Context(), actor, id); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleToggleUserPosition(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req struct {
		UserID   string `json:"user_id"`
		Position string `json:"position"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := s.store.ToggleUserPosition(r.Context(), actor, req.UserID, req.Position)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(updated))
}

// handleUpdateProfile updates the caller's own profile, or any profile
// when the caller is the admin. Field-level rules live in the store.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req struct {
		UserID    string    `json:"user_id,omitempty"`
		Name      *string   `json:"name,omitempty"`
		Password  *string   `json:"password,omitempty"`
		PhotoURL  *string   `json:"photo_url,omitempty"`
		Positions *[]string `json:"positions,omitempty"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	targetID := req.UserID
	if targetID == "" {
		targetID = actor.ID
	}

	updated, err := s.store.UpdateProfile(r.Context(), actor, targetID, syncstore.ProfilePatch{
		Name:      req.Name,
		Password:  req.Password,
		PhotoURL:  req.PhotoURL,
		Positions: req.Positions,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserDTO(updated))
}
