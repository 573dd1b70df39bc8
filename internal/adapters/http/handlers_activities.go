package web

import (
	"context"
	"net/http"
	"time"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/textgen"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/activity"
)

type activityDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	UserName    string `json:"user_name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
	SubmittedAt string `json:"submitted_at"`
	Points      int    `json:"points"`
	Status      string `json:"status"`
}

func toActivityDTO(a activity.Activity) activityDTO {
	return activityDTO{
		ID:          a.ID,
		UserID:      a.UserID,
		UserName:    a.UserName,
		Type:        a.Type,
		Description: a.Description,
		Date:        a.Date,
		SubmittedAt: a.SubmittedAt.UTC().Format(time.RFC3339),
		Points:      a.Points,
		Status:      a.Status,
	}
}

// handleListActivities returns the full log for the admin and the caller's
// own submissions for members. The admin may narrow to one member with
// ?user_id=.
func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	snap := s.store.Snapshot()

	filter := ""
	if u.IsAdmin() {
		filter = r.URL.Query().Get("user_id")
	} else {
		filter = u.ID
	}

	out := make([]activityDTO, 0, len(snap.Activities))
	for _, a := range snap.Activities {
		if filter != "" && a.UserID != filter {
			continue
		}
		out = append(out, toActivityDTO(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmitActivity(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Type        string `json:"type"`
		Description string `json:"description"`
		Date        string `json:"date"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.store.SubmitActivity(r.Context(), u, req.Type, req.Description, req.Date)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toActivityDTO(a))
}

func (s *Server) handleDecideActivity(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req struct {
		ID      string `json:"id"`
		Approve bool   `json:"approve"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.store.DecideActivity(r.Context(), u, req.ID, req.Approve)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityDTO(a))
}

// handleCongratulation generates a short celebratory message for an
// approved activity. Generation failures degrade to a fixed message; the
// endpoint never errors because of the text provider.
func (s *Server) handleCongratulation(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	id := r.URL.Query().Get("id")

	snap := s.store.Snapshot()
	var target *activity.Activity
	for i := range snap.Activities {
		if snap.Activities[i].ID == id {
			target = &snap.Activities[i]
			break
		}
	}
	if target == nil || (!u.IsAdmin() && target.UserID != u.ID) {
		http.Error(w, "no such activity", http.StatusNotFound)
		return
	}
	if !target.IsApproved() {
		http.Error(w, "activity is not approved", http.StatusConflict)
		return
	}

	message := textgen.FallbackMessage
	if s.textGen != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()
		generated, err := s.textGen.Congratulate(ctx, textgen.Request{
			ActivityType: target.Type,
			Description:  target.Description,
			AuthorName:   target.UserName,
		})
		if err == nil && generated != "" {
			message = generated
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

type leaderboardEntryDTO struct {
	UserID      string        `json:"user_id"`
	Name        string        `json:"name"`
	TotalPoints int           `json:"total_points"`
	Activities  []activityDTO `json:"activities"`
}

// handleLeaderboard returns members ranked by approved points.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	stats := projections.MemberStats(snap.Users, snap.Activities)

	out := make([]leaderboardEntryDTO, len(stats))
	for i, st := range stats {
		acts := make([]activityDTO, len(st.Activities))
		for j, a := range st.Activities {
			acts[j] = toActivityDTO(a)
		}
		out[i] = leaderboardEntryDTO{
			UserID:      st.UserID,
			Name:        st.Name,
			TotalPoints: st.TotalPoints,
			Activities:  acts,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
