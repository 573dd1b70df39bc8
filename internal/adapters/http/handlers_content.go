package web

import (
	"net/http"
	"time"

	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/domain/announcement"
	"clubhouse/internal/domain/feedback"
	"clubhouse/internal/domain/notification"
	"clubhouse/internal/domain/settings"
)

type announcementDTO struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	TextHTML   string `json:"text_html"`
	AuthorName string `json:"author_name"`
	CreatedAt  string `json:"created_at"`
}

func toAnnouncementDTO(a announcement.Announcement) announcementDTO {
	return announcementDTO{
		ID:         a.ID,
		Text:       a.Text,
		TextHTML:   renderMarkdown(a.Text),
		AuthorName: a.AuthorName,
		CreatedAt:  a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListAnnouncements is public; announcements double as the news feed
// on the landing page.
func (s *Server) handleListAnnouncements(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	out := make([]announcementDTO, len(snap.Announcements))
	for i, a := range snap.Announcements {
		out[i] = toAnnouncementDTO(a)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Text string `json:"text"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	a, err := s.store.AddAnnouncement(r.Context(), actor, req.Text)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAnnouncementDTO(a))
}

type notificationDTO struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	Read      bool   `json:"read"`
}

func toNotificationDTO(n notification.Notification) notificationDTO {
	return notificationDTO{
		ID:        n.ID,
		Text:      n.Text,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		Read:      n.Read,
	}
}

// handleListNotifications returns the caller's own notifications only.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	snap := s.store.Snapshot()

	out := make([]notificationDTO, 0)
	for _, n := range snap.Notifications {
		if n.UserID == u.ID {
			out = append(out, toNotificationDTO(n))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type feedbackDTO struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
	Reply     string `json:"reply,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toFeedbackDTO(f feedback.Feedback) feedbackDTO {
	return feedbackDTO{
		ID:        f.ID,
		UserID:    f.UserID,
		UserName:  f.UserName,
		Subject:   f.Subject,
		Message:   f.Message,
		Reply:     f.Reply,
		CreatedAt: f.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListFeedback shows the admin everything and members their own
// threads.
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	snap := s.store.Snapshot()

	out := make([]feedbackDTO, 0, len(snap.Feedbacks))
	for _, f := range snap.Feedbacks {
		if !u.IsAdmin() && f.UserID != u.ID {
			continue
		}
		out = append(out, toFeedbackDTO(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())

	var req struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	f, err := s.store.SubmitFeedback(r.Context(), u, req.Subject, req.Message)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFeedbackDTO(f))
}

func (s *Server) handleReplyFeedback(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req struct {
		ID    string `json:"id"`
		Reply string `json:"reply"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	f, err := s.store.ReplyFeedback(r.Context(), actor, req.ID, req.Reply)
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedbackDTO(f))
}

type settingsDTO struct {
	LogoURL     string `json:"logo_url"`
	AppName     string `json:"app_name"`
	AppSubtitle string `json:"app_subtitle"`
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, settingsDTO{
		LogoURL:     snap.Settings.LogoURL,
		AppName:     snap.Settings.AppName,
		AppSubtitle: snap.Settings.AppSubtitle,
	})
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req settingsDTO
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := s.store.UpdateSettings(r.Context(), actor, settings.AppSettings{
		LogoURL:     req.LogoURL,
		AppName:     req.AppName,
		AppSubtitle: req.AppSubtitle,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type aboutDTO struct {
	Intro   string `json:"intro"`
	Vision  string `json:"vision"`
	Mission string `json:"mission"`
	Values  string `json:"values"`
}

type aboutResponse struct {
	aboutDTO
	IntroHTML   string `json:"intro_html"`
	VisionHTML  string `json:"vision_html"`
	MissionHTML string `json:"mission_html"`
	ValuesHTML  string `json:"values_html"`
}

// handleGetAbout returns the raw markdown (for the admin editor) alongside
// rendered HTML (for the public page).
func (s *Server) handleGetAbout(w http.ResponseWriter, r *http.Request) {
	about := s.store.Snapshot().About
	writeJSON(w, http.StatusOK, aboutResponse{
		aboutDTO: aboutDTO{
			Intro:   about.Intro,
			Vision:  about.Vision,
			Mission: about.Mission,
			Values:  about.Values,
		},
		IntroHTML:   renderMarkdown(about.Intro),
		VisionHTML:  renderMarkdown(about.Vision),
		MissionHTML: renderMarkdown(about.Mission),
		ValuesHTML:  renderMarkdown(about.Values),
	})
}

func (s *Server) handleUpdateAbout(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req aboutDTO
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	err := s.store.UpdateAbout(r.Context(), actor, settings.AboutContent{
		Intro:   req.Intro,
		Vision:  req.Vision,
		Mission: req.Mission,
		Values:  req.Values,
	})
	if err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePerf exposes the timing collector snapshot for the admin.
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request) {
	if s.perf == nil {
		http.Error(w, "perf collection disabled", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.perf.Snapshot(time.Now().Add(-time.Hour), 10))
}
