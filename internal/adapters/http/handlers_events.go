package web

import (
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/domain/event"
)

type eventDTO struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	DescriptionHTML  string `json:"description_html,omitempty"`
	ImageURL         string `json:"image_url,omitempty"`
	Date             string `json:"date"`
	Venue            string `json:"venue"`
	Category         string `json:"category"`
	HostClub         string `json:"host_club"`
	RegistrationOpen bool   `json:"registration_open"`
	IsUpcoming       bool   `json:"is_upcoming"`
}

func toEventDTO(e event.PublicEvent) eventDTO {
	return eventDTO{
		ID:               e.ID,
		Title:            e.Title,
		Description:      e.Description,
		DescriptionHTML:  renderMarkdown(e.Description),
		ImageURL:         e.ImageURL,
		Date:             e.Date,
		Venue:            e.Venue,
		Category:         e.Category,
		HostClub:         e.HostClub,
		RegistrationOpen: e.RegistrationOpen,
		IsUpcoming:       e.IsUpcoming,
	}
}

func (dto eventDTO) toDomain() event.PublicEvent {
	return event.PublicEvent{
		ID:               dto.ID,
		Title:            dto.Title,
		Description:      dto.Description,
		ImageURL:         dto.ImageURL,
		Date:             dto.Date,
		Venue:            dto.Venue,
		Category:         dto.Category,
		HostClub:         dto.HostClub,
		RegistrationOpen: dto.RegistrationOpen,
		IsUpcoming:       dto.IsUpcoming,
	}
}

// handleListEvents is public.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	out := make([]eventDTO, len(snap.Events))
	for i, e := range snap.Events {
		out[i] = toEventDTO(e)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req eventDTO
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	added, err := s.store.AddEvent(r.Context(), actor, req.toDomain())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEventDTO(added))
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req eventDTO
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := s.store.UpdateEvent(r.Context(), actor, req.toDomain())
	if err != nil {
		storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTO(updated))
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	if err := s.store.DeleteEvent(r.Context(), actor, r.PathValue("id")); err != nil {
		storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type registrationDTO struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	EventDate  string `json:"event_date"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func toRegistrationDTO(reg event.Registration) registrationDTO {
	return registrationDTO{
		ID:         reg.ID,
		EventID:    reg.EventID,
		EventTitle: reg.EventTitle,
		EventDate:  reg.EventDate,
		Name:       reg.Name,
		Email:      reg.Email,
		Phone:      reg.Phone,
		CreatedAt:  reg.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleRegisterForEvent is public: visitors sign up without an account.
// A confirmation email goes out when a sender is configured; a send
// failure never fails the registration.
func (s *Server) handleRegisterForEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EventID string `json:"event_id"`
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
	}
	if err := strictDecode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reg, err := s.store.RegisterForEvent(r.Context(), req.EventID, req.Name, req.Email, req.Phone)
	if err != nil {
		storeError(w, err)
		return
	}

	if s.email != nil {
		_, sendErr := s.email.Send(r.Context(), email.SendRequest{
			To:      []string{reg.Email},
			From:    s.emailFrom,
			ReplyTo: s.emailReplyTo,
			Subject: fmt.Sprintf("You're registered: %s", reg.EventTitle),
			HTML: fmt.Sprintf(
				"<p>Hi %s,</p><p>Your registration for <strong>%s</strong> on %s is confirmed. See you there!</p>",
				html.EscapeString(reg.Name), html.EscapeString(reg.EventTitle), html.EscapeString(reg.EventDate)),
		})
		if sendErr != nil {
			slog.Error("registration_email_failed", "registration_id", reg.ID, "error", sendErr)
		}
	}

	writeJSON(w, http.StatusCreated, toRegistrationDTO(reg))
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	out := make([]registrationDTO, len(snap.Registrations))
	for i, reg := range snap.Registrations {
		out[i] = toRegistrationDTO(reg)
	}
	writeJSON(w, http.StatusOK, out)
}
