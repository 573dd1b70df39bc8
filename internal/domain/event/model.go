package event

import (
	"errors"
	"strings"
	"time"
)

// ErrRegistrationClosed is returned when registering for an event whose
// registration flag is off.
var ErrRegistrationClosed = errors.New("registration is closed for this event")

// PublicEvent is shown on the public pages. IsUpcoming is set manually by
// the admin, not derived from the date.
type PublicEvent struct {
	ID               string
	Title            string
	Description      string
	ImageURL         string
	Date             string
	Venue            string
	Category         string
	HostClub         string
	RegistrationOpen bool
	IsUpcoming       bool
}

// Validate checks if the PublicEvent has valid data.
func (e *PublicEvent) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return errors.New("event title cannot be empty")
	}
	if strings.TrimSpace(e.Date) == "" {
		return errors.New("event date cannot be empty")
	}
	return nil
}

// Registration is an append-only sign-up for a PublicEvent. Event title
// and date are captured redundantly at registration time.
type Registration struct {
	ID         string
	EventID    string
	EventTitle string
	EventDate  string
	Name       string
	Email      string
	Phone      string
	CreatedAt  time.Time
}

// Validate checks if the Registration has valid data.
func (r *Registration) Validate() error {
	if strings.TrimSpace(r.EventID) == "" {
		return errors.New("registration event id cannot be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("registrant name cannot be empty")
	}
	if !strings.Contains(r.Email, "@") {
		return errors.New("registrant email must be valid")
	}
	return nil
}
