package gateway

import (
	"encoding/json"
	"log/slog"
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/announcement"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/feedback"
	"clubhouse/internal/domain/notification"
	"clubhouse/internal/domain/user"
)

const timeLayout = "2006-01-02T15:04:05Z07:00"

// This file is the single translation boundary between remote rows
// (snake_case, loosely typed) and domain models. Every mapping lists its
// fields exhaustively in both directions.

// UserFromRow maps a users row to a User.
func UserFromRow(r Row) user.User {
	return user.User{
		ID:        rowString(r, "id"),
		Name:      rowString(r, "name"),
		Role:      rowString(r, "role"),
		Password:  rowString(r, "password"),
		Positions: rowStringList(r, "positions"),
		PhotoURL:  rowString(r, "photo_url"),
	}
}

// UserToRow maps a User to a users row.
func UserToRow(u user.User) Row {
	return Row{
		"id":        u.ID,
		"name":      u.Name,
		"role":      u.Role,
		"password":  u.Password,
		"positions": stringListValue(u.Positions),
		"photo_url": u.PhotoURL,
	}
}

// ActivityFromRow maps an activities row to an Activity.
func ActivityFromRow(r Row) activity.Activity {
	return activity.Activity{
		ID:          rowString(r, "id"),
		UserID:      rowString(r, "user_id"),
		UserName:    rowString(r, "user_name"),
		Type:        rowString(r, "type"),
		Description: rowString(r, "description"),
		Date:        rowString(r, "date"),
		SubmittedAt: rowTime(r, "submitted_at"),
		Points:      rowInt(r, "points"),
		Status:      rowString(r, "status"),
	}
}

// ActivityToRow maps an Activity to an activities row.
func ActivityToRow(a activity.Activity) Row {
	return Row{
		"id":           a.ID,
		"user_id":      a.UserID,
		"user_name":    a.UserName,
		"type":         a.Type,
		"description":  a.Description,
		"date":         a.Date,
		"submitted_at": a.SubmittedAt.UTC().Format(timeLayout),
		"points":       a.Points,
		"status":       a.Status,
	}
}

// AnnouncementFromRow maps an announcements row to an Announcement.
func AnnouncementFromRow(r Row) announcement.Announcement {
	return announcement.Announcement{
		ID:         rowString(r, "id"),
		Text:       rowString(r, "text"),
		AuthorName: rowString(r, "author_name"),
		CreatedAt:  rowTime(r, "created_at"),
	}
}

// AnnouncementToRow maps an Announcement to an announcements row.
func AnnouncementToRow(a announcement.Announcement) Row {
	return Row{
		"id":          a.ID,
		"text":        a.Text,
		"author_name": a.AuthorName,
		"created_at":  a.CreatedAt.UTC().Format(timeLayout),
	}
}

// NotificationFromRow maps a notifications row to a Notification.
func NotificationFromRow(r Row) notification.Notification {
	return notification.Notification{
		ID:        rowString(r, "id"),
		UserID:    rowString(r, "user_id"),
		Text:      rowString(r, "text"),
		CreatedAt: rowTime(r, "created_at"),
		Read:      rowBool(r, "read"),
	}
}

// NotificationToRow maps a Notification to a notifications row.
func NotificationToRow(n notification.Notification) Row {
	return Row{
		"id":         n.ID,
		"user_id":    n.UserID,
		"text":       n.Text,
		"created_at": n.CreatedAt.UTC().Format(timeLayout),
		"read":       n.Read,
	}
}

// FeedbackFromRow maps a feedbacks row to a Feedback.
func FeedbackFromRow(r Row) feedback.Feedback {
	return feedback.Feedback{
		ID:        rowString(r, "id"),
		UserID:    rowString(r, "user_id"),
		UserName:  rowString(r, "user_name"),
		Subject:   rowString(r, "subject"),
		Message:   rowString(r, "message"),
		Reply:     rowString(r, "reply"),
		CreatedAt: rowTime(r, "created_at"),
	}
}

// FeedbackToRow maps a Feedback to a feedbacks row.
func FeedbackToRow(f feedback.Feedback) Row {
	return Row{
		"id":         f.ID,
		"user_id":    f.UserID,
		"user_name":  f.UserName,
		"subject":    f.Subject,
		"message":    f.Message,
		"reply":      f.Reply,
		"created_at": f.CreatedAt.UTC().Format(timeLayout),
	}
}

// EventFromRow maps a public_events row to a PublicEvent.
func EventFromRow(r Row) event.PublicEvent {
	return event.PublicEvent{
		ID:               rowString(r, "id"),
		Title:            rowString(r, "title"),
		Description:      rowString(r, "description"),
		ImageURL:         rowString(r, "image_url"),
		Date:             rowString(r, "date"),
		Venue:            rowString(r, "venue"),
		Category:         rowString(r, "category"),
		HostClub:         rowString(r, "host_club"),
		RegistrationOpen: rowBool(r, "registration_open"),
		IsUpcoming:       rowBool(r, "is_upcoming"),
	}
}

// EventToRow maps a PublicEvent to a public_events row.
func EventToRow(e event.PublicEvent) Row {
	return Row{
		"id":                e.ID,
		"title":             e.Title,
		"description":       e.Description,
		"image_url":         e.ImageURL,
		"date":              e.Date,
		"venue":             e.Venue,
		"category":          e.Category,
		"host_club":         e.HostClub,
		"registration_open": e.RegistrationOpen,
		"is_upcoming":       e.IsUpcoming,
	}
}

// RegistrationFromRow maps an event_registrations row to a Registration.
func RegistrationFromRow(r Row) event.Registration {
	return event.Registration{
		ID:         rowString(r, "id"),
		EventID:    rowString(r, "event_id"),
		EventTitle: rowString(r, "event_title"),
		EventDate:  rowString(r, "event_date"),
		Name:       rowString(r, "name"),
		Email:      rowString(r, "email"),
		Phone:      rowString(r, "phone"),
		CreatedAt:  rowTime(r, "created_at"),
	}
}

// RegistrationToRow maps a Registration to an event_registrations row.
func RegistrationToRow(reg event.Registration) Row {
	return Row{
		"id":          reg.ID,
		"event_id":    reg.EventID,
		"event_title": reg.EventTitle,
		"event_date":  reg.EventDate,
		"name":        reg.Name,
		"email":       reg.Email,
		"phone":       reg.Phone,
		"created_at":  reg.CreatedAt.UTC().Format(timeLayout),
	}
}

// SettingToRow maps one logical setting to an app_settings row. The row id
// is the well-known key string itself.
func SettingToRow(key, value string) Row {
	return Row{"id": key, "value": value}
}

// SettingsFromRows maps app_settings rows to a key -> value lookup.
func SettingsFromRows(rows []Row) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[rowString(r, "id")] = rowString(r, "value")
	}
	return out
}

// --- loose-typing helpers ---
// REST responses decode numbers as float64 and lists as []any; SQLite
// returns int64 and JSON-encoded strings. The helpers absorb both.

func rowString(r Row, key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func rowInt(r Row, key string) int {
	switch v := r[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func rowBool(r Row, key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	}
	return false
}

func rowTime(r Row, key string) time.Time {
	raw := rowString(r, key)
	if raw == "" {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, raw)
	if err != nil {
		slog.Warn("gateway: failed to parse time", "key", key, "raw", raw, "error", err)
		return time.Time{}
	}
	return t
}

func rowStringList(r Row, key string) []string {
	switch v := r[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		var out []string
		if err := json.Unmarshal([]byte(v), &out); err != nil {
			slog.Warn("gateway: failed to parse string list", "key", key, "raw", v, "error", err)
			return nil
		}
		return out
	}
	return nil
}

// stringListValue encodes a list for storage. JSON text keeps the value
// portable across the REST and SQLite implementations.
func stringListValue(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}
