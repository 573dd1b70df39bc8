package notification

import "time"

// Notification is addressed to a single user. No exposed operation toggles
// Read; it stays false for the lifetime of the record.
type Notification struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time
	Read      bool
}
