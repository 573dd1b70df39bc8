package gateway

import "context"

// Table names in the remote store.
const (
	TableUsers         = "users"
	TableActivities    = "activities"
	TableAnnouncements = "announcements"
	TableNotifications = "notifications"
	TableFeedbacks     = "feedbacks"
	TableEvents        = "public_events"
	TableRegistrations = "event_registrations"
	TableSettings      = "app_settings"
)

// Row is one record as the remote store sees it: snake_case keys, loosely
// typed values. Translation to domain shapes happens only in the codec.
type Row map[string]any

// Client is the row-level contract against the remote relational store.
// Implementations must treat tables as opaque names; they do not know
// entity shapes.
type Client interface {
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
	// SelectAll returns every row of a table.
	SelectAll(ctx context.Context, table string) ([]Row, error)
	// Insert appends rows to a table.
	Insert(ctx context.Context, table string, rows []Row) error
	// Update applies a partial row to the record whose id column matches.
	Update(ctx context.Context, table string, patch Row, id string) error
	// Delete removes the record whose id column matches.
	Delete(ctx context.Context, table string, id string) error
}
