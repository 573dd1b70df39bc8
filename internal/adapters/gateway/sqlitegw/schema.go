package sqlitegw

import (
	"database/sql"
	"fmt"

	"clubhouse/internal/adapters/gateway"
)

// tableColumns lists every column per table, in insert order. The first
// column is always id, which Update and Delete match on.
var tableColumns = map[string][]string{
	gateway.TableUsers:         {"id", "name", "role", "password", "positions", "photo_url"},
	gateway.TableActivities:    {"id", "user_id", "user_name", "type", "description", "date", "submitted_at", "points", "status"},
	gateway.TableAnnouncements: {"id", "text", "author_name", "created_at"},
	gateway.TableNotifications: {"id", "user_id", "text", "created_at", "read"},
	gateway.TableFeedbacks:     {"id", "user_id", "user_name", "subject", "message", "reply", "created_at"},
	gateway.TableEvents:        {"id", "title", "description", "image_url", "date", "venue", "category", "host_club", "registration_open", "is_upcoming"},
	gateway.TableRegistrations: {"id", "event_id", "event_title", "event_date", "name", "email", "phone", "created_at"},
	gateway.TableSettings:      {"id", "value"},
}

// InitDB creates the schema. Rows are stored in the same snake_case shape
// the remote store uses, so both gateway implementations are
// interchangeable behind the codec boundary.
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		password TEXT NOT NULL,
		positions TEXT NOT NULL DEFAULT '[]',
		photo_url TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		submitted_at TEXT NOT NULL DEFAULT '',
		points INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS announcements (
		id TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		author_name TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT '',
		read INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS feedbacks (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL DEFAULT '',
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		reply TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS public_events (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL DEFAULT '',
		venue TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		host_club TEXT NOT NULL DEFAULT '',
		registration_open INTEGER NOT NULL DEFAULT 0,
		is_upcoming INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS event_registrations (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		event_title TEXT NOT NULL DEFAULT '',
		event_date TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS app_settings (
		id TEXT PRIMARY KEY,
		value TEXT NOT NULL DEFAULT ''
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
