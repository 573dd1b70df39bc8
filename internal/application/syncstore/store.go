package syncstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"clubhouse/internal/adapters/blob"
	"clubhouse/internal/adapters/gateway"
	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/announcement"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/feedback"
	"clubhouse/internal/domain/notification"
	"clubhouse/internal/domain/settings"
	"clubhouse/internal/domain/user"
)

// Status reports how the store came up.
type Status string

const (
	// StatusLocal means the gateway was unreachable or unconfigured and
	// the store is running on the fixed seed dataset.
	StatusLocal Status = "local"
	// StatusConnected means the remote store was loaded (or seeded).
	StatusConnected Status = "connected"
	// StatusError means loading failed partway through.
	StatusError Status = "error"
)

// Store errors surfaced synchronously to callers. Remote write failures are
// never among them; those are logged and absorbed.
var (
	ErrNotFound      = errors.New("no such entity")
	ErrNotAllowed    = errors.New("not allowed")
	ErrNoBlobStore   = errors.New("no blob storage configured")
	ErrImageTooLarge = errors.New("image exceeds the 1 MiB size limit")
	ErrImageType     = errors.New("image type not allowed for this folder")
)

// Store is the single source of truth for all entities during a session.
// It loads everything once at startup, serves read-only snapshots, and
// applies every mutation to local state immediately while persisting to
// the gateway without blocking callers. Local and remote may diverge after
// a failed write.
type Store struct {
	gw   gateway.Client // nil when unconfigured
	blob blob.Store
	now  func() time.Time

	mu sync.RWMutex
	wg sync.WaitGroup

	loaded bool
	status Status

	users         []user.User
	activities    []activity.Activity
	announcements []announcement.Announcement
	notifications []notification.Notification
	feedbacks     []feedback.Feedback
	events        []event.PublicEvent
	registrations []event.Registration
	settings      settings.AppSettings
	about         settings.AboutContent

	// settingsKeys remembers which keys already exist remotely so writes
	// can choose insert vs update.
	settingsKeys map[string]bool
}

// Option configures a Store.
type Option func(*Store)

// WithNow injects the clock (tests).
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithBlobStore attaches the image upload backend.
func WithBlobStore(b blob.Store) Option {
	return func(s *Store) { s.blob = b }
}

// New creates a Store over the given gateway. A nil gateway means the
// store runs purely on seed data.
func New(gw gateway.Client, opts ...Option) *Store {
	s := &Store{
		gw:           gw,
		now:          time.Now,
		settingsKeys: make(map[string]bool),
		settings:     settings.DefaultAppSettings(),
		about:        settings.DefaultAboutContent(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load runs the one-time initialization protocol and returns the resulting
// status. Calling it again returns the status of the first attempt; there
// is no refresh after startup.
func (s *Store) Load(ctx context.Context) Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.status
	}
	s.loaded = true

	if s.gw == nil {
		slog.Info("syncstore_load", "mode", "seed", "reason", "no gateway configured")
		s.seedLocked()
		s.status = StatusLocal
		return s.status
	}
	if err := s.gw.Ping(ctx); err != nil {
		slog.Warn("syncstore_load", "mode", "seed", "reason", "gateway unreachable", "error", err)
		s.seedLocked()
		s.status = StatusLocal
		return s.status
	}

	if err := s.loadRemoteLocked(ctx); err != nil {
		slog.Error("syncstore_load_failed", "error", err)
		s.status = StatusError
		return s.status
	}

	s.status = StatusConnected
	slog.Info("syncstore_load", "mode", "remote",
		"users", len(s.users), "activities", len(s.activities))
	return s.status
}

func (s *Store) seedLocked() {
	s.users = SeedUsers()
	s.activities = SeedActivities()
}

func (s *Store) loadRemoteLocked(ctx context.Context) error {
	userRows, err := s.gw.SelectAll(ctx, gateway.TableUsers)
	if err != nil {
		return err
	}
	if len(userRows) == 0 {
		// First run against an empty remote: write the default roster
		// and proceed with it.
		defaults := SeedUsers()
		rows := make([]gateway.Row, len(defaults))
		for i, u := range defaults {
			rows[i] = gateway.UserToRow(u)
		}
		if err := s.gw.Insert(ctx, gateway.TableUsers, rows); err != nil {
			return err
		}
		s.users = defaults
	} else {
		s.users = make([]user.User, len(userRows))
		for i, r := range userRows {
			s.users[i] = gateway.UserFromRow(r)
		}
	}

	activityRows, err := s.gw.SelectAll(ctx, gateway.TableActivities)
	if err != nil {
		return err
	}
	for _, r := range activityRows {
		s.activities = append(s.activities, gateway.ActivityFromRow(r))
	}

	annRows, err := s.gw.SelectAll(ctx, gateway.TableAnnouncements)
	if err != nil {
		return err
	}
	for _, r := range annRows {
		s.announcements = append(s.announcements, gateway.AnnouncementFromRow(r))
	}

	notifRows, err := s.gw.SelectAll(ctx, gateway.TableNotifications)
	if err != nil {
		return err
	}
	for _, r := range notifRows {
		s.notifications = append(s.notifications, gateway.NotificationFromRow(r))
	}

	fbRows, err := s.gw.SelectAll(ctx, gateway.TableFeedbacks)
	if err != nil {
		return err
	}
	for _, r := range fbRows {
		s.feedbacks = append(s.feedbacks, gateway.FeedbackFromRow(r))
	}

	eventRows, err := s.gw.SelectAll(ctx, gateway.TableEvents)
	if err != nil {
		return err
	}
	for _, r := range eventRows {
		s.events = append(s.events, gateway.EventFromRow(r))
	}

	regRows, err := s.gw.SelectAll(ctx, gateway.TableRegistrations)
	if err != nil {
		return err
	}
	for _, r := range regRows {
		s.registrations = append(s.registrations, gateway.RegistrationFromRow(r))
	}

	settingRows, err := s.gw.SelectAll(ctx, gateway.TableSettings)
	if err != nil {
		return err
	}
	s.applySettingsLocked(gateway.SettingsFromRows(settingRows))
	return nil
}

// applySettingsLocked folds the remote key/value rows into the settings
// singletons. A malformed about-content blob is logged and the previous
// value kept.
func (s *Store) applySettingsLocked(values map[string]string) {
	for key := range values {
		s.settingsKeys[key] = true
	}
	if v, ok := values[settings.KeyLogoURL]; ok {
		s.settings.LogoURL = v
	}
	if v, ok := values[settings.KeyAppName]; ok && v != "" {
		s.settings.AppName = v
	}
	if v, ok := values[settings.KeyAppSubtitle]; ok && v != "" {
		s.settings.AppSubtitle = v
	}
	if v, ok := values[settings.KeyAboutContent]; ok && v != "" {
		var about settings.AboutContent
		if err := json.Unmarshal([]byte(v), &about); err != nil {
			slog.Warn("syncstore_about_parse_failed", "error", err)
		} else {
			s.about = about
		}
	}
}

// Snapshot is the point-in-time view of every entity the UI can see.
type Snapshot struct {
	Status        Status
	Users         []user.User
	Activities    []activity.Activity
	Announcements []announcement.Announcement
	Notifications []notification.Notification
	Feedbacks     []feedback.Feedback
	Events        []event.PublicEvent
	Registrations []event.Registration
	Settings      settings.AppSettings
	About         settings.AboutContent
}

// Snapshot returns a copy of the current state. Callers may hold it freely;
// it never observes later mutations.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]user.User, len(s.users))
	for i, u := range s.users {
		u.Positions = append([]string(nil), u.Positions...)
		users[i] = u
	}
	return Snapshot{
		Status:        s.status,
		Users:         users,
		Activities:    append([]activity.Activity(nil), s.activities...),
		Announcements: append([]announcement.Announcement(nil), s.announcements...),
		Notifications: append([]notification.Notification(nil), s.notifications...),
		Feedbacks:     append([]feedback.Feedback(nil), s.feedbacks...),
		Events:        append([]event.PublicEvent(nil), s.events...),
		Registrations: append([]event.Registration(nil), s.registrations...),
		Settings:      s.settings,
		About:         s.about,
	}
}

// Status returns the load status.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// --- session gate ---

// Login checks credentials against the loaded roster by exact string
// equality of the stored plaintext password. It never mutates the roster.
func (s *Store) Login(userID, password string) (user.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == userID {
			if u.Password == password {
				slog.Info("auth_event", "event", "login_success", "user_id", userID)
				return u, true
			}
			slog.Info("auth_event", "event", "login_failed", "user_id", userID, "reason", "wrong_password")
			return user.User{}, false
		}
	}
	slog.Info("auth_event", "event", "login_failed", "user_id", userID, "reason", "not_found")
	return user.User{}, false
}

// Restore resolves a persisted user id back to a session without a
// password check. A stale or deleted id fails closed.
func (s *Store) Restore(userID string) (user.User, bool) {
	if userID == "" {
		return user.User{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == userID {
			return u, true
		}
	}
	return user.User{}, false
}

// UserByID looks up a roster entry.
func (s *Store) UserByID(userID string) (user.User, bool) {
	return s.Restore(userID)
}

// Flush waits for all in-flight remote writes. Tests and shutdown use it;
// request handlers never do.
func (s *Store) Flush() {
	s.wg.Wait()
}

// newID concatenates a short prefix with the current timestamp in
// milliseconds. Two writes in the same millisecond collide; accepted given
// single-admin, low-frequency usage.
func (s *Store) newID(prefix string) string {
	return prefix + strconv.FormatInt(s.now().UnixMilli(), 10)
}

// persistAsync issues a remote write without blocking the caller. Failures
// are logged, never retried, and never rolled back locally.
func (s *Store) persistAsync(op string, fn func(ctx context.Context) error) {
	if s.gw == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := fn(context.Background()); err != nil {
			slog.Error("remote_write_failed", "op", op, "error", err)
		}
	}()
}

// persistSync issues a remote write and waits for it, still absorbing the
// error. Used where callers sequence their own logic after persistence
// (feedback submission, profile updates).
func (s *Store) persistSync(ctx context.Context, op string, fn func(ctx context.Context) error) {
	if s.gw == nil {
		return
	}
	if err := fn(ctx); err != nil {
		slog.Error("remote_write_failed", "op", op, "error", err)
	}
}
