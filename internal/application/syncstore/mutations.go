package syncstore

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/google/uuid"

	"clubhouse/internal/adapters/gateway"
	"clubhouse/internal/application/policy"
	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/announcement"
	"clubhouse/internal/domain/event"
	"clubhouse/internal/domain/feedback"
	"clubhouse/internal/domain/notification"
	"clubhouse/internal/domain/settings"
	"clubhouse/internal/domain/user"
)

// Upload folders. PNG is additionally permitted for profile and logo
// uploads; event images are JPEG only.
const (
	FolderProfile = "profile"
	FolderLogo    = "logo"
	FolderEvent   = "event"
)

// maxImageBytes is the upload size cap, enforced here before any blob call.
const maxImageBytes = 1 << 20

// SubmitActivity records a new activity in Pending status. Points come
// from the static per-type table; any value the caller supplies elsewhere
// is irrelevant.
func (s *Store) SubmitActivity(ctx context.Context, actor user.User, activityType, description, date string) (activity.Activity, error) {
	if !policy.Allowed(actor, policy.ActionSubmitActivity, "") {
		return activity.Activity{}, ErrNotAllowed
	}
	points, err := activity.PointsFor(activityType)
	if err != nil {
		return activity.Activity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := activity.Activity{
		ID:          s.newID("act"),
		UserID:      actor.ID,
		UserName:    actor.Name,
		Type:        activityType,
		Description: description,
		Date:        date,
		SubmittedAt: s.now(),
		Points:      points,
		Status:      activity.StatusPending,
	}
	if err := a.Validate(); err != nil {
		return activity.Activity{}, err
	}

	s.activities = append(s.activities, a)
	s.persistAsync("activity_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableActivities, []gateway.Row{gateway.ActivityToRow(a)})
	})
	return a, nil
}

// DecideActivity approves or rejects a pending activity and notifies its
// owner.
func (s *Store) DecideActivity(ctx context.Context, actor user.User, activityID string, approve bool) (activity.Activity, error) {
	if !policy.Allowed(actor, policy.ActionDecideActivity, activityID) {
		return activity.Activity{}, ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.activities {
		if s.activities[i].ID == activityID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return activity.Activity{}, ErrNotFound
	}
	if err := s.activities[idx].Decide(approve); err != nil {
		return activity.Activity{}, err
	}
	decided := s.activities[idx]

	text := "Your activity \"" + decided.Description + "\" was rejected."
	if approve {
		text = "Your activity \"" + decided.Description + "\" was approved. +" +
			strconv.Itoa(decided.Points) + " points!"
	}
	n := notification.Notification{
		ID:        s.newID("notif"),
		UserID:    decided.UserID,
		Text:      text,
		CreatedAt: s.now(),
	}
	s.notifications = append(s.notifications, n)

	s.persistAsync("activity_update", func(ctx context.Context) error {
		return s.gw.Update(ctx, gateway.TableActivities,
			gateway.Row{"status": decided.Status}, decided.ID)
	})
	s.persistAsync("notification_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableNotifications, []gateway.Row{gateway.NotificationToRow(n)})
	})
	return decided, nil
}

// AddUser adds a roster entry. The id is always generated here.
func (s *Store) AddUser(ctx context.Context, actor user.User, newUser user.User) (user.User, error) {
	if !policy.Allowed(actor, policy.ActionManageRoster, "") {
		return user.User{}, ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newUser.ID = s.newID("user")
	if newUser.Role == "" {
		newUser.Role = user.RoleMember
	}
	if err := newUser.Validate(); err != nil {
		return user.User{}, err
	}

	s.users = append(s.users, newUser)
	added := newUser
	s.persistAsync("user_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableUsers, []gateway.Row{gateway.UserToRow(added)})
	})
	return added, nil
}

// DeleteUser removes a user and, locally only, everything they own:
// activities, notifications, and feedback. The remote store is issued just
// the user-row delete; dependent remote rows are left behind.
func (s *Store) DeleteUser(ctx context.Context, actor user.User, userID string) error {
	if !policy.Allowed(actor, policy.ActionManageRoster, userID) {
		return ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.users {
		if s.users[i].ID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrNotFound
	}
	s.users = append(s.users[:idx], s.users[idx+1:]...)

	kept := s.activities[:0]
	for _, a := range s.activities {
		if a.UserID != userID {
			kept = append(kept, a)
		}
	}
	s.activities = kept

	keptN := s.notifications[:0]
	for _, n := range s.notifications {
		if n.UserID != userID {
			keptN = append(keptN, n)
		}
	}
	s.notifications = keptN

	keptF := s.feedbacks[:0]
	for _, f := range s.feedbacks {
		if f.UserID != userID {
			keptF = append(keptF, f)
		}
	}
	s.feedbacks = keptF

	s.persistAsync("user_delete", func(ctx context.Context) error {
		return s.gw.Delete(ctx, gateway.TableUsers, userID)
	})
	return nil
}

// ToggleUserPosition assigns or removes a position label, never letting a
// member hold more than two.
func (s *Store) ToggleUserPosition(ctx context.Context, actor user.User, userID, position string) (user.User, error) {
	if !policy.Allowed(actor, policy.ActionManageRoster, userID) {
		return user.User{}, ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID != userID {
			continue
		}
		if err := s.users[i].TogglePosition(position); err != nil {
			return user.User{}, err
		}
		updated := s.users[i]
		s.persistAsync("user_update", func(ctx context.Context) error {
			return s.gw.Update(ctx, gateway.TableUsers,
				gateway.Row{"positions": positionsValue(updated.Positions)}, updated.ID)
		})
		return updated, nil
	}
	return user.User{}, ErrNotFound
}

// ProfilePatch carries the fields a profile update may touch. Nil means
// "leave unchanged".
type ProfilePatch struct {
	Name      *string
	Password  *string
	PhotoURL  *string
	Positions *[]string
}

// UpdateProfile applies a profile change. Members may change their own
// password and photo; name and position changes are silently dropped
// unless the actor is the admin. The local update is unconditional; the
// remote write is awaited but its failure only logged.
func (s *Store) UpdateProfile(ctx context.Context, actor user.User, targetID string, patch ProfilePatch) (user.User, error) {
	if !policy.Allowed(actor, policy.ActionUpdateProfile, targetID) {
		return user.User{}, ErrNotAllowed
	}
	if !actor.IsAdmin() {
		patch.Name = nil
		patch.Positions = nil
	}
	if patch.Positions != nil && len(*patch.Positions) > user.MaxPositions {
		return user.User{}, user.ErrTooManyPositions
	}

	s.mu.Lock()
	idx := -1
	for i := range s.users {
		if s.users[i].ID == targetID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.mu.Unlock()
		return user.User{}, ErrNotFound
	}

	remote := gateway.Row{}
	if patch.Name != nil {
		s.users[idx].Name = *patch.Name
		remote["name"] = *patch.Name
	}
	if patch.Password != nil {
		s.users[idx].Password = *patch.Password
		remote["password"] = *patch.Password
	}
	if patch.PhotoURL != nil {
		s.users[idx].PhotoURL = *patch.PhotoURL
		remote["photo_url"] = *patch.PhotoURL
	}
	if patch.Positions != nil {
		s.users[idx].Positions = append([]string(nil), (*patch.Positions)...)
		remote["positions"] = positionsValue(s.users[idx].Positions)
	}
	updated := s.users[idx]
	s.mu.Unlock()

	if len(remote) > 0 {
		s.persistSync(ctx, "user_update", func(ctx context.Context) error {
			return s.gw.Update(ctx, gateway.TableUsers, remote, targetID)
		})
	}
	return updated, nil
}

// AddAnnouncement appends a club-wide announcement.
func (s *Store) AddAnnouncement(ctx context.Context, actor user.User, text string) (announcement.Announcement, error) {
	if !policy.Allowed(actor, policy.ActionAnnounce, "") {
		return announcement.Announcement{}, ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := announcement.Announcement{
		ID:         s.newID("ann"),
		Text:       text,
		AuthorName: actor.Name,
		CreatedAt:  s.now(),
	}
	if err := a.Validate(); err != nil {
		return announcement.Announcement{}, err
	}

	s.announcements = append(s.announcements, a)
	s.persistAsync("announcement_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableAnnouncements, []gateway.Row{gateway.AnnouncementToRow(a)})
	})
	return a, nil
}

// SubmitFeedback records member feedback. The remote write is awaited
// before returning so the caller's follow-up logic sees it attempted; the
// local append happens regardless of the remote outcome.
func (s *Store) SubmitFeedback(ctx context.Context, actor user.User, subject, message string) (feedback.Feedback, error) {
	if !policy.Allowed(actor, policy.ActionSubmitFeedback, "") {
		return feedback.Feedback{}, ErrNotAllowed
	}

	s.mu.Lock()
	f := feedback.Feedback{
		ID:        s.newID("fb"),
		UserID:    actor.ID,
		UserName:  actor.Name,
		Subject:   subject,
		Message:   message,
		CreatedAt: s.now(),
	}
	if err := f.Validate(); err != nil {
		s.mu.Unlock()
		return feedback.Feedback{}, err
	}
	s.feedbacks = append(s.feedbacks, f)
	s.mu.Unlock()

	s.persistSync(ctx, "feedback_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableFeedbacks, []gateway.Row{gateway.FeedbackToRow(f)})
	})
	return f, nil
}

// ReplyFeedback records the admin reply, at most once per feedback.
func (s *Store) ReplyFeedback(ctx context.Context, actor user.User, feedbackID, reply string) (feedback.Feedback, error) {
	if !policy.Allowed(actor, policy.ActionReplyFeedback, feedbackID) {
		return feedback.Feedback{}, ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.feedbacks {
		if s.feedbacks[i].ID != feedbackID {
			continue
		}
		if err := s.feedbacks[i].SetReply(reply); err != nil {
			return feedback.Feedback{}, err
		}
		updated := s.feedbacks[i]
		s.persistAsync("feedback_update", func(ctx context.Context) error {
			return s.gw.Update(ctx, gateway.TableFeedbacks,
				gateway.Row{"reply": updated.Reply}, updated.ID)
		})
		return updated, nil
	}
	return feedback.Feedback{}, ErrNotFound
}

// AddEvent publishes a new public event.
func (s *Store) AddEvent(ctx context.Context, actor user.User, e event.PublicEvent) (event.PublicEvent, error) {
	if !policy.Allowed(actor, policy.ActionManageEvents, "") {
		return event.PublicEvent{}, ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.newID("evt")
	if err := e.Validate(); err != nil {
		return event.PublicEvent{}, err
	}

	s.events = append(s.events, e)
	added := e
	s.persistAsync("event_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableEvents, []gateway.Row{gateway.EventToRow(added)})
	})
	return added, nil
}

// UpdateEvent replaces an existing public event wholesale (including the
// manually-set upcoming flag).
func (s *Store) UpdateEvent(ctx context.Context, actor user.User, e event.PublicEvent) (event.PublicEvent, error) {
	if !policy.Allowed(actor, policy.ActionManageEvents, e.ID) {
		return event.PublicEvent{}, ErrNotAllowed
	}
	if err := e.Validate(); err != nil {
		return event.PublicEvent{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != e.ID {
			continue
		}
		s.events[i] = e
		updated := e
		s.persistAsync("event_update", func(ctx context.Context) error {
			row := gateway.EventToRow(updated)
			delete(row, "id")
			return s.gw.Update(ctx, gateway.TableEvents, row, updated.ID)
		})
		return updated, nil
	}
	return event.PublicEvent{}, ErrNotFound
}

// DeleteEvent removes a public event. Past registrations stay; they carry
// their own copy of the event title and date.
func (s *Store) DeleteEvent(ctx context.Context, actor user.User, eventID string) error {
	if !policy.Allowed(actor, policy.ActionManageEvents, eventID) {
		return ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.events {
		if s.events[i].ID != eventID {
			continue
		}
		s.events = append(s.events[:i], s.events[i+1:]...)
		s.persistAsync("event_delete", func(ctx context.Context) error {
			return s.gw.Delete(ctx, gateway.TableEvents, eventID)
		})
		return nil
	}
	return ErrNotFound
}

// RegisterForEvent appends a public registration. No session required.
func (s *Store) RegisterForEvent(ctx context.Context, eventID, name, email, phone string) (event.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var target *event.PublicEvent
	for i := range s.events {
		if s.events[i].ID == eventID {
			target = &s.events[i]
			break
		}
	}
	if target == nil {
		return event.Registration{}, ErrNotFound
	}
	if !target.RegistrationOpen {
		return event.Registration{}, event.ErrRegistrationClosed
	}

	reg := event.Registration{
		ID:         s.newID("reg"),
		EventID:    target.ID,
		EventTitle: target.Title,
		EventDate:  target.Date,
		Name:       name,
		Email:      email,
		Phone:      phone,
		CreatedAt:  s.now(),
	}
	if err := reg.Validate(); err != nil {
		return event.Registration{}, err
	}

	s.registrations = append(s.registrations, reg)
	s.persistAsync("registration_insert", func(ctx context.Context) error {
		return s.gw.Insert(ctx, gateway.TableRegistrations, []gateway.Row{gateway.RegistrationToRow(reg)})
	})
	return reg, nil
}

// UpdateSettings replaces the branding singleton.
func (s *Store) UpdateSettings(ctx context.Context, actor user.User, newSettings settings.AppSettings) error {
	if !policy.Allowed(actor, policy.ActionManageSettings, "") {
		return ErrNotAllowed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = newSettings
	s.writeSettingLocked(settings.KeyLogoURL, newSettings.LogoURL)
	s.writeSettingLocked(settings.KeyAppName, newSettings.AppName)
	s.writeSettingLocked(settings.KeyAppSubtitle, newSettings.AppSubtitle)
	return nil
}

// UpdateAbout replaces the about-content singleton, persisted as one JSON
// blob under its well-known key.
func (s *Store) UpdateAbout(ctx context.Context, actor user.User, about settings.AboutContent) error {
	if !policy.Allowed(actor, policy.ActionManageSettings, "") {
		return ErrNotAllowed
	}

	blob, err := json.Marshal(about)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.about = about
	s.writeSettingLocked(settings.KeyAboutContent, string(blob))
	return nil
}

// writeSettingLocked persists one key/value pair, choosing insert or
// update based on whether the key existed at load (or was written since).
func (s *Store) writeSettingLocked(key, value string) {
	exists := s.settingsKeys[key]
	s.settingsKeys[key] = true
	row := gateway.SettingToRow(key, value)
	s.persistAsync("setting_write", func(ctx context.Context) error {
		if exists {
			return s.gw.Update(ctx, gateway.TableSettings, gateway.Row{"value": value}, key)
		}
		return s.gw.Insert(ctx, gateway.TableSettings, []gateway.Row{row})
	})
}

// UploadImage validates and stores an image, returning its public URL.
// The 1 MiB cap and the content-type allow-list are enforced here, before
// any blob call: JPEG is accepted everywhere, PNG only for profile and
// logo uploads.
func (s *Store) UploadImage(ctx context.Context, actor user.User, folder, contentType string, data []byte) (string, error) {
	if !policy.Allowed(actor, policy.ActionUploadImage, "") {
		return "", ErrNotAllowed
	}
	if len(data) > maxImageBytes {
		return "", ErrImageTooLarge
	}

	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		if folder != FolderProfile && folder != FolderLogo {
			return "", ErrImageType
		}
		ext = ".png"
	default:
		return "", ErrImageType
	}

	if s.blob == nil {
		return "", ErrNoBlobStore
	}

	filename := uuid.New().String() + ext
	url, err := s.blob.Upload(ctx, folder, filename, contentType, data)
	if err != nil {
		slog.Error("blob_upload_failed", "folder", folder, "error", err)
		return "", err
	}
	return url, nil
}

func positionsValue(positions []string) string {
	if len(positions) == 0 {
		return "[]"
	}
	b, err := json.Marshal(positions)
	if err != nil {
		return "[]"
	}
	return string(b)
}
