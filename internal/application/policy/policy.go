package policy

import "clubhouse/internal/domain/user"

// Action names every mutation entry point the store exposes.
type Action string

const (
	ActionSubmitActivity Action = "submit_activity"
	ActionDecideActivity Action = "decide_activity"
	ActionManageRoster   Action = "manage_roster"
	ActionUpdateProfile  Action = "update_profile"
	ActionAnnounce       Action = "announce"
	ActionReplyFeedback  Action = "reply_feedback"
	ActionSubmitFeedback Action = "submit_feedback"
	ActionManageEvents   Action = "manage_events"
	ActionManageSettings Action = "manage_settings"
	ActionUploadImage    Action = "upload_image"
)

// Allowed is the single authorization check consulted by every mutation.
// targetID is the id of the entity or user being acted on; it matters only
// for self-service actions.
func Allowed(actor user.User, action Action, targetID string) bool {
	if actor.IsAdmin() {
		return true
	}
	switch action {
	case ActionSubmitActivity, ActionSubmitFeedback:
		return true
	case ActionUpdateProfile, ActionUploadImage:
		// Members may act on themselves; field-level rules (name and
		// positions are admin-only) are applied by the store.
		return targetID == "" || targetID == actor.ID
	default:
		return false
	}
}
