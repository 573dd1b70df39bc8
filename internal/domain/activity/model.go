package activity

import (
	"errors"
	"strings"
	"time"
)

// Activity types, a closed 3-value set. Points are assigned from the
// static table below at submission time; values supplied by callers are
// ignored.
const (
	TypeEventHosting       = "Event Hosting"
	TypeEventParticipation = "Event Participation"
	TypePromotion          = "Social Media Promotion"
)

// Statuses. An activity is created Pending and is decided exactly once.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

// pointsTable maps activity type to its fixed point value.
var pointsTable = map[string]int{
	TypeEventHosting:       20,
	TypeEventParticipation: 10,
	TypePromotion:          5,
}

// Domain errors
var (
	ErrUnknownType    = errors.New("unknown activity type")
	ErrAlreadyDecided = errors.New("activity has already been decided")
)

// Activity is one submitted club activity. UserName is denormalized at
// submission time and is not kept in sync with later name changes.
type Activity struct {
	ID          string
	UserID      string
	UserName    string
	Type        string
	Description string
	Date        string
	SubmittedAt time.Time
	Points      int
	Status      string
}

// PointsFor returns the static point value for an activity type.
func PointsFor(activityType string) (int, error) {
	pts, ok := pointsTable[activityType]
	if !ok {
		return 0, ErrUnknownType
	}
	return pts, nil
}

// Validate checks if the Activity has valid data.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.UserID) == "" {
		return errors.New("activity user id cannot be empty")
	}
	if _, err := PointsFor(a.Type); err != nil {
		return err
	}
	if strings.TrimSpace(a.Description) == "" {
		return errors.New("activity description cannot be empty")
	}
	if a.Status != StatusPending && a.Status != StatusApproved && a.Status != StatusRejected {
		return errors.New("status must be 'Pending', 'Approved', or 'Rejected'")
	}
	return nil
}

// Decide moves a pending activity to Approved or Rejected. No further
// transitions are modeled.
// PRE: activity is Pending
// POST: Status is Approved or Rejected
func (a *Activity) Decide(approve bool) error {
	if a.Status != StatusPending {
		return ErrAlreadyDecided
	}
	if approve {
		a.Status = StatusApproved
	} else {
		a.Status = StatusRejected
	}
	return nil
}

// IsApproved returns true if the activity was approved.
func (a *Activity) IsApproved() bool {
	return a.Status == StatusApproved
}
