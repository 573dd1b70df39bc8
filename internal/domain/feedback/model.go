package feedback

import (
	"errors"
	"strings"
	"time"
)

// ErrAlreadyReplied is returned when a reply would overwrite an existing one.
var ErrAlreadyReplied = errors.New("feedback already has a reply")

// Feedback is a member-authored message to the admin. Reply is set at most
// once; there is no further state machine.
type Feedback struct {
	ID        string
	UserID    string
	UserName  string
	Subject   string
	Message   string
	Reply     string
	CreatedAt time.Time
}

// Validate checks if the Feedback has valid data.
func (f *Feedback) Validate() error {
	if strings.TrimSpace(f.UserID) == "" {
		return errors.New("feedback user id cannot be empty")
	}
	if strings.TrimSpace(f.Subject) == "" {
		return errors.New("feedback subject cannot be empty")
	}
	if strings.TrimSpace(f.Message) == "" {
		return errors.New("feedback message cannot be empty")
	}
	return nil
}

// SetReply records the admin reply.
// PRE: no reply has been recorded yet
// POST: Reply is set
func (f *Feedback) SetReply(reply string) error {
	if f.Reply != "" {
		return ErrAlreadyReplied
	}
	if strings.TrimSpace(reply) == "" {
		return errors.New("reply cannot be empty")
	}
	f.Reply = reply
	return nil
}
