package announcement

import (
	"errors"
	"strings"
	"time"
)

// Announcement is an append-only club-wide post. There is no edit or
// delete operation.
type Announcement struct {
	ID         string
	Text       string
	AuthorName string
	CreatedAt  time.Time
}

// Validate checks if the Announcement has valid data.
func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Text) == "" {
		return errors.New("announcement text cannot be empty")
	}
	return nil
}
