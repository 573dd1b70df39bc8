package user

import (
	"errors"
	"strings"
)

// Roles. Exactly one admin is expected in practice but not enforced.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// MaxPositions is the most position labels a single member may hold.
const MaxPositions = 2

// Positions is the closed set of assignable position labels.
var Positions = []string{
	"President",
	"Vice President",
	"Secretary",
	"Treasurer",
	"Event Coordinator",
	"Media Head",
}

// Domain errors
var (
	ErrTooManyPositions = errors.New("a member can hold at most 2 positions")
	ErrUnknownPosition  = errors.New("unknown position label")
)

// User holds the identity and profile of a club member or the admin.
// Password is stored and compared as plaintext.
type User struct {
	ID        string
	Name      string
	Role      string
	Password  string
	Positions []string
	PhotoURL  string
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return errors.New("user id cannot be empty")
	}
	if strings.TrimSpace(u.Name) == "" {
		return errors.New("user name cannot be empty")
	}
	if u.Role != RoleAdmin && u.Role != RoleMember {
		return errors.New("role must be 'admin' or 'member'")
	}
	if len(u.Positions) > MaxPositions {
		return ErrTooManyPositions
	}
	for _, p := range u.Positions {
		if !IsPosition(p) {
			return ErrUnknownPosition
		}
	}
	return nil
}

// IsAdmin returns true if the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPosition returns true if the user currently holds the given position.
func (u *User) HasPosition(position string) bool {
	for _, p := range u.Positions {
		if p == position {
			return true
		}
	}
	return false
}

// TogglePosition adds the position if absent and removes it if present.
// PRE: position is drawn from the Positions set
// POST: Positions never exceeds MaxPositions
func (u *User) TogglePosition(position string) error {
	if !IsPosition(position) {
		return ErrUnknownPosition
	}
	for i, p := range u.Positions {
		if p == position {
			u.Positions = append(u.Positions[:i], u.Positions[i+1:]...)
			return nil
		}
	}
	if len(u.Positions) >= MaxPositions {
		return ErrTooManyPositions
	}
	u.Positions = append(u.Positions, position)
	return nil
}

// IsPosition reports whether the label belongs to the closed position set.
func IsPosition(label string) bool {
	for _, p := range Positions {
		if p == label {
			return true
		}
	}
	return false
}
