package user

import (
	"errors"
	"testing"
)

func validUser() User {
	return User{ID: "user1", Name: "Ana", Role: RoleMember, Password: "pw"}
}

// TestValidate_Valid tests a well-formed user passes validation.
func TestValidate_Valid(t *testing.T) {
	u := validUser()
	if err := u.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestValidate_Invalid tests each rejection case.
func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*User)
	}{
		{"empty id", func(u *User) { u.ID = " " }},
		{"empty name", func(u *User) { u.Name = "" }},
		{"bad role", func(u *User) { u.Role = "owner" }},
		{"too many positions", func(u *User) {
			u.Positions = []string{"President", "Secretary", "Treasurer"}
		}},
		{"unknown position", func(u *User) { u.Positions = []string{"Mascot"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			if err := u.Validate(); err == nil {
				t.Errorf("expected validation error")
			}
		})
	}
}

// TestTogglePosition_AddRemove tests that toggling adds then removes.
func TestTogglePosition_AddRemove(t *testing.T) {
	u := validUser()
	if err := u.TogglePosition("Secretary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.HasPosition("Secretary") {
		t.Error("expected Secretary to be assigned")
	}
	if err := u.TogglePosition("Secretary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.HasPosition("Secretary") {
		t.Error("expected Secretary to be removed")
	}
}

// TestTogglePosition_CapAtTwo tests that a third position is rejected and
// the list never exceeds two entries.
func TestTogglePosition_CapAtTwo(t *testing.T) {
	u := validUser()
	u.Positions = []string{"President", "Treasurer"}
	err := u.TogglePosition("Secretary")
	if !errors.Is(err, ErrTooManyPositions) {
		t.Fatalf("expected ErrTooManyPositions, got %v", err)
	}
	if len(u.Positions) != 2 {
		t.Errorf("positions length = %d, want 2", len(u.Positions))
	}
}

// TestTogglePosition_Unknown tests that labels outside the closed set are rejected.
func TestTogglePosition_Unknown(t *testing.T) {
	u := validUser()
	if err := u.TogglePosition("Mascot"); !errors.Is(err, ErrUnknownPosition) {
		t.Fatalf("expected ErrUnknownPosition, got %v", err)
	}
}
