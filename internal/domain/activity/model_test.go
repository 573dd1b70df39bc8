package activity

import (
	"errors"
	"testing"
)

// TestPointsFor tests the static type-to-points table.
func TestPointsFor(t *testing.T) {
	tests := []struct {
		activityType string
		want         int
	}{
		{TypeEventHosting, 20},
		{TypeEventParticipation, 10},
		{TypePromotion, 5},
	}
	for _, tt := range tests {
		got, err := PointsFor(tt.activityType)
		if err != nil {
			t.Fatalf("PointsFor(%q): unexpected error: %v", tt.activityType, err)
		}
		if got != tt.want {
			t.Errorf("PointsFor(%q) = %d, want %d", tt.activityType, got, tt.want)
		}
	}
}

// TestPointsFor_Unknown tests that unlisted types are rejected.
func TestPointsFor_Unknown(t *testing.T) {
	if _, err := PointsFor("Bake Sale"); !errors.Is(err, ErrUnknownType) {
		t.Fatalf("expected ErrUnknownType, got %v", err)
	}
}

// TestDecide tests the single Pending -> Approved/Rejected transition.
func TestDecide(t *testing.T) {
	a := Activity{Status: StatusPending}
	if err := a.Decide(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Status != StatusApproved {
		t.Errorf("status = %s, want %s", a.Status, StatusApproved)
	}

	r := Activity{Status: StatusPending}
	if err := r.Decide(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Status != StatusRejected {
		t.Errorf("status = %s, want %s", r.Status, StatusRejected)
	}
}

// TestDecide_Twice tests that a decided activity cannot transition again.
func TestDecide_Twice(t *testing.T) {
	a := Activity{Status: StatusPending}
	_ = a.Decide(true)
	if err := a.Decide(false); !errors.Is(err, ErrAlreadyDecided) {
		t.Fatalf("expected ErrAlreadyDecided, got %v", err)
	}
	if a.Status != StatusApproved {
		t.Errorf("status changed after second decide: %s", a.Status)
	}
}

// TestValidate tests rejection of malformed activities.
func TestValidate(t *testing.T) {
	a := Activity{UserID: "u1", Type: TypeEventHosting, Description: "hosted quiz night", Status: StatusPending}
	if err := a.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Description = "  "
	if err := a.Validate(); err == nil {
		t.Error("expected error for empty description")
	}
}
