package syncstore

import (
	"time"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/user"
)

// Seed data used when no remote store is reachable, and written to an
// empty remote users table on first connect.

// SeedUsers returns the fixed default roster: one admin and three members.
func SeedUsers() []user.User {
	return []user.User{
		{ID: "admin", Name: "Club Admin", Role: user.RoleAdmin, Password: "admin123"},
		{ID: "priya", Name: "Priya Sharma", Role: user.RoleMember, Password: "priya123",
			Positions: []string{"President"}},
		{ID: "rahul", Name: "Rahul Verma", Role: user.RoleMember, Password: "rahul123",
			Positions: []string{"Event Coordinator"}},
		{ID: "sneha", Name: "Sneha Patel", Role: user.RoleMember, Password: "sneha123"},
	}
}

// SeedActivities returns the two fixed fallback activities.
func SeedActivities() []activity.Activity {
	return []activity.Activity{
		{
			ID:          "act1",
			UserID:      "priya",
			UserName:    "Priya Sharma",
			Type:        activity.TypeEventHosting,
			Description: "Hosted the annual tech quiz",
			Date:        "2026-01-20",
			SubmittedAt: time.Date(2026, 1, 21, 10, 0, 0, 0, time.UTC),
			Points:      20,
			Status:      activity.StatusApproved,
		},
		{
			ID:          "act2",
			UserID:      "rahul",
			UserName:    "Rahul Verma",
			Type:        activity.TypeEventParticipation,
			Description: "Volunteered at the open day stall",
			Date:        "2026-02-02",
			SubmittedAt: time.Date(2026, 2, 2, 18, 30, 0, 0, time.UTC),
			Points:      10,
			Status:      activity.StatusPending,
		},
	}
}
