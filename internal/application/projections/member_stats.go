package projections

import (
	"sort"

	"clubhouse/internal/domain/activity"
	"clubhouse/internal/domain/user"
)

// MemberStat is the derived leaderboard entry for one member. It is
// recomputed on every read and never mutated directly.
type MemberStat struct {
	UserID      string
	Name        string
	TotalPoints int
	Activities  []activity.Activity
}

// MemberStats computes per-member totals from the roster and activity log.
// Only users with the member role appear; only Approved activities count.
// Order is descending total points; ties keep roster insertion order
// (stable sort, no explicit tie-break).
func MemberStats(users []user.User, activities []activity.Activity) []MemberStat {
	byUser := make(map[string][]activity.Activity)
	for _, a := range activities {
		if a.IsApproved() {
			byUser[a.UserID] = append(byUser[a.UserID], a)
		}
	}

	stats := make([]MemberStat, 0, len(users))
	for _, u := range users {
		if u.Role != user.RoleMember {
			continue
		}
		approved := byUser[u.ID]
		total := 0
		for _, a := range approved {
			total += a.Points
		}
		stats = append(stats, MemberStat{
			UserID:      u.ID,
			Name:        u.Name,
			TotalPoints: total,
			Activities:  approved,
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalPoints > stats[j].TotalPoints
	})
	return stats
}
