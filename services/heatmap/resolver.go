// File: services/heatmap/resolver.go
package heatmap

import "slotsync/models"

// DedupeMembers collapses membership rows of several groups into one row per
// user. A user holding the dm role in any contributing group keeps it for the
// combined view.
func DedupeMembers(rows []models.MemberWithProfile) []models.MemberWithProfile {
	byUser := make(map[string]int, len(rows))
	out := make([]models.MemberWithProfile, 0, len(rows))
	for _, row := range rows {
		if i, ok := byUser[row.UserID]; ok {
			if row.Role == models.RoleDecisionMaker {
				out[i].Role = models.RoleDecisionMaker
			}
			continue
		}
		byUser[row.UserID] = len(out)
		out = append(out, row)
	}
	return out
}

// MergeEffectiveBusy unions the members' direct marks with the blocks implied
// by sessions of any group they belong to. Each session marks every member of
// its owning group who is also in scope busy at its slot, regardless of which
// group is being viewed. Marks are unique per (user, day, hour).
func MergeEffectiveBusy(
	direct []models.AvailabilityMark,
	memberships []models.GroupMember,
	sessions []models.GroupSession,
	memberIDs map[string]bool,
) []models.AvailabilityMark {
	type busyKey struct {
		userID   string
		dayIndex int
		hour     int
	}
	seen := make(map[busyKey]bool, len(direct))
	merged := make([]models.AvailabilityMark, 0, len(direct))

	add := func(m models.AvailabilityMark) {
		k := busyKey{m.UserID, m.DayIndex, m.Hour}
		if seen[k] {
			return
		}
		seen[k] = true
		merged = append(merged, m)
	}

	for _, m := range direct {
		add(m)
	}

	usersByGroup := make(map[string][]string)
	for _, ms := range memberships {
		usersByGroup[ms.GroupID] = append(usersByGroup[ms.GroupID], ms.UserID)
	}
	for _, s := range sessions {
		for _, uid := range usersByGroup[s.GroupID] {
			if !memberIDs[uid] {
				continue
			}
			add(models.AvailabilityMark{UserID: uid, DayIndex: s.DayIndex, Hour: s.Hour})
		}
	}
	return merged
}
