// File: services/heatmap/classifier.go
package heatmap

import (
	"time"

	"slotsync/models"
	"slotsync/services/schedule"
)

// Severity is the tier a slot lands in on the group heatmap.
type Severity string

const (
	SeverityNotApplicable Severity = "not-applicable"
	SeverityIdeal         Severity = "ideal"
	SeverityAcceptable    Severity = "acceptable"
	SeverityPoor          Severity = "poor"
)

// Classify grades one slot for a set of members. busyUsers holds the ids of
// members effectively unavailable at the slot (direct marks merged with
// cross-group session blocks). tolerance is how many regular members may be
// missing while the slot still counts as acceptable.
//
// Rules, in priority order: inactive slots are not applicable; nobody busy is
// ideal; every decision-maker busy (when any exist) or more regulars missing
// than tolerated is poor; otherwise acceptable. An unreachable fallthrough
// grades poor.
func Classify(weekday time.Weekday, hour int, busyUsers map[string]bool, members []models.MemberWithProfile, tolerance int) Severity {
	if !schedule.IsSlotActive(weekday, hour) {
		return SeverityNotApplicable
	}

	var busyCount, dmCount, busyDMCount int
	for _, m := range members {
		busy := busyUsers[m.UserID]
		if busy {
			busyCount++
		}
		if m.IsDecisionMaker() {
			dmCount++
			if busy {
				busyDMCount++
			}
		}
	}

	if busyCount == 0 {
		return SeverityIdeal
	}

	allDMsBusy := dmCount > 0 && busyDMCount == dmCount
	busyRegulars := busyCount - busyDMCount

	if allDMsBusy || busyRegulars > tolerance {
		return SeverityPoor
	}
	if busyRegulars <= tolerance {
		return SeverityAcceptable
	}
	return SeverityPoor
}

// CombinedTolerance picks the tolerance for a view spanning several groups:
// the minimum missingCount among them, so the combined view never looks more
// forgiving than its strictest group. An empty scope tolerates nobody missing.
func CombinedTolerance(groups []models.Group) int {
	if len(groups) == 0 {
		return 0
	}
	min := groups[0].MissingCount
	for _, g := range groups[1:] {
		if g.MissingCount < min {
			min = g.MissingCount
		}
	}
	return min
}
