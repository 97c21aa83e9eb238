// File: services/schedule/slots.go
package schedule

import "time"

// Slot ids and their nominal labels:
// 9  = Morning (9 to 13)
// 18 = Afternoon (18 to 22)
// 22 = Night (20 to 1)
const (
	SlotMorning   = 9
	SlotAfternoon = 18
	SlotNight     = 22
)

// SlotMeta describes one of the three daily blocks.
type SlotMeta struct {
	ID      int    `json:"id"`
	Label   string `json:"label"`
	Subtext string `json:"subtext"`
}

// TimeSlots lists the defined blocks in display order.
var TimeSlots = []SlotMeta{
	{ID: SlotMorning, Label: "Morning", Subtext: "9 to 13"},
	{ID: SlotAfternoon, Label: "Afternoon", Subtext: "18 to 22"},
	{ID: SlotNight, Label: "Night", Subtext: "20 to 1"},
}

// AllSlotHours are the slot ids in grid order.
var AllSlotHours = []int{SlotMorning, SlotAfternoon, SlotNight}

// IsSlotActive reports whether a slot exists on the given weekday. Afternoon
// and Night run every day; Morning only on weekends. Unknown slot ids are
// inactive.
func IsSlotActive(weekday time.Weekday, hour int) bool {
	if hour == SlotAfternoon || hour == SlotNight {
		return true
	}
	if hour == SlotMorning {
		return weekday == time.Saturday || weekday == time.Sunday
	}
	return false
}

// SlotInstant composes the concrete instant a slot starts at on the given
// calendar day. The Night block is labeled "20 to 1" but anchored at 22, so it
// stays on the same day; a rollover to the next day applies only when the
// numeric hour is below 5, which never triggers for the three defined ids.
func SlotInstant(day time.Time, hour int) time.Time {
	y, m, d := day.Date()
	instant := time.Date(y, m, d, hour, 0, 0, 0, day.Location())
	if hour < 5 {
		instant = instant.AddDate(0, 0, 1)
	}
	return instant
}

// IsSlotBookable reports whether a slot both exists on that weekday and lies
// strictly in the future. Stale selections are dropped at save time using this
// same check.
func IsSlotBookable(day time.Time, hour int, now time.Time) bool {
	if !IsSlotActive(day.Weekday(), hour) {
		return false
	}
	return SlotInstant(day, hour).After(now)
}
