// File: services/schedule/week.go
package schedule

import "time"

// DayIndex encodes a calendar date as year*10000 + month*100 + day. The total
// order matches calendar order, but the seven indices of one week are NOT a
// contiguous integer range across a month boundary; week queries must list the
// seven concrete values instead of assuming [min,max] covers them.
func DayIndex(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// DayFromIndex decodes a day index back into its calendar fields.
func DayFromIndex(idx int) (year int, month time.Month, day int) {
	return idx / 10000, time.Month(idx % 10000 / 100), idx % 100
}

// DayInfo is one column of the weekly grid.
type DayInfo struct {
	Date     time.Time    `json:"date"`
	DayIndex int          `json:"dayIndex"`
	Weekday  time.Weekday `json:"weekday"`
}

// MondayOf returns midnight on the Monday of t's week. Sunday belongs to the
// week that started the previous Monday.
func MondayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := int(midnight.Weekday()) - 1
	if midnight.Weekday() == time.Sunday {
		offset = 6
	}
	return midnight.AddDate(0, 0, -offset)
}

// WeekOf returns the seven Monday-anchored days of the week containing t.
func WeekOf(t time.Time) []DayInfo {
	monday := MondayOf(t)
	days := make([]DayInfo, 7)
	for i := range days {
		d := monday.AddDate(0, 0, i)
		days[i] = DayInfo{Date: d, DayIndex: DayIndex(d), Weekday: d.Weekday()}
	}
	return days
}

// WeekDayIndexes extracts the seven day indices of a week, in order. This is
// the only valid shape for a week-range store query.
func WeekDayIndexes(week []DayInfo) []int {
	idxs := make([]int, len(week))
	for i, d := range week {
		idxs[i] = d.DayIndex
	}
	return idxs
}
