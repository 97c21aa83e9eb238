package models

// AvailabilityMark records that a user is busy during one slot. There is no
// explicit "available" record; the absence of a mark means the user is free.
type AvailabilityMark struct {
	UserID   string `bson:"userId" json:"userId"`
	DayIndex int    `bson:"dayIndex" json:"dayIndex"`
	Hour     int    `bson:"hour" json:"hour"`
}

// SlotKey identifies a single cell of the weekly grid.
type SlotKey struct {
	DayIndex int `json:"dayIndex"`
	Hour     int `json:"hour"`
}

// Key returns the mark's slot coordinate.
func (m AvailabilityMark) Key() SlotKey {
	return SlotKey{DayIndex: m.DayIndex, Hour: m.Hour}
}
