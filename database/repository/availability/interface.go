// File: database/repository/availability/interface.go
package availabilityRepo

import (
	"context"

	"slotsync/models"
)

// AvailabilityRepository is the store of per-user unavailability marks.
// Week-range queries take the explicit list of the week's seven day indices;
// the integer encoding is not contiguous across month boundaries, so a
// [min,max] filter would be wrong.
type AvailabilityRepository interface {
	GetMarks(ctx context.Context, userIDs []string, dayIndexes []int) ([]models.AvailabilityMark, error)
	ReplaceWeek(ctx context.Context, userID string, dayIndexes []int, marks []models.AvailabilityMark) error
}
