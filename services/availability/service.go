// File: services/availability/service.go
package availability

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	availabilityRepo "slotsync/database/repository/availability"
	userRepo "slotsync/database/repository/user"
	"slotsync/models"
	"slotsync/services/schedule"
)

// AvailabilityService loads and saves a user's unavailability marks one week
// at a time.
type AvailabilityService interface {
	WeekMarks(ctx context.Context, userID string, week []schedule.DayInfo) ([]models.AvailabilityMark, error)
	SaveWeek(ctx context.Context, userID string, week []schedule.DayInfo, pending map[models.SlotKey]bool) (int, error)
}

// DefaultAvailabilityService is the production implementation.
type DefaultAvailabilityService struct {
	Repo   availabilityRepo.AvailabilityRepository
	Users  userRepo.UserRepository
	Logger *zap.Logger
	// Now is injectable so save-time bookability filtering is testable.
	Now func() time.Time
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// WeekMarks returns the user's marks for the given week.
func (s *DefaultAvailabilityService) WeekMarks(ctx context.Context, userID string, week []schedule.DayInfo) ([]models.AvailabilityMark, error) {
	marks, err := s.Repo.GetMarks(ctx, []string{userID}, schedule.WeekDayIndexes(week))
	if err != nil {
		return nil, fmt.Errorf("failed to load week for user %s: %w", userID, err)
	}
	return marks, nil
}

// SaveWeek replaces the user's marks for the week with the pending selection.
// Slots that are no longer bookable when the save happens (the date passed, or
// the slot does not exist on that weekday) are silently dropped, matching what
// the grid promised: selection is lenient, persistence is strict. Returns the
// number of marks actually persisted.
func (s *DefaultAvailabilityService) SaveWeek(ctx context.Context, userID string, week []schedule.DayInfo, pending map[models.SlotKey]bool) (int, error) {
	now := s.now()

	dayByIndex := make(map[int]schedule.DayInfo, len(week))
	for _, d := range week {
		dayByIndex[d.DayIndex] = d
	}

	marks := make([]models.AvailabilityMark, 0, len(pending))
	for key, on := range pending {
		if !on {
			continue
		}
		day, ok := dayByIndex[key.DayIndex]
		if !ok {
			continue
		}
		if !schedule.IsSlotBookable(day.Date, key.Hour, now) {
			continue
		}
		marks = append(marks, models.AvailabilityMark{
			UserID:   userID,
			DayIndex: key.DayIndex,
			Hour:     key.Hour,
		})
	}

	if err := s.Repo.ReplaceWeek(ctx, userID, schedule.WeekDayIndexes(week), marks); err != nil {
		return 0, fmt.Errorf("failed to save week for user %s: %w", userID, err)
	}

	if s.Users != nil {
		if err := s.Users.TouchLastSaved(ctx, userID, now); err != nil {
			// The save itself succeeded; a stale digest timestamp is not
			// worth failing the request over.
			s.Logger.Warn("failed to record save timestamp", zap.String("userId", userID), zap.Error(err))
		}
	}
	return len(marks), nil
}
