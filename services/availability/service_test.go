package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"slotsync/models"
	"slotsync/services/schedule"
)

// fakeMarkRepo records ReplaceWeek calls and serves canned marks.
type fakeMarkRepo struct {
	marks []models.AvailabilityMark

	replacedUser  string
	replacedDays  []int
	replacedMarks []models.AvailabilityMark
	replaceCalls  int
	replaceErr    error
	getErr        error
}

func (f *fakeMarkRepo) GetMarks(_ context.Context, userIDs []string, dayIndexes []int) ([]models.AvailabilityMark, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	wantUser := make(map[string]bool, len(userIDs))
	for _, id := range userIDs {
		wantUser[id] = true
	}
	wantDay := make(map[int]bool, len(dayIndexes))
	for _, d := range dayIndexes {
		wantDay[d] = true
	}
	var out []models.AvailabilityMark
	for _, m := range f.marks {
		if wantUser[m.UserID] && wantDay[m.DayIndex] {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMarkRepo) ReplaceWeek(_ context.Context, userID string, dayIndexes []int, marks []models.AvailabilityMark) error {
	f.replaceCalls++
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replacedUser = userID
	f.replacedDays = dayIndexes
	f.replacedMarks = marks
	return nil
}

// fakeUserRepo only tracks the digest timestamp.
type fakeUserRepo struct {
	touchedID string
	touchedAt time.Time
	touchErr  error
}

func (f *fakeUserRepo) Create(_ context.Context, u models.User) (*models.User, error) {
	return &u, nil
}
func (f *fakeUserRepo) GetByID(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeUserRepo) TouchLastSaved(_ context.Context, id string, at time.Time) error {
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touchedID = id
	f.touchedAt = at
	return nil
}
func (f *fakeUserRepo) GetStaleUserIDs(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

// the week of Monday 2024-06-10; fixedNow sits on the Wednesday at noon.
var (
	testWeek = schedule.WeekOf(time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC))
	fixedNow = func() time.Time { return time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC) }
)

func TestSaveWeek(t *testing.T) {
	t.Run("persists bookable pending slots", func(t *testing.T) {
		repo := &fakeMarkRepo{}
		users := &fakeUserRepo{}
		svc := &DefaultAvailabilityService{Repo: repo, Users: users, Logger: zap.NewNop(), Now: fixedNow}

		pending := map[models.SlotKey]bool{
			{DayIndex: 20240613, Hour: schedule.SlotAfternoon}: true,
			{DayIndex: 20240615, Hour: schedule.SlotMorning}:   true,
		}
		n, err := svc.SaveWeek(context.Background(), "alice", testWeek, pending)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, "alice", repo.replacedUser)
		assert.Equal(t, schedule.WeekDayIndexes(testWeek), repo.replacedDays)
		assert.Len(t, repo.replacedMarks, 2)
	})

	t.Run("drops slots that stopped being bookable", func(t *testing.T) {
		repo := &fakeMarkRepo{}
		svc := &DefaultAvailabilityService{Repo: repo, Logger: zap.NewNop(), Now: fixedNow}

		pending := map[models.SlotKey]bool{
			{DayIndex: 20240610, Hour: schedule.SlotNight}:     true, // Monday passed
			{DayIndex: 20240612, Hour: schedule.SlotMorning}:   true, // no weekday morning
			{DayIndex: 20240614, Hour: schedule.SlotNight}:     true,
			{DayIndex: 20240699, Hour: schedule.SlotAfternoon}: true, // not in the week
		}
		n, err := svc.SaveWeek(context.Background(), "alice", testWeek, pending)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		require.Len(t, repo.replacedMarks, 1)
		assert.Equal(t, 20240614, repo.replacedMarks[0].DayIndex)
	})

	t.Run("false entries are skipped", func(t *testing.T) {
		repo := &fakeMarkRepo{}
		svc := &DefaultAvailabilityService{Repo: repo, Logger: zap.NewNop(), Now: fixedNow}

		pending := map[models.SlotKey]bool{
			{DayIndex: 20240614, Hour: schedule.SlotNight}: false,
		}
		n, err := svc.SaveWeek(context.Background(), "alice", testWeek, pending)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Empty(t, repo.replacedMarks)
	})

	t.Run("records the save timestamp for the digest", func(t *testing.T) {
		repo := &fakeMarkRepo{}
		users := &fakeUserRepo{}
		svc := &DefaultAvailabilityService{Repo: repo, Users: users, Logger: zap.NewNop(), Now: fixedNow}

		_, err := svc.SaveWeek(context.Background(), "alice", testWeek, nil)
		require.NoError(t, err)
		assert.Equal(t, "alice", users.touchedID)
		assert.Equal(t, fixedNow(), users.touchedAt)
	})

	t.Run("timestamp failure does not fail the save", func(t *testing.T) {
		repo := &fakeMarkRepo{}
		users := &fakeUserRepo{touchErr: errors.New("mongo down")}
		svc := &DefaultAvailabilityService{Repo: repo, Users: users, Logger: zap.NewNop(), Now: fixedNow}

		_, err := svc.SaveWeek(context.Background(), "alice", testWeek, nil)
		assert.NoError(t, err)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		repo := &fakeMarkRepo{replaceErr: errors.New("mongo down")}
		svc := &DefaultAvailabilityService{Repo: repo, Logger: zap.NewNop(), Now: fixedNow}

		_, err := svc.SaveWeek(context.Background(), "alice", testWeek, nil)
		assert.Error(t, err)
	})
}

func TestWeekMarks(t *testing.T) {
	repo := &fakeMarkRepo{marks: []models.AvailabilityMark{
		{UserID: "alice", DayIndex: 20240613, Hour: schedule.SlotNight},
		{UserID: "bob", DayIndex: 20240613, Hour: schedule.SlotNight},
		{UserID: "alice", DayIndex: 20240620, Hour: schedule.SlotNight},
	}}
	svc := &DefaultAvailabilityService{Repo: repo, Logger: zap.NewNop(), Now: fixedNow}

	marks, err := svc.WeekMarks(context.Background(), "alice", testWeek)
	require.NoError(t, err)
	require.Len(t, marks, 1)
	assert.Equal(t, 20240613, marks[0].DayIndex)
}
