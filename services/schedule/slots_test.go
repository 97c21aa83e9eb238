package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSlotActive(t *testing.T) {
	tests := []struct {
		name    string
		weekday time.Weekday
		hour    int
		want    bool
	}{
		{name: "afternoon on a weekday", weekday: time.Wednesday, hour: SlotAfternoon, want: true},
		{name: "afternoon on a weekend", weekday: time.Sunday, hour: SlotAfternoon, want: true},
		{name: "night on a weekday", weekday: time.Monday, hour: SlotNight, want: true},
		{name: "night on a weekend", weekday: time.Saturday, hour: SlotNight, want: true},
		{name: "morning on a weekday", weekday: time.Friday, hour: SlotMorning, want: false},
		{name: "morning on saturday", weekday: time.Saturday, hour: SlotMorning, want: true},
		{name: "morning on sunday", weekday: time.Sunday, hour: SlotMorning, want: true},
		{name: "unknown hour", weekday: time.Saturday, hour: 14, want: false},
		{name: "zero hour", weekday: time.Saturday, hour: 0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSlotActive(tt.weekday, tt.hour))
		})
	}
}

func TestSlotInstant(t *testing.T) {
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC) // a Saturday

	t.Run("defined slots stay on their own day", func(t *testing.T) {
		for _, hour := range AllSlotHours {
			instant := SlotInstant(day, hour)
			assert.Equal(t, day.Day(), instant.Day())
			assert.Equal(t, hour, instant.Hour())
		}
	})

	t.Run("small hours roll over to the next day", func(t *testing.T) {
		instant := SlotInstant(day, 1)
		assert.Equal(t, 16, instant.Day())
		assert.Equal(t, 1, instant.Hour())
	})

	t.Run("hour five is the rollover boundary", func(t *testing.T) {
		assert.Equal(t, 16, SlotInstant(day, 4).Day())
		assert.Equal(t, 15, SlotInstant(day, 5).Day())
	})

	t.Run("keeps the day's location", func(t *testing.T) {
		loc, err := time.LoadLocation("America/New_York")
		require.NoError(t, err)
		local := time.Date(2024, 6, 15, 0, 0, 0, 0, loc)
		assert.Equal(t, loc, SlotInstant(local, SlotNight).Location())
	})
}

func TestIsSlotBookable(t *testing.T) {
	saturday := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		day  time.Time
		hour int
		now  time.Time
		want bool
	}{
		{
			name: "future active slot",
			day:  saturday,
			hour: SlotAfternoon,
			now:  time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "slot already started",
			day:  saturday,
			hour: SlotAfternoon,
			now:  time.Date(2024, 6, 15, 18, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "one second before start",
			day:  saturday,
			hour: SlotNight,
			now:  time.Date(2024, 6, 15, 21, 59, 59, 0, time.UTC),
			want: true,
		},
		{
			name: "inactive weekday morning is never bookable",
			day:  monday,
			hour: SlotMorning,
			now:  time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			want: false,
		},
		{
			name: "weekend morning in the future",
			day:  saturday,
			hour: SlotMorning,
			now:  time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC),
			want: true,
		},
		{
			name: "past day",
			day:  saturday,
			hour: SlotNight,
			now:  time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSlotBookable(tt.day, tt.hour, tt.now))
		})
	}
}

func TestTimeSlotsMatchGridOrder(t *testing.T) {
	require.Len(t, TimeSlots, len(AllSlotHours))
	for i, meta := range TimeSlots {
		assert.Equal(t, AllSlotHours[i], meta.ID)
	}
}
