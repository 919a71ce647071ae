package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// 2025-03-10 é uma segunda-feira.
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 10, hour, minute, 0, 0, time.UTC)
}

func hourBooking(hour int) Interval {
	return Interval{Start: at(hour, 0), End: at(hour+1, 0)}
}

func TestGenerateSlots(t *testing.T) {
	morning := &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: true}

	tests := []struct {
		name     string
		entry    *WeeklyEntry
		booked   []Interval
		date     time.Time
		duration time.Duration
		want     []string
	}{
		{
			name:     "no bookings",
			entry:    morning,
			date:     monday,
			duration: time.Hour,
			want:     []string{"09:00", "10:00", "11:00"},
		},
		{
			name:     "last slot booked",
			entry:    morning,
			booked:   []Interval{hourBooking(11)},
			date:     monday,
			duration: time.Hour,
			want:     []string{"09:00", "10:00"},
		},
		{
			name:     "every slot booked",
			entry:    morning,
			booked:   []Interval{hourBooking(9), hourBooking(10), hourBooking(11)},
			date:     monday,
			duration: time.Hour,
			want:     []string{},
		},
		{
			name:     "off-grid booking blocks both overlapped slots",
			entry:    morning,
			booked:   []Interval{{Start: at(9, 30), End: at(10, 30)}},
			date:     monday,
			duration: time.Hour,
			want:     []string{"11:00"},
		},
		{
			name:     "booking touching the slot edge does not block",
			entry:    morning,
			booked:   []Interval{{Start: at(8, 0), End: at(9, 0)}},
			date:     monday,
			duration: time.Hour,
			want:     []string{"09:00", "10:00", "11:00"},
		},
		{
			name:     "no partial trailing slot",
			entry:    &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "11:30", IsAvailable: true},
			date:     monday,
			duration: time.Hour,
			want:     []string{"09:00", "10:00"},
		},
		{
			name:     "half hour duration",
			entry:    &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:30", IsAvailable: true},
			date:     monday,
			duration: 30 * time.Minute,
			want:     []string{"09:00", "09:30", "10:00"},
		},
		{
			name:     "window shorter than duration",
			entry:    &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "09:45", IsAvailable: true},
			date:     monday,
			duration: time.Hour,
			want:     []string{},
		},
		{
			name:     "absent entry",
			entry:    nil,
			booked:   []Interval{hourBooking(9)},
			date:     monday,
			duration: time.Hour,
			want:     []string{},
		},
		{
			name:     "unavailable entry",
			entry:    &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", IsAvailable: false},
			date:     monday,
			duration: time.Hour,
			want:     []string{},
		},
		{
			name:     "weekday mismatch",
			entry:    morning,
			date:     monday.AddDate(0, 0, 1),
			duration: time.Hour,
			want:     []string{},
		},
		{
			name:     "zero duration",
			entry:    morning,
			date:     monday,
			duration: 0,
			want:     []string{},
		},
		{
			name:     "negative duration",
			entry:    morning,
			date:     monday,
			duration: -time.Hour,
			want:     []string{},
		},
		{
			name:     "HH:MM:SS window",
			entry:    &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00:00", EndTime: "11:00:00", IsAvailable: true},
			date:     monday,
			duration: time.Hour,
			want:     []string{"09:00", "10:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateSlots(tt.entry, tt.booked, tt.date, tt.duration)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, FormatSlots(got))
		})
	}
}

func TestGenerateSlotsRemovingOneBookingFreesExactlyThatSlot(t *testing.T) {
	entry := &WeeklyEntry{DayOfWeek: 1, StartTime: "08:00", EndTime: "14:00", IsAvailable: true}
	all := []Interval{}
	for h := 8; h < 14; h++ {
		all = append(all, hourBooking(h))
	}

	assert.Empty(t, GenerateSlots(entry, all, monday, time.Hour))

	for i := range all {
		rest := append(append([]Interval{}, all[:i]...), all[i+1:]...)
		got := GenerateSlots(entry, rest, monday, time.Hour)
		if assert.Len(t, got, 1) {
			assert.True(t, got[0].Equal(all[i].Start))
		}
	}
}

func TestGenerateSlotsDeterministic(t *testing.T) {
	entry := &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "17:00", IsAvailable: true}
	booked := []Interval{hourBooking(13), hourBooking(10)}

	first := GenerateSlots(entry, booked, monday, time.Hour)
	second := GenerateSlots(entry, booked, monday, time.Hour)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Before(first[i]))
	}
}

func TestGenerateSlotsUsesDateLocation(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, loc)
	entry := &WeeklyEntry{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00", IsAvailable: true}

	got := GenerateSlots(entry, nil, date, time.Hour)
	if assert.Len(t, got, 1) {
		assert.Equal(t, loc, got[0].Location())
		assert.Equal(t, 12, got[0].UTC().Hour())
	}
}
