package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func daysAgo(now time.Time, n int, hour int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-n, hour, 0, 0, 0, now.Location())
}

func TestStreak(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		days []int
		want int
	}{
		{"no activity", nil, 0},
		{"today only", []int{0}, 1},
		{"three consecutive days then gap", []int{0, 1, 2, 4, 5}, 3},
		{"quiet today keeps yesterday's streak", []int{1, 2, 3}, 3},
		{"quiet today and yesterday", []int{2, 3}, 0},
		{"several results on one day", []int{0, 0, 0, 1}, 2},
		{"older than window", []int{31, 32}, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var activity []time.Time
			for i, d := range tc.days {
				activity = append(activity, daysAgo(now, d, 8+i%10))
			}
			assert.Equal(t, tc.want, Streak(activity, now))
		})
	}
}

func TestStreakCapsAtWindow(t *testing.T) {
	now := time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)
	var activity []time.Time
	for d := 0; d < 45; d++ {
		activity = append(activity, daysAgo(now, d, 10))
	}
	assert.Equal(t, StreakWindowDays, Streak(activity, now))
}

func TestStreakUsesCalendarDays(t *testing.T) {
	now := time.Date(2025, time.March, 14, 0, 30, 0, 0, time.UTC)
	// 23:50 yesterday is less than an hour ago but on a different date.
	activity := []time.Time{
		time.Date(2025, time.March, 13, 23, 50, 0, 0, time.UTC),
		time.Date(2025, time.March, 12, 0, 5, 0, 0, time.UTC),
	}
	assert.Equal(t, 2, Streak(activity, now))
}

func TestStreakConvertsToLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	now := time.Date(2025, time.March, 14, 10, 0, 0, 0, ist)
	// 20:00 UTC on the 13th is 01:30 IST on the 14th.
	activity := []time.Time{time.Date(2025, time.March, 13, 20, 0, 0, 0, time.UTC)}
	assert.Equal(t, 1, Streak(activity, now))
}

func TestStreakSince(t *testing.T) {
	now := time.Date(2025, time.March, 14, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, time.February, 13, 0, 0, 0, 0, time.UTC), StreakSince(now))
}
