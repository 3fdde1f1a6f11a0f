package quiz

import "time"

// StreakWindowDays bounds how far back a streak is scanned.
const StreakWindowDays = 30

const dayKeyLayout = "2006-01-02"

// Streak counts consecutive calendar days with at least one activity,
// walking back from the day of now in now's location. A quiet today does
// not break a streak that runs through yesterday; any other quiet day ends
// the scan.
func Streak(activity []time.Time, now time.Time) int {
	loc := now.Location()
	days := make(map[string]struct{}, len(activity))
	for _, t := range activity {
		days[t.In(loc).Format(dayKeyLayout)] = struct{}{}
	}

	y, m, d := now.Date()
	streak := 0
	for i := 0; i < StreakWindowDays; i++ {
		day := time.Date(y, m, d-i, 12, 0, 0, 0, loc)
		if _, ok := days[day.Format(dayKeyLayout)]; ok {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

// StreakSince is the earliest instant Streak can look at for now.
func StreakSince(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d-(StreakWindowDays-1), 0, 0, 0, 0, now.Location())
}
