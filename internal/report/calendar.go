package report

import "time"

// StartOfMonth returns midnight of the first day of now's month, in now's
// location.
func StartOfMonth(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// StartOfWeek returns midnight of the Sunday that starts now's week, in
// now's location.
func StartOfWeek(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, now.Location())
}

// UpcomingWindow is how far ahead a deadline counts as upcoming.
const UpcomingWindow = 7 * 24 * time.Hour
