package utils

import "time"

// DateFormat is the wire and storage format for week-start dates
const DateFormat = "2006-01-02"

// WeekStart returns the most recent Sunday at 00:00:00 in now's location,
// inclusive of today when today is Sunday. time.Date normalizes the
// day-of-month arithmetic across month and year boundaries.
func WeekStart(now time.Time) time.Time {
	diff := now.Day() - int(now.Weekday())
	return time.Date(now.Year(), now.Month(), diff, 0, 0, 0, 0, now.Location())
}

// ArchiveCutoff returns the week-start date before which tasks are
// archive-eligible: anything bucketed strictly before last week.
func ArchiveCutoff(now time.Time) time.Time {
	return WeekStart(now).AddDate(0, 0, -7)
}

// WeekRange returns the first and last day of the week starting at weekStart
func WeekRange(weekStart time.Time) (time.Time, time.Time) {
	return weekStart, weekStart.AddDate(0, 0, 6)
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
