package deadline

import "time"

// FormatDate renders a date as DD/MM/YYYY for display.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// FormatTime renders the time-of-day as HH:MM for display.
func FormatTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatDateTime renders date and time as DD/MM/YYYY HH:MM.
func FormatDateTime(t time.Time) string {
	return FormatDate(t) + " " + FormatTime(t)
}
