// Package deadline computes day-granularity deadline urgency for tasks.
// All functions are pure; callers inject "now" so classification is
// deterministic and testable.
package deadline

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/foxlist/internal/models"
)

// Status is the urgency classification of a task deadline.
type Status string

const (
	StatusNoDeadline Status = "no-deadline"
	StatusError      Status = "error"
	StatusOverdue    Status = "overdue"
	StatusToday      Status = "today"
	StatusWarning    Status = "warning"
	StatusOK         Status = "ok"
)

// Alert is a display-ready classification of a deadline.
// Severity orders alerts for the UI: overdue 4, today 3, warning 2,
// ok 1, no-deadline and error 0.
type Alert struct {
	Status     Status
	Message    string
	Severity   int
	Icon       string
	Color      string
	Background string
}

// layouts accepted for stored deadline values, most specific first.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses a stored deadline string. Returns the zero time and
// false when the value matches no accepted layout.
func ParseDate(s string) (time.Time, bool) {
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// truncateToDay drops the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayDifference returns the number of calendar days from a to b,
// computed on day-truncated values via ceiling division of the
// millisecond difference. DayDifference(a, a) == 0; the sign follows
// b - a.
func DayDifference(a, b time.Time) int {
	const dayMs = 24 * 60 * 60 * 1000
	diff := truncateToDay(b).Sub(truncateToDay(a)).Milliseconds()
	return int(math.Ceil(float64(diff) / dayMs))
}

// Classify maps a stored deadline value to an Alert, evaluated against
// now truncated to the current day. Malformed input never panics or
// errors; it classifies as StatusError.
func Classify(value string, now time.Time) Alert {
	if value == "" || value == models.NoDeadline {
		return Alert{
			Status:     StatusNoDeadline,
			Message:    "Sem prazo definido",
			Severity:   0,
			Color:      "#666",
			Background: "#E0E0E0",
		}
	}

	due, ok := ParseDate(value)
	if !ok {
		return Alert{
			Status:     StatusError,
			Message:    "Data inválida",
			Severity:   0,
			Color:      "#666",
			Background: "#E0E0E0",
		}
	}

	days := DayDifference(now, due)

	switch {
	case days < 0:
		return Alert{
			Status:     StatusOverdue,
			Message:    fmt.Sprintf("Atrasado há %d dia(s)", -days),
			Severity:   4,
			Icon:       "🔴",
			Color:      "#FFF",
			Background: "#FF3B30",
		}
	case days == 0:
		return Alert{
			Status:     StatusToday,
			Message:    "Vence hoje!",
			Severity:   3,
			Icon:       "🟠",
			Color:      "#FFF",
			Background: "#FF9500",
		}
	case days <= 3:
		return Alert{
			Status:     StatusWarning,
			Message:    fmt.Sprintf("Vence em %d dia(s)", days),
			Severity:   2,
			Icon:       "🟡",
			Color:      "#000",
			Background: "#FFD60A",
		}
	default:
		return Alert{
			Status:     StatusOK,
			Message:    fmt.Sprintf("Vence em %d dia(s)", days),
			Severity:   1,
			Icon:       "🟢",
			Color:      "#FFF",
			Background: "#34C759",
		}
	}
}
