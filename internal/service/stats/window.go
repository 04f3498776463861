package stats

import (
	"time"

	"github.com/entdash/backoffice/internal/domain/models"
)

// Window is a half-open [Start, End) interval over created_at.
type Window struct {
	Start time.Time
	End   time.Time
}

// cycleStart returns the most recent business-day boundary at or before now:
// today at boundaryHour, or yesterday's boundary when invoked earlier than
// boundaryHour.
func cycleStart(now time.Time, boundaryHour int) time.Time {
	start := time.Date(now.Year(), now.Month(), now.Day(), boundaryHour, 0, 0, 0, now.Location())
	if now.Hour() < boundaryHour {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// WindowFor computes the dashboard stat window for a range kind. The day
// window is the current business day. Week and month windows reach back 7 and
// 30 days from the window end, so each covers exactly that many business days
// including the running one.
func WindowFor(rng models.RangeKind, now time.Time, boundaryHour int) Window {
	start := cycleStart(now, boundaryHour)
	end := start.AddDate(0, 0, 1)

	switch rng {
	case models.RangeWeek:
		return Window{Start: end.AddDate(0, 0, -7), End: end}
	case models.RangeMonth:
		return Window{Start: end.AddDate(0, 0, -30), End: end}
	default:
		return Window{Start: start, End: end}
	}
}
