package domain

import (
	"fmt"
	"time"
)

// DateRange is an optional start/end timestamp pair shared by Sprint and
// Task. Ranges built with NewOrderedRange guarantee start <= end; Task date
// pairs carry no ordering constraint and use the zero-value constructor.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// NewOrderedRange builds a range that must not run backwards. Either
// endpoint may be nil; the ordering is only checked when both are set.
func NewOrderedRange(start, end *time.Time) (DateRange, error) {
	if start != nil && end != nil {
		if start.After(*end) {
			return DateRange{}, &ValidationError{
				Field:   "start_date",
				Message: "start date can't be after end date",
			}
		}
	}
	return DateRange{Start: start, End: end}, nil
}

// DurationString renders the span between the endpoints: spans under 12
// hours read "N hours", everything else is bucketed into whole days with
// (hours+12)/24 rounding, singular "1 day". Returns nil when either
// endpoint is missing.
func (r DateRange) DurationString() *string {
	if r.Start == nil || r.End == nil {
		return nil
	}

	totalHours := int(r.End.Sub(*r.Start).Hours())

	var s string
	if totalHours < 12 {
		s = fmt.Sprintf("%d hours", totalHours)
	} else {
		days := (totalHours + 12) / 24
		if days == 1 {
			s = "1 day"
		} else {
			s = fmt.Sprintf("%d days", days)
		}
	}
	return &s
}
