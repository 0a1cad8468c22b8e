package domain

import (
	"encoding/json"
	"time"
)

// Sprint is a time-boxed grouping of features within a project. The date
// pair is ordered: start must not fall after end, enforced on every
// assignment via SetDates.
type Sprint struct {
	ID        int64      `json:"id" db:"id"`
	ProjectID int64      `json:"project_id" db:"project_id"`
	Name      string     `json:"name" db:"name"`
	StartDate *time.Time `json:"start_date" db:"start_date"`
	EndDate   *time.Time `json:"end_date" db:"end_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// SetDates replaces both endpoints at once. On ordering failure neither
// field changes, so a rejected update leaves prior values intact.
func (s *Sprint) SetDates(start, end *time.Time) error {
	r, err := NewOrderedRange(start, end)
	if err != nil {
		return err
	}
	s.StartDate = r.Start
	s.EndDate = r.End
	return nil
}

// Duration renders the sprint length, nil when either date is unset.
func (s Sprint) Duration() *string {
	return DateRange{Start: s.StartDate, End: s.EndDate}.DurationString()
}

// MarshalJSON includes the derived duration string.
func (s Sprint) MarshalJSON() ([]byte, error) {
	type alias Sprint
	return json.Marshal(struct {
		alias
		Duration *string `json:"duration"`
	}{alias(s), s.Duration()})
}
