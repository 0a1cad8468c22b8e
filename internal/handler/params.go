package handler

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trajectory-pm/trajectory/internal/domain"
)

// optionalID distinguishes an absent JSON field from an explicit null:
// absent means keep the current value, null means clear it.
type optionalID struct {
	Set   bool
	Value *int64
}

func (o *optionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

// paramID parses a numeric path parameter. Garbage reads as a missing
// resource rather than a validation failure.
func paramID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

// dateLayouts are tried in order when coercing a request string into a
// timestamp: full RFC3339 first, then a bare date.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate coerces a request string into a timestamp.
func parseDate(field, value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &domain.ValidationError{
		Field:   field,
		Message: "must be an RFC 3339 timestamp or YYYY-MM-DD date",
	}
}

// parseOptionalDate coerces a nullable request string, passing nil through.
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
