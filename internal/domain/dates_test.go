package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tp(t time.Time) *time.Time { return &t }

func TestNewOrderedRange(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("start after end rejected", func(t *testing.T) {
		_, err := NewOrderedRange(tp(base.Add(time.Hour)), tp(base))
		require.Error(t, err)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "start_date", ve.Field)
	})

	t.Run("ordered pair accepted", func(t *testing.T) {
		r, err := NewOrderedRange(tp(base), tp(base.Add(time.Hour)))
		require.NoError(t, err)
		assert.Equal(t, base, *r.Start)
	})

	t.Run("equal endpoints accepted", func(t *testing.T) {
		_, err := NewOrderedRange(tp(base), tp(base))
		require.NoError(t, err)
	})

	t.Run("nil endpoints skip the check", func(t *testing.T) {
		_, err := NewOrderedRange(nil, tp(base))
		require.NoError(t, err)
		_, err = NewOrderedRange(tp(base), nil)
		require.NoError(t, err)
		_, err = NewOrderedRange(nil, nil)
		require.NoError(t, err)
	})
}

func TestDurationString(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		hours time.Duration
		want  string
	}{
		{"six hours", 6 * time.Hour, "6 hours"},
		{"eleven hours stays in hours", 11 * time.Hour, "11 hours"},
		{"twelve hours rounds to a day", 12 * time.Hour, "1 day"},
		{"one day", 24 * time.Hour, "1 day"},
		{"36 hours rounds up", 36 * time.Hour, "2 days"},
		{"one week", 7 * 24 * time.Hour, "7 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := DateRange{Start: tp(base), End: tp(base.Add(tt.hours))}
			got := r.DurationString()
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	t.Run("missing endpoint yields nil", func(t *testing.T) {
		assert.Nil(t, DateRange{Start: tp(base)}.DurationString())
		assert.Nil(t, DateRange{End: tp(base)}.DurationString())
		assert.Nil(t, DateRange{}.DurationString())
	})
}
