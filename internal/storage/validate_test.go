package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func eventAt(start, end time.Time) Event {
	return Event{Kind: KindOpening, StartsAt: start, EndsAt: end}
}

func TestValidateEventTimes(t *testing.T) {
	day := time.Date(2014, 8, 4, 0, 0, 0, 0, time.UTC)
	at := func(hour, min, sec int) time.Time {
		return day.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute + time.Duration(sec)*time.Second)
	}

	t.Run("valid on the half hour", func(t *testing.T) {
		require.Nil(t, ValidateEventTimes(eventAt(at(9, 30, 0), at(12, 0, 0))))
	})

	t.Run("start minutes off grid", func(t *testing.T) {
		errs := ValidateEventTimes(eventAt(at(9, 31, 0), at(12, 30, 0)))
		require.Equal(t, ValidationErrors{{Field: "startsAt", Message: "minutes must be 0 or 30"}}, errs)
	})

	t.Run("end seconds off grid", func(t *testing.T) {
		errs := ValidateEventTimes(eventAt(at(9, 30, 0), at(12, 30, 42)))
		require.Equal(t, ValidationErrors{{Field: "endsAt", Message: "seconds must be 0"}}, errs)
	})

	t.Run("both rules reported for one field", func(t *testing.T) {
		errs := ValidateEventTimes(eventAt(at(9, 31, 42), at(12, 30, 0)))
		require.Equal(t, ValidationErrors{
			{Field: "startsAt", Message: "minutes must be 0 or 30"},
			{Field: "startsAt", Message: "seconds must be 0"},
		}, errs)
	})

	t.Run("both fields reported", func(t *testing.T) {
		errs := ValidateEventTimes(eventAt(at(9, 15, 0), at(12, 45, 0)))
		require.Equal(t, ValidationErrors{
			{Field: "startsAt", Message: "minutes must be 0 or 30"},
			{Field: "endsAt", Message: "minutes must be 0 or 30"},
		}, errs)
	})

	t.Run("inverted interval is not rejected", func(t *testing.T) {
		require.Nil(t, ValidateEventTimes(eventAt(at(12, 30, 0), at(9, 0, 0))))
	})
}
