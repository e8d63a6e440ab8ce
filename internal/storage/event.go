package storage

import (
	"time"
)

const (
	KindOpening     = "opening"
	KindAppointment = "appointment"
)

type Event struct {
	ID              string    `json:"id" db:"id"`
	StartsAt        time.Time `json:"startsAt" db:"starts_at"`
	EndsAt          time.Time `json:"endsAt" db:"ends_at"`
	Kind            string    `json:"kind" db:"kind"`
	WeeklyRecurring *bool     `json:"weeklyRecurring" db:"weekly_recurring"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// IsWeeklyRecurring treats an absent flag as false.
func (e Event) IsWeeklyRecurring() bool {
	return e.WeeklyRecurring != nil && *e.WeeklyRecurring
}
