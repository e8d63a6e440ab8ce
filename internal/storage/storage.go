package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrDuplicateEventID = errors.New("event with same ID exists")
	ErrNotFoundEvent    = errors.New("event not found")
)

// Storage is the event repository. List methods return events ordered by
// start time ascending; the overlap bounds select events with
// endsAt > from AND startsAt < to.
type Storage interface {
	Connect(ctx context.Context) error
	Close(ctx context.Context) error
	AddEvent(ctx context.Context, e *Event) error
	UpdateEvent(ctx context.Context, id string, e Event) error
	RemoveEvent(ctx context.Context, id string) error
	GetEvent(ctx context.Context, id string) (Event, error)
	ListOpenings(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	ListRecurringOpenings(ctx context.Context) ([]Event, error)
	ListAppointments(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	ListAppointmentsStartingBetween(ctx context.Context, from time.Time, to time.Time) ([]Event, error)
	RemoveEventsBefore(ctx context.Context, cutoff time.Time) error
}
