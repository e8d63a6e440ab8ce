package memorystorage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/corentintrosseille/doctolib-test/internal/storage"
	"github.com/google/uuid"
)

type Storage struct {
	mu   sync.RWMutex
	data map[string]storage.Event
}

func New() *Storage {
	return &Storage{data: make(map[string]storage.Event)}
}

func (s *Storage) Connect(_ context.Context) error {
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	return nil
}

func (s *Storage) AddEvent(_ context.Context, e *storage.Event) error {
	if errs := storage.ValidateEventTimes(*e); errs != nil {
		return errs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[e.ID]; ok {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	s.data[e.ID] = *e
	return nil
}

func (s *Storage) UpdateEvent(_ context.Context, id string, e storage.Event) error {
	if errs := storage.ValidateEventTimes(e); errs != nil {
		return errs
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.data[id]
	if !ok {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	e.ID = id
	e.CreatedAt = old.CreatedAt
	e.UpdatedAt = time.Now()
	s.data[e.ID] = e
	return nil
}

func (s *Storage) RemoveEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[id]; !ok {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	delete(s.data, id)
	return nil
}

func (s *Storage) GetEvent(_ context.Context, id string) (storage.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[id]
	if !ok {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return e, nil
}

func (s *Storage) ListOpenings(_ context.Context, from time.Time, to time.Time) ([]storage.Event, error) {
	return s.selectEvents(func(e storage.Event) bool {
		return e.Kind == storage.KindOpening && !e.IsWeeklyRecurring() && overlaps(e, from, to)
	}), nil
}

func (s *Storage) ListRecurringOpenings(_ context.Context) ([]storage.Event, error) {
	return s.selectEvents(func(e storage.Event) bool {
		return e.Kind == storage.KindOpening && e.IsWeeklyRecurring()
	}), nil
}

func (s *Storage) ListAppointments(_ context.Context, from time.Time, to time.Time) ([]storage.Event, error) {
	return s.selectEvents(func(e storage.Event) bool {
		return e.Kind == storage.KindAppointment && overlaps(e, from, to)
	}), nil
}

func (s *Storage) ListAppointmentsStartingBetween(
	_ context.Context,
	from time.Time,
	to time.Time,
) ([]storage.Event, error) {
	return s.selectEvents(func(e storage.Event) bool {
		return e.Kind == storage.KindAppointment && !e.StartsAt.Before(from) && e.StartsAt.Before(to)
	}), nil
}

func (s *Storage) RemoveEventsBefore(_ context.Context, cutoff time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.data {
		if e.EndsAt.Before(cutoff) {
			delete(s.data, id)
		}
	}
	return nil
}

// Overlap is endsAt > from AND startsAt < to.
func overlaps(e storage.Event, from time.Time, to time.Time) bool {
	return e.EndsAt.After(from) && e.StartsAt.Before(to)
}

func (s *Storage) selectEvents(match func(storage.Event) bool) []storage.Event {
	events := make([]storage.Event, 0)
	s.mu.RLock()
	for _, event := range s.data {
		if match(event) {
			events = append(events, event)
		}
	}
	s.mu.RUnlock()
	sort.Slice(events, func(i, j int) bool {
		if !events[i].StartsAt.Equal(events[j].StartsAt) {
			return events[i].StartsAt.Before(events[j].StartsAt)
		}
		return events[i].ID < events[j].ID
	})
	return events
}
