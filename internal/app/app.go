package app

import (
	"context"
	"sort"
	"time"

	"github.com/corentintrosseille/doctolib-test/internal/storage"
	"github.com/corentintrosseille/doctolib-test/internal/util"
)

type App struct {
	Storage      storage.Storage
	SlotDuration time.Duration
}

func New(storage storage.Storage) *App {
	return &App{Storage: storage, SlotDuration: DefaultSlotDuration}
}

// DayAvailability lists the open slot labels of one calendar day.
type DayAvailability struct {
	Date  time.Time `json:"date"`
	Slots []string  `json:"slots"`
}

func (a *App) CreateEvent(ctx context.Context, e storage.Event) (string, error) {
	if err := a.Storage.AddEvent(ctx, &e); err != nil {
		return "", err
	}
	return e.ID, nil
}

func (a *App) UpdateEvent(ctx context.Context, id string, e storage.Event) error {
	return a.Storage.UpdateEvent(ctx, id, e)
}

func (a *App) RemoveEvent(ctx context.Context, id string) error {
	return a.Storage.RemoveEvent(ctx, id)
}

func (a *App) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	return a.Storage.GetEvent(ctx, id)
}

// RecurringOpenings groups weekly-recurring openings by the weekday of their
// start time, keeping start-time order inside each group. A non-empty days
// filter drops patterns with neither boundary's weekday in the set; it lets
// Availabilities skip groups irrelevant to a short search window.
func (a *App) RecurringOpenings(ctx context.Context, days []time.Weekday) (map[time.Weekday][]storage.Event, error) {
	patterns, err := a.Storage.ListRecurringOpenings(ctx)
	if err != nil {
		return nil, err
	}

	var wanted map[time.Weekday]bool
	if len(days) > 0 {
		wanted = make(map[time.Weekday]bool, len(days))
		for _, day := range days {
			wanted[day] = true
		}
	}

	groups := make(map[time.Weekday][]storage.Event)
	for _, pattern := range patterns {
		if wanted != nil && !wanted[pattern.StartsAt.Weekday()] && !wanted[pattern.EndsAt.Weekday()] {
			continue
		}
		weekday := pattern.StartsAt.Weekday()
		groups[weekday] = append(groups[weekday], pattern)
	}
	return groups, nil
}

// Availabilities computes the open slots of every calendar day between
// searchStart and searchEnd inclusive. A zero searchStart means now; a zero
// searchEnd means searchStart plus six days. One entry is returned per day
// even when it has no slots; an inverted range returns an empty list.
func (a *App) Availabilities(ctx context.Context, searchStart time.Time, searchEnd time.Time) ([]DayAvailability, error) {
	if searchStart.IsZero() {
		searchStart = time.Now()
	}
	if searchEnd.IsZero() {
		searchEnd = searchStart.AddDate(0, 0, 6)
	}
	searchEnd = util.EndOfDay(searchEnd)

	availabilities := make([]DayAvailability, 0)
	if searchStart.After(searchEnd) {
		return availabilities, nil
	}

	availability := make(map[string][]string)

	openings, err := a.Storage.ListOpenings(ctx, searchStart, searchEnd)
	if err != nil {
		return nil, err
	}
	for _, opening := range openings {
		appendSlots(opening.StartsAt, opening.EndsAt, a.SlotDuration, availability)
	}

	// A window of seven or more days covers every weekday anyway.
	var days []time.Weekday
	if searchEnd.Sub(searchStart) < 7*24*time.Hour {
		for d := searchStart; !d.After(searchEnd); d = d.AddDate(0, 0, 1) {
			days = append(days, d.Weekday())
		}
	}
	groups, err := a.RecurringOpenings(ctx, days)
	if err != nil {
		return nil, err
	}
	for d := searchStart; !d.After(searchEnd); d = d.AddDate(0, 0, 1) {
		for _, pattern := range groups[d.Weekday()] {
			start := time.Date(
				d.Year(), d.Month(), d.Day(),
				pattern.StartsAt.Hour(), pattern.StartsAt.Minute(), 0, 0,
				d.Location())
			end := start.Add(pattern.EndsAt.Sub(pattern.StartsAt))
			appendSlots(start, end, a.SlotDuration, availability)
		}
	}

	appointments := make(map[string][]string)
	booked, err := a.Storage.ListAppointments(ctx, searchStart, searchEnd)
	if err != nil {
		return nil, err
	}
	for _, appointment := range booked {
		appendSlots(appointment.StartsAt, appointment.EndsAt, a.SlotDuration, appointments)
	}

	// Booked days without any opening have nothing to subtract from.
	for key, labels := range appointments {
		if _, ok := availability[key]; !ok {
			continue
		}
		availability[key] = subtractSlots(availability[key], labels)
	}

	for key, labels := range availability {
		sort.Strings(labels)
		availability[key] = formatSlots(labels)
	}

	for d := searchStart; !d.After(searchEnd); d = d.AddDate(0, 0, 1) {
		slots := availability[d.Format(dateKeyLayout)]
		if slots == nil {
			slots = []string{}
		}
		availabilities = append(availabilities, DayAvailability{Date: util.TruncateToDay(d), Slots: slots})
	}
	return availabilities, nil
}
