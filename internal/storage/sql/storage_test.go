//go:build sql
// +build sql

package sqlstorage_test

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/corentintrosseille/doctolib-test/internal/storage"
	sqlstorage "github.com/corentintrosseille/doctolib-test/internal/storage/sql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var (
	host     = "127.0.0.1"
	port     = 5532
	database = "testing"
	username = "postgres"
	password = "pas"
)

func TestMain(m *testing.M) {
	pgHost := os.Getenv("POSTGRES_HOST")
	pgPort := os.Getenv("POSTGRES_PORT")
	if pgHost != "" {
		host = pgHost
	}
	if pgPort != "" {
		port, _ = strconv.Atoi(pgPort)
	}

	cleanupDb()
	code := m.Run()
	os.Exit(code)
}

func newEvent(kind string, startsAt, endsAt time.Time, weeklyRecurring bool) storage.Event {
	e := storage.Event{Kind: kind, StartsAt: startsAt, EndsAt: endsAt}
	if weeklyRecurring {
		e.WeeklyRecurring = &weeklyRecurring
	}
	return e
}

func TestStorage(t *testing.T) {
	ctx := context.Background()
	initDate := time.Date(2014, 8, 4, 9, 30, 0, 0, time.UTC)

	t.Run("add event", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), false)

		require.NoError(t, s.AddEvent(ctx, &e))
		require.NotEmpty(t, e.ID)

		got, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		compareEvents(t, e, got)
	})

	t.Run("update event", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), false)
		require.NoError(t, s.AddEvent(ctx, &e))

		e.Kind = storage.KindAppointment
		e.StartsAt = e.StartsAt.Add(time.Hour)
		e.EndsAt = e.EndsAt.Add(time.Hour)
		require.NoError(t, s.UpdateEvent(ctx, e.ID, e))

		got, err := s.GetEvent(ctx, e.ID)
		require.NoError(t, err)
		compareEvents(t, e, got)
	})

	t.Run("delete event", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), false)
		require.NoError(t, s.AddEvent(ctx, &e))

		require.NoError(t, s.RemoveEvent(ctx, e.ID))
		_, err := s.GetEvent(ctx, e.ID)
		require.ErrorIs(t, err, storage.ErrNotFoundEvent)
	})

	t.Run("list openings", func(t *testing.T) {
		s := createStorage(t)
		opening := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), false)
		recurring := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), true)
		appointment := newEvent(storage.KindAppointment, initDate, initDate.Add(time.Hour), false)
		outside := newEvent(storage.KindOpening, initDate.AddDate(0, 0, 7), initDate.AddDate(0, 0, 7).Add(time.Hour), false)
		for _, e := range []*storage.Event{&opening, &recurring, &appointment, &outside} {
			require.NoError(t, s.AddEvent(ctx, e))
		}

		events, err := s.ListOpenings(ctx, initDate.Add(-time.Hour), initDate.Add(24*time.Hour))
		require.NoError(t, err)
		require.Equal(t, 1, len(events))
		require.Equal(t, opening.ID, events[0].ID)

		events, err = s.ListRecurringOpenings(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, len(events))
		require.Equal(t, recurring.ID, events[0].ID)

		events, err = s.ListAppointments(ctx, initDate.Add(-time.Hour), initDate.Add(24*time.Hour))
		require.NoError(t, err)
		require.Equal(t, 1, len(events))
		require.Equal(t, appointment.ID, events[0].ID)
	})

	t.Run("list appointments starting between and purge", func(t *testing.T) {
		s := createStorage(t)
		soon := newEvent(storage.KindAppointment, initDate, initDate.Add(time.Hour), false)
		later := newEvent(storage.KindAppointment, initDate.AddDate(0, 0, 1), initDate.AddDate(0, 0, 1).Add(time.Hour), false)
		require.NoError(t, s.AddEvent(ctx, &soon))
		require.NoError(t, s.AddEvent(ctx, &later))

		events, err := s.ListAppointmentsStartingBetween(ctx, initDate, initDate.Add(time.Hour))
		require.NoError(t, err)
		require.Equal(t, 1, len(events))
		require.Equal(t, soon.ID, events[0].ID)

		require.NoError(t, s.RemoveEventsBefore(ctx, initDate.AddDate(0, 0, 1)))
		_, err = s.GetEvent(ctx, soon.ID)
		require.ErrorIs(t, err, storage.ErrNotFoundEvent)
		_, err = s.GetEvent(ctx, later.ID)
		require.NoError(t, err)
	})
}

func TestStorageNegativeCases(t *testing.T) {
	ctx := context.Background()
	initDate := time.Date(2014, 8, 4, 9, 30, 0, 0, time.UTC)

	t.Run("add event with same id", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), false)

		require.NoError(t, s.AddEvent(ctx, &e))
		require.ErrorIs(t, s.AddEvent(ctx, &e), storage.ErrDuplicateEventID)
	})

	t.Run("update not exist event", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(storage.KindOpening, initDate, initDate.Add(time.Hour), false)

		require.ErrorIs(t, s.UpdateEvent(ctx, "00000000-0000-0000-0000-000000000000", e), storage.ErrNotFoundEvent)
	})

	t.Run("delete not exist event", func(t *testing.T) {
		s := createStorage(t)

		require.ErrorIs(t, s.RemoveEvent(ctx, "00000000-0000-0000-0000-000000000000"), storage.ErrNotFoundEvent)
	})

	t.Run("off grid times rejected", func(t *testing.T) {
		s := createStorage(t)
		e := newEvent(storage.KindOpening, initDate.Add(time.Minute), initDate.Add(time.Hour), false)

		var validationErrs storage.ValidationErrors
		require.ErrorAs(t, s.AddEvent(ctx, &e), &validationErrs)
		require.Equal(t, storage.ValidationErrors{
			{Field: "startsAt", Message: "minutes must be 0 or 30"},
		}, validationErrs)
	})
}

func cleanupDb() error {
	db, err := sqlx.Connect(
		"postgres",
		fmt.Sprintf("sslmode=disable host=%s port=%d dbname=%s user=%s password=%s", host, port, database, username, password),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec("TRUNCATE TABLE events")
	return err
}

func compareEvents(t *testing.T, expected storage.Event, actual storage.Event) {
	t.Helper()
	require.True(t, expected.StartsAt.Equal(actual.StartsAt), "start time is not equals %q != %q", expected.StartsAt, actual.StartsAt)
	require.True(t, expected.EndsAt.Equal(actual.EndsAt), "end time is not equals %q != %q", expected.EndsAt, actual.EndsAt)
	require.Equal(t, expected.ID, actual.ID)
	require.Equal(t, expected.Kind, actual.Kind)
	require.Equal(t, expected.IsWeeklyRecurring(), actual.IsWeeklyRecurring())
}

func createStorage(t *testing.T) *sqlstorage.Storage {
	t.Helper()
	s := sqlstorage.New(sqlstorage.Config{
		Host:     host,
		Port:     port,
		Database: database,
		Username: username,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	require.NoError(t, s.Connect(ctx))
	t.Cleanup(func() {
		s.Close(ctx)
		require.NoError(t, cleanupDb())
	})
	return s
}
