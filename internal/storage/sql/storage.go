package sqlstorage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corentintrosseille/doctolib-test/internal/storage"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
)

var ErrConnectionFailed = errors.New("failed to connect")

const dbErrUniqueViolation = "23505"

const eventColumns = "id, starts_at, ends_at, kind, weekly_recurring, created_at, updated_at"

type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
}

type Storage struct {
	host     string
	port     int
	database string
	username string
	password string
	db       *sqlx.DB
}

func New(config Config) *Storage {
	return &Storage{
		host:     config.Host,
		port:     config.Port,
		database: config.Database,
		username: config.Username,
		password: config.Password,
	}
}

func (s *Storage) Connect(ctx context.Context) error {
	db, err := sqlx.ConnectContext(
		ctx,
		"postgres",
		fmt.Sprintf(
			"sslmode=disable host=%s port=%d dbname=%s user=%s password=%s",
			s.host, s.port, s.database, s.username, s.password),
	)
	if err != nil {
		log.Errorf("failed to connect: %v", err)
		return ErrConnectionFailed
	}
	s.db = db
	return nil
}

func (s *Storage) Close(_ context.Context) error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}

func (s *Storage) AddEvent(ctx context.Context, e *storage.Event) error {
	if errs := storage.ValidateEventTimes(*e); errs != nil {
		return errs
	}

	var err error
	switch e.ID {
	case "":
		err = s.db.GetContext(
			ctx,
			&e.ID,
			"INSERT INTO events(starts_at, ends_at, kind, weekly_recurring) "+
				"VALUES($1, $2, $3, $4) RETURNING id",
			e.StartsAt, e.EndsAt, e.Kind, e.WeeklyRecurring)
	default:
		_, err = s.db.ExecContext(
			ctx,
			"INSERT INTO events(id, starts_at, ends_at, kind, weekly_recurring) "+
				"VALUES($1, $2, $3, $4, $5)",
			e.ID, e.StartsAt, e.EndsAt, e.Kind, e.WeeklyRecurring)
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == dbErrUniqueViolation {
		return fmt.Errorf("duplicate ID %q: %w", e.ID, storage.ErrDuplicateEventID)
	}

	return err
}

func (s *Storage) UpdateEvent(ctx context.Context, id string, e storage.Event) error {
	if errs := storage.ValidateEventTimes(e); errs != nil {
		return errs
	}

	var found bool
	err := s.db.GetContext(
		ctx,
		&found,
		"UPDATE events SET starts_at=$2, ends_at=$3, kind=$4, weekly_recurring=$5, updated_at=now() "+
			"WHERE id=$1 RETURNING TRUE",
		id,
		e.StartsAt,
		e.EndsAt,
		e.Kind,
		e.WeeklyRecurring,
	)

	if !found {
		return fmt.Errorf("failed to update event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return err
}

func (s *Storage) RemoveEvent(ctx context.Context, id string) error {
	var found bool
	err := s.db.GetContext(ctx, &found, "DELETE FROM events WHERE id=$1 RETURNING TRUE", id)

	if !found {
		return fmt.Errorf("failed to remove event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return err
}

func (s *Storage) GetEvent(ctx context.Context, id string) (storage.Event, error) {
	var e storage.Event
	err := s.db.GetContext(ctx, &e, "SELECT "+eventColumns+" FROM events WHERE id=$1", id)
	if err != nil {
		return storage.Event{}, fmt.Errorf("failed to get event with id %q: %w", id, storage.ErrNotFoundEvent)
	}
	return e, nil
}

func (s *Storage) ListOpenings(ctx context.Context, from time.Time, to time.Time) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events "+
			"WHERE kind=$1 AND weekly_recurring IS NOT TRUE AND ends_at > $2 AND starts_at < $3 "+
			"ORDER BY starts_at",
		storage.KindOpening,
		from,
		to,
	)
	return events, err
}

func (s *Storage) ListRecurringOpenings(ctx context.Context) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events "+
			"WHERE kind=$1 AND weekly_recurring IS TRUE ORDER BY starts_at",
		storage.KindOpening,
	)
	return events, err
}

func (s *Storage) ListAppointments(ctx context.Context, from time.Time, to time.Time) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events "+
			"WHERE kind=$1 AND ends_at > $2 AND starts_at < $3 ORDER BY starts_at",
		storage.KindAppointment,
		from,
		to,
	)
	return events, err
}

func (s *Storage) ListAppointmentsStartingBetween(
	ctx context.Context,
	from time.Time,
	to time.Time,
) ([]storage.Event, error) {
	var events []storage.Event
	err := s.db.SelectContext(
		ctx,
		&events,
		"SELECT "+eventColumns+" FROM events "+
			"WHERE kind=$1 AND starts_at >= $2 AND starts_at < $3 ORDER BY starts_at",
		storage.KindAppointment,
		from,
		to,
	)
	return events, err
}

func (s *Storage) RemoveEventsBefore(ctx context.Context, cutoff time.Time) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE ends_at < $1", cutoff)
	return err
}
