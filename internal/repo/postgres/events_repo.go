package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/charitymap/charitymap-api/internal/domain"
)

type EventsRepo interface {
	Create(ctx context.Context, in *domain.CreateEventRequest, host string, userID int64) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
	ListByOwner(ctx context.Context, userID int64) ([]domain.Event, error)
	// Update applies non-nil fields only and is scoped to the owning user,
	// so a concurrent delete surfaces as a plain not-found.
	Update(ctx context.Context, id, ownerID int64, in *domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, id, ownerID int64) (bool, error)
}

type EventsRepoImpl struct{ pool *pgxpool.Pool }

func NewEventsRepo(pool *pgxpool.Pool) *EventsRepoImpl { return &EventsRepoImpl{pool: pool} }

const eventCols = `id, name, host, date, location, latitude, longitude, description, contact_info, user_id`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.Host, &e.Date.Time, &e.Location,
		&e.Latitude, &e.Longitude, &e.Description, &e.ContactInfo, &e.UserID,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventsRepoImpl) Create(ctx context.Context, in *domain.CreateEventRequest, host string, userID int64) (*domain.Event, error) {
	const q = `INSERT INTO events (name, host, date, location, latitude, longitude, description, contact_info, user_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanEvent(r.pool.QueryRow(ctx, q,
		in.Name, host, in.Date.Time, in.Location,
		in.Latitude, in.Longitude, in.Description, in.ContactInfo, userID,
	))
}

func (r *EventsRepoImpl) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	e, err := scanEvent(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *EventsRepoImpl) List(ctx context.Context) ([]domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events ORDER BY date, id`
	return r.queryEvents(ctx, q)
}

func (r *EventsRepoImpl) ListByOwner(ctx context.Context, userID int64) ([]domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE user_id=$1 ORDER BY date, id`
	return r.queryEvents(ctx, q, userID)
}

func (r *EventsRepoImpl) queryEvents(ctx context.Context, q string, args ...any) ([]domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	es := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Host, &e.Date.Time, &e.Location,
			&e.Latitude, &e.Longitude, &e.Description, &e.ContactInfo, &e.UserID,
		); err != nil {
			return nil, err
		}
		es = append(es, e)
	}
	return es, rows.Err()
}

func (r *EventsRepoImpl) Update(ctx context.Context, id, ownerID int64, in *domain.UpdateEventRequest) (*domain.Event, error) {
	// COALESCE keeps the stored value for fields omitted from the request.
	// Host and user_id are deliberately absent from the SET list.
	const q = `UPDATE events SET
	name         = COALESCE($3, name),
	date         = COALESCE($4, date),
	location     = COALESCE($5, location),
	latitude     = COALESCE($6, latitude),
	longitude    = COALESCE($7, longitude),
	description  = COALESCE($8, description),
	contact_info = COALESCE($9, contact_info)
WHERE id=$1 AND user_id=$2
RETURNING ` + eventCols

	var date *time.Time
	if in.Date != nil {
		date = &in.Date.Time
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	e, err := scanEvent(r.pool.QueryRow(ctx, q,
		id, ownerID, in.Name, date, in.Location,
		in.Latitude, in.Longitude, in.Description, in.ContactInfo,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *EventsRepoImpl) Delete(ctx context.Context, id, ownerID int64) (bool, error) {
	const q = `DELETE FROM events WHERE id=$1 AND user_id=$2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	tag, err := r.pool.Exec(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ EventsRepo = (*EventsRepoImpl)(nil)
