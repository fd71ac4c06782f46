package repository

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, name, description, start_date, duration_in_minutes,
	price, enabled_for_enrollment, max_assistance, id_creator_user, id_event_location`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.StartDate,
		&e.DurationInMinutes, &e.Price, &e.EnabledForEnrollment,
		&e.MaxAssistance, &e.CreatorUserID, &e.LocationID)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(r.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// GetByFilters returns events whose name contains the given fragment,
// case-insensitively. An empty fragment returns all events. Results are
// ordered by start date descending.
func (r *EventRepository) GetByFilters(ctx context.Context, name string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []any{}
	if name != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+name+"%")
	}
	query += ` ORDER BY start_date DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// Insert stores a new event and returns the canonical record.
func (r *EventRepository) Insert(ctx context.Context, e *model.Event) (*model.Event, error) {
	created, err := scanEvent(r.db.QueryRow(ctx,
		`INSERT INTO events (name, description, start_date, duration_in_minutes,
			price, enabled_for_enrollment, max_assistance, id_creator_user, id_event_location)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+eventColumns,
		e.Name, e.Description, e.StartDate, e.DurationInMinutes,
		e.Price, e.EnabledForEnrollment, e.MaxAssistance, e.CreatorUserID, e.LocationID))
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

// Update rewrites all mutable columns of an event and returns the
// canonical record, or ErrNotFound when the id does not exist.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) (*model.Event, error) {
	updated, err := scanEvent(r.db.QueryRow(ctx,
		`UPDATE events SET
			name = $1, description = $2, start_date = $3, duration_in_minutes = $4,
			price = $5, enabled_for_enrollment = $6, max_assistance = $7, id_event_location = $8
		 WHERE id = $9
		 RETURNING `+eventColumns,
		e.Name, e.Description, e.StartDate, e.DurationInMinutes,
		e.Price, e.EnabledForEnrollment, e.MaxAssistance, e.LocationID, e.ID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

// Delete removes an event and returns the deleted record, or ErrNotFound
// when the id does not exist.
func (r *EventRepository) Delete(ctx context.Context, id int64) (*model.Event, error) {
	deleted, err := scanEvent(r.db.QueryRow(ctx,
		`DELETE FROM events WHERE id = $1 RETURNING `+eventColumns, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return deleted, nil
}
