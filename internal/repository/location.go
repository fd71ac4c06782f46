package repository

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const locationColumns = `id, name, full_address, max_capacity, latitude, longitude, id_creator_user`

// LocationRepository handles read access to event locations. The engine
// never mutates locations; they belong to a separate subsystem.
type LocationRepository struct {
	db *pgxpool.Pool
}

// NewLocationRepository constructs a LocationRepository.
func NewLocationRepository(db *pgxpool.Pool) *LocationRepository {
	return &LocationRepository{db: db}
}

func scanLocation(row pgx.Row) (*model.Location, error) {
	var l model.Location
	err := row.Scan(&l.ID, &l.Name, &l.FullAddress, &l.MaxCapacity,
		&l.Latitude, &l.Longitude, &l.CreatorUserID)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// MaxCapacity returns the fixed capacity of a location, or ErrNotFound
// when the id does not resolve.
func (r *LocationRepository) MaxCapacity(ctx context.Context, id int64) (int, error) {
	var capacity int
	err := r.db.QueryRow(ctx,
		`SELECT max_capacity FROM event_locations WHERE id = $1`, id,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("get location capacity: %w", err)
	}
	return capacity, nil
}

// GetByID returns a single location or ErrNotFound.
func (r *LocationRepository) GetByID(ctx context.Context, id int64) (*model.Location, error) {
	l, err := scanLocation(r.db.QueryRow(ctx,
		`SELECT `+locationColumns+` FROM event_locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

// ListByUser returns all locations owned by the given user.
func (r *LocationRepository) ListByUser(ctx context.Context, userID int64) ([]model.Location, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+locationColumns+` FROM event_locations WHERE id_creator_user = $1 ORDER BY id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var locations []model.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, *l)
	}
	return locations, rows.Err()
}
