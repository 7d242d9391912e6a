package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/chargehub/chargehub-go/internal/model"
)

var ErrStationNotFound = errors.New("charging station not found")

const stationColumns = `id, name, latitude, longitude, status, power_output, connector_type, owner_id, created_at, updated_at`

// StationRepository handles charging station persistence operations.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository creates a new StationRepository.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// Create inserts station. The caller assigns ID, owner and timestamps.
func (r *StationRepository) Create(ctx context.Context, s *model.Station) error {
	const query = `INSERT INTO charging_stations (` + stationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.Name, s.Location.Lat, s.Location.Lng, string(s.Status),
		s.PowerOutput, string(s.ConnectorType), s.OwnerID, s.CreatedAt, s.UpdatedAt,
	)
	return err
}

// List returns the stations matching filter in insertion order.
func (r *StationRepository) List(ctx context.Context, filter model.StationFilter) ([]model.Station, error) {
	var (
		where []string
		args  []any
	)
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.ConnectorType != "" {
		where = append(where, "connector_type = ?")
		args = append(args, string(filter.ConnectorType))
	}

	query := `SELECT ` + stationColumns + ` FROM charging_stations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations := []model.Station{}
	for rows.Next() {
		s, err := scanStation(rows)
		if err != nil {
			return nil, err
		}
		stations = append(stations, *s)
	}

	return stations, rows.Err()
}

// GetByID retrieves a station by its ID.
func (r *StationRepository) GetByID(ctx context.Context, id string) (*model.Station, error) {
	const query = `SELECT ` + stationColumns + ` FROM charging_stations WHERE id = ?`

	s, err := scanStation(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStationNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update overwrites the mutable columns of s. owner_id and created_at are
// never written. Concurrent updates to one row are last-write-wins.
func (r *StationRepository) Update(ctx context.Context, s *model.Station) error {
	const query = `UPDATE charging_stations
		SET name = ?, latitude = ?, longitude = ?, status = ?, power_output = ?, connector_type = ?, updated_at = ?
		WHERE id = ?`

	_, err := r.db.ExecContext(ctx, query,
		s.Name, s.Location.Lat, s.Location.Lng, string(s.Status),
		s.PowerOutput, string(s.ConnectorType), s.UpdatedAt, s.ID,
	)
	return err
}

// Delete removes the station with the given ID.
func (r *StationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM charging_stations WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStationNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStation(row rowScanner) (*model.Station, error) {
	var (
		s             model.Station
		status        string
		connectorType string
	)
	if err := row.Scan(
		&s.ID, &s.Name, &s.Location.Lat, &s.Location.Lng, &status,
		&s.PowerOutput, &connectorType, &s.OwnerID, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.Status = model.StationStatus(status)
	s.ConnectorType = model.ConnectorType(connectorType)
	return &s, nil
}
