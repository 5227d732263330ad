package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"kma-weather-api/internal/models"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no coordinate matches a grid pair.
var ErrNotFound = errors.New("no coordinate for grid point")

// CoordinateStore resolves administrative regions to forecast grid points.
type CoordinateStore interface {
	FindByGrid(nx, ny int) (*models.Coordinate, error)
	FindByRegion(province, city, town string) ([]models.Coordinate, error)
	Close() error
}

// SQLiteStore implements CoordinateStore on the pure Go sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path, applies the schema and
// seeds the well-known grid points when the table is empty.
func NewSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	schema := `CREATE TABLE IF NOT EXISTS coordinates (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        nx INTEGER NOT NULL,
        ny INTEGER NOT NULL,
        province TEXT,
        city TEXT,
        town TEXT
    );`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.seedIfEmpty(); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding coordinates: %w", err)
	}

	return s, nil
}

// seedCoordinates are the city-hall grid points of the major cities, enough
// for the lookup endpoints to be useful out of the box.
var seedCoordinates = []models.Coordinate{
	{Nx: 60, Ny: 127, Province: "서울특별시", City: "중구", Town: "명동"},
	{Nx: 98, Ny: 76, Province: "부산광역시", City: "중구", Town: "중앙동"},
	{Nx: 89, Ny: 90, Province: "대구광역시", City: "중구", Town: "동인동"},
	{Nx: 55, Ny: 124, Province: "인천광역시", City: "남동구", Town: "구월동"},
	{Nx: 58, Ny: 74, Province: "광주광역시", City: "서구", Town: "치평동"},
	{Nx: 67, Ny: 100, Province: "대전광역시", City: "서구", Town: "둔산동"},
	{Nx: 102, Ny: 84, Province: "울산광역시", City: "남구", Town: "신정동"},
	{Nx: 52, Ny: 38, Province: "제주특별자치도", City: "제주시", Town: "이도동"},
}

func (s *SQLiteStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM coordinates`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO coordinates(nx, ny, province, city, town) VALUES(?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, c := range seedCoordinates {
		if _, err := stmt.Exec(c.Nx, c.Ny, c.Province, c.City, c.Town); err != nil {
			tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// FindByGrid looks up the exact grid pair. Returns ErrNotFound on a miss.
func (s *SQLiteStore) FindByGrid(nx, ny int) (*models.Coordinate, error) {
	row := s.db.QueryRow(
		`SELECT id, nx, ny, province, city, town FROM coordinates WHERE nx = ? AND ny = ?`,
		nx, ny,
	)

	var c models.Coordinate
	if err := row.Scan(&c.ID, &c.Nx, &c.Ny, &c.Province, &c.City, &c.Town); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByRegion filters by any combination of province/city/town. Empty
// filters match everything.
func (s *SQLiteStore) FindByRegion(province, city, town string) ([]models.Coordinate, error) {
	query := `SELECT id, nx, ny, province, city, town FROM coordinates WHERE 1=1`
	args := make([]interface{}, 0, 3)

	if province != "" {
		query += ` AND province = ?`
		args = append(args, province)
	}
	if city != "" {
		query += ` AND city = ?`
		args = append(args, city)
	}
	if town != "" {
		query += ` AND town = ?`
		args = append(args, town)
	}
	query += ` ORDER BY id`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Coordinate, 0)
	for rows.Next() {
		var c models.Coordinate
		if err := rows.Scan(&c.ID, &c.Nx, &c.Ny, &c.Province, &c.City, &c.Town); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
