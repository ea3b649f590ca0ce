package iodb

import (
	"context"
	"database/sql"
	"os"

	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/pazviva/pvdash/pkg/schema"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// sqliteReader reads a local paz.db file.
type sqliteReader struct {
	path string
	db   *sql.DB
}

// NewSQLiteReader creates a reader of a SQLite file (without opening it).
func NewSQLiteReader(path string) dataset.Reader {
	return &sqliteReader{path: path}
}

// Connect opens the SQLite file. The file must exist.
func (s *sqliteReader) Connect(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return SQLiteOpenError(s.path, err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return SQLiteOpenError(s.path, err)
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return SQLiteOpenError(s.path, err)
	}

	s.db = db
	return nil
}

// Close releases the database handle.
func (s *sqliteReader) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *sqliteReader) tableExists(
	ctx context.Context,
	table string,
) (bool, error) {
	if s.db == nil {
		return false, NotConnectedError()
	}

	q := `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`
	var n int
	if err := s.db.QueryRowContext(ctx, q, table).Scan(&n); err != nil {
		return false, TableExistsCheckError(table, err)
	}
	return n > 0, nil
}

// query runs q against table if it exists and calls scan for every row.
func (s *sqliteReader) query(
	ctx context.Context,
	table, q string,
	scan func(*sql.Rows) error,
) error {
	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return missingTable(table)
	}

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return QueryError(table, err)
	}
	defer rows.Close()

	for rows.Next() {
		if err = scan(rows); err != nil {
			return ScanError(table, err)
		}
	}
	if err = rows.Err(); err != nil {
		return QueryError(table, err)
	}
	return nil
}

func (s *sqliteReader) LoadMetrics(
	ctx context.Context,
) ([]peace.MetricRecord, error) {
	var rows []schema.CountryMetric
	q := `SELECT id, country_code, year, month, indicator_value
    FROM country_metrics ORDER BY id`
	err := s.query(ctx, "country_metrics", q, func(r *sql.Rows) error {
		var m schema.CountryMetric
		err := r.Scan(&m.ID, &m.CountryCode, &m.Year, &m.Month,
			&m.IndicatorValue)
		rows = append(rows, m)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toMetrics(rows), nil
}

func (s *sqliteReader) LoadCountries(
	ctx context.Context,
) ([]peace.CountryInfo, error) {
	var rows []schema.CountryMetadata
	q := `SELECT country_code, country_name, latitude, longitude
    FROM country_metadata`
	err := s.query(ctx, "country_metadata", q, func(r *sql.Rows) error {
		var c schema.CountryMetadata
		var name sql.NullString
		err := r.Scan(&c.CountryCode, &name, &c.Latitude, &c.Longitude)
		c.CountryName = name.String
		rows = append(rows, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toCountries(rows), nil
}

func (s *sqliteReader) LoadEvents(
	ctx context.Context,
) ([]peace.Event, error) {
	var rows []schema.Peacekeeper
	q := `SELECT id, country_code, city, latitude, longitude, created_at
    FROM peacekeepers ORDER BY id`
	err := s.query(ctx, "peacekeepers", q, func(r *sql.Rows) error {
		var p schema.Peacekeeper
		err := r.Scan(&p.ID, &p.CountryCode, &p.City, &p.Latitude,
			&p.Longitude, &p.CreatedAt)
		rows = append(rows, p)
		return err
	})
	if err != nil {
		return nil, err
	}
	return toEvents(rows), nil
}
