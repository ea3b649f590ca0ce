package iotesting

import (
	"database/sql"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pazviva/pvdash/pkg/schema"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGo)
)

// Fixture is the content of a test dataset.
type Fixture struct {
	Countries    []schema.CountryMetadata
	Metrics      []schema.CountryMetric
	Peacekeepers []schema.Peacekeeper
	// SkipTables are not created at all.
	SkipTables []string
}

// DefaultFixture returns a small dataset with two periods.
//
// January 2030 ranking: PT 100, BR 95, JP 85, US 70, XX 40 (XX has
// no metadata). The mean is 78. February 2030 has BR 96, PT 99 and a
// null value of US. Two of four peacekeepers belong to January 2030,
// one has an unreadable timestamp.
func DefaultFixture() Fixture {
	return Fixture{
		Countries: []schema.CountryMetadata{
			country("BR", "Brasil", -14.2, -51.9),
			country("PT", "Portugal", 39.4, -8.2),
			country("US", "Estados Unidos", 37.1, -95.7),
			{CountryCode: "JP", CountryName: "Japão"},
		},
		Metrics: []schema.CountryMetric{
			metric("PT", 2030, 1, 100),
			metric("BR", 2030, 1, 95),
			metric("JP", 2030, 1, 85),
			metric("US", 2030, 1, 70),
			metric("XX", 2030, 1, 40),
			metric("BR", 2030, 2, 96),
			metric("PT", 2030, 2, 99),
			{
				CountryCode: str("US"),
				Year:        sql.NullInt64{Int64: 2030, Valid: true},
				Month:       sql.NullInt64{Int64: 2, Valid: true},
			},
		},
		Peacekeepers: []schema.Peacekeeper{
			peacekeeper("BR", "Rio de Janeiro", "2030-01-05 10:00:00"),
			peacekeeper("BR", "Recife", "2030-01-20 12:00:00"),
			peacekeeper("PT", "Lisboa", "2030-02-01T09:00:00"),
			peacekeeper("US", "Boston", "sometime"),
		},
	}
}

// NewSQLiteDataset writes the fixture to paz.db in a temporary
// directory and returns the path of the file.
func NewSQLiteDataset(t *testing.T, fx Fixture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "paz.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create SQLite dataset: %v", err)
	}
	defer db.Close()

	for _, m := range schema.DDLModels() {
		if slices.Contains(fx.SkipTables, m.TableName()) {
			continue
		}
		stmts := append([]string{m.TableDDL()}, m.IndexDDL()...)
		for _, s := range stmts {
			if _, err = db.Exec(s); err != nil {
				t.Fatalf("Failed to run %q: %v", s, err)
			}
		}
	}

	exec := func(table, q string, args ...any) {
		if slices.Contains(fx.SkipTables, table) {
			return
		}
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatalf("Failed to insert into %s: %v", table, err)
		}
	}

	for _, c := range fx.Countries {
		exec("country_metadata", `INSERT INTO country_metadata
      (country_code, country_name, latitude, longitude)
      VALUES (?, ?, ?, ?)`,
			c.CountryCode, c.CountryName, c.Latitude, c.Longitude)
	}
	for _, m := range fx.Metrics {
		exec("country_metrics", `INSERT INTO country_metrics
      (country_code, year, month, indicator_value) VALUES (?, ?, ?, ?)`,
			m.CountryCode, m.Year, m.Month, m.IndicatorValue)
	}
	for _, p := range fx.Peacekeepers {
		exec("peacekeepers", `INSERT INTO peacekeepers
      (country_code, city, latitude, longitude, created_at)
      VALUES (?, ?, ?, ?, ?)`,
			p.CountryCode, p.City, p.Latitude, p.Longitude, p.CreatedAt)
	}

	return path
}

func str(s string) sql.NullString {
	return sql.NullString{String: s, Valid: true}
}

func float(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}

func country(code, name string, lat, lon float64) schema.CountryMetadata {
	return schema.CountryMetadata{
		CountryCode: code,
		CountryName: name,
		Latitude:    float(lat),
		Longitude:   float(lon),
	}
}

func metric(code string, year, month int, v float64) schema.CountryMetric {
	return schema.CountryMetric{
		CountryCode:    str(code),
		Year:           sql.NullInt64{Int64: int64(year), Valid: true},
		Month:          sql.NullInt64{Int64: int64(month), Valid: true},
		IndicatorValue: float(v),
	}
}

func peacekeeper(code, city, created string) schema.Peacekeeper {
	return schema.Peacekeeper{
		CountryCode: str(code),
		City:        str(city),
		CreatedAt:   str(created),
	}
}
