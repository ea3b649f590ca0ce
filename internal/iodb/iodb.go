// Package iodb implements dataset.Reader for SQLite and PostgreSQL.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"fmt"
	"log/slog"

	"github.com/pazviva/pvdash/pkg/config"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/pazviva/pvdash/pkg/schema"
)

// New returns a reader for the configured driver (without connecting).
func New(cfg *config.DatabaseConfig) (dataset.Reader, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLiteReader(cfg.Path), nil
	case "postgres":
		return NewPgxReader(cfg), nil
	}
	return nil, UnknownDriverError(cfg.Driver)
}

// Describe returns a human-readable name of the data source.
func Describe(cfg *config.DatabaseConfig) string {
	if cfg.Driver == "postgres" {
		return fmt.Sprintf("%s@%s:%d/%s",
			cfg.User, cfg.Host, cfg.Port, cfg.Database)
	}
	return cfg.Path
}

func missingTable(table string) error {
	return fmt.Errorf("%s: %w", table, dataset.ErrMissingTable)
}

func toMetrics(rows []schema.CountryMetric) []peace.MetricRecord {
	res := make([]peace.MetricRecord, len(rows))
	for i := range rows {
		res[i] = rows[i].ToMetricRecord()
	}
	return res
}

func toCountries(rows []schema.CountryMetadata) []peace.CountryInfo {
	res := make([]peace.CountryInfo, len(rows))
	for i := range rows {
		res[i] = rows[i].ToCountryInfo()
	}
	return res
}

func toEvents(rows []schema.Peacekeeper) []peace.Event {
	res := make([]peace.Event, len(rows))
	var bad int
	for i := range rows {
		var ok bool
		res[i], ok = rows[i].ToEvent()
		if !ok {
			bad++
			slog.Debug("Cannot parse peacekeeper timestamp",
				"id", rows[i].ID, "created_at", rows[i].CreatedAt.String)
		}
	}
	if bad > 0 {
		slog.Warn("Peacekeepers without valid timestamp",
			"count", bad,
			"note", "counted in totals, skipped in monthly counts")
	}
	return res
}
