// Package peace implements the Paz Viva classification and aggregation
// pipeline: Classifier, Aggregator, Ranker and Report Assembler.
//
// All functions in this package are pure. They never read global state,
// never mutate their inputs and return freshly allocated results, so
// reports for different periods can be built concurrently.
package peace

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MetricRecord is a monthly peace index value of a country.
type MetricRecord struct {
	CountryCode string
	Year        int
	Month       int
	// Value is the indicator value in [0, 100], or null when absent.
	Value sql.NullFloat64
}

// Period returns the reporting cycle of the record.
func (m MetricRecord) Period() PeriodKey {
	return PeriodKey{Year: m.Year, Month: m.Month}
}

// CountryInfo is the metadata of a country.
type CountryInfo struct {
	CountryCode string
	CountryName string
	Latitude    sql.NullFloat64
	Longitude   sql.NullFloat64
}

// Event is a peacekeeper record: a timestamped occurrence in a country.
type Event struct {
	CountryCode string
	City        string
	// CreatedAt is zero when the timestamp could not be read.
	CreatedAt time.Time
}

// PeriodKey identifies one monthly reporting cycle.
type PeriodKey struct {
	Year  int
	Month int
}

// String returns the period as "YYYY-MM".
func (p PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// IsZero is true for the empty period.
func (p PeriodKey) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Contains reports if t falls into the calendar month of the period.
func (p PeriodKey) Contains(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return t.Year() == p.Year && int(t.Month()) == p.Month
}

// Before orders periods chronologically.
func (p PeriodKey) Before(o PeriodKey) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: int(t.Month())}
}

// ParsePeriod reads a period from "YYYY-MM" (or "YYYY-M").
func ParsePeriod(s string) (PeriodKey, error) {
	var res PeriodKey
	s = strings.TrimSpace(s)
	y, m, ok := strings.Cut(s, "-")
	if !ok {
		return res, fmt.Errorf("period %q is not in YYYY-MM format", s)
	}
	year, err := strconv.Atoi(y)
	if err != nil || len(y) != 4 || !isDigits(y) {
		return res, fmt.Errorf("period %q has invalid year", s)
	}
	month, err := strconv.Atoi(m)
	if err != nil || !isDigits(m) || len(m) > 2 || month < 1 || month > 12 {
		return res, fmt.Errorf("period %q has invalid month", s)
	}
	res = PeriodKey{Year: year, Month: month}
	return res, nil
}

// RankedRow is a metric record decorated with its rank position,
// country name and peace level.
type RankedRow struct {
	// Position is the 1-based place in the ranking. Ties do not share
	// a position.
	Position    int
	CountryCode string
	// CountryName is null when the country code has no metadata.
	CountryName sql.NullString
	Value       sql.NullFloat64
	Level       Level
}

// DisplayName returns the country name, or the code for unknown countries.
func (r RankedRow) DisplayName() string {
	if r.CountryName.Valid {
		return r.CountryName.String
	}
	return r.CountryCode
}

// isDigits is true for a non-empty string of ASCII digits only.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
