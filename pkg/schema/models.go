// Package schema provides database models of the Paz Viva tables.
// Models describe both SQLite DDL (for local datasets and fixtures) and
// GORM mappings (for PostgreSQL).
package schema

import (
	"database/sql"
	"strings"
	"time"

	"github.com/gnames/gnlib"
	"github.com/pazviva/pvdash/pkg/peace"
)

// DDLGenerator defines how Go models generate SQLite DDL.
type DDLGenerator interface {
	// TableDDL returns the CREATE TABLE statement for this model.
	TableDDL() string

	// IndexDDL returns CREATE INDEX statements for this model.
	// Returns empty slice if no indexes needed.
	IndexDDL() []string

	// TableName returns the table name for this model.
	TableName() string
}

// CountryMetadata stores names and coordinates of countries.
type CountryMetadata struct {
	// CountryCode is an ISO-3166 alpha-2 code.
	CountryCode string `db:"country_code" ddl:"TEXT PRIMARY KEY" gorm:"primaryKey;type:text"`

	// CountryName is the display name.
	CountryName string `db:"country_name" ddl:"TEXT NOT NULL" gorm:"type:text;not null"`

	Latitude  sql.NullFloat64 `db:"latitude" ddl:"REAL" gorm:"type:double precision"`
	Longitude sql.NullFloat64 `db:"longitude" ddl:"REAL" gorm:"type:double precision"`
}

// Peacekeeper is a registered participant ("sun") of the movement.
type Peacekeeper struct {
	ID          int             `db:"id" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT" gorm:"primaryKey;autoIncrement"`
	CountryCode sql.NullString  `db:"country_code" ddl:"TEXT" gorm:"type:text;index"`
	City        sql.NullString  `db:"city" ddl:"TEXT" gorm:"type:text"`
	Latitude    sql.NullFloat64 `db:"latitude" ddl:"REAL" gorm:"type:double precision"`
	Longitude   sql.NullFloat64 `db:"longitude" ddl:"REAL" gorm:"type:double precision"`

	// CreatedAt is kept as text, the way it was written by data
	// collection scripts. See ParseTimestamp for accepted layouts.
	CreatedAt sql.NullString `db:"created_at" ddl:"TEXT" gorm:"column:created_at;type:text;autoCreateTime:false"`
}

// CountryMetric is a monthly peace index value of a country.
type CountryMetric struct {
	ID             int             `db:"id" ddl:"INTEGER PRIMARY KEY AUTOINCREMENT" gorm:"primaryKey;autoIncrement"`
	CountryCode    sql.NullString  `db:"country_code" ddl:"TEXT" gorm:"type:text;index:idx_metrics_period,priority:3"`
	Year           sql.NullInt64   `db:"year" ddl:"INTEGER" gorm:"index:idx_metrics_period,priority:1"`
	Month          sql.NullInt64   `db:"month" ddl:"INTEGER" gorm:"index:idx_metrics_period,priority:2"`
	IndicatorValue sql.NullFloat64 `db:"indicator_value" ddl:"REAL" gorm:"type:double precision"`
}

// ToCountryInfo converts the model to the pipeline type.
func (c CountryMetadata) ToCountryInfo() peace.CountryInfo {
	return peace.CountryInfo{
		CountryCode: normCode(c.CountryCode),
		CountryName: strings.TrimSpace(gnlib.FixUtf8(c.CountryName)),
		Latitude:    c.Latitude,
		Longitude:   c.Longitude,
	}
}

// ToMetricRecord converts the model to the pipeline type.
// Missing year or month become 0 and never match a period.
func (m CountryMetric) ToMetricRecord() peace.MetricRecord {
	return peace.MetricRecord{
		CountryCode: normCode(m.CountryCode.String),
		Year:        int(m.Year.Int64),
		Month:       int(m.Month.Int64),
		Value:       m.IndicatorValue,
	}
}

// ToEvent converts the model to the pipeline type. The boolean is false
// when created_at could not be parsed, the event then has zero time.
func (p Peacekeeper) ToEvent() (peace.Event, bool) {
	ts, ok := ParseTimestamp(p.CreatedAt.String)
	res := peace.Event{
		CountryCode: normCode(p.CountryCode.String),
		City:        strings.TrimSpace(gnlib.FixUtf8(p.City.String)),
		CreatedAt:   ts,
	}
	return res, ok
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	time.DateOnly,
}

// ParseTimestamp reads created_at values. It returns zero time and false
// for empty or unrecognized strings.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// normCode only trims the code, the join on country codes is exact.
func normCode(s string) string {
	return strings.TrimSpace(s)
}
