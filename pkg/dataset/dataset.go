// Package dataset defines how the dashboard data is obtained.
// Implementations of Reader live in internal/iodb.
package dataset

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pazviva/pvdash/pkg/peace"
	"golang.org/x/sync/errgroup"
)

// ErrMissingTable is wrapped by Reader methods when the underlying table
// does not exist. Load treats it as an empty collection.
var ErrMissingTable = errors.New("table does not exist")

// Reader loads the three collections the dashboard works with.
// Methods must be safe for concurrent use after Connect.
type Reader interface {
	// Connect opens the data source.
	Connect(ctx context.Context) error

	// Close releases the data source.
	Close() error

	// LoadMetrics returns all records of country_metrics.
	LoadMetrics(ctx context.Context) ([]peace.MetricRecord, error)

	// LoadCountries returns all records of country_metadata.
	LoadCountries(ctx context.Context) ([]peace.CountryInfo, error)

	// LoadEvents returns all records of peacekeepers.
	LoadEvents(ctx context.Context) ([]peace.Event, error)
}

// Snapshot is an immutable copy of the data at LoadedAt.
type Snapshot struct {
	Metrics   []peace.MetricRecord
	Countries []peace.CountryInfo
	Events    []peace.Event
	// Warnings lists collections that could not be found.
	Warnings []string
	LoadedAt time.Time
}

// Load reads all collections from a connected Reader concurrently.
func Load(ctx context.Context, r Reader) (Snapshot, error) {
	var res Snapshot
	var metricsWarn, countriesWarn, eventsWarn string

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		res.Metrics, err = r.LoadMetrics(ctx)
		metricsWarn, err = checkMissing("country_metrics", err)
		if metricsWarn != "" {
			res.Metrics = nil
		}
		return err
	})

	g.Go(func() error {
		var err error
		res.Countries, err = r.LoadCountries(ctx)
		countriesWarn, err = checkMissing("country_metadata", err)
		if countriesWarn != "" {
			res.Countries = nil
		}
		return err
	})

	g.Go(func() error {
		var err error
		res.Events, err = r.LoadEvents(ctx)
		eventsWarn, err = checkMissing("peacekeepers", err)
		if eventsWarn != "" {
			res.Events = nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}

	for _, w := range []string{metricsWarn, countriesWarn, eventsWarn} {
		if w != "" {
			res.Warnings = append(res.Warnings, w)
		}
	}
	res.LoadedAt = time.Now()

	slog.Info("Dataset loaded",
		"metrics", len(res.Metrics),
		"countries", len(res.Countries),
		"events", len(res.Events),
	)
	return res, nil
}

func checkMissing(table string, err error) (string, error) {
	if err == nil {
		return "", nil
	}
	if errors.Is(err, ErrMissingTable) {
		slog.Warn("Table is missing, using empty collection", "table", table)
		return table + " table is missing", nil
	}
	return "", err
}

// IsEmpty is true when there are no metric records.
func (s Snapshot) IsEmpty() bool {
	return len(s.Metrics) == 0
}

// LatestPeriod returns the most recent period with metrics.
func (s Snapshot) LatestPeriod() (peace.PeriodKey, bool) {
	return peace.LatestPeriod(s.Metrics)
}

// Report builds the monthly report of the period.
func (s Snapshot) Report(period peace.PeriodKey) peace.Report {
	return peace.BuildReport(s.Metrics, s.Countries, s.Events, period)
}

// Ranking ranks countries for the period.
func (s Snapshot) Ranking(period peace.PeriodKey) []peace.RankedRow {
	return peace.Rank(s.Metrics, s.Countries, period)
}
