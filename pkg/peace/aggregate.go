package peace

import (
	"cmp"
	"database/sql"
	"maps"
	"math"
	"slices"
)

// CountByCountry counts events per country code, ignoring time.
func CountByCountry(events []Event) map[string]int {
	res := make(map[string]int)
	for _, v := range events {
		res[v.CountryCode]++
	}
	return res
}

// CountByPeriod counts events per calendar month. Keys have "YYYY-MM"
// format. Events without a readable timestamp are not counted.
func CountByPeriod(events []Event) map[string]int {
	res := make(map[string]int)
	for _, v := range events {
		if v.CreatedAt.IsZero() {
			continue
		}
		res[PeriodOf(v.CreatedAt).String()]++
	}
	return res
}

// MeanByPeriod computes the mean indicator value of every period.
// If scope is not empty, only records of that country code contribute.
// Absent values are skipped, and a period without any contributing value
// is not present in the result.
func MeanByPeriod(
	metrics []MetricRecord,
	scope string,
) map[PeriodKey]float64 {
	acc := make(map[PeriodKey]*meanAcc)
	for _, v := range metrics {
		if scope != "" && v.CountryCode != scope {
			continue
		}
		f, ok := value(v.Value)
		if !ok {
			continue
		}
		p := v.Period()
		if acc[p] == nil {
			acc[p] = &meanAcc{}
		}
		acc[p].add(f)
	}

	res := make(map[PeriodKey]float64, len(acc))
	for k, v := range acc {
		res[k] = v.mean()
	}
	return res
}

// MeanByYear is MeanByPeriod aggregated by year instead of month.
func MeanByYear(metrics []MetricRecord, scope string) map[int]float64 {
	acc := make(map[int]*meanAcc)
	for _, v := range metrics {
		if scope != "" && v.CountryCode != scope {
			continue
		}
		f, ok := value(v.Value)
		if !ok {
			continue
		}
		if acc[v.Year] == nil {
			acc[v.Year] = &meanAcc{}
		}
		acc[v.Year].add(f)
	}

	res := make(map[int]float64, len(acc))
	for k, v := range acc {
		res[k] = v.mean()
	}
	return res
}

// PeriodMean is a point of the evolution series.
type PeriodMean struct {
	Period PeriodKey
	Mean   float64
}

// EvolutionSeries returns MeanByPeriod as a chronological series.
func EvolutionSeries(metrics []MetricRecord, scope string) []PeriodMean {
	means := MeanByPeriod(metrics, scope)
	keys := slices.SortedFunc(maps.Keys(means), comparePeriods)
	res := make([]PeriodMean, len(keys))
	for i, k := range keys {
		res[i] = PeriodMean{Period: k, Mean: means[k]}
	}
	return res
}

// YearMean is a point of the yearly evolution series.
type YearMean struct {
	Year int
	Mean float64
}

// YearlySeries returns MeanByYear sorted by year.
func YearlySeries(metrics []MetricRecord, scope string) []YearMean {
	means := MeanByYear(metrics, scope)
	keys := slices.Sorted(maps.Keys(means))
	res := make([]YearMean, len(keys))
	for i, k := range keys {
		res[i] = YearMean{Year: k, Mean: means[k]}
	}
	return res
}

// CountryTotal is the number of events of a country.
type CountryTotal struct {
	CountryCode string
	CountryName sql.NullString
	Total       int
}

// CountryTotals decorates CountByCountry with country names and sorts it
// by total, largest first. Equal totals are ordered by country code.
func CountryTotals(events []Event, countries []CountryInfo) []CountryTotal {
	names := nameIndex(countries)
	counts := CountByCountry(events)
	res := make([]CountryTotal, 0, len(counts))
	for code, total := range counts {
		res = append(res, CountryTotal{
			CountryCode: code,
			CountryName: names[code],
			Total:       total,
		})
	}
	slices.SortFunc(res, func(a, b CountryTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.CountryCode, b.CountryCode)
	})
	return res
}

// MonthTotal is the number of events in one calendar month.
type MonthTotal struct {
	Period string
	Total  int
}

// MonthTotals returns CountByPeriod sorted chronologically.
func MonthTotals(events []Event) []MonthTotal {
	counts := CountByPeriod(events)
	keys := slices.Sorted(maps.Keys(counts))
	res := make([]MonthTotal, len(keys))
	for i, k := range keys {
		res[i] = MonthTotal{Period: k, Total: counts[k]}
	}
	return res
}

// EventSummary is the peacekeeper counter: the total number of events,
// totals per country and totals per month.
type EventSummary struct {
	Total     int
	ByCountry []CountryTotal
	ByMonth   []MonthTotal
	// Undated is the number of events without a readable timestamp.
	Undated int
}

// SummarizeEvents builds the peacekeeper counter.
func SummarizeEvents(events []Event, countries []CountryInfo) EventSummary {
	res := EventSummary{
		Total:     len(events),
		ByCountry: CountryTotals(events, countries),
		ByMonth:   MonthTotals(events),
	}
	for _, v := range events {
		if v.CreatedAt.IsZero() {
			res.Undated++
		}
	}
	return res
}

// Periods returns distinct periods of the metrics in chronological order.
func Periods(metrics []MetricRecord) []PeriodKey {
	set := make(map[PeriodKey]struct{})
	for _, v := range metrics {
		set[v.Period()] = struct{}{}
	}
	return slices.SortedFunc(maps.Keys(set), comparePeriods)
}

// LatestPeriod returns the most recent period of the metrics.
// The second value is false when there are no metrics.
func LatestPeriod(metrics []MetricRecord) (PeriodKey, bool) {
	var res PeriodKey
	if len(metrics) == 0 {
		return res, false
	}
	res = metrics[0].Period()
	for _, v := range metrics[1:] {
		if p := v.Period(); res.Before(p) {
			res = p
		}
	}
	return res, true
}

// Years returns distinct years of the metrics in ascending order.
func Years(metrics []MetricRecord) []int {
	set := make(map[int]struct{})
	for _, v := range metrics {
		set[v.Year] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

func comparePeriods(a, b PeriodKey) int {
	if c := cmp.Compare(a.Year, b.Year); c != 0 {
		return c
	}
	return cmp.Compare(a.Month, b.Month)
}

func nameIndex(countries []CountryInfo) map[string]sql.NullString {
	res := make(map[string]sql.NullString, len(countries))
	for _, v := range countries {
		res[v.CountryCode] = sql.NullString{String: v.CountryName, Valid: true}
	}
	return res
}

// value unwraps a nullable indicator, treating NaN as absent.
func value(v sql.NullFloat64) (float64, bool) {
	if !v.Valid || math.IsNaN(v.Float64) {
		return 0, false
	}
	return v.Float64, true
}

type meanAcc struct {
	sum   float64
	count int
}

func (m *meanAcc) add(f float64) {
	m.sum += f
	m.count++
}

func (m *meanAcc) mean() float64 {
	return m.sum / float64(m.count)
}
