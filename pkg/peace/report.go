package peace

import (
	"cmp"
	"database/sql"
	"slices"
)

// HighlightSize is the length of top and bottom lists of a report.
const HighlightSize = 5

// Overview summarizes a period.
type Overview struct {
	// MeanIndex is the mean indicator value of the period. It is null
	// when the period has no values.
	MeanIndex sql.NullFloat64
	// CountryCount is the number of distinct countries with records
	// in the period.
	CountryCount int
	// EventsThisPeriod is the number of events in the calendar month
	// of the period.
	EventsThisPeriod int
	// EventsTotal is the number of all events.
	EventsTotal int
}

// LevelCount is a number of countries at a peace level.
type LevelCount struct {
	Level Level
	Count int
}

// Report is the monthly report of a period.
type Report struct {
	Period   PeriodKey
	Overview Overview
	Top5     []RankedRow
	// Bottom5 is the tail of FullRanking in ranking order.
	Bottom5 []RankedRow
	// LevelDistribution has only levels with count > 0, largest first.
	LevelDistribution []LevelCount
	// Critical are the ranking rows with Critical level.
	Critical    []RankedRow
	FullRanking []RankedRow
}

// IsEmpty is true when the period has no metric records.
func (r Report) IsEmpty() bool {
	return len(r.FullRanking) == 0
}

// BuildReport assembles the report of a period from injected collections.
func BuildReport(
	metrics []MetricRecord,
	countries []CountryInfo,
	events []Event,
	period PeriodKey,
) Report {
	ranking := Rank(metrics, countries, period)

	res := Report{
		Period:            period,
		Overview:          overview(ranking, events, period),
		Top5:              Top(ranking, HighlightSize),
		Bottom5:           Bottom(ranking, HighlightSize),
		LevelDistribution: Distribution(ranking),
		Critical:          FilterLevel(ranking, Critical),
		FullRanking:       ranking,
	}
	return res
}

// Distribution counts ranking rows per level. Levels without rows are
// omitted. The result is sorted by count, largest first; equal counts
// follow the level order.
func Distribution(rows []RankedRow) []LevelCount {
	counts := make(map[Level]int)
	for _, v := range rows {
		counts[v.Level]++
	}

	var res []LevelCount
	for _, l := range Levels {
		if c := counts[l]; c > 0 {
			res = append(res, LevelCount{Level: l, Count: c})
		}
	}
	slices.SortStableFunc(res, func(a, b LevelCount) int {
		return cmp.Compare(b.Count, a.Count)
	})
	return res
}

// CountEvents returns the number of events inside the period and the
// total number of events.
func CountEvents(events []Event, period PeriodKey) (inPeriod, total int) {
	for _, v := range events {
		if period.Contains(v.CreatedAt) {
			inPeriod++
		}
	}
	return inPeriod, len(events)
}

func overview(
	ranking []RankedRow,
	events []Event,
	period PeriodKey,
) Overview {
	var res Overview

	var acc meanAcc
	codes := make(map[string]struct{})
	for _, v := range ranking {
		codes[v.CountryCode] = struct{}{}
		if f, ok := value(v.Value); ok {
			acc.add(f)
		}
	}
	if acc.count > 0 {
		res.MeanIndex = sql.NullFloat64{Float64: acc.mean(), Valid: true}
	}
	res.CountryCount = len(codes)
	res.EventsThisPeriod, res.EventsTotal = CountEvents(events, period)
	return res
}
