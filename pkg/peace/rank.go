package peace

import (
	"cmp"
	"log/slog"
	"slices"
)

// Rank builds the ranking of a period.
//
// Records of the period are joined with country metadata (unknown codes
// keep a null name), classified and sorted by value, highest first.
// Equal values keep their input order, absent values go last in input
// order. Positions are consecutive integers starting at 1.
func Rank(
	metrics []MetricRecord,
	countries []CountryInfo,
	period PeriodKey,
) []RankedRow {
	names := nameIndex(countries)

	var res []RankedRow
	for _, v := range metrics {
		if v.Period() != period {
			continue
		}
		name, known := names[v.CountryCode]
		if !known {
			slog.Warn("Unknown country code",
				"country_code", v.CountryCode, "period", period.String())
		}
		if f, ok := value(v.Value); ok && !InRange(f) {
			slog.Warn("Indicator value out of range",
				"country_code", v.CountryCode,
				"period", period.String(),
				"value", f,
			)
		}
		res = append(res, RankedRow{
			CountryCode: v.CountryCode,
			CountryName: name,
			Value:       v.Value,
			Level:       Classify(v.Value),
		})
	}

	slices.SortStableFunc(res, compareRows)
	for i := range res {
		res[i].Position = i + 1
	}
	return res
}

// compareRows sorts present values descending and absent values last.
func compareRows(a, b RankedRow) int {
	fa, okA := value(a.Value)
	fb, okB := value(b.Value)
	switch {
	case okA && okB:
		return cmp.Compare(fb, fa)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

// Top returns up to n first rows of a ranking.
func Top(rows []RankedRow, n int) []RankedRow {
	n = max(0, min(n, len(rows)))
	return slices.Clone(rows[:n])
}

// Bottom returns up to n last rows of a ranking, in ranking order.
func Bottom(rows []RankedRow, n int) []RankedRow {
	n = max(0, min(n, len(rows)))
	return slices.Clone(rows[len(rows)-n:])
}

// FilterLevel returns the rows with the given level, in ranking order.
func FilterLevel(rows []RankedRow, level Level) []RankedRow {
	var res []RankedRow
	for _, v := range rows {
		if v.Level == level {
			res = append(res, v)
		}
	}
	return res
}
