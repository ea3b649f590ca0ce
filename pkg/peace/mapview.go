package peace

import (
	"cmp"
	"database/sql"
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// Method defines how values of a country are combined for the map.
type Method string

const (
	// MethodLatest uses values of the selected period only.
	MethodLatest Method = "latest"
	// MethodMean averages values of the selected year.
	MethodMean Method = "mean"
	// MethodMedian takes the median of values of the selected year.
	MethodMedian Method = "median"
	// MethodSum adds up values of the selected year.
	MethodSum Method = "sum"
)

// ParseMethod converts a string to Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case MethodLatest, MethodMean, MethodMedian, MethodSum:
		return m, nil
	case "":
		return MethodLatest, nil
	}
	return "", fmt.Errorf("unknown aggregation method %q", s)
}

// MapSelection describes which values go to the map.
// Zero Year or Month default to the latest available ones.
type MapSelection struct {
	Year   int
	Month  int
	Method Method
}

// MapPoint is a country with coordinates and an aggregated value.
type MapPoint struct {
	CountryCode string
	CountryName string
	Latitude    float64
	Longitude   float64
	Value       float64
	Level       Level
}

// MapData is the result of AggregateByCountry.
type MapData struct {
	// Selection has defaults resolved.
	Selection MapSelection
	Points    []MapPoint
	Summary   Summary
}

// AggregateByCountry combines metric values per country according to the
// selection and attaches coordinates. Countries without coordinates or
// without any value are left out. Points are sorted by value, highest
// first, equal values by country code.
func AggregateByCountry(
	metrics []MetricRecord,
	countries []CountryInfo,
	sel MapSelection,
) MapData {
	sel = resolveSelection(metrics, sel)
	res := MapData{Selection: sel}

	groups := make(map[string][]float64)
	for _, v := range metrics {
		if v.Year != sel.Year {
			continue
		}
		if sel.Method == MethodLatest && v.Month != sel.Month {
			continue
		}
		f, ok := value(v.Value)
		if !ok {
			continue
		}
		groups[v.CountryCode] = append(groups[v.CountryCode], f)
	}

	meta := make(map[string]CountryInfo, len(countries))
	for _, v := range countries {
		meta[v.CountryCode] = v
	}

	values := make([]float64, 0, len(groups))
	for _, code := range slices.Sorted(maps.Keys(groups)) {
		info, ok := meta[code]
		if !ok || !info.Latitude.Valid || !info.Longitude.Valid {
			continue
		}
		val := combine(groups[code], sel.Method)
		res.Points = append(res.Points, MapPoint{
			CountryCode: code,
			CountryName: info.CountryName,
			Latitude:    info.Latitude.Float64,
			Longitude:   info.Longitude.Float64,
			Value:       val,
			Level:       ClassifyValue(val),
		})
		values = append(values, val)
	}

	slices.SortStableFunc(res.Points, func(a, b MapPoint) int {
		return cmp.Compare(b.Value, a.Value)
	})
	res.Summary = Describe(values)
	return res
}

func resolveSelection(metrics []MetricRecord, sel MapSelection) MapSelection {
	if sel.Method == "" {
		sel.Method = MethodLatest
	}
	if sel.Year == 0 {
		if p, ok := LatestPeriod(metrics); ok {
			sel.Year = p.Year
		}
	}
	if sel.Month == 0 {
		for _, v := range metrics {
			if v.Year == sel.Year && v.Month > sel.Month {
				sel.Month = v.Month
			}
		}
	}
	return sel
}

func combine(vals []float64, m Method) float64 {
	switch m {
	case MethodSum:
		var sum float64
		for _, v := range vals {
			sum += v
		}
		return sum
	case MethodMedian:
		return quantile(slices.Sorted(slices.Values(vals)), 0.5)
	default:
		var acc meanAcc
		for _, v := range vals {
			acc.add(v)
		}
		return acc.mean()
	}
}

// Summary holds descriptive statistics of a set of values.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	Median float64
	P75    float64
	Max    float64
}

// Describe computes descriptive statistics. Percentiles use linear
// interpolation, Std is the sample standard deviation and is zero for
// fewer than two values. An empty input gives a zero Summary.
func Describe(vals []float64) Summary {
	var res Summary
	if len(vals) == 0 {
		return res
	}
	sorted := slices.Sorted(slices.Values(vals))

	var acc meanAcc
	for _, v := range sorted {
		acc.add(v)
	}
	mean := acc.mean()

	var std float64
	if len(sorted) > 1 {
		var ss float64
		for _, v := range sorted {
			ss += (v - mean) * (v - mean)
		}
		std = math.Sqrt(ss / float64(len(sorted)-1))
	}

	res = Summary{
		Count:  len(sorted),
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		P25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		P75:    quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
	return res
}

// quantile expects sorted non-empty input.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// NullValue wraps a float into a present nullable value.
func NullValue(f float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: f, Valid: true}
}
