package peace

import (
	"database/sql"
	"math"
)

// Level is the ordinal peace level of an indicator value.
// Levels are ordered from worst to best, NoData comes last.
type Level int

const (
	Critical Level = iota
	Low
	Medium
	Good
	Excellent
	NoData
)

// Levels lists all levels in display order.
var Levels = []Level{Critical, Low, Medium, Good, Excellent, NoData}

var levelNames = map[Level]string{
	Critical:  "Critical",
	Low:       "Low",
	Medium:    "Medium",
	Good:      "Good",
	Excellent: "Excellent",
	NoData:    "NoData",
}

// String returns the name of the level.
func (l Level) String() string {
	if s, ok := levelNames[l]; ok {
		return s
	}
	return "Unknown"
}

// MarshalText makes Level readable in JSON and YAML outputs.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Classify converts an indicator value into a peace level.
//
// The cut points are closed intervals: 100 is Excellent, 91..99 Good,
// 71..90 Medium, 51..70 Low. Everything else, including values above 100
// or below 0, is Critical. Absent or NaN values are NoData.
func Classify(v sql.NullFloat64) Level {
	if !v.Valid || math.IsNaN(v.Float64) {
		return NoData
	}
	return ClassifyValue(v.Float64)
}

// ClassifyValue is Classify for a value that is known to be present.
func ClassifyValue(f float64) Level {
	switch {
	case math.IsNaN(f):
		return NoData
	case f == 100:
		return Excellent
	case 91 <= f && f <= 99:
		return Good
	case 71 <= f && f <= 90:
		return Medium
	case 51 <= f && f <= 70:
		return Low
	default:
		return Critical
	}
}

// InRange reports if a value lies inside the [0, 100] indicator scale.
func InRange(f float64) bool {
	return f >= 0 && f <= 100
}
