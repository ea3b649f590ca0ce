package ioreport

import (
	"database/sql"
	"strconv"

	"github.com/pazviva/pvdash/pkg/peace"
)

// Views are serializable forms of pipeline results. Null values become
// nil pointers, so JSON and YAML outputs show them as null.

// RowView is a ranking row.
type RowView struct {
	Position    int      `json:"position" yaml:"position"`
	CountryCode string   `json:"countryCode" yaml:"countryCode"`
	CountryName *string  `json:"countryName" yaml:"countryName"`
	Value       *float64 `json:"value" yaml:"value"`
	Level       string   `json:"level" yaml:"level"`
}

// OverviewView is the summary of a report.
type OverviewView struct {
	MeanIndex        *float64 `json:"meanIndex" yaml:"meanIndex"`
	CountryCount     int      `json:"countryCount" yaml:"countryCount"`
	EventsThisPeriod int      `json:"eventsThisPeriod" yaml:"eventsThisPeriod"`
	EventsTotal      int      `json:"eventsTotal" yaml:"eventsTotal"`
}

// LevelCountView is an entry of the level distribution.
type LevelCountView struct {
	Level string `json:"level" yaml:"level"`
	Count int    `json:"count" yaml:"count"`
}

// ReportView is the monthly report.
type ReportView struct {
	Period            string           `json:"period" yaml:"period"`
	Overview          OverviewView     `json:"overview" yaml:"overview"`
	Top5              []RowView        `json:"top5" yaml:"top5"`
	Bottom5           []RowView        `json:"bottom5" yaml:"bottom5"`
	LevelDistribution []LevelCountView `json:"levelDistribution" yaml:"levelDistribution"`
	Critical          []RowView        `json:"critical" yaml:"critical"`
	FullRanking       []RowView        `json:"fullRanking" yaml:"fullRanking"`
}

// RankingView is the ranking of a period with its top and critical
// lists.
type RankingView struct {
	Period   string    `json:"period" yaml:"period"`
	Top      []RowView `json:"top" yaml:"top"`
	Critical []RowView `json:"critical" yaml:"critical"`
	Ranking  []RowView `json:"ranking" yaml:"ranking"`
}

// CountryTotalView is the number of peacekeepers of a country.
type CountryTotalView struct {
	CountryCode string  `json:"countryCode" yaml:"countryCode"`
	CountryName *string `json:"countryName" yaml:"countryName"`
	Total       int     `json:"total" yaml:"total"`
}

// MonthTotalView is the number of peacekeepers of a month.
type MonthTotalView struct {
	Period string `json:"period" yaml:"period"`
	Total  int    `json:"total" yaml:"total"`
}

// PeacekeepersView is the peacekeeper counter.
type PeacekeepersView struct {
	Total     int                `json:"total" yaml:"total"`
	Undated   int                `json:"undated" yaml:"undated"`
	ByCountry []CountryTotalView `json:"byCountry" yaml:"byCountry"`
	ByMonth   []MonthTotalView   `json:"byMonth" yaml:"byMonth"`
}

// SeriesPoint is a point of the evolution series. Period is "YYYY-MM"
// for monthly and "YYYY" for yearly series.
type SeriesPoint struct {
	Period string  `json:"period" yaml:"period"`
	Mean   float64 `json:"mean" yaml:"mean"`
}

// EvolutionView is the mean index over time of a scope.
type EvolutionView struct {
	// Scope is a country code, empty for the global series.
	Scope  string        `json:"scope" yaml:"scope"`
	Yearly bool          `json:"yearly" yaml:"yearly"`
	Series []SeriesPoint `json:"series" yaml:"series"`
}

// MapPointView is a country on the map.
type MapPointView struct {
	CountryCode string  `json:"countryCode" yaml:"countryCode"`
	CountryName string  `json:"countryName" yaml:"countryName"`
	Latitude    float64 `json:"latitude" yaml:"latitude"`
	Longitude   float64 `json:"longitude" yaml:"longitude"`
	Value       float64 `json:"value" yaml:"value"`
	Level       string  `json:"level" yaml:"level"`
}

// SummaryView describes map values.
type SummaryView struct {
	Count  int     `json:"count" yaml:"count"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Std    float64 `json:"std" yaml:"std"`
	Min    float64 `json:"min" yaml:"min"`
	P25    float64 `json:"p25" yaml:"p25"`
	Median float64 `json:"median" yaml:"median"`
	P75    float64 `json:"p75" yaml:"p75"`
	Max    float64 `json:"max" yaml:"max"`
}

// MapView is the aggregated map data.
type MapView struct {
	Year    int            `json:"year" yaml:"year"`
	Month   int            `json:"month" yaml:"month"`
	Method  string         `json:"method" yaml:"method"`
	Points  []MapPointView `json:"points" yaml:"points"`
	Summary SummaryView    `json:"summary" yaml:"summary"`
}

// PeriodsView lists available periods.
type PeriodsView struct {
	Periods []string `json:"periods" yaml:"periods"`
	Latest  string   `json:"latest" yaml:"latest"`
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// NewRowViews converts ranking rows.
func NewRowViews(rows []peace.RankedRow) []RowView {
	res := make([]RowView, len(rows))
	for i, v := range rows {
		res[i] = RowView{
			Position:    v.Position,
			CountryCode: v.CountryCode,
			CountryName: nullString(v.CountryName),
			Value:       nullFloat(v.Value),
			Level:       v.Level.String(),
		}
	}
	return res
}

// NewReportView converts a report.
func NewReportView(rep peace.Report) ReportView {
	ov := rep.Overview
	res := ReportView{
		Period: rep.Period.String(),
		Overview: OverviewView{
			MeanIndex:        nullFloat(ov.MeanIndex),
			CountryCount:     ov.CountryCount,
			EventsThisPeriod: ov.EventsThisPeriod,
			EventsTotal:      ov.EventsTotal,
		},
		Top5:              NewRowViews(rep.Top5),
		Bottom5:           NewRowViews(rep.Bottom5),
		LevelDistribution: make([]LevelCountView, len(rep.LevelDistribution)),
		Critical:          NewRowViews(rep.Critical),
		FullRanking:       NewRowViews(rep.FullRanking),
	}
	for i, v := range rep.LevelDistribution {
		res.LevelDistribution[i] = LevelCountView{
			Level: v.Level.String(),
			Count: v.Count,
		}
	}
	return res
}

// NewRankingView converts a ranking, top keeps at most topN rows.
func NewRankingView(
	period peace.PeriodKey,
	rows []peace.RankedRow,
	topN int,
) RankingView {
	return RankingView{
		Period:   period.String(),
		Top:      NewRowViews(peace.Top(rows, topN)),
		Critical: NewRowViews(peace.FilterLevel(rows, peace.Critical)),
		Ranking:  NewRowViews(rows),
	}
}

// NewPeacekeepersView converts the peacekeeper counter.
func NewPeacekeepersView(sum peace.EventSummary) PeacekeepersView {
	res := PeacekeepersView{
		Total:     sum.Total,
		Undated:   sum.Undated,
		ByCountry: make([]CountryTotalView, len(sum.ByCountry)),
		ByMonth:   make([]MonthTotalView, len(sum.ByMonth)),
	}
	for i, v := range sum.ByCountry {
		res.ByCountry[i] = CountryTotalView{
			CountryCode: v.CountryCode,
			CountryName: nullString(v.CountryName),
			Total:       v.Total,
		}
	}
	for i, v := range sum.ByMonth {
		res.ByMonth[i] = MonthTotalView(v)
	}
	return res
}

// NewEvolutionView converts a monthly series.
func NewEvolutionView(scope string, series []peace.PeriodMean) EvolutionView {
	res := EvolutionView{
		Scope:  scope,
		Series: make([]SeriesPoint, len(series)),
	}
	for i, v := range series {
		res.Series[i] = SeriesPoint{Period: v.Period.String(), Mean: v.Mean}
	}
	return res
}

// NewYearlyView converts a yearly series.
func NewYearlyView(scope string, series []peace.YearMean) EvolutionView {
	res := EvolutionView{
		Scope:  scope,
		Yearly: true,
		Series: make([]SeriesPoint, len(series)),
	}
	for i, v := range series {
		res.Series[i] = SeriesPoint{Period: strconv.Itoa(v.Year), Mean: v.Mean}
	}
	return res
}

// NewMapView converts map data.
func NewMapView(data peace.MapData) MapView {
	res := MapView{
		Year:    data.Selection.Year,
		Month:   data.Selection.Month,
		Method:  string(data.Selection.Method),
		Points:  make([]MapPointView, len(data.Points)),
		Summary: SummaryView(data.Summary),
	}
	for i, v := range data.Points {
		res.Points[i] = MapPointView{
			CountryCode: v.CountryCode,
			CountryName: v.CountryName,
			Latitude:    v.Latitude,
			Longitude:   v.Longitude,
			Value:       v.Value,
			Level:       v.Level.String(),
		}
	}
	return res
}

// NewPeriodsView converts a chronological list of periods.
func NewPeriodsView(periods []peace.PeriodKey) PeriodsView {
	res := PeriodsView{Periods: make([]string, len(periods))}
	for i, v := range periods {
		res.Periods[i] = v.String()
	}
	if l := len(periods); l > 0 {
		res.Latest = res.Periods[l-1]
	}
	return res
}
