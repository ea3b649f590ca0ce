package ioreport

import (
	"strconv"

	"github.com/pazviva/pvdash/pkg/peace"
)

var rowHeader = []string{"#", "Code", "Country", "Index", "Level"}

func rowRecords(rows []peace.RankedRow) [][]string {
	res := make([][]string, len(rows))
	for i, v := range rows {
		val := noValue
		if v.Value.Valid {
			val = floatStr(v.Value.Float64)
		}
		res[i] = []string{
			strconv.Itoa(v.Position),
			v.CountryCode,
			v.DisplayName(),
			val,
			v.Level.String(),
		}
	}
	return res
}

func (r *Renderer) reportText(rep peace.Report) error {
	r.printf("Monthly report %s\n\n", rep.Period)
	if rep.IsEmpty() {
		r.printf("No indicator values for %s.\n", rep.Period)
	}

	ov := rep.Overview
	mean := noValue
	if ov.MeanIndex.Valid {
		mean = floatStr(ov.MeanIndex.Float64)
	}
	r.table(
		[]string{"Mean index", "Countries", "Peacekeepers this month", "Peacekeepers total"},
		[][]string{{mean, count(ov.CountryCount), count(ov.EventsThisPeriod), count(ov.EventsTotal)}},
	)
	if rep.IsEmpty() {
		return nil
	}

	r.printf("\nTop %d\n", peace.HighlightSize)
	r.table(rowHeader, rowRecords(rep.Top5))

	r.printf("\nBottom %d\n", peace.HighlightSize)
	r.table(rowHeader, rowRecords(rep.Bottom5))

	r.printf("\nLevel distribution\n")
	dist := make([][]string, len(rep.LevelDistribution))
	for i, v := range rep.LevelDistribution {
		dist[i] = []string{v.Level.String(), count(v.Count)}
	}
	r.table([]string{"Level", "Countries"}, dist)

	r.printCritical(rep.Critical)

	r.printf("\nFull ranking\n")
	r.table(rowHeader, rowRecords(rep.FullRanking))
	return nil
}

func (r *Renderer) printCritical(rows []peace.RankedRow) {
	if len(rows) == 0 {
		r.printf("\nNo countries at Critical level.\n")
		return
	}
	r.printf("\nCritical countries\n")
	r.table(rowHeader, rowRecords(rows))
}

func (r *Renderer) rankingText(
	period peace.PeriodKey,
	rows []peace.RankedRow,
	topN int,
) error {
	r.printf("Ranking %s\n", period)
	if len(rows) == 0 {
		r.printf("No indicator values for %s.\n", period)
		return nil
	}

	r.printf("\nTop %d\n", topN)
	r.table(rowHeader, rowRecords(peace.Top(rows, topN)))
	r.printCritical(peace.FilterLevel(rows, peace.Critical))

	r.printf("\nFull ranking\n")
	r.table(rowHeader, rowRecords(rows))
	return nil
}

func (r *Renderer) peacekeepersText(sum peace.EventSummary) error {
	r.printf("Peacekeepers: %s\n", count(sum.Total))
	if sum.Undated > 0 {
		r.printf("Without date: %s\n", count(sum.Undated))
	}
	if sum.Total == 0 {
		return nil
	}

	r.printf("\nBy country\n")
	recs := make([][]string, len(sum.ByCountry))
	for i, v := range sum.ByCountry {
		name := v.CountryCode
		if v.CountryName.Valid {
			name = v.CountryName.String
		}
		recs[i] = []string{v.CountryCode, name, count(v.Total)}
	}
	r.table([]string{"Code", "Country", "Peacekeepers"}, recs)

	r.printf("\nBy month\n")
	recs = make([][]string, len(sum.ByMonth))
	for i, v := range sum.ByMonth {
		recs[i] = []string{v.Period, count(v.Total)}
	}
	r.table([]string{"Month", "Peacekeepers"}, recs)
	return nil
}

func (r *Renderer) evolutionText(view EvolutionView) error {
	scope := view.Scope
	if scope == "" {
		scope = "global"
	}
	r.printf("Peace index evolution (%s)\n", scope)
	if len(view.Series) == 0 {
		r.printf("No indicator values.\n")
		return nil
	}

	label := "Month"
	if view.Yearly {
		label = "Year"
	}
	recs := make([][]string, len(view.Series))
	for i, v := range view.Series {
		recs[i] = []string{v.Period, floatStr(v.Mean)}
	}
	r.table([]string{label, "Mean index"}, recs)
	return nil
}

func (r *Renderer) mapText(view MapView) error {
	r.printf("Map %04d-%02d (%s)\n", view.Year, view.Month, view.Method)
	if len(view.Points) == 0 {
		r.printf("No countries with coordinates and values.\n")
		return nil
	}

	recs := make([][]string, len(view.Points))
	for i, v := range view.Points {
		recs[i] = []string{
			v.CountryCode, v.CountryName,
			strconv.FormatFloat(v.Latitude, 'f', 2, 64),
			strconv.FormatFloat(v.Longitude, 'f', 2, 64),
			floatStr(v.Value), v.Level,
		}
	}
	r.table([]string{"Code", "Country", "Lat", "Lon", "Value", "Level"}, recs)

	s := view.Summary
	r.printf("\nSummary\n")
	r.table(
		[]string{"Count", "Mean", "Std", "Min", "P25", "Median", "P75", "Max"},
		[][]string{{
			count(s.Count), floatStr(s.Mean), floatStr(s.Std), floatStr(s.Min),
			floatStr(s.P25), floatStr(s.Median), floatStr(s.P75), floatStr(s.Max),
		}},
	)
	return nil
}
