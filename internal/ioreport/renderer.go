// Package ioreport presents pipeline results as text tables, JSON, YAML,
// CSV or TSV.
package ioreport

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gnfmt"
	"github.com/olekukonko/tablewriter"
	"github.com/pazviva/pvdash/pkg/peace"
	"gopkg.in/yaml.v3"
)

// noValue is shown for undefined numbers in text and CSV outputs.
const noValue = "-"

// Renderer writes results to w in one format.
type Renderer struct {
	w      io.Writer
	format Format
}

// New creates a Renderer. An empty format means Text.
func New(w io.Writer, format string) (*Renderer, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return &Renderer{w: w, format: f}, nil
}

// Format returns the output format.
func (r *Renderer) Format() Format {
	return r.format
}

// Report writes the monthly report. CSV and TSV outputs contain the
// full ranking.
func (r *Renderer) Report(rep peace.Report) error {
	view := NewReportView(rep)
	switch r.format {
	case JSON, YAML:
		return r.encode("report", view)
	case CSV, TSV:
		return r.rowsCSV("report", view.FullRanking)
	}
	return r.reportText(rep)
}

// Ranking writes the ranking of a period with its top topN rows and the
// critical countries. CSV and TSV outputs contain the whole ranking.
func (r *Renderer) Ranking(
	period peace.PeriodKey,
	rows []peace.RankedRow,
	topN int,
) error {
	view := NewRankingView(period, rows, topN)
	switch r.format {
	case JSON, YAML:
		return r.encode("ranking", view)
	case CSV, TSV:
		return r.rowsCSV("ranking", view.Ranking)
	}
	return r.rankingText(period, rows, topN)
}

// Peacekeepers writes the peacekeeper counter. CSV and TSV outputs
// contain totals per country.
func (r *Renderer) Peacekeepers(sum peace.EventSummary) error {
	view := NewPeacekeepersView(sum)
	switch r.format {
	case JSON, YAML:
		return r.encode("peacekeepers", view)
	case CSV, TSV:
		recs := [][]string{{"country_code", "country_name", "total"}}
		for _, v := range view.ByCountry {
			recs = append(recs, []string{
				v.CountryCode, strPtr(v.CountryName, ""), strconv.Itoa(v.Total),
			})
		}
		return r.csv("peacekeepers", recs)
	}
	return r.peacekeepersText(sum)
}

// Evolution writes a mean index series.
func (r *Renderer) Evolution(view EvolutionView) error {
	switch r.format {
	case JSON, YAML:
		return r.encode("evolution", view)
	case CSV, TSV:
		recs := [][]string{{"period", "mean"}}
		for _, v := range view.Series {
			recs = append(recs, []string{v.Period, floatStr(v.Mean)})
		}
		return r.csv("evolution", recs)
	}
	return r.evolutionText(view)
}

// Map writes aggregated map data.
func (r *Renderer) Map(data peace.MapData) error {
	view := NewMapView(data)
	switch r.format {
	case JSON, YAML:
		return r.encode("map", view)
	case CSV, TSV:
		recs := [][]string{{
			"country_code", "country_name", "latitude", "longitude",
			"value", "level",
		}}
		for _, v := range view.Points {
			recs = append(recs, []string{
				v.CountryCode, v.CountryName,
				strconv.FormatFloat(v.Latitude, 'f', -1, 64),
				strconv.FormatFloat(v.Longitude, 'f', -1, 64),
				floatStr(v.Value), v.Level,
			})
		}
		return r.csv("map", recs)
	}
	return r.mapText(view)
}

// Periods writes the list of available periods.
func (r *Renderer) Periods(periods []peace.PeriodKey) error {
	view := NewPeriodsView(periods)
	switch r.format {
	case JSON, YAML:
		return r.encode("periods", view)
	case CSV, TSV:
		recs := [][]string{{"period"}}
		for _, v := range view.Periods {
			recs = append(recs, []string{v})
		}
		return r.csv("periods", recs)
	}
	for _, v := range view.Periods {
		if _, err := fmt.Fprintln(r.w, v); err != nil {
			return RenderError("periods", err)
		}
	}
	return nil
}

func (r *Renderer) encode(what string, v any) error {
	var bs []byte
	var err error
	if r.format == YAML {
		bs, err = yaml.Marshal(v)
	} else {
		enc := gnfmt.GNjson{Pretty: true}
		bs, err = enc.Encode(v)
		bs = append(bs, '\n')
	}
	if err != nil {
		return RenderError(what, err)
	}
	if _, err = r.w.Write(bs); err != nil {
		return RenderError(what, err)
	}
	return nil
}

func (r *Renderer) csv(what string, recs [][]string) error {
	sep := r.format.separator()
	var sb strings.Builder
	for _, rec := range recs {
		sb.WriteString(strings.TrimRight(gnfmt.ToCSV(rec, sep), "\r\n"))
		sb.WriteByte('\n')
	}
	if _, err := io.WriteString(r.w, sb.String()); err != nil {
		return RenderError(what, err)
	}
	return nil
}

func (r *Renderer) rowsCSV(what string, rows []RowView) error {
	recs := [][]string{{"position", "country_code", "country_name", "value", "level"}}
	for _, v := range rows {
		recs = append(recs, []string{
			strconv.Itoa(v.Position),
			v.CountryCode,
			strPtr(v.CountryName, ""),
			floatPtr(v.Value),
			v.Level,
		})
	}
	return r.csv(what, recs)
}

func (r *Renderer) table(header []string, rows [][]string) {
	table := tablewriter.NewWriter(r.w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	table.SetHeader(header)
	table.AppendBulk(rows)
	table.Render()
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.w, format, args...)
}

func strPtr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func floatPtr(f *float64) string {
	if f == nil {
		return noValue
	}
	return floatStr(*f)
}

func floatStr(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func count(n int) string {
	return humanize.Comma(int64(n))
}
