package ioreport_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/ioreport"
	"github.com/pazviva/pvdash/pkg/errcode"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var jan = peace.PeriodKey{Year: 2030, Month: 1}

func sample() ([]peace.MetricRecord, []peace.CountryInfo, []peace.Event) {
	metrics := []peace.MetricRecord{
		{CountryCode: "PT", Year: 2030, Month: 1, Value: peace.NullValue(100)},
		{CountryCode: "BR", Year: 2030, Month: 1, Value: peace.NullValue(95)},
		{CountryCode: "XX", Year: 2030, Month: 1, Value: peace.NullValue(40)},
		{CountryCode: "US", Year: 2030, Month: 1},
	}
	countries := []peace.CountryInfo{
		{CountryCode: "PT", CountryName: "Portugal",
			Latitude: peace.NullValue(39.4), Longitude: peace.NullValue(-8.2)},
		{CountryCode: "BR", CountryName: "Brasil",
			Latitude: peace.NullValue(-14.2), Longitude: peace.NullValue(-51.9)},
		{CountryCode: "US", CountryName: "Estados Unidos"},
	}
	events := []peace.Event{
		{CountryCode: "BR", City: "Recife",
			CreatedAt: time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)},
		{CountryCode: "PT"},
	}
	return metrics, countries, events
}

func sampleReport() peace.Report {
	m, c, e := sample()
	return peace.BuildReport(m, c, e, jan)
}

func render(t *testing.T, format string, fn func(*ioreport.Renderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	r, err := ioreport.New(&buf, format)
	require.NoError(t, err)
	require.NoError(t, fn(r))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want ioreport.Format
		ext  string
	}{
		{"", ioreport.Text, "txt"},
		{"TEXT", ioreport.Text, "txt"},
		{"json", ioreport.JSON, "json"},
		{" yaml ", ioreport.YAML, "yaml"},
		{"csv", ioreport.CSV, "csv"},
		{"tsv", ioreport.TSV, "tsv"},
	}
	for _, v := range tests {
		f, err := ioreport.ParseFormat(v.in)
		require.NoError(t, err)
		assert.Equal(t, v.want, f)
		assert.Equal(t, v.ext, f.Ext())
	}

	_, err := ioreport.ParseFormat("xml")
	require.Error(t, err)
	assert.Equal(t, errcode.FormatUnknownError, err.(*gn.Error).Code)
}

func TestReportJSON(t *testing.T) {
	out := render(t, "json", func(r *ioreport.Renderer) error {
		return r.Report(sampleReport())
	})

	var res ioreport.ReportView
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "2030-01", res.Period)
	require.NotNil(t, res.Overview.MeanIndex)
	assert.InDelta(t, 235.0/3, *res.Overview.MeanIndex, 1e-9)
	assert.Equal(t, 4, res.Overview.CountryCount)
	assert.Equal(t, 1, res.Overview.EventsThisPeriod)
	assert.Equal(t, 2, res.Overview.EventsTotal)

	require.Len(t, res.FullRanking, 4)
	last := res.FullRanking[3]
	assert.Equal(t, "US", last.CountryCode)
	assert.Nil(t, last.Value)
	assert.Equal(t, "NoData", last.Level)
	assert.Nil(t, res.FullRanking[2].CountryName, "XX has no metadata")
	assert.Contains(t, out, `"value": null`)
}

func TestReportJSON_Empty(t *testing.T) {
	rep := peace.BuildReport(nil, nil, nil, jan)
	out := render(t, "json", func(r *ioreport.Renderer) error {
		return r.Report(rep)
	})
	assert.Contains(t, out, `"meanIndex": null`)
	assert.Contains(t, out, `"fullRanking": []`)
}

func TestReportYAML(t *testing.T) {
	out := render(t, "yaml", func(r *ioreport.Renderer) error {
		return r.Report(sampleReport())
	})
	var res map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &res))
	assert.Equal(t, "2030-01", res["period"])
	assert.Contains(t, out, "value: null")
}

func TestReportCSV(t *testing.T) {
	out := render(t, "csv", func(r *ioreport.Renderer) error {
		return r.Report(sampleReport())
	})
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "position,country_code,country_name,value,level", lines[0])
	assert.Equal(t, "1,PT,Portugal,100.00,Excellent", lines[1])
	assert.Equal(t, "3,XX,,40.00,Critical", lines[3])
	assert.Equal(t, "4,US,Estados Unidos,-,NoData", lines[4])

	tsv := render(t, "tsv", func(r *ioreport.Renderer) error {
		return r.Report(sampleReport())
	})
	assert.Contains(t, tsv, "2\tBR\tBrasil\t95.00\tGood")
}

func TestReportText(t *testing.T) {
	out := render(t, "text", func(r *ioreport.Renderer) error {
		return r.Report(sampleReport())
	})
	for _, s := range []string{
		"Monthly report 2030-01", "Top 5", "Bottom 5",
		"Level distribution", "Critical countries", "Full ranking",
		"Portugal", "78.33",
	} {
		assert.Contains(t, out, s)
	}

	empty := render(t, "text", func(r *ioreport.Renderer) error {
		return r.Report(peace.BuildReport(nil, nil, nil, jan))
	})
	assert.Contains(t, empty, "No indicator values for 2030-01")
	assert.NotContains(t, empty, "Top 5")
}

func TestRanking(t *testing.T) {
	m, c, _ := sample()
	rows := peace.Rank(m, c, jan)

	out := render(t, "json", func(r *ioreport.Renderer) error {
		return r.Ranking(jan, rows, 2)
	})
	var res ioreport.RankingView
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Top, 2)
	assert.Len(t, res.Ranking, 4)
	require.Len(t, res.Critical, 1)
	assert.Equal(t, "XX", res.Critical[0].CountryCode)

	text := render(t, "text", func(r *ioreport.Renderer) error {
		return r.Ranking(jan, rows, 2)
	})
	assert.Contains(t, text, "Top 2")
}

func TestPeacekeepers(t *testing.T) {
	_, c, e := sample()
	sum := peace.SummarizeEvents(e, c)

	out := render(t, "csv", func(r *ioreport.Renderer) error {
		return r.Peacekeepers(sum)
	})
	assert.Equal(t,
		"country_code,country_name,total\nBR,Brasil,1\nPT,Portugal,1\n", out)

	text := render(t, "text", func(r *ioreport.Renderer) error {
		return r.Peacekeepers(sum)
	})
	assert.Contains(t, text, "Peacekeepers: 2")
	assert.Contains(t, text, "Without date: 1")
	assert.Contains(t, text, "2030-01")
}

func TestEvolution(t *testing.T) {
	m, _, _ := sample()
	view := ioreport.NewEvolutionView("", peace.EvolutionSeries(m, ""))

	out := render(t, "csv", func(r *ioreport.Renderer) error {
		return r.Evolution(view)
	})
	assert.Equal(t, "period,mean\n2030-01,78.33\n", out)

	yearly := ioreport.NewYearlyView("BR", peace.YearlySeries(m, "BR"))
	assert.True(t, yearly.Yearly)
	require.Len(t, yearly.Series, 1)
	assert.Equal(t, "2030", yearly.Series[0].Period)

	text := render(t, "text", func(r *ioreport.Renderer) error {
		return r.Evolution(yearly)
	})
	assert.Contains(t, text, "(BR)")
	assert.Contains(t, text, "Year")
}

func TestMap(t *testing.T) {
	m, c, _ := sample()
	data := peace.AggregateByCountry(m, c, peace.MapSelection{})

	out := render(t, "json", func(r *ioreport.Renderer) error {
		return r.Map(data)
	})
	var res ioreport.MapView
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2030, res.Year)
	assert.Equal(t, 1, res.Month)
	assert.Equal(t, "latest", res.Method)
	require.Len(t, res.Points, 2)
	assert.Equal(t, "PT", res.Points[0].CountryCode)
	assert.Equal(t, 2, res.Summary.Count)

	csv := render(t, "csv", func(r *ioreport.Renderer) error {
		return r.Map(data)
	})
	assert.Contains(t, csv, "PT,Portugal,39.4,-8.2,100.00,Excellent")
}

func TestPeriods(t *testing.T) {
	periods := []peace.PeriodKey{{Year: 2030, Month: 1}, {Year: 2030, Month: 2}}
	view := ioreport.NewPeriodsView(periods)
	assert.Equal(t, "2030-02", view.Latest)

	out := render(t, "text", func(r *ioreport.Renderer) error {
		return r.Periods(periods)
	})
	assert.Equal(t, "2030-01\n2030-02\n", out)

	assert.Empty(t, ioreport.NewPeriodsView(nil).Latest)
}

func TestNullConversions(t *testing.T) {
	rows := ioreport.NewRowViews([]peace.RankedRow{{
		Position:    1,
		CountryCode: "BR",
		CountryName: sql.NullString{String: "Brasil", Valid: true},
		Value:       sql.NullFloat64{},
		Level:       peace.NoData,
	}})
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].CountryName)
	assert.Equal(t, "Brasil", *rows[0].CountryName)
	assert.Nil(t, rows[0].Value)
}
