package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/iobatch"
	"github.com/pazviva/pvdash/internal/iotesting"
	"github.com/pazviva/pvdash/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd executes pvdash with args against the default fixture,
// using a temporary home directory.
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	path := iotesting.NewSQLiteDataset(t, iotesting.DefaultFixture())

	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{"--driver", "sqlite", "--db", path}, args...))

	err := cmd.Execute()
	return buf.String(), err
}

func TestBootstrap(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PVDASH_REPORT_TOP_N", "3")
	t.Setenv("PVDASH_SERVER_CACHE_TTL", "90s")
	t.Chdir(t.TempDir())

	path := iotesting.NewSQLiteDataset(t, iotesting.DefaultFixture())
	cmd := getRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--db", path, "-f", "json", "periods"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, home, cfg.HomeDir)
	assert.Equal(t, path, cfg.Database.Path)
	assert.Equal(t, "json", cfg.Report.Format)
	assert.Equal(t, 3, cfg.Report.TopN)
	assert.Equal(t, "1m30s", cfg.Server.CacheTTL.String())
	assert.FileExists(t, filepath.Join(home, ".config", "pvdash", "config.yaml"))
	assert.FileExists(t,
		filepath.Join(home, ".local", "share", "pvdash", "logs", "pvdash.log"))
}

func TestBootstrap_DotEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	// godotenv does not override variables that are already set
	os.Unsetenv("PVDASH_REPORT_FORMAT")
	t.Cleanup(func() { os.Unsetenv("PVDASH_REPORT_FORMAT") })

	err := os.WriteFile(".env", []byte("PVDASH_REPORT_FORMAT=yaml\n"), 0644)
	require.NoError(t, err)

	path := iotesting.NewSQLiteDataset(t, iotesting.DefaultFixture())
	cmd := getRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--db", path, "periods"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "yaml", cfg.Report.Format)
	assert.Contains(t, buf.String(), "latest:")
}

func TestReportCmd(t *testing.T) {
	tests := []struct {
		msg   string
		args  []string
		lines []string
	}{
		{
			"csv january",
			[]string{"report", "-p", "2030-01", "-f", "csv"},
			[]string{"1,PT,Portugal,100.00,Excellent", "5,XX,,40.00,Critical"},
		},
		{
			"csv latest",
			[]string{"report", "-f", "csv"},
			[]string{"1,PT,Portugal,99.00,Good", "3,US,Estados Unidos,-,NoData"},
		},
		{
			"text",
			[]string{"report", "--period", "2030-01"},
			[]string{"2030-01", "Portugal", "Critical"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			out, err := runCmd(t, tt.args...)
			require.NoError(t, err)
			for _, l := range tt.lines {
				assert.Contains(t, out, l)
			}
		})
	}
}

func TestReportCmd_BadPeriod(t *testing.T) {
	_, err := runCmd(t, "report", "--period", "May 2030")
	require.Error(t, err)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.PeriodFormatError, gnErr.Code)
}

func TestRankingCmd(t *testing.T) {
	out, err := runCmd(t, "ranking", "-p", "2030-01", "--top", "2", "-f", "json")
	require.NoError(t, err)

	var res struct {
		Top      []struct{ CountryCode string }
		Critical []struct{ CountryCode string }
		Ranking  []struct{ CountryCode string }
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Top, 2)
	assert.Len(t, res.Ranking, 5)
	require.Len(t, res.Critical, 1)
	assert.Equal(t, "XX", res.Critical[0].CountryCode)
}

func TestPeacekeepersCmd(t *testing.T) {
	out, err := runCmd(t, "peacekeepers", "-f", "json")
	require.NoError(t, err)

	var res struct {
		Total   int
		Undated int
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 4, res.Total)
	assert.Equal(t, 1, res.Undated)
}

func TestEvolutionCmd(t *testing.T) {
	out, err := runCmd(t, "evolution", "--country", "pt", "-f", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "2030-01")
	assert.Contains(t, out, "2030-02")
}

func TestMapCmd(t *testing.T) {
	out, err := runCmd(t, "map", "-p", "2030-01", "-f", "json")
	require.NoError(t, err)

	var res struct {
		Year   int
		Month  int
		Points []struct{ CountryCode string }
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 2030, res.Year)
	assert.Equal(t, 1, res.Month)
	// JP has no coordinates, XX has no metadata
	require.Len(t, res.Points, 3)
	assert.Equal(t, "PT", res.Points[0].CountryCode)

	_, err = runCmd(t, "map", "--method", "mode")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.MethodFormatError, gnErr.Code)
}

func TestExportCmd(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	_, err := runCmd(t, "export", "--dir", dir, "--quiet", "-j", "2", "-f", "tsv")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "report-2030-01.tsv"))
	assert.FileExists(t, filepath.Join(dir, "report-2030-02.tsv"))

	bs, err := os.ReadFile(filepath.Join(dir, iobatch.ManifestFile))
	require.NoError(t, err)
	var m iobatch.Manifest
	require.NoError(t, json.Unmarshal(bs, &m))
	assert.Len(t, m.Entries, 2)
	assert.Equal(t, "tsv", m.Format)
}

func TestMissingDatabase(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cmd := getRootCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--db", "nowhere.db", "report"})
	err := cmd.Execute()

	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBFileNotFoundError, gnErr.Code)
	assert.False(t, strings.Contains(err.Error(), "panic"))
}
