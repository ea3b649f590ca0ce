package iobatch_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/iobatch"
	"github.com/pazviva/pvdash/internal/iodb"
	"github.com/pazviva/pvdash/internal/iotesting"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadSnapshot(t *testing.T) dataset.Snapshot {
	t.Helper()
	ctx := context.Background()
	path := iotesting.NewSQLiteDataset(t, iotesting.DefaultFixture())
	r := iodb.NewSQLiteReader(path)
	require.NoError(t, r.Connect(ctx))
	defer r.Close()

	snap, err := dataset.Load(ctx, r)
	require.NoError(t, err)
	return snap
}

func TestExport(t *testing.T) {
	snap := loadSnapshot(t)
	dir := filepath.Join(t.TempDir(), "out")

	var progress bytes.Buffer
	exp, err := iobatch.New(snap, dir, "json", 4, iobatch.OptProgress(&progress))
	require.NoError(t, err)

	m, err := exp.Export(context.Background())
	require.NoError(t, err)

	require.Len(t, m.Entries, 2)
	assert.Equal(t, "json", m.Format)
	assert.NotEmpty(t, m.ID)

	jan := m.Entries[0]
	assert.Equal(t, "2030-01", jan.Period)
	assert.Equal(t, "report-2030-01.json", jan.File)
	assert.Equal(t, 5, jan.Countries)
	assert.Equal(t, 1, jan.Critical)
	require.NotNil(t, jan.MeanIndex)
	assert.InDelta(t, 78.0, *jan.MeanIndex, 1e-9)

	bs, err := os.ReadFile(filepath.Join(dir, jan.File))
	require.NoError(t, err)
	assert.Contains(t, string(bs), `"period": "2030-01"`)

	bs, err = os.ReadFile(filepath.Join(dir, iobatch.ManifestFile))
	require.NoError(t, err)
	var saved iobatch.Manifest
	require.NoError(t, json.Unmarshal(bs, &saved))
	assert.Equal(t, m.ID, saved.ID)
	assert.Len(t, saved.Entries, 2)
}

func TestExport_Deterministic(t *testing.T) {
	snap := loadSnapshot(t)

	run := func(jobs int) iobatch.Manifest {
		exp, err := iobatch.New(snap, t.TempDir(), "csv", jobs)
		require.NoError(t, err)
		m, err := exp.Export(context.Background())
		require.NoError(t, err)
		return m
	}

	one := run(1)
	many := run(8)
	assert.Equal(t, one.ID, many.ID)
	assert.Equal(t, "report-2030-02.csv", many.Entries[1].File)
}

func TestExport_NoPeriods(t *testing.T) {
	exp, err := iobatch.New(dataset.Snapshot{}, t.TempDir(), "text", 2)
	require.NoError(t, err)

	_, err = exp.Export(context.Background())
	require.Error(t, err)
	assert.Equal(t, errcode.NoPeriodsError, err.(*gn.Error).Code)
}

func TestNew_BadFormat(t *testing.T) {
	_, err := iobatch.New(dataset.Snapshot{}, t.TempDir(), "pdf", 2)
	assert.Error(t, err)
}
