package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/iodb"
	"github.com/pazviva/pvdash/internal/ioreport"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/peace"
)

// loadSnapshot reads the whole dataset from the configured database.
func loadSnapshot(ctx context.Context) (dataset.Snapshot, error) {
	var res dataset.Snapshot
	r, err := iodb.New(&cfg.Database)
	if err != nil {
		return res, err
	}

	if err = r.Connect(ctx); err != nil {
		return res, err
	}
	defer r.Close()

	res, err = dataset.Load(ctx, r)
	if err != nil {
		return res, err
	}

	for _, w := range res.Warnings {
		gn.Warn("<warn>%s</warn>", w)
	}
	slog.Debug("Snapshot source", "source", iodb.Describe(&cfg.Database))
	return res, nil
}

// selectPeriod parses s or falls back to the latest period of the
// snapshot when s is empty.
func selectPeriod(s string, snap dataset.Snapshot) (peace.PeriodKey, error) {
	if s != "" {
		p, err := peace.ParsePeriod(s)
		if err != nil {
			return p, PeriodFormatError(s, err)
		}
		return p, nil
	}

	p, ok := snap.LatestPeriod()
	if !ok {
		return p, DatasetEmptyError(iodb.Describe(&cfg.Database))
	}
	return p, nil
}

func newRenderer(w io.Writer) (*ioreport.Renderer, error) {
	return ioreport.New(w, cfg.Report.Format)
}
