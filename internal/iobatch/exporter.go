// Package iobatch exports monthly reports of every period of a dataset
// to files, using a pool of concurrent workers.
package iobatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/pazviva/pvdash/internal/iofs"
	"github.com/pazviva/pvdash/internal/ioreport"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/peace"
	"golang.org/x/sync/errgroup"
)

// ManifestFile is the name of the export summary.
const ManifestFile = "manifest.json"

// Entry describes one exported report.
type Entry struct {
	Period    string   `json:"period"`
	File      string   `json:"file"`
	Countries int      `json:"countries"`
	MeanIndex *float64 `json:"meanIndex"`
	Critical  int      `json:"critical"`
	// Checksum is UUID v5 of the file content.
	Checksum string `json:"checksum"`
}

// Manifest lists the exported reports in chronological order.
type Manifest struct {
	// ID is UUID v5 of all checksums, it changes when any report does.
	ID        string    `json:"id"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"createdAt"`
	Entries   []Entry   `json:"entries"`
}

// Exporter writes a report file per period into a directory.
type Exporter struct {
	snap     dataset.Snapshot
	dir      string
	format   ioreport.Format
	jobs     int
	progress io.Writer
}

// Option configures Exporter.
type Option func(*Exporter)

// OptProgress shows a progress bar on w.
func OptProgress(w io.Writer) Option {
	return func(e *Exporter) {
		e.progress = w
	}
}

// New creates an Exporter. jobs is the number of concurrent workers.
func New(
	snap dataset.Snapshot,
	dir string,
	format string,
	jobs int,
	opts ...Option,
) (*Exporter, error) {
	f, err := ioreport.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = 1
	}
	res := &Exporter{snap: snap, dir: dir, format: f, jobs: jobs}
	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

// Export writes all reports and the manifest.
func (e *Exporter) Export(ctx context.Context) (Manifest, error) {
	var res Manifest
	periods := peace.Periods(e.snap.Metrics)
	if len(periods) == 0 {
		return res, NoPeriodsError()
	}

	bar := e.newProgressBar(len(periods))
	chIn := make(chan peace.PeriodKey)
	chOut := make(chan Entry)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for _, p := range periods {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			case chIn <- p:
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range e.jobs {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			return e.worker(gCtx, chIn, chOut)
		})
	}

	var entries []Entry
	g.Go(func() error {
		for en := range chOut {
			entries = append(entries, en)
			if bar != nil {
				bar.Increment()
			}
		}
		return nil
	})

	go func() {
		wg.Wait()
		close(chOut)
	}()

	err := g.Wait()
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return res, err
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Period, b.Period)
	})
	res = e.manifest(entries)
	if err = e.writeManifest(res); err != nil {
		return res, err
	}

	slog.Info("Reports exported", "dir", e.dir, "files", len(entries))
	return res, nil
}

func (e *Exporter) worker(
	ctx context.Context,
	chIn <-chan peace.PeriodKey,
	chOut chan<- Entry,
) error {
	for p := range chIn {
		en, err := e.exportPeriod(p)
		if err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- en:
		}
	}
	return nil
}

func (e *Exporter) exportPeriod(p peace.PeriodKey) (Entry, error) {
	rep := e.snap.Report(p)

	var buf bytes.Buffer
	r, err := ioreport.New(&buf, string(e.format))
	if err != nil {
		return Entry{}, ExportError(p.String(), err)
	}
	if err = r.Report(rep); err != nil {
		return Entry{}, ExportError(p.String(), err)
	}

	name := fmt.Sprintf("report-%s.%s", p, e.format.Ext())
	if err = iofs.WriteFile(filepath.Join(e.dir, name), buf.Bytes()); err != nil {
		return Entry{}, ExportError(p.String(), err)
	}

	res := Entry{
		Period:    p.String(),
		File:      name,
		Countries: rep.Overview.CountryCount,
		Critical:  len(rep.Critical),
		Checksum:  gnuuid.New(buf.String()).String(),
	}
	if rep.Overview.MeanIndex.Valid {
		mean := rep.Overview.MeanIndex.Float64
		res.MeanIndex = &mean
	}
	slog.Debug("Report exported", "period", res.Period, "file", name)
	return res, nil
}

func (e *Exporter) manifest(entries []Entry) Manifest {
	sums := make([]string, len(entries))
	for i, v := range entries {
		sums[i] = v.Checksum
	}
	return Manifest{
		ID:        gnuuid.New(strings.Join(sums, "|")).String(),
		Format:    string(e.format),
		CreatedAt: time.Now().UTC(),
		Entries:   entries,
	}
}

func (e *Exporter) writeManifest(m Manifest) error {
	enc := gnfmt.GNjson{Pretty: true}
	bs, err := enc.Encode(m)
	if err != nil {
		return ExportError("manifest", err)
	}
	return iofs.WriteFile(filepath.Join(e.dir, ManifestFile), bs)
}

// newProgressBar returns nil when progress output is off.
func (e *Exporter) newProgressBar(total int) *pb.ProgressBar {
	if e.progress == nil {
		return nil
	}
	bar := pb.Full.New(total)
	bar.SetWriter(e.progress)
	bar.Set("prefix", "Exporting reports ")
	bar.Set(pb.CleanOnFinish, true)
	return bar.Start()
}
