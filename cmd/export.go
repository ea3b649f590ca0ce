package cmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/iobatch"
	"github.com/pazviva/pvdash/pkg/config"
	"github.com/spf13/cobra"
)

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	var (
		dir   string
		jobs  int
		quiet bool
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write reports of all months to a directory",
		Long: `Write the monthly report of every period of the dataset.

Reports are created concurrently, one file per month named
report-YYYY-MM.<ext>, in the format chosen by --format. A manifest.json
file lists all reports with their checksums.

Examples:
  pvdash export --dir reports
  pvdash export --dir reports --format json --jobs 4`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("jobs") {
				cfg.Update([]config.Option{config.OptJobsNumber(jobs)})
			}
			err := runExport(cmd, dir, quiet)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	exportCmd.Flags().StringVarP(
		&dir, "dir", "d", "reports",
		"output directory",
	)
	exportCmd.Flags().IntVarP(
		&jobs, "jobs", "j", 0,
		"number of concurrent workers (default from config)",
	)
	exportCmd.Flags().BoolVarP(
		&quiet, "quiet", "q", false,
		"do not show progress bar",
	)
	return exportCmd
}

func runExport(cmd *cobra.Command, dir string, quiet bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}

	var opts []iobatch.Option
	if !quiet {
		opts = append(opts, iobatch.OptProgress(cmd.ErrOrStderr()))
	}
	exp, err := iobatch.New(snap, dir, cfg.Report.Format, cfg.JobsNumber, opts...)
	if err != nil {
		return err
	}

	m, err := exp.Export(ctx)
	if err != nil {
		return err
	}

	gn.Info(
		"Exported <em>%s</em> reports to <em>%s</em>",
		humanize.Comma(int64(len(m.Entries))), dir,
	)
	gn.Info("Manifest: <em>%s</em> (id %s)",
		filepath.Join(dir, iobatch.ManifestFile), m.ID)
	return nil
}
