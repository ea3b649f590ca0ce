package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/iocache"
	"github.com/pazviva/pvdash/internal/iodb"
	"github.com/pazviva/pvdash/internal/ioweb"
	"github.com/pazviva/pvdash/pkg/config"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve reports, rankings, peacekeeper counters, evolution series
and map data as JSON.

Endpoints:
  GET  /api/periods
  GET  /api/report[/{year}/{month}]
  GET  /api/ranking[/{year}/{month}]?top=N
  GET  /api/peacekeepers
  GET  /api/evolution?country=CODE&yearly=true
  GET  /api/map?year=YYYY&month=MM&method=latest|mean|median|sum
  POST /api/refresh
  GET  /health
  GET  /metrics

The dataset is read once and reused for 'server.cache_ttl'
(10 minutes by default).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Update([]config.Option{config.OptServerPort(port)})
			}
			err := runServe()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntVarP(
		&port, "port", "p", 8080,
		"port of the HTTP API",
	)
	return serveCmd
}

func runServe() error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	dbCfg := cfg.Database
	cache := iocache.New(func() (dataset.Reader, error) {
		return iodb.New(&dbCfg)
	}, cfg.Server.CacheTTL)

	// fail early when the database is not reachable
	if _, err := cache.Get(ctx); err != nil {
		return err
	}

	gn.Info("Serving <em>%s</em> on port <em>%d</em>",
		iodb.Describe(&dbCfg), cfg.Server.Port)
	srv := ioweb.New(cache, cfg.Server.Port, cfg.Report.TopN)
	return srv.Run(ctx)
}
