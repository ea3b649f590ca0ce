/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/joho/godotenv"
	"github.com/pazviva/pvdash/internal/iofs"
	"github.com/pazviva/pvdash/internal/iologger"
	app "github.com/pazviva/pvdash/pkg"
	"github.com/pazviva/pvdash/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	opts    []config.Option
	cfg     *config.Config
)

// global flags
var (
	formatFlag string
	dbFlag     string
	driverFlag string
)

// getRootCmd builds the command tree. Extracted as a function to
// facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", app.Version, app.Build),
		Use:     "pvdash",
		Short:   "Peace index reports of the Paz Viva project",
		Long: `pvdash reads the Paz Viva database (peace index values per country
and month, country metadata and registered peacekeepers) and builds
monthly reports, country rankings, peacekeeper counters, evolution
series and map data.

Results are printed as text tables or exported as JSON, YAML, CSV or
TSV. The same data is available through an HTTP API ('pvdash serve').

Configuration precedence (highest to lowest):
  1. CLI flags (--format, --db, --driver, ...)
  2. Environment variables (PVDASH_*, also read from .env)
  3. Config file (~/.config/pvdash/config.yaml)
  4. Built-in defaults

Examples:
  pvdash report --period 2024-05
  pvdash ranking --top 5 --format json
  pvdash map --year 2024 --method median
  pvdash --driver postgres serve`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "pvdash version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.Flags().BoolP("version", "V", false, "version for pvdash")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&formatFlag, "format", "f", "",
		"output format: text, json, yaml, csv, tsv")
	pf.StringVar(&dbFlag, "db", "",
		"SQLite database file (sqlite driver)")
	pf.StringVar(&driverFlag, "driver", "",
		"database driver: sqlite, postgres")

	rootCmd.AddCommand(
		getReportCmd(),
		getRankingCmd(),
		getPeacekeepersCmd(),
		getEvolutionCmd(),
		getMapCmd(),
		getPeriodsCmd(),
		getExportCmd(),
		getServeCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error

	// .env is optional, it only adds PVDASH_* variables
	if err = godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		gn.Warn("Cannot read <em>.env</em> file: %s", err)
	}

	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	logDir := config.LogDir(homeDir)
	if err = iologger.Init(logDir, defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	opts = cfgViper.ToOptions()
	opts = append(opts, flagOptions(cmd)...)
	opts = append(opts, config.OptHomeDir(homeDir))
	cfg.Update(opts)

	// the log file was just created, keep its first lines
	if err = iologger.Init(logDir, cfg.Log, true); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir),
		"driver", cfg.Database.Driver,
	)
	return nil
}

// flagOptions converts explicitly set global flags to options.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	flags := cmd.Flags()
	if flags.Changed("format") {
		res = append(res, config.OptReportFormat(formatFlag))
	}
	if flags.Changed("driver") {
		res = append(res, config.OptDatabaseDriver(driverFlag))
	}
	if flags.Changed("db") {
		res = append(res, config.OptDatabasePath(dbFlag))
	}
	return res
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := getRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Variables are bound one by one to make the allowed list explicit.
	// They match the fields of config.ToOptions().
	v.SetEnvPrefix("PVDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.driver", "PVDASH_DATABASE_DRIVER")
	v.BindEnv("database.path", "PVDASH_DATABASE_PATH")
	v.BindEnv("database.host", "PVDASH_DATABASE_HOST")
	v.BindEnv("database.port", "PVDASH_DATABASE_PORT")
	v.BindEnv("database.user", "PVDASH_DATABASE_USER")
	v.BindEnv("database.password", "PVDASH_DATABASE_PASSWORD")
	v.BindEnv("database.database", "PVDASH_DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "PVDASH_DATABASE_SSL_MODE")

	// Report configuration
	v.BindEnv("report.top_n", "PVDASH_REPORT_TOP_N")
	v.BindEnv("report.format", "PVDASH_REPORT_FORMAT")

	// Server configuration
	v.BindEnv("server.port", "PVDASH_SERVER_PORT")
	v.BindEnv("server.cache_ttl", "PVDASH_SERVER_CACHE_TTL")

	// Log configuration
	v.BindEnv("log.level", "PVDASH_LOG_LEVEL")
	v.BindEnv("log.format", "PVDASH_LOG_FORMAT")
	v.BindEnv("log.destination", "PVDASH_LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "PVDASH_JOBS_NUMBER")

	v.AutomaticEnv()
}
