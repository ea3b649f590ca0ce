// Package config provides configuration management for pvdash.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, path, host, port, user, password, database, ssl_mode
//   - Report: top_n, format
//   - Server: port, cache_ttl
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use PVDASH_ prefix with underscores for nesting:
//
//	PVDASH_DATABASE_DRIVER=sqlite
//	PVDASH_DATABASE_PATH=/data/paz.db
//	PVDASH_REPORT_FORMAT=json
//	PVDASH_LOG_LEVEL=info
//	PVDASH_JOBS_NUMBER=8
package config

import (
	"runtime"
	"time"
)

// Config represents the complete pvdash configuration.
type Config struct {
	// Database contains the settings of the dashboard database.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Report contains presentation settings of reports.
	Report ReportConfig `mapstructure:"report" yaml:"report"`

	// Server contains settings of the HTTP API.
	Server ServerConfig `mapstructure:"server" yaml:"server"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for batch exports.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string `mapstructure:"-" yaml:"-"`
}

// DatabaseConfig contains connection parameters of the dashboard database.
type DatabaseConfig struct {
	// Driver selects the database engine.
	// Valid values: "sqlite", "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file (used by the sqlite driver).
	Path string `mapstructure:"path" yaml:"path"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
}

// ReportConfig contains settings of report presentation.
type ReportConfig struct {
	// TopN is the length of the highlight list of the ranking command.
	TopN int `mapstructure:"top_n" yaml:"top_n"`

	// Format of the output: "text", "json", "yaml", "csv", "tsv".
	Format string `mapstructure:"format" yaml:"format"`
}

// ServerConfig contains settings of the HTTP API.
type ServerConfig struct {
	// Port the API listens on.
	Port int `mapstructure:"port" yaml:"port"`

	// CacheTTL is how long a loaded dataset is reused before it is
	// read from the database again.
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "paz.db",
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "paz",
			SSLMode:  "disable",
		},
		Report: ReportConfig{
			TopN:   10,
			Format: "text",
		},
		Server: ServerConfig{
			Port:     8080,
			CacheTTL: 10 * time.Minute,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
