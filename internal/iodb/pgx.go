package iodb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pazviva/pvdash/pkg/config"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/pazviva/pvdash/pkg/schema"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PgxReader reads the dashboard tables from PostgreSQL. Connections are
// pooled by pgxpool, rows are mapped to schema models by GORM.
type PgxReader struct {
	cfg  config.DatabaseConfig
	pool *pgxpool.Pool
	db   *sql.DB
	gorm *gorm.DB
}

// NewPgxReader creates a new PostgreSQL reader (without connecting).
func NewPgxReader(cfg *config.DatabaseConfig) *PgxReader {
	return &PgxReader{cfg: *cfg}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *PgxReader) Connect(ctx context.Context) error {
	cfg := p.cfg
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	// Reads are few and short, a small pool is enough.
	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		db.Close()
		pool.Close()
		return GORMConnectionError(err)
	}

	p.pool = pool
	p.db = db
	p.gorm = gormDB
	return nil
}

// Close releases all database connections.
func (p *PgxReader) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
		p.db = nil
	}
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	p.gorm = nil
	return err
}

// GORM returns the GORM handle sharing the pool.
func (p *PgxReader) GORM() *gorm.DB {
	return p.gorm
}

// TableExists checks if a table exists in the public schema.
func (p *PgxReader) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}

	return exists, nil
}

// find loads all rows of the model's table into dest.
func (p *PgxReader) find(
	ctx context.Context,
	table string,
	dest any,
	order string,
) error {
	exists, err := p.TableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return missingTable(table)
	}

	tx := p.gorm.WithContext(ctx)
	if order != "" {
		tx = tx.Order(order)
	}
	if err := tx.Find(dest).Error; err != nil {
		return QueryError(table, err)
	}
	return nil
}

func (p *PgxReader) LoadMetrics(
	ctx context.Context,
) ([]peace.MetricRecord, error) {
	var rows []schema.CountryMetric
	if err := p.find(ctx, "country_metrics", &rows, "id"); err != nil {
		return nil, err
	}
	return toMetrics(rows), nil
}

func (p *PgxReader) LoadCountries(
	ctx context.Context,
) ([]peace.CountryInfo, error) {
	var rows []schema.CountryMetadata
	if err := p.find(ctx, "country_metadata", &rows, ""); err != nil {
		return nil, err
	}
	return toCountries(rows), nil
}

func (p *PgxReader) LoadEvents(
	ctx context.Context,
) ([]peace.Event, error) {
	var rows []schema.Peacekeeper
	if err := p.find(ctx, "peacekeepers", &rows, "id"); err != nil {
		return nil, err
	}
	return toEvents(rows), nil
}
