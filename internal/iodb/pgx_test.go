package iodb_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/internal/iodb"
	"github.com/pazviva/pvdash/internal/iotesting"
	"github.com/pazviva/pvdash/pkg/dataset"
	"github.com/pazviva/pvdash/pkg/errcode"
	"github.com/pazviva/pvdash/pkg/peace"
	"github.com/pazviva/pvdash/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Note: These are integration tests that require PostgreSQL with an
// existing pvdash_test database.
//
// Credentials are read from PVDASH_DATABASE_* environment variables,
// defaults are postgres/postgres on localhost:5432. For example:
//
//   docker run -d --name pvdash-test -e POSTGRES_PASSWORD=postgres \
//     -e POSTGRES_DB=pvdash_test -p 5432:5432 postgres:16
//
// Skip these tests with:
//   go test -short

func connectTestReader(t *testing.T) *iodb.PgxReader {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	r := iodb.NewPgxReader(iotesting.GetTestDatabaseConfig())
	if err := r.Connect(context.Background()); err != nil {
		t.Skipf("PostgreSQL is not available: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestPgxReader_Load(t *testing.T) {
	r := connectTestReader(t)
	ctx := context.Background()
	db := r.GORM()

	require.NoError(t, db.Migrator().DropTable(schema.AllModels()...))
	require.NoError(t, schema.Migrate(db))

	fx := iotesting.DefaultFixture()
	require.NoError(t, db.Create(&fx.Countries).Error)
	require.NoError(t, db.Create(&fx.Metrics).Error)
	require.NoError(t, db.Create(&fx.Peacekeepers).Error)

	exists, err := r.TableExists(ctx, "country_metrics")
	require.NoError(t, err)
	assert.True(t, exists)

	snap, err := dataset.Load(ctx, r)
	require.NoError(t, err)
	assert.Len(t, snap.Metrics, 8)
	assert.Len(t, snap.Countries, 4)
	assert.Len(t, snap.Events, 4)

	rows := snap.Ranking(peace.PeriodKey{Year: 2030, Month: 1})
	require.Len(t, rows, 5)
	assert.Equal(t, "Portugal", rows[0].DisplayName())
}

func TestPgxReader_MissingTable(t *testing.T) {
	r := connectTestReader(t)
	ctx := context.Background()

	require.NoError(t, r.GORM().Migrator().DropTable(&schema.Peacekeeper{}))

	_, err := r.LoadEvents(ctx)
	assert.ErrorIs(t, err, dataset.ErrMissingTable)
}

func TestPgxReader_Connect_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	cfg := iotesting.GetTestDatabaseConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	r := iodb.NewPgxReader(cfg)
	err := r.Connect(context.Background())
	assert.Error(t, err, "Connect should fail with invalid host")
}

func TestPgxReader_CloseNotConnected(t *testing.T) {
	r := iodb.NewPgxReader(iotesting.GetTestDatabaseConfig())
	assert.NoError(t, r.Close())
	assert.Nil(t, r.GORM())
}

func TestPgxReader_Close(t *testing.T) {
	r := connectTestReader(t)
	ctx := context.Background()

	sqlDB, err := r.GORM().DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.PingContext(ctx))

	require.NoError(t, r.Close())
	assert.Nil(t, r.GORM())
	// database/sql handle is released together with the pool
	assert.Error(t, sqlDB.PingContext(ctx))

	_, err = r.TableExists(ctx, "country_metrics")
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)

	// second Close is harmless
	assert.NoError(t, r.Close())
}
