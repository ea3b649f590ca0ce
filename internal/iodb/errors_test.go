package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConnectionError_Structure verifies error structure.
func TestConnectionError_Structure(t *testing.T) {
	originalErr := errors.New("connection refused")

	err := ConnectionError("localhost", 5432, "paz", "postgres",
		originalErr)

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
	assert.Len(t, gnErr.Vars, 4,
		"Should have 4 vars: user, host, port, database")
	assert.ErrorIs(t, gnErr.Err, originalErr)
}

// TestUnknownDriverError_Structure verifies error structure.
func TestUnknownDriverError_Structure(t *testing.T) {
	err := UnknownDriverError("mysql")

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBUnknownDriverError, gnErr.Code)
	assert.Equal(t, []any{"mysql"}, gnErr.Vars)
	assert.Contains(t, gnErr.Err.Error(), "mysql")
}

// TestNotConnectedError_Structure verifies error structure.
func TestNotConnectedError_Structure(t *testing.T) {
	err := NotConnectedError()

	require.NotNil(t, err)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")

	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
	assert.NotEmpty(t, gnErr.Msg)
}

// TestAllErrors_ErrorWrapping verifies proper error
// wrapping.
func TestAllErrors_ErrorWrapping(t *testing.T) {
	originalErr := errors.New("root cause")

	tests := []struct {
		name  string
		code  gn.ErrorCode
		error error
	}{
		{
			name: "ConnectionError",
			code: errcode.DBConnectionError,
			error: ConnectionError("host", 5432, "db", "user",
				originalErr),
		},
		{
			name:  "SQLiteOpenError",
			code:  errcode.DBFileNotFoundError,
			error: SQLiteOpenError("paz.db", originalErr),
		},
		{
			name:  "TableExistsCheckError",
			code:  errcode.DBTableExistsCheckError,
			error: TableExistsCheckError("table", originalErr),
		},
		{
			name:  "QueryError",
			code:  errcode.DBQueryError,
			error: QueryError("table", originalErr),
		},
		{
			name:  "ScanError",
			code:  errcode.DBScanError,
			error: ScanError("table", originalErr),
		},
		{
			name:  "GORMConnectionError",
			code:  errcode.DBGORMConnectionError,
			error: GORMConnectionError(originalErr),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr := tt.error.(*gn.Error)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.ErrorIs(t, gnErr.Err, originalErr,
				"Should wrap original error")
		})
	}
}
