package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/errcode"
)

func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL <em>%s@%s:%d/%s</em>
   Check that the server is running and the <em>database</em> section
   of the configuration file is correct.`
	vars := []any{user, host, port, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s:%d/%s: %w",
			fn, host, port, database, err),
	}
}

func SQLiteOpenError(path string, err error) error {
	msg := "Cannot open SQLite dataset <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBFileNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn, path, err),
	}
}

func UnknownDriverError(driver string) error {
	msg := "Unknown database driver <em>%s</em>, use sqlite or postgres"
	vars := []any{driver}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBUnknownDriverError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown driver %q", fn, driver),
	}
}

func NotConnectedError() error {
	msg := "Database is not connected"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: connection is not established", fn),
	}
}

func TableExistsCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBTableExistsCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: table check failed: %w", fn, err),
	}
}

func QueryError(table string, err error) error {
	msg := "Cannot read table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: query of %s failed: %w", fn, table, err),
	}
}

func ScanError(table string, err error) error {
	msg := "Cannot read a row of table <em>%s</em>"
	vars := []any{table}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBScanError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: scan of %s failed: %w", fn, table, err),
	}
}

func GORMConnectionError(err error) error {
	msg := "Cannot initialize GORM on top of the connection pool"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBGORMConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: gorm open failed: %w", fn, err),
	}
}
