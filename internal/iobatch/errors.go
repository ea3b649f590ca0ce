package iobatch

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/errcode"
)

func NoPeriodsError() error {
	msg := "Dataset has no indicator values, nothing to export"
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.NoPeriodsError,
		Msg:  msg,
		Err:  fmt.Errorf("from %s: %w", fn, errors.New("no periods")),
	}
}

func ExportError(period string, err error) error {
	msg := "Cannot export report of <em>%s</em>"
	vars := []any{period}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ExportError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: export of %s failed: %w", fn, period, err),
	}
}
