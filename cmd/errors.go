package cmd

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/errcode"
)

func PeriodFormatError(s string, err error) error {
	msg := `Cannot use period <em>%s</em>
   Use YYYY-MM format, for example <em>2024-05</em>`
	vars := []any{s}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PeriodFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn, err),
	}
}

func MethodFormatError(s string, err error) error {
	msg := `Unknown aggregation method <em>%s</em>
   Use one of: latest, mean, median, sum`
	vars := []any{s}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.MethodFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: %w", fn, err),
	}
}

func DatasetEmptyError(source string) error {
	msg := `Dataset <em>%s</em> has no indicator values
   Check the <em>database</em> section of the configuration`
	vars := []any{source}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DatasetEmptyError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: %w",
			fn, errors.New("no indicator values")),
	}
}
