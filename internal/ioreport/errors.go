package ioreport

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/errcode"
)

func FormatUnknownError(format string) error {
	msg := "Unknown output format <em>%s</em>, use text, json, yaml, csv or tsv"
	vars := []any{format}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FormatUnknownError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: unknown format %q", fn, format),
	}
}

func RenderError(what string, err error) error {
	msg := "Cannot render %s"
	vars := []any{what}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.RenderError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot render %s: %w", fn, what, err),
	}
}
