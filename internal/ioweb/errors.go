package ioweb

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/pazviva/pvdash/pkg/errcode"
)

func WebServerError(port int, err error) error {
	msg := "HTTP server on port <em>%d</em> stopped"
	vars := []any{port}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WebServerError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: server failed: %w", fn, err),
	}
}
