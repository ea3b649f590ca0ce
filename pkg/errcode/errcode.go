package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError
	ConfigYAMLError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBUnknownDriverError
	DBFileNotFoundError
	DBTableExistsCheckError
	DBQueryError
	DBScanError
	DBGORMConnectionError

	// Dataset errors
	DatasetEmptyError

	// Input errors
	PeriodFormatError
	MethodFormatError
	FormatUnknownError
	NoPeriodsError

	// Report errors
	RenderError
	ExportError

	// Web errors
	WebServerError
)
