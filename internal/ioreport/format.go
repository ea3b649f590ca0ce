package ioreport

import "strings"

// Format is an output format of the renderer.
type Format string

const (
	Text Format = "text"
	JSON Format = "json"
	YAML Format = "yaml"
	CSV  Format = "csv"
	TSV  Format = "tsv"
)

// ParseFormat converts a string to Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Text, JSON, YAML, CSV, TSV:
		return f, nil
	case "":
		return Text, nil
	}
	return "", FormatUnknownError(s)
}

// Ext returns the file extension of the format.
func (f Format) Ext() string {
	if f == Text {
		return "txt"
	}
	return string(f)
}

func (f Format) separator() rune {
	if f == TSV {
		return '\t'
	}
	return ','
}
