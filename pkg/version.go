// Package pvdash holds build information of the Paz Viva dashboard.
package pvdash

var (
	// Version of pvdash, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
