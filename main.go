// Package main provides the pvdash CLI application.
// pvdash builds peace index reports from the Paz Viva database.
package main

import "github.com/pazviva/pvdash/cmd"

func main() {
	cmd.Execute()
}
