package main

import (
	"encoding/json"
	"fmt"
	"os"

	// Packages
	color "github.com/fatih/color"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func prettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// header prints a heading, coloured when stdout is a terminal
func header(format string, a ...any) {
	color.New(color.FgCyan, color.Bold).Fprintln(os.Stdout, fmt.Sprintf(format, a...))
}
