package main

import (
	"os"

	// Packages
	version "github.com/mutablelogic/go-catalog/pkg/version"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type VersionCommands struct {
	Version VersionCommand `cmd:"" group:"MISC" help:"Print version information"`
}

type VersionCommand struct{}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *VersionCommand) Run(app App) error {
	_, err := os.Stdout.Write(append(version.JSON(execName()), '\n'))
	return err
}
