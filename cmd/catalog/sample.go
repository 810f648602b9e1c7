package main

import (
	// Packages
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type SampleCommands struct {
	Sample SampleCommand `cmd:"" group:"SAMPLE" help:"Sample the leading rows of a CSV or TSV file"`
}

type SampleCommand struct {
	URL     string   `arg:"" help:"File URL (http, https, or a backend URL such as s3://name/path)"`
	Rows    int      `help:"Number of rows" default:"10"`
	Chunk   int64    `help:"Range request size in bytes" default:"65536"`
	Backend []string `name:"backend" help:"Backend URL (e.g. mem://name, file://name/path, s3://bucket). May be repeated." optional:""`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *SampleCommand) Run(app App) error {
	opts := []manager.Opt{}
	for _, url := range cmd.Backend {
		opts = append(opts, manager.WithBackend(app.Context(), url))
	}
	mgr, err := app.Manager(opts...)
	if err != nil {
		return err
	}
	defer mgr.Close()

	result, err := mgr.Sample(app.Context(), schema.SampleRequest{
		URL:   cmd.URL,
		Rows:  cmd.Rows,
		Chunk: cmd.Chunk,
		Token: app.Auth().Token,
	})
	if err != nil {
		return err
	}
	if result.IsEntireFile {
		header("%d rows (entire file)", len(result.Data))
	} else {
		header("%d rows", len(result.Data))
	}
	return prettyJSON(result.Data)
}
