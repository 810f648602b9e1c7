package main

import (
	"encoding/json"
	"os"

	// Packages
	mapper "github.com/mutablelogic/go-catalog/pkg/mapper"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type FormCommands struct {
	Form   LoadFormCommand     `cmd:"" group:"FORMS" help:"Load a dataset as form values"`
	Save   SaveFormCommand     `cmd:"" group:"FORMS" help:"Save form values as a dataset"`
	Errors FlattenErrorCommand `cmd:"" group:"FORMS" help:"Flatten a validation error tree read from a file"`
}

type LoadFormCommand struct {
	Id string `arg:"" help:"Dataset identifier or name"`
}

type SaveFormCommand struct {
	Type   string `arg:"" help:"Dataset type"`
	Path   string `arg:"" type:"existingfile" help:"JSON file of form values"`
	Create bool   `help:"Create a new dataset rather than update an existing one"`
}

type FlattenErrorCommand struct {
	Path string `arg:"" type:"existingfile" help:"JSON file with the error member of a failed action"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *LoadFormCommand) Run(app App) error {
	mgr, err := app.Manager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	form, err := mgr.LoadForm(app.Context(), app.Auth(), cmd.Id)
	if err != nil {
		return err
	}
	for _, group := range form.FieldGroups {
		header("%s (%s)", group.Label, group.Name)
	}
	return prettyJSON(form.Values)
}

func (cmd *SaveFormCommand) Run(app App) error {
	var form schema.Values
	if err := readJSON(cmd.Path, &form); err != nil {
		return err
	}

	mgr, err := app.Manager()
	if err != nil {
		return err
	}
	defer mgr.Close()

	record, err := mgr.SaveForm(app.Context(), app.Auth(), cmd.Type, form, cmd.Create)
	if err != nil {
		return err
	}
	return prettyJSON(record)
}

func (cmd *FlattenErrorCommand) Run(app App) error {
	var tree map[string]any
	if err := readJSON(cmd.Path, &tree); err != nil {
		return err
	}
	delete(tree, "__type")
	delete(tree, "message")
	return prettyJSON(mapper.FlattenErrors(tree))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
