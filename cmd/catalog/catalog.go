package main

import (
	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type CatalogCommands struct {
	Schemas      ListSchemasCommand      `cmd:"" group:"CATALOG" help:"List dataset types"`
	Schema       GetSchemaCommand        `cmd:"" group:"CATALOG" help:"Get the schema of a dataset type"`
	Vocabularies ListVocabulariesCommand `cmd:"" group:"CATALOG" help:"List vocabularies"`
	Licenses     ListLicensesCommand     `cmd:"" group:"CATALOG" help:"List licenses"`
	Groups       ListGroupsCommand       `cmd:"" group:"CATALOG" help:"List groups of a type"`
	Tags         TagAutocompleteCommand  `cmd:"" group:"CATALOG" help:"Complete a tag"`
	Authorize    AuthorizeCommand        `cmd:"" group:"CATALOG" help:"Get a data access token for a dataset"`
}

type ListSchemasCommand struct{}

type GetSchemaCommand struct {
	Type string `arg:"" help:"Dataset type"`
}

type ListVocabulariesCommand struct{}

type ListLicensesCommand struct{}

type ListGroupsCommand struct {
	Type string `arg:"" help:"Group type (e.g. theme, topic)"`
}

type TagAutocompleteCommand struct {
	Prefix     string `arg:"" help:"Incomplete tag"`
	Vocabulary string `help:"Vocabulary identifier" optional:""`
}

type AuthorizeCommand struct {
	Dataset string `arg:"" help:"Dataset identifier"`
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *ListSchemasCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	types, err := client.SchemaList(app.Context())
	if err != nil {
		return err
	}
	return prettyJSON(types)
}

func (cmd *GetSchemaCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	s, err := client.SchemaShow(app.Context(), cmd.Type)
	if err != nil {
		return err
	}
	header("%s: %d fields", s.DatasetType, len(s.Fields))
	return prettyJSON(s)
}

func (cmd *ListVocabulariesCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	vocabularies, err := client.VocabularyList(app.Context())
	if err != nil {
		return err
	}
	return prettyJSON(vocabularies)
}

func (cmd *ListLicensesCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	licenses, err := client.LicenseList(app.Context())
	if err != nil {
		return err
	}
	return prettyJSON(licenses)
}

func (cmd *ListGroupsCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	groups, err := client.GroupList(app.Context(), schema.GroupListRequest{Type: cmd.Type})
	if err != nil {
		return err
	}
	return prettyJSON(groups)
}

func (cmd *TagAutocompleteCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	tags, err := client.TagAutocomplete(app.Context(), cmd.Prefix, cmd.Vocabulary)
	if err != nil {
		return err
	}
	return prettyJSON(tags)
}

func (cmd *AuthorizeCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	response, err := client.Authorize(app.Context(), cmd.Dataset)
	if err != nil {
		return err
	}
	return prettyJSON(response)
}
