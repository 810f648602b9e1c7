package main

import (
	"mime"
	"path/filepath"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type UploadCommands struct {
	SignedURL SignedURLCommand   `cmd:"" name:"signed-url" group:"UPLOADS" help:"Get a presigned URL for uploading a resource file"`
	Parts     ListPartsCommand   `cmd:"" group:"UPLOADS" help:"List the parts of a multipart upload"`
	Abort     AbortUploadCommand `cmd:"" group:"UPLOADS" help:"Abort a multipart upload"`
}

type SignedURLCommand struct {
	Package  string `arg:"" help:"Dataset identifier"`
	Filename string `arg:"" help:"File name"`
	Type     string `help:"Content type, guessed from the file extension when empty" optional:""`
}

type ListPartsCommand struct {
	Key      string `arg:"" help:"Object key"`
	UploadId string `arg:"" help:"Upload identifier"`
}

type AbortUploadCommand struct {
	ListPartsCommand
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (cmd *SignedURLCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	contentType := cmd.Type
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(cmd.Filename))
	}
	response, err := client.GetSignedURL(app.Context(), schema.SignedURLRequest{
		PackageId:   cmd.Package,
		Filename:    cmd.Filename,
		ContentType: contentType,
	})
	if err != nil {
		return err
	}
	return prettyJSON(response)
}

func (cmd *ListPartsCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	parts, err := client.ListParts(app.Context(), schema.MultipartRequest{Key: cmd.Key, UploadId: cmd.UploadId})
	if err != nil {
		return err
	}
	return prettyJSON(parts)
}

func (cmd *AbortUploadCommand) Run(app App) error {
	client, err := app.Client()
	if err != nil {
		return err
	}
	response, err := client.AbortMultipartUpload(app.Context(), schema.MultipartRequest{Key: cmd.Key, UploadId: cmd.UploadId})
	if err != nil {
		return err
	}
	return prettyJSON(response)
}
