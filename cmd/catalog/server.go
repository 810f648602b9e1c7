package main

import (
	"context"
	"fmt"
	"net/url"
	"time"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
	aws "github.com/mutablelogic/go-catalog/pkg/aws"
	backend "github.com/mutablelogic/go-catalog/pkg/backend"
	httphandler "github.com/mutablelogic/go-catalog/pkg/httphandler"
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	version "github.com/mutablelogic/go-catalog/pkg/version"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	serverotel "github.com/mutablelogic/go-server/pkg/otel"
	otel "go.opentelemetry.io/otel"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServerCommands struct {
	Server RunServerCommand `cmd:"" name:"server" help:"Run HTTP server." group:"SERVER"`
}

type RunServerCommand struct {
	Addr      string   `env:"CATALOG_ADDR" default:"localhost:8080" help:"Listen address"`
	Prefix    string   `default:"/" help:"Path prefix for all handlers"`
	Origin    string   `default:"*" help:"Allowed origin for cross-origin requests"`
	Backend   []string `name:"backend" help:"Backend URL for sampling (e.g. mem://name, file://name/path, s3://bucket). May be repeated." optional:""`
	Anonymous bool     `help:"Read s3:// sampling backends without credentials"`

	// Upload storage
	Bucket        string        `env:"CATALOG_S3_BUCKET" help:"Bucket which receives uploads" group:"S3"`
	S3Endpoint    string        `name:"s3-endpoint" env:"CATALOG_S3_ENDPOINT" help:"S3 endpoint for S3-compatible stores" group:"S3"`
	Region        string        `env:"CATALOG_S3_REGION" help:"S3 region" group:"S3"`
	StoragePath   string        `env:"CATALOG_STORAGE_PATH" help:"Key prefix for uploaded files" group:"S3"`
	ACL           string        `name:"acl" env:"CATALOG_S3_ACL" default:"public-read" help:"Canned ACL of uploaded files" group:"S3"`
	AccessKey     string        `env:"CATALOG_S3_ACCESS_KEY" help:"S3 access key" group:"S3"`
	SecretKey     string        `env:"CATALOG_S3_SECRET_KEY" help:"S3 secret key" group:"S3"`
	SignedExpiry  time.Duration `default:"60s" help:"Expiry of single-request upload URLs" group:"S3"`
	PartExpiry    time.Duration `default:"1h" help:"Expiry of multipart part URLs" group:"S3"`
	DownloadProxy string        `env:"CATALOG_DOWNLOAD_PROXY" help:"Proxy URL which replaces the S3 host in download URLs" group:"S3"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunServerCommand) Run(app *Globals) error {
	tracer := otel.Tracer(schema.SchemaName)

	// Sampling backends
	opts := []manager.Opt{}
	for _, backendURL := range cmd.Backend {
		backendOpts, err := cmd.backendOpts(app, backendURL)
		if err != nil {
			return err
		}
		opts = append(opts, manager.WithBackend(app.ctx, backendURL, append(backendOpts, backend.WithTracer(tracer))...))
	}

	// Upload storage
	if cmd.Bucket != "" {
		storage, err := aws.New(app.ctx, cmd.Bucket, cmd.storageOpts()...)
		if err != nil {
			return fmt.Errorf("failed to create storage: %w", err)
		}
		app.logger.DebugContext(app.ctx, "upload storage", "storage", storage.String())
		opts = append(opts, manager.WithStorage(storage))
	}

	// Create manager
	mgr, err := app.Manager(opts...)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}
	defer mgr.Close()

	return serve(app, cmd, mgr)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (cmd *RunServerCommand) storageOpts() []catalog.Opt {
	opts := []catalog.Opt{
		catalog.WithACL(cmd.ACL),
		catalog.WithExpiry(cmd.SignedExpiry, cmd.PartExpiry),
	}
	if cmd.S3Endpoint != "" {
		opts = append(opts, catalog.WithS3Endpoint(cmd.S3Endpoint))
	}
	opts = append(opts, cmd.credentialOpts()...)
	if cmd.StoragePath != "" {
		opts = append(opts, catalog.WithStoragePath(cmd.StoragePath))
	}
	if cmd.DownloadProxy != "" {
		opts = append(opts, catalog.WithDownloadProxy(cmd.DownloadProxy))
	}
	return opts
}

// backendOpts returns the options for a sampling backend. s3:// backends
// share the AWS configuration and endpoint of the upload storage.
func (cmd *RunServerCommand) backendOpts(app *Globals, rawurl string) ([]backend.Opt, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	} else if u.Scheme != "s3" {
		return nil, nil
	}
	cfg, err := aws.LoadConfig(app.ctx, cmd.credentialOpts()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	opts := []backend.Opt{backend.WithAWSConfig(cfg)}
	if cmd.S3Endpoint != "" {
		opts = append(opts, backend.WithEndpoint(cmd.S3Endpoint))
	}
	if cmd.Region != "" {
		opts = append(opts, backend.WithRegion(cmd.Region))
	}
	if cmd.Anonymous {
		opts = append(opts, backend.WithAnonymous())
	}
	return opts, nil
}

func (cmd *RunServerCommand) credentialOpts() []catalog.Opt {
	var opts []catalog.Opt
	if cmd.Region != "" {
		opts = append(opts, catalog.WithRegion(cmd.Region))
	}
	if cmd.AccessKey != "" || cmd.SecretKey != "" {
		opts = append(opts, catalog.WithCredentials(cmd.AccessKey, cmd.SecretKey))
	}
	return opts
}

// serve registers HTTP handlers and runs the server until context is done.
func serve(app *Globals, cmd *RunServerCommand, mgr *manager.Manager) error {
	// Create the HTTP server
	srv, err := httpserver.New(cmd.Addr, nil)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// Build middleware: requests are traced and logged
	middleware := []httprouter.HTTPMiddlewareFunc{
		serverotel.HTTPHandlerFunc(cmd.Addr, app.logger),
	}

	// Create the router
	router, err := httprouter.NewRouter(app.ctx, srv.Router(), cmd.Prefix, cmd.Origin, schema.SchemaName, version.Version(), middleware...)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}
	srv.SetHandler(router)

	// Register catalog HTTP handlers
	if err := httphandler.RegisterHandlers(mgr, router); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	app.logger.InfoContext(app.ctx, "server started", "version", version.Version(), "addr", cmd.Addr, "backends", mgr.Backends())
	if err := srv.Run(app.ctx); err != nil {
		return err
	}
	app.logger.InfoContext(context.Background(), "server stopped")
	return nil
}
