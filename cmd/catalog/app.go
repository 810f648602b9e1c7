package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	cache "github.com/mutablelogic/go-catalog/pkg/cache"
	httpclient "github.com/mutablelogic/go-catalog/pkg/httpclient"
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	client "github.com/mutablelogic/go-client"
	logger "github.com/mutablelogic/go-server/pkg/logger"
	otel "go.opentelemetry.io/otel"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	Endpoint string        `env:"CATALOG_ENDPOINT" default:"http://localhost:5000/" help:"Catalog endpoint"`
	Token    string        `env:"CATALOG_TOKEN" help:"Catalog API token"`
	CSRF     string        `name:"csrf" env:"CATALOG_CSRF" help:"CSRF token sent with mutating requests"`
	Timeout  time.Duration `env:"CATALOG_TIMEOUT" default:"30s" help:"Client timeout"`
	Redis    string        `env:"REDIS_ADDR" help:"Redis address for caching schemas and vocabularies (host:port)"`
	Debug    bool          `help:"Enable debug logging"`
	Verbose  bool          `short:"v" help:"Enable verbose logging"`
	Trace    bool          `help:"Trace client requests and responses"`

	vars   kong.Vars `kong:"-"` // Variables for kong
	level  *slog.LevelVar
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

type App interface {
	Context() context.Context
	Auth() schema.Auth
	Client() (*httpclient.Client, error)
	Manager(opts ...manager.Opt) (*manager.Manager, error)
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func NewApp(app Globals, vars kong.Vars) *Globals {
	// Set the vars
	app.vars = vars

	// Set the logger
	app.level = new(slog.LevelVar)
	if app.Verbose {
		app.level.Set(logger.LevelTrace)
	} else if app.Debug {
		app.level.Set(logger.LevelDebug)
	}
	app.logger = slog.New(logger.NewTermHandler(os.Stderr, app.level))

	// Create the context
	// This context is cancelled when the process receives a SIGINT or SIGTERM
	app.ctx, app.cancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// Return the app
	return &app
}

func (app *Globals) Close() error {
	app.cancel()
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// METHODS

func (app *Globals) Context() context.Context {
	return app.ctx
}

func (app *Globals) Auth() schema.Auth {
	return schema.Auth{Token: app.Token, CSRF: app.CSRF}
}

// Client returns a catalog client which acts with the global token
func (app *Globals) Client() (*httpclient.Client, error) {
	opts := []client.ClientOpt{}
	if app.Trace {
		opts = append(opts, client.OptTrace(os.Stderr, app.Debug))
	}
	if app.Timeout > 0 {
		opts = append(opts, client.OptTimeout(app.Timeout))
	}
	c, err := httpclient.New(app.Endpoint, opts...)
	if err != nil {
		return nil, err
	}
	return c.WithToken(app.Token, app.CSRF), nil
}

// Manager returns a manager connected to the catalog, with a redis cache
// when an address is set
func (app *Globals) Manager(opts ...manager.Opt) (*manager.Manager, error) {
	client, err := app.Client()
	if err != nil {
		return nil, err
	}
	opts = append([]manager.Opt{
		manager.WithLogger(app.logger),
		manager.WithTracer(otel.Tracer(schema.SchemaName)),
		manager.WithMeter(otel.Meter(schema.SchemaName)),
		manager.WithCatalog(client),
	}, opts...)
	if app.Redis != "" {
		c, err := cache.NewRedis(app.ctx, app.Redis)
		if err != nil {
			return nil, err
		}
		opts = append(opts, manager.WithCache(c))
	}
	return manager.New(app.ctx, opts...)
}
