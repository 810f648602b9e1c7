package manager

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
	backend "github.com/mutablelogic/go-catalog/pkg/backend"
	cache "github.com/mutablelogic/go-catalog/pkg/cache"
	httpclient "github.com/mutablelogic/go-catalog/pkg/httpclient"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	metric "go.opentelemetry.io/otel/metric"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt is a functional option for manager configuration.
type Opt func(*opts) error

type opts struct {
	tracer   trace.Tracer
	meter    metric.Meter
	logger   *slog.Logger
	location *time.Location
	backends []backend.Backend
	catalog  *httpclient.Client
	fetcher  catalog.Fetcher
	storage  catalog.Storage
	cache    cache.Cache
	chunk    int64
	rows     int
}

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithTracer sets the tracer used for tracing operations.
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opts) error {
		o.tracer = tracer
		return nil
	}
}

// WithMeter sets the meter used for counting upload actions. The default
// records nothing.
func WithMeter(meter metric.Meter) Opt {
	return func(o *opts) error {
		o.meter = meter
		return nil
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Opt {
	return func(o *opts) error {
		if logger == nil {
			return httpresponse.ErrBadRequest.With("missing logger")
		}
		o.logger = logger
		return nil
	}
}

// WithLocation sets the location used for dates in forms
func WithLocation(loc *time.Location) Opt {
	return func(o *opts) error {
		o.location = loc
		return nil
	}
}

// WithBackend adds a blob backend (mem://, file://, s3://) for sampling.
// Returns an error if a backend with the same name already exists.
func WithBackend(ctx context.Context, url string, backendOpts ...backend.Opt) Opt {
	return func(o *opts) error {
		b, err := backend.NewBlobBackend(ctx, url, backendOpts...)
		if err != nil {
			return err
		}
		for _, existing := range o.backends {
			if existing.Name() == b.Name() {
				return fmt.Errorf("backend with name %q already registered", b.Name())
			}
		}
		o.backends = append(o.backends, b)
		return nil
	}
}

// WithCatalog sets the catalog client. Its token, if any, is replaced by
// the caller's token on every request.
func WithCatalog(client *httpclient.Client) Opt {
	return func(o *opts) error {
		o.catalog = client
		return nil
	}
}

// WithFetcher sets the fetcher for http:// and https:// URLs
func WithFetcher(fetcher catalog.Fetcher) Opt {
	return func(o *opts) error {
		o.fetcher = fetcher
		return nil
	}
}

// WithStorage sets the object store which receives uploads
func WithStorage(storage catalog.Storage) Opt {
	return func(o *opts) error {
		o.storage = storage
		return nil
	}
}

// WithCache sets the cache for schemas and vocabularies
func WithCache(cache cache.Cache) Opt {
	return func(o *opts) error {
		o.cache = cache
		return nil
	}
}

// WithChunkSize sets the default size of sampler range requests
func WithChunkSize(chunk int64) Opt {
	return func(o *opts) error {
		if chunk <= 0 {
			return httpresponse.ErrBadRequest.Withf("invalid chunk size %d", chunk)
		}
		o.chunk = chunk
		return nil
	}
}

// WithMaxRows sets the default number of sampled rows
func WithMaxRows(rows int) Opt {
	return func(o *opts) error {
		if rows <= 0 {
			return httpresponse.ErrBadRequest.Withf("invalid number of rows %d", rows)
		}
		o.rows = rows
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func applyOpts(opt []Opt) (opts, error) {
	// Set defaults
	o := opts{
		logger:   slog.Default(),
		location: time.Local,
		chunk:    schema.DefaultChunkSize,
		rows:     schema.DefaultSampleRows,
	}

	// Apply options
	for _, fn := range opt {
		if err := fn(&o); err != nil {
			return opts{}, err
		}
	}

	// Return success
	return o, nil
}
