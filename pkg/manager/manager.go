package manager

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
	backend "github.com/mutablelogic/go-catalog/pkg/backend"
	httpclient "github.com/mutablelogic/go-catalog/pkg/httpclient"
	sampler "github.com/mutablelogic/go-catalog/pkg/sampler"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	attribute "go.opentelemetry.io/otel/attribute"
	metric "go.opentelemetry.io/otel/metric"
	noop "go.opentelemetry.io/otel/metric/noop"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Manager struct {
	opts
	uploads metric.Int64Counter
}

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new catalog manager.
func New(ctx context.Context, opts ...Opt) (*Manager, error) {
	self := new(Manager)

	// Apply options
	if opt, err := applyOpts(opts); err != nil {
		return nil, err
	} else {
		self.opts = opt
	}

	// Remote files are read with the catalog connection when there is one
	if self.fetcher == nil {
		if self.catalog != nil {
			self.fetcher = self.catalog.Fetcher()
		} else {
			self.fetcher = httpclient.NewRangeFetcher(nil)
		}
	}

	// Count upload actions
	if self.meter == nil {
		self.meter = noop.NewMeterProvider().Meter(schema.SchemaName)
	}
	if counter, err := self.meter.Int64Counter(schema.SchemaName+".manager.uploads", metric.WithDescription("Upload actions performed")); err != nil {
		return nil, err
	} else {
		self.uploads = counter
	}

	// Return success
	return self, nil
}

// Close all backends and the cache
func (manager *Manager) Close() error {
	var result error
	for _, backend := range manager.backends {
		if err := backend.Close(); err != nil {
			result = errors.Join(result, err)
		}
	}
	if manager.cache != nil {
		result = errors.Join(result, manager.cache.Close())
	}

	// Return any errors
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Backends returns the list of backend names
func (manager *Manager) Backends() []string {
	result := make([]string, 0, len(manager.backends))
	for _, b := range manager.backends {
		result = append(result, b.Name())
	}
	return result
}

// Sample returns the leading rows of a remote delimited-text file. URLs
// with an http or https scheme are read over HTTP, others from the backend
// named by the URL host.
func (manager *Manager) Sample(ctx context.Context, req schema.SampleRequest) (_ *schema.SampleResult, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("Sample"))
	defer func() { endFunc(err) }()

	// Select the fetcher
	fetcher, err := manager.fetcherForURL(req.URL)
	if err != nil {
		return nil, err
	}
	rows, chunk := req.Rows, req.Chunk
	if rows <= 0 {
		rows = manager.rows
	}
	if chunk <= 0 {
		chunk = manager.chunk
	}

	// Sample the file
	result, err := sampler.SampleRemoteRows(child, fetcher, req.URL, rows, chunk, req.Token)
	if err != nil {
		manager.logger.WarnContext(child, "sample failed", "url", req.URL, "error", err)
		return nil, err
	}
	return result, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) fetcherForURL(rawurl string) (catalog.Fetcher, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, httpresponse.ErrBadRequest.Withf("invalid url %q", rawurl)
	}
	switch u.Scheme {
	case "http", "https":
		return manager.fetcher, nil
	case "":
		return nil, httpresponse.ErrBadRequest.Withf("missing url scheme in %q", rawurl)
	}
	b, err := manager.backendForName(u.Host)
	if err != nil {
		return nil, err
	}
	if b.URL().Scheme != u.Scheme {
		return nil, httpresponse.ErrBadRequest.Withf("url %q does not match backend %q", rawurl, b.Name())
	}
	return b, nil
}

func (manager *Manager) backendForName(name string) (backend.Backend, error) {
	for _, backend := range manager.backends {
		if backend.Name() == name {
			return backend, nil
		}
	}
	return nil, httpresponse.ErrNotFound.Withf("no backend found for name %q", name)
}

// client returns the catalog client acting for a user
func (manager *Manager) client(auth schema.Auth) (*httpclient.Client, error) {
	if manager.catalog == nil {
		return nil, httpresponse.Err(http.StatusServiceUnavailable).With("no catalog configured")
	}
	return manager.catalog.WithToken(auth.Token, auth.CSRF), nil
}

// countUpload records a successful upload action
func (manager *Manager) countUpload(ctx context.Context, op string) {
	manager.uploads.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func spanManagerName(op string) string {
	return schema.SchemaName + ".manager." + op
}
