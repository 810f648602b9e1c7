package manager

import (
	"context"

	// Packages
	httpclient "github.com/mutablelogic/go-catalog/pkg/httpclient"
	mapper "github.com/mutablelogic/go-catalog/pkg/mapper"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	errgroup "golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	cacheKeySchema       = "schema:"
	cacheKeyVocabularies = "vocabularies"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// LoadForm fetches a record, then its schema and the vocabularies in
// parallel, and returns the record as form values
func (manager *Manager) LoadForm(ctx context.Context, auth schema.Auth, id string) (_ *schema.Form, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("LoadForm"))
	defer func() { endFunc(err) }()

	client, err := manager.client(auth)
	if err != nil {
		return nil, err
	}

	// Fetch the record
	record, err := client.PackageShow(child, id)
	if err != nil {
		return nil, err
	}

	// Fetch the schema and vocabularies
	var s *schema.DatasetSchema
	var vocabularies []schema.Vocabulary
	g, gctx := errgroup.WithContext(child)
	g.Go(func() (err error) {
		s, err = manager.schema(gctx, client, record.Type())
		return err
	})
	g.Go(func() (err error) {
		vocabularies, err = manager.vocabularies(gctx, client)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Convert the record
	return manager.form(record, s, vocabularies)
}

// SaveForm converts form values into a record, then creates or updates it
func (manager *Manager) SaveForm(ctx context.Context, auth schema.Auth, datasetType string, form schema.Values, create bool) (_ schema.Values, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("SaveForm"))
	defer func() { endFunc(err) }()

	client, err := manager.client(auth)
	if err != nil {
		return nil, err
	}
	s, err := manager.schema(child, client, datasetType)
	if err != nil {
		return nil, err
	}
	record, err := mapper.FormToRecord(form, s, manager.mapperOpts()...)
	if err != nil {
		return nil, httpresponse.ErrBadRequest.With(err)
	}

	// Create or update the record
	if create {
		return client.PackageCreate(child, record)
	}
	return client.PackageUpdate(child, record)
}

// ToForm converts a record into form values. Without a schema in the
// request, the schema of the dataset type is fetched from the catalog.
func (manager *Manager) ToForm(ctx context.Context, auth schema.Auth, datasetType string, req schema.RecordToFormRequest) (_ *schema.Form, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ToForm"))
	defer func() { endFunc(err) }()

	s := req.Schema
	if s == nil {
		if datasetType == "" {
			datasetType = req.Record.Type()
		}
		client, err := manager.client(auth)
		if err != nil {
			return nil, err
		}
		if s, err = manager.schema(child, client, datasetType); err != nil {
			return nil, err
		}
	}
	return manager.form(req.Record, s, req.Vocabularies)
}

// ToRecord converts form values into a record. Without a schema in the
// request, the schema of the dataset type is fetched from the catalog.
func (manager *Manager) ToRecord(ctx context.Context, auth schema.Auth, datasetType string, req schema.FormToRecordRequest) (_ schema.Values, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ToRecord"))
	defer func() { endFunc(err) }()

	s := req.Schema
	if s == nil {
		client, err := manager.client(auth)
		if err != nil {
			return nil, err
		}
		if s, err = manager.schema(child, client, datasetType); err != nil {
			return nil, err
		}
	}
	record, err := mapper.FormToRecord(req.Form, s, manager.mapperOpts()...)
	if err != nil {
		return nil, httpresponse.ErrBadRequest.With(err)
	}
	return record, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (manager *Manager) form(record schema.Values, s *schema.DatasetSchema, vocabularies []schema.Vocabulary) (*schema.Form, error) {
	values, err := mapper.RecordToForm(record, s, vocabularies, manager.mapperOpts()...)
	if err != nil {
		return nil, httpresponse.ErrBadRequest.With(err)
	}
	return &schema.Form{
		Values:      values,
		Schema:      s,
		FieldGroups: mapper.FieldGroups(s.FieldGroups, s.Fields),
	}, nil
}

func (manager *Manager) mapperOpts() []mapper.Opt {
	return []mapper.Opt{
		mapper.WithLogger(manager.logger),
		mapper.WithLocation(manager.location),
	}
}

// schema returns the schema for a dataset type, from the cache when present
func (manager *Manager) schema(ctx context.Context, client *httpclient.Client, datasetType string) (*schema.DatasetSchema, error) {
	if datasetType == "" {
		return nil, httpresponse.ErrBadRequest.With("missing dataset type")
	}
	var result schema.DatasetSchema
	if manager.fromCache(ctx, cacheKeySchema+datasetType, &result) {
		return &result, nil
	}
	s, err := client.SchemaShow(ctx, datasetType)
	if err != nil {
		return nil, err
	}
	manager.toCache(ctx, cacheKeySchema+datasetType, s)
	return s, nil
}

// vocabularies returns every vocabulary, from the cache when present
func (manager *Manager) vocabularies(ctx context.Context, client *httpclient.Client) ([]schema.Vocabulary, error) {
	var result []schema.Vocabulary
	if manager.fromCache(ctx, cacheKeyVocabularies, &result) {
		return result, nil
	}
	result, err := client.VocabularyList(ctx)
	if err != nil {
		return nil, err
	}
	manager.toCache(ctx, cacheKeyVocabularies, result)
	return result, nil
}

// fromCache returns true when the key was read from the cache. Cache
// failures are logged and treated as a miss.
func (manager *Manager) fromCache(ctx context.Context, key string, out any) bool {
	if manager.cache == nil {
		return false
	}
	found, err := manager.cache.Get(ctx, key, out)
	if err != nil {
		manager.logger.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return false
	}
	return found
}

func (manager *Manager) toCache(ctx context.Context, key string, value any) {
	if manager.cache == nil {
		return
	}
	if err := manager.cache.Set(ctx, key, value); err != nil {
		manager.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}
