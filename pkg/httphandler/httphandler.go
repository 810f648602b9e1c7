package httphandler

import (
	"errors"
	"net/http"

	// Packages
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	jsonschema "github.com/mutablelogic/go-server/pkg/jsonschema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Router is the interface required to register HTTP handlers.
type Router interface {
	RegisterPath(path string, params *jsonschema.Schema, pathitem httprequest.PathItem) error
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const tag = "catalog"

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// RegisterHandlers registers all catalog HTTP handlers on the provided router.
func RegisterHandlers(mgr *manager.Manager, router Router) error {
	var result error
	register := func(path string, pathitem httprequest.PathItem) {
		result = errors.Join(result, router.RegisterPath(path, nil, pathitem))
	}
	register(ActionHandler(mgr))
	register(SampleHandler(mgr))
	register(FormHandler(mgr))
	register(RecordHandler(mgr))
	register(ErrorsHandler())
	register(DownloadHandler(mgr))
	register(MetricsHandler())
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// auth returns the caller's credentials from the request headers
func auth(r *http.Request) schema.Auth {
	return schema.Auth{
		Token: r.Header.Get(schema.AuthorizationHeader),
		CSRF:  r.Header.Get(schema.CSRFTokenHeader),
	}
}
