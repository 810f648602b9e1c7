package httphandler

import (
	"net/http"

	// Packages
	mapper "github.com/mutablelogic/go-catalog/pkg/mapper"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /errors
// POST flattens a catalog validation error tree into dotted field paths.
func ErrorsHandler() (string, httprequest.PathItem) {
	return "errors", httprequest.NewPathItem(
		"Errors",
		"Flatten a validation error tree",
		tag,
	).Post(func(w http.ResponseWriter, r *http.Request) {
		_ = flattenErrors(w, r)
	}, "Flatten errors")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func flattenErrors(w http.ResponseWriter, r *http.Request) error {
	var tree map[string]any
	if err := httprequest.Read(r, &tree); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), mapper.FlattenErrors(tree))
}
