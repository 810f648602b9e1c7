package httphandler

import (
	"errors"
	"net/http"

	// Packages
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /sample
// GET returns the leading rows of a remote delimited-text file. The
// Authorization header is passed on to the file server.
func SampleHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return "sample", httprequest.NewPathItem(
		"Sample",
		"Sample the leading rows of a remote CSV or TSV file (query: url, rows, chunk)",
		tag,
	).Get(func(w http.ResponseWriter, r *http.Request) {
		_ = sample(w, r, mgr)
	}, "Sample a remote file")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func sample(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	var request schema.SampleRequest

	// Read query parameters into request struct
	if err := httprequest.Query(r.URL.Query(), &request); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	} else if request.URL == "" {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With("missing url"))
	}
	request.Token = auth(r).Token

	// Sample the file
	response, err := mgr.Sample(r.Context(), request)
	if err != nil {
		var rangeErr *schema.ResponseError
		if errors.As(err, &rangeErr) {
			return httpresponse.Error(w, httpresponse.Err(rangeErr.StatusCode).With(rangeErr.Error()))
		}
		return httpresponse.Error(w, err)
	}

	// Return the response as JSON
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}
