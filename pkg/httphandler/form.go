package httphandler

import (
	"net/http"

	// Packages
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /form/{type}
// POST converts a record into form values. Without a schema in the body the
// schema of the dataset type is fetched from the catalog.
func FormHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return "form/{type}", httprequest.NewPathItem(
		"Form",
		"Convert a record into form values (body: record, schema, vocabularies)",
		tag,
	).Post(func(w http.ResponseWriter, r *http.Request) {
		_ = recordToForm(w, r, mgr)
	}, "Record to form")
}

// Path: /record/{type}
// POST converts form values into a record.
func RecordHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return "record/{type}", httprequest.NewPathItem(
		"Record",
		"Convert form values into a record (body: form, schema)",
		tag,
	).Post(func(w http.ResponseWriter, r *http.Request) {
		_ = formToRecord(w, r, mgr)
	}, "Form to record")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func recordToForm(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	var request schema.RecordToFormRequest
	if err := httprequest.Read(r, &request); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	} else if request.Record == nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With("missing record"))
	}
	response, err := mgr.ToForm(r.Context(), auth(r), r.PathValue("type"), request)
	if err != nil {
		return actionError(w, r, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}

func formToRecord(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	var request schema.FormToRecordRequest
	if err := httprequest.Read(r, &request); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	} else if request.Form == nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With("missing form"))
	}
	response, err := mgr.ToRecord(r.Context(), auth(r), r.PathValue("type"), request)
	if err != nil {
		return actionError(w, r, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
}
