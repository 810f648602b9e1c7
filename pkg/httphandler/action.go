package httphandler

import (
	"context"
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

// Path: /api/3/action/{action}
// POST performs an upload action and returns the result in the catalog
// response envelope.
func ActionHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	return schema.ActionPath + "/{action}", httprequest.NewPathItem(
		"Upload actions",
		"Perform an upload action: get_signed_url, create-multipart-upload, sign-part, prepare-upload-parts, list-parts, complete-multipart-upload, abort-multipart-upload or resource_create",
		tag,
	).Post(func(w http.ResponseWriter, r *http.Request) {
		_ = actionDispatch(w, r, mgr)
	}, "Perform an upload action")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func actionDispatch(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	switch name := r.PathValue("action"); name {
	case "get_signed_url":
		return action(w, r, mgr.SignedURL)
	case "create-multipart-upload":
		return action(w, r, mgr.CreateMultipartUpload)
	case "sign-part":
		return action(w, r, mgr.SignPart)
	case "prepare-upload-parts":
		return action(w, r, mgr.PrepareUploadParts)
	case "list-parts":
		return action(w, r, mgr.ListParts)
	case "complete-multipart-upload":
		return action(w, r, mgr.CompleteMultipartUpload)
	case "abort-multipart-upload":
		return action(w, r, mgr.AbortMultipartUpload)
	case "resource_create":
		return action(w, r, mgr.ResourceCreate)
	default:
		return httpresponse.Error(w, httpresponse.ErrNotFound.Withf("unknown action %q", name))
	}
}

// action decodes the request body, performs the action and writes the
// envelope
func action[Req, Resp any](w http.ResponseWriter, r *http.Request, fn func(context.Context, schema.Auth, Req) (Resp, error)) error {
	var req Req
	if err := httprequest.Read(r, &req); err != nil {
		return httpresponse.Error(w, httpresponse.ErrBadRequest.With(err.Error()))
	}
	result, err := fn(r.Context(), auth(r), req)
	if err != nil {
		return actionError(w, r, err)
	}
	return httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), schema.ActionResponse[Resp]{
		Success: true,
		Result:  result,
	})
}

// actionError writes catalog errors in the envelope, and any other error as
// a plain error response
func actionError(w http.ResponseWriter, r *http.Request, err error) error {
	var actionErr *schema.ActionError
	if !errors.As(err, &actionErr) {
		return httpresponse.Error(w, err)
	}
	return httpresponse.JSON(w, actionErr.StatusCode(), httprequest.Indent(r), schema.ActionResponse[any]{
		Success: false,
		Error:   actionErr,
	})
}
