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

// Path: /download/{resource}/{filename}
// GET redirects to a presigned URL for a resource file.
func DownloadHandler(mgr *manager.Manager) (string, httprequest.PathItem) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		_ = download(w, r, mgr)
	}
	return "download/{resource}/{filename}", httprequest.NewPathItem(
		"Download",
		"Redirect to the stored file of a resource",
		tag,
	).Get(handler, "Download a resource file").Head(handler, "Check a resource file")
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func download(w http.ResponseWriter, r *http.Request, mgr *manager.Manager) error {
	response, err := mgr.Download(r.Context(), schema.DownloadRequest{
		ResourceId: r.PathValue("resource"),
		Filename:   r.PathValue("filename"),
	})
	if err != nil {
		return httpresponse.Error(w, err)
	}
	http.Redirect(w, r, response.URL, http.StatusFound)
	return nil
}
