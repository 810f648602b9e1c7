package manager

import (
	"context"
	"net/url"
	"strings"
	"sync"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Session tracks the upload of one file into a resource, and keeps the
// resource URL and name fields of the host in step with it
type Session struct {
	sync.Mutex
	host       catalog.Host
	datasetId  string
	resourceId string
	origin     string
	file       string
	location   string
	ctx        context.Context
	cancel     context.CancelFunc
}

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	msgOneFile = "Only one file is allowed. Please remove the existing file first."
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewSession starts an upload session. The resource identifier may be empty
// when the resource does not exist yet. The session context is cancelled
// when the host reports a remove action.
func (manager *Manager) NewSession(ctx context.Context, host catalog.Host, datasetId, resourceId, origin string) (*Session, error) {
	if host == nil {
		return nil, httpresponse.ErrBadRequest.With("missing host")
	} else if datasetId == "" {
		return nil, httpresponse.ErrBadRequest.With("missing dataset id")
	}
	session := &Session{
		host:       host,
		datasetId:  datasetId,
		resourceId: resourceId,
		origin:     strings.TrimSuffix(origin, "/"),
	}
	session.ctx, session.cancel = context.WithCancel(ctx)
	host.OnRemoveClicked(session.Cancel)
	return session, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Context is cancelled when the upload is cancelled
func (session *Session) Context() context.Context {
	return session.ctx
}

// Cancel the upload in progress
func (session *Session) Cancel() {
	session.cancel()
}

// FileAdded records the file to upload. A second file is rejected until the
// first is removed.
func (session *Session) FileAdded(name string) error {
	session.Lock()
	defer session.Unlock()
	if session.file != "" {
		return httpresponse.ErrConflict.With(msgOneFile)
	}
	session.file = name
	return nil
}

// FileRemoved forgets the file and clears the resource URL
func (session *Session) FileRemoved() {
	session.Lock()
	defer session.Unlock()
	session.file = ""
	session.location = ""
	session.host.SetResourceURL("")
}

// UploadSuccess records where the file was stored and sets the resource URL
func (session *Session) UploadSuccess(name, location string) {
	session.Lock()
	defer session.Unlock()
	session.location = location
	session.host.SetResourceURL(ResourceURL(session.origin, session.datasetId, session.resourceId, name))
}

// Complete sets the resource URL and name once every upload has finished
func (session *Session) Complete(name string) {
	session.Lock()
	defer session.Unlock()
	session.host.SetResourceURL(ResourceURL(session.origin, session.datasetId, session.resourceId, name))
	session.host.SetResourceName(name)
}

// File returns the name of the file being uploaded
func (session *Session) File() string {
	session.Lock()
	defer session.Unlock()
	return session.file
}

// Location returns the storage location reported by a successful upload
func (session *Session) Location() string {
	session.Lock()
	defer session.Unlock()
	return session.location
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC FUNCTIONS

// ResourceURL returns the catalog URL of a resource file. The placeholder
// stands in for a resource identifier which is not yet known.
func ResourceURL(origin, datasetId, resourceId, filename string) string {
	if resourceId == "" {
		resourceId = schema.ResourcePlaceholder
	}
	return strings.TrimSuffix(origin, "/") + "/dataset/" + datasetId + "/resource/" + resourceId + "/" + filename
}

// ResourceURLFromLocation returns the catalog URL of a stored object, whose
// location ends with the resource identifier and the file name
func ResourceURLFromLocation(origin, datasetId, location string) (string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", httpresponse.ErrBadRequest.With(err)
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-1] == "" || segments[len(segments)-2] == "" {
		return "", httpresponse.ErrBadRequest.Withf("invalid location %q", location)
	}
	return ResourceURL(origin, datasetId, segments[len(segments)-2], segments[len(segments)-1]), nil
}

// ReplacePlaceholder puts the resource identifier in place of the placeholder
func ReplacePlaceholder(url, resourceId string) string {
	return strings.ReplaceAll(url, schema.ResourcePlaceholder, resourceId)
}
