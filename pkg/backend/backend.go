// Package backend reads byte ranges of objects held in blob storage, so that
// files in a bucket can be sampled the same way as files served over HTTP.
package backend

import (
	"io"
	"net/url"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Backend is a named blob store which serves range reads. A URL is handled
// by a backend when its scheme and host match those of the backend.
type Backend interface {
	io.Closer
	catalog.Fetcher

	// Name returns the name of the backend
	Name() string

	// URL returns the backend location, without credentials
	URL() *url.URL
}
