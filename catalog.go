package catalog

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

////////////////////////////////////////////////////////////////////////////////
// INTERFACES

// Fetcher reads a single byte range of a remote resource. Implementations
// return a *schema.ResponseError when the remote end answers with a
// non-success status.
type Fetcher interface {
	// FetchRange reads bytes [start, end] inclusive. The token, when not empty,
	// is passed through as the Authorization header.
	FetchRange(ctx context.Context, url string, start, end int64, token string) (*schema.Chunk, error)
}

// Storage is the object store which receives resource uploads
type Storage interface {
	// Return the bucket name
	Bucket() string

	// Key returns the object key for a resource file
	Key(resourceId, filename string) string

	// Single-request uploads
	SignedURL(ctx context.Context, key, contentType string) (string, error)

	// Multipart uploads
	CreateMultipartUpload(ctx context.Context, key, contentType string) (*schema.MultipartUpload, error)
	SignPart(ctx context.Context, key, uploadId string, partNumber int32) (string, error)
	ListParts(ctx context.Context, key, uploadId string) ([]schema.UploadPart, error)
	CompleteMultipartUpload(ctx context.Context, key, uploadId string, parts []schema.UploadPart) (*schema.CompletedUpload, error)
	AbortMultipartUpload(ctx context.Context, key, uploadId string) error

	// DownloadURL returns a presigned URL for reading an existing object
	DownloadURL(ctx context.Context, key string) (string, error)
}

// Host is the user interface which embeds an upload. It receives the
// resource URL as uploads progress and reports when the user removes the file.
type Host interface {
	// Set the value of the resource URL field. An empty string clears it.
	SetResourceURL(string)

	// Set the value of the resource name field
	SetResourceName(string)

	// Register a callback for the host's remove action
	OnRemoveClicked(func())
}
