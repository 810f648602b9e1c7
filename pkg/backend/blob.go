package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	// Packages
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	blob "gocloud.dev/blob"
	s3blob "gocloud.dev/blob/s3blob"
	gcerrors "gocloud.dev/gcerrors"

	// Drivers
	_ "gocloud.dev/blob/fileblob" // file:// URLs
	_ "gocloud.dev/blob/memblob"  // mem:// URLs
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type blobbackend struct {
	*opt
	bucket       *blob.Bucket
	prefix       string // URL path used for matching/stripping in Key()
	bucketPrefix string // key prefix for bucket operations (empty for file://)
}

var _ Backend = (*blobbackend)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewBlobBackend opens a blob backend. The URL host is the backend name.
// Supported URL schemes: s3://, file://, mem://
// Examples:
//   - "s3://my-bucket?region=us-east-1"
//   - "file://name/path/to/directory"
//   - "mem://name"
func NewBlobBackend(ctx context.Context, u string, opts ...Opt) (*blobbackend, error) {
	self := new(blobbackend)

	// Set the options
	if url, err := url.Parse(u); err != nil {
		return nil, err
	} else if opt, err := apply(url, opts...); err != nil {
		return nil, err
	} else {
		self.opt = opt
	}

	// The backend name is the URL host
	if !types.IsIdentifier(self.url.Host) {
		return nil, fmt.Errorf("backend name %q must be a valid identifier (letter, digits, underscores, hyphens; max 64 chars)", self.url.Host)
	}

	// For file:// the path is the bucket root, otherwise it prefixes every key
	self.prefix = strings.TrimSuffix(self.url.Path, "/")
	if self.url.Scheme != "file" {
		self.bucketPrefix = strings.TrimPrefix(self.prefix, "/")
	}

	// Open the bucket
	var bucket *blob.Bucket
	var err error
	switch {
	case self.url.Scheme == "s3" && self.awsConfig != nil:
		cfg := self.awsConfig.Copy()
		if self.tracer != nil {
			otelaws.AppendMiddlewares(&cfg.APIOptions)
		}
		bucket, err = s3blob.OpenBucket(ctx, s3.NewFromConfig(cfg, self.s3Options), self.url.Host, nil)
	case self.url.Scheme == "file":
		openURL := &url.URL{Scheme: "file", Path: self.url.Path, RawQuery: self.url.RawQuery}
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	default:
		openURL := *self.url
		openURL.Path = ""
		openURL.RawPath = ""
		bucket, err = blob.OpenBucket(ctx, openURL.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open bucket: %w", err)
	}
	self.bucket = bucket

	// Return success
	return self, nil
}

// NewFileBackend creates a file-based backend with a logical name. The
// directory must be an absolute path.
func NewFileBackend(ctx context.Context, name, dir string, opts ...Opt) (*blobbackend, error) {
	if !path.IsAbs(dir) {
		return nil, fmt.Errorf("backend dir %q must be an absolute path", dir)
	}
	return NewBlobBackend(ctx, "file://"+name+path.Clean(dir), opts...)
}

// Close the backend
func (b *blobbackend) Close() error {
	var result error
	if b.bucket != nil {
		result = errors.Join(result, b.bucket.Close())
		b.bucket = nil
	}

	// Return any errors
	return result
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Name returns the name of the backend (the host component of the URL)
func (b *blobbackend) Name() string {
	return b.url.Host
}

// URL returns the backend URL. Only s3:// URLs keep their query, which
// carries the region and endpoint.
func (b *blobbackend) URL() *url.URL {
	u := *b.url
	u.User = nil
	if u.Scheme != "s3" {
		u.RawQuery = ""
	} else {
		q := u.Query()
		q.Del("anonymous")
		u.RawQuery = q.Encode()
	}
	return &u
}

// Handles reports whether a URL refers to an object in this backend
func (b *blobbackend) Handles(u *url.URL) bool {
	return u != nil && u.Scheme == b.url.Scheme && u.Host == b.url.Host && b.Key(u.Path) != ""
}

// Key returns the storage key for a path within this backend, "/" for the
// root, or an empty string when the path is outside the backend prefix
func (b *blobbackend) Key(p string) string {
	if p == "" {
		p = "/"
	}

	// For file:// the path is the key
	if b.url.Scheme == "file" || b.prefix == "" {
		return path.Clean(p)
	}

	// Strip the prefix
	if p != b.prefix && !strings.HasPrefix(p, b.prefix+"/") {
		return ""
	}
	p = strings.TrimPrefix(p, b.prefix)
	if p == "" {
		p = "/"
	}
	return path.Clean(p)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// storageKey returns the blob key for a key returned by Key()
func (b *blobbackend) storageKey(key string) string {
	sk := strings.TrimPrefix(key, "/")
	if b.bucketPrefix != "" {
		if sk == "" {
			return b.bucketPrefix + "/"
		}
		return b.bucketPrefix + "/" + sk
	}
	return sk
}

// blobStatus returns the HTTP status for a go-cloud error
func blobStatus(err error) int {
	switch gcerrors.Code(err) {
	case gcerrors.OK:
		return http.StatusOK
	case gcerrors.NotFound:
		return http.StatusNotFound
	case gcerrors.PermissionDenied:
		return http.StatusForbidden
	case gcerrors.InvalidArgument:
		return http.StatusBadRequest
	case gcerrors.FailedPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// blobErr wraps a go-cloud blob error with the appropriate httpresponse error
func blobErr(err error, url string) error {
	if err == nil {
		return nil
	}
	switch blobStatus(err) {
	case http.StatusNotFound:
		return httpresponse.ErrNotFound.Withf("object %q not found", url)
	case http.StatusForbidden:
		return httpresponse.ErrForbidden.Withf("permission denied for %q", url)
	case http.StatusBadRequest:
		return httpresponse.ErrBadRequest.Withf("invalid argument for %q: %v", url, err)
	case http.StatusConflict:
		return httpresponse.ErrConflict.Withf("precondition failed for %q: %v", url, err)
	default:
		return httpresponse.ErrInternalError.Withf("blob operation failed: %v", err)
	}
}
