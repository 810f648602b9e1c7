package catalog

import (
	"net/url"
	"time"

	// Packages
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	s3endpoint   *string
	region       *string
	storagePath  *string
	acl          *string
	accessKey    *string
	secretKey    *string
	proxy        *url.URL
	signedExpiry time.Duration
	partExpiry   time.Duration
}

// Opt represents a function that modifies the options
type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Expiry of a presigned single-request upload URL. Short so the same URL
	// cannot be reused.
	DefaultSignedExpiry = 60 * time.Second

	// Expiry of a presigned multipart part URL
	DefaultPartExpiry = time.Hour

	// Canned ACL applied to new uploads
	DefaultACL = "public-read"
)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// ApplyOpts applies the given options to the opt struct
func ApplyOpts(opts ...Opt) (*opt, error) {
	o := opt{
		signedExpiry: DefaultSignedExpiry,
		partExpiry:   DefaultPartExpiry,
	}

	// Apply the options
	for _, fn := range opts {
		if err := fn(&o); err != nil {
			return nil, err
		}
	}

	// Return success
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - GET

func (o *opt) S3Endpoint() *string {
	return o.s3endpoint
}

func (o *opt) Region() string {
	return types.PtrString(o.region)
}

// StoragePath is the key prefix under which resources are stored
func (o *opt) StoragePath() string {
	return types.PtrString(o.storagePath)
}

func (o *opt) ACL() string {
	if o.acl == nil {
		return DefaultACL
	}
	return *o.acl
}

// Credentials returns the static access key and secret, or empty strings
// when the default credential chain should be used
func (o *opt) Credentials() (string, string) {
	return types.PtrString(o.accessKey), types.PtrString(o.secretKey)
}

// DownloadProxy returns the host which replaces the storage host in
// download URLs, or nil
func (o *opt) DownloadProxy() *url.URL {
	return o.proxy
}

func (o *opt) SignedExpiry() time.Duration {
	return o.signedExpiry
}

func (o *opt) PartExpiry() time.Duration {
	return o.partExpiry
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - SET

// Set the S3 endpoint URL, for S3-compatible services
func WithS3Endpoint(endpoint string) Opt {
	return func(o *opt) error {
		if endpoint != "" {
			o.s3endpoint = types.StringPtr(endpoint)
		}
		return nil
	}
}

// Set the region
func WithRegion(region string) Opt {
	return func(o *opt) error {
		if region != "" {
			o.region = types.StringPtr(region)
		}
		return nil
	}
}

// Set the storage path, which prefixes every resource key
func WithStoragePath(path string) Opt {
	return func(o *opt) error {
		o.storagePath = types.StringPtr(path)
		return nil
	}
}

// Set the canned ACL for new uploads
func WithACL(acl string) Opt {
	return func(o *opt) error {
		o.acl = types.StringPtr(acl)
		return nil
	}
}

// Set static credentials
func WithCredentials(key, secret string) Opt {
	return func(o *opt) error {
		if key != "" && secret != "" {
			o.accessKey = types.StringPtr(key)
			o.secretKey = types.StringPtr(secret)
		}
		return nil
	}
}

// Set the expiry for single-request and part upload URLs. Zero values
// keep the defaults.
func WithExpiry(signed, part time.Duration) Opt {
	return func(o *opt) error {
		if signed < 0 || part < 0 {
			return httpresponse.ErrBadRequest.With("expiry cannot be negative")
		}
		if signed > 0 {
			o.signedExpiry = signed
		}
		if part > 0 {
			o.partExpiry = part
		}
		return nil
	}
}

// Set a proxy which serves downloads in place of the storage host. The proxy
// must restore the storage Host header, which is part of the signature.
func WithDownloadProxy(proxy string) Opt {
	return func(o *opt) error {
		if proxy == "" {
			return nil
		}
		u, err := url.Parse(proxy)
		if err != nil {
			return httpresponse.ErrBadRequest.Withf("download proxy: %v", err)
		} else if u.Scheme == "" || u.Host == "" {
			return httpresponse.ErrBadRequest.Withf("download proxy: invalid url %q", proxy)
		}
		o.proxy = u
		return nil
	}
}
