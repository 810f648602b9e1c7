package backend

import (
	"fmt"
	"net/url"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	trace "go.opentelemetry.io/otel/trace"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type opt struct {
	url       *url.URL
	awsConfig *aws.Config
	tracer    trace.Tracer // when set, S3 calls made with awsConfig are traced
}

type Opt func(*opt) error

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func apply(url *url.URL, opts ...Opt) (*opt, error) {
	o := opt{url: url}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	// Return success
	return &o, nil
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// WithEndpoint sets the S3 endpoint for S3-compatible services.
// For http:// endpoints, HTTPS is disabled.
func WithEndpoint(endpoint string) Opt {
	return func(o *opt) error {
		if endpoint, err := url.Parse(endpoint); err != nil {
			return err
		} else if endpoint.Scheme != "http" && endpoint.Scheme != "https" {
			return fmt.Errorf("endpoint must be http:// or https://, got %s://", endpoint.Scheme)
		} else {
			o.set("endpoint", endpoint.String())
			o.set("use_path_style", "true")
			if endpoint.Scheme == "http" {
				o.set("disable_https", "true")
			}
		}
		return nil
	}
}

// WithRegion sets the S3 region. An empty region removes it.
func WithRegion(region string) Opt {
	return func(o *opt) error {
		o.set("region", region)
		return nil
	}
}

// WithAnonymous reads public buckets without credentials
func WithAnonymous() Opt {
	return func(o *opt) error {
		o.set("anonymous", "true")
		return nil
	}
}

// WithTracer traces the S3 calls of a backend opened with WithAWSConfig
func WithTracer(tracer trace.Tracer) Opt {
	return func(o *opt) error {
		o.tracer = tracer
		return nil
	}
}

// WithAWSConfig opens s3:// URLs with the given AWS configuration. The
// endpoint, region and anonymous options still apply.
func WithAWSConfig(cfg aws.Config) Opt {
	return func(o *opt) error {
		o.awsConfig = &cfg
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// s3Options applies the URL query to the options of an S3 client
func (o *opt) s3Options(s3opts *s3.Options) {
	if o.url == nil {
		return
	}
	q := o.url.Query()
	if endpoint := q.Get("endpoint"); endpoint != "" {
		s3opts.BaseEndpoint = aws.String(endpoint)
	}
	if q.Get("use_path_style") == "true" {
		s3opts.UsePathStyle = true
	}
	if region := q.Get("region"); region != "" {
		s3opts.Region = region
	}
	if q.Get("anonymous") == "true" {
		s3opts.Credentials = aws.AnonymousCredentials{}
	}
}

func (o *opt) set(key, value string) {
	if o.url == nil {
		return
	}
	q := o.url.Query()
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	o.url.RawQuery = q.Encode()
}
