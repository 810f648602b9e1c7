package aws

import (
	"context"
	"net/url"
	"path"
	"time"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	config "github.com/aws/aws-sdk-go-v2/config"
	credentials "github.com/aws/aws-sdk-go-v2/credentials"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	catalog "github.com/mutablelogic/go-catalog"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
	otelaws "go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Client signs uploads and downloads for a single bucket
type Client struct {
	bucket       string
	region       string
	storagePath  string
	acl          string
	signedExpiry time.Duration
	partExpiry   time.Duration
	proxy        *url.URL
	s3           *s3.Client
	presign      *s3.PresignClient
}

var _ catalog.Storage = (*Client)(nil)

////////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func New(ctx context.Context, bucket string, opt ...catalog.Opt) (*Client, error) {
	if bucket == "" {
		return nil, httpresponse.ErrBadRequest.With("missing bucket")
	}
	opts, err := catalog.ApplyOpts(opt...)
	if err != nil {
		return nil, err
	}

	// Set the client parameters
	client := &Client{
		bucket:       bucket,
		storagePath:  opts.StoragePath(),
		acl:          opts.ACL(),
		signedExpiry: opts.SignedExpiry(),
		partExpiry:   opts.PartExpiry(),
		proxy:        opts.DownloadProxy(),
	}

	// Load the default configuration, with static credentials if set
	key, secret := opts.Credentials()
	cfg, err := loadConfig(ctx, opts.Region(), key, secret)
	if err != nil {
		return nil, err
	}

	// Trace S3 calls
	otelaws.AppendMiddlewares(&cfg.APIOptions)

	// Create the S3 client
	if s3 := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true

		// Without a region, requests are anonymous unless credentials were given
		if o.Region == "" {
			if key == "" {
				o.Credentials = nil
			}
			o.Region = "none"
		} else {
			client.region = o.Region
		}

		// We set the endpoint if it is not empty
		if opts.S3Endpoint() != nil {
			o.BaseEndpoint = opts.S3Endpoint()
		}
	}); s3 == nil {
		return nil, httpresponse.ErrInternalError.Withf("Invalid S3 client")
	} else {
		client.s3 = s3
	}
	client.presign = s3.NewPresignClient(client.s3)

	// Return success
	return client, nil
}

// LoadConfig returns the default AWS configuration with the region and
// static credentials of the options applied
func LoadConfig(ctx context.Context, opt ...catalog.Opt) (aws.Config, error) {
	opts, err := catalog.ApplyOpts(opt...)
	if err != nil {
		return aws.Config{}, err
	}
	key, secret := opts.Credentials()
	return loadConfig(ctx, opts.Region(), key, secret)
}

func loadConfig(ctx context.Context, region, key, secret string) (aws.Config, error) {
	var loadOpts []func(*config.LoadOptions) error
	if key != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")))
	}
	if region != "" {
		loadOpts = append(loadOpts, config.WithRegion(region))
	}
	return config.LoadDefaultConfig(ctx, loadOpts...)
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (client *Client) String() string {
	return types.Stringify(struct {
		Bucket      string `json:"bucket"`
		Region      string `json:"region,omitempty"`
		StoragePath string `json:"storage_path,omitempty"`
		ACL         string `json:"acl,omitempty"`
	}{client.bucket, client.region, client.storagePath, client.acl})
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (client *Client) S3() *s3.Client {
	return client.s3
}

func (client *Client) Region() string {
	return client.region
}

func (client *Client) Bucket() string {
	return client.bucket
}

// Key returns the object key for a resource file
func (client *Client) Key(resourceId, filename string) string {
	return path.Join(client.storagePath, "resources", resourceId, filename)
}

// DownloadURL returns a presigned GET for an existing object. When a download
// proxy is set, its scheme and host replace those of the storage endpoint.
func (client *Client) DownloadURL(ctx context.Context, key string) (string, error) {
	if _, err := client.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return "", Err(err)
	}
	req, err := client.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(client.signedExpiry))
	if err != nil {
		return "", Err(err)
	}
	return client.proxyURL(req.URL)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func (client *Client) proxyURL(signed string) (string, error) {
	if client.proxy == nil {
		return signed, nil
	}
	u, err := url.Parse(signed)
	if err != nil {
		return "", httpresponse.ErrInternalError.With(err)
	}
	u.Scheme = client.proxy.Scheme
	u.Host = client.proxy.Host
	return u.String(), nil
}
