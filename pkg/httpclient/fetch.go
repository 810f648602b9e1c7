package httpclient

import (
	"context"
	"io"
	"net/http"

	// Packages
	catalog "github.com/mutablelogic/go-catalog"
	sampler "github.com/mutablelogic/go-catalog/pkg/sampler"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// RangeFetcher reads byte ranges of remote files over HTTP
type RangeFetcher struct {
	client *http.Client
}

var _ catalog.Fetcher = (*RangeFetcher)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewRangeFetcher returns a fetcher which uses the given HTTP client, or the
// default client when nil
func NewRangeFetcher(client *http.Client) *RangeFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &RangeFetcher{client: client}
}

// Fetcher returns a range fetcher which shares the connection of the client
func (c *Client) Fetcher() *RangeFetcher {
	return NewRangeFetcher(c.Client.Client)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// FetchRange reads bytes [start, end] of a remote file. Any response other
// than 2xx is returned as a *schema.ResponseError.
func (f *RangeFetcher) FetchRange(ctx context.Context, url string, start, end int64, token string) (*schema.Chunk, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(schema.RangeHeader, sampler.RangeHeader(start, end))
	if token != "" {
		req.Header.Set(schema.AuthorizationHeader, token)
	}

	// Perform the request
	response, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	// Read the body
	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &schema.ResponseError{
			StatusCode: response.StatusCode,
			Status:     response.Status,
			URL:        url,
			Header:     response.Header,
			Body:       body,
		}
	}

	// Return success
	return &schema.Chunk{
		Header: response.Header,
		Body:   body,
	}, nil
}
