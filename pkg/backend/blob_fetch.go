package backend

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	// Packages
	sampler "github.com/mutablelogic/go-catalog/pkg/sampler"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// FetchRange reads bytes [start, end] of an object, and answers the way an
// HTTP server answers a range request: the chunk carries a Content-Range
// header with the object size. An empty object is an empty chunk of size
// zero. Missing objects and unsatisfiable ranges are returned as a
// *schema.ResponseError. The token is not used, since
// credentials belong to the backend.
func (b *blobbackend) FetchRange(ctx context.Context, rawurl string, start, end int64, _ string) (*schema.Chunk, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, httpresponse.ErrBadRequest.With(err)
	} else if !b.Handles(u) {
		return nil, httpresponse.ErrBadRequest.Withf("url %q not handled by backend %q", rawurl, b.Name())
	} else if start < 0 || end < start {
		return nil, httpresponse.ErrBadRequest.Withf("invalid range %q", sampler.RangeHeader(start, end))
	}
	sk := b.storageKey(b.Key(u.Path))

	// Get the object size
	attrs, err := b.bucket.Attributes(ctx, sk)
	if err != nil {
		return nil, responseErr(blobStatus(err), rawurl, err)
	}
	if attrs.Size == 0 {
		header := make(http.Header)
		header.Set(schema.ContentRangeHeader, "bytes */0")
		return &schema.Chunk{Header: header, Body: []byte{}}, nil
	} else if start >= attrs.Size {
		response := responseErr(http.StatusRequestedRangeNotSatisfiable, rawurl, nil)
		response.Header.Set(schema.ContentRangeHeader, fmt.Sprintf("bytes */%d", attrs.Size))
		return nil, response
	}
	end = min(end, attrs.Size-1)

	// Read the range
	r, err := b.bucket.NewRangeReader(ctx, sk, start, end-start+1, nil)
	if err != nil {
		return nil, responseErr(blobStatus(err), rawurl, err)
	}
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, blobErr(err, b.Name()+":"+sk)
	}

	// Return the chunk
	header := make(http.Header)
	header.Set(schema.ContentRangeHeader, fmt.Sprintf("bytes %d-%d/%d", start, start+int64(len(body))-1, attrs.Size))
	if attrs.ContentType != "" {
		header.Set(types.ContentTypeHeader, attrs.ContentType)
	}
	if attrs.ETag != "" {
		header.Set("ETag", attrs.ETag)
	}
	return &schema.Chunk{
		Header: header,
		Body:   body,
	}, nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func responseErr(status int, url string, err error) *schema.ResponseError {
	response := &schema.ResponseError{
		StatusCode: status,
		Status:     fmt.Sprint(status, " ", http.StatusText(status)),
		URL:        url,
		Header:     make(http.Header),
	}
	if err != nil {
		response.Body = []byte(err.Error())
	}
	return response
}
