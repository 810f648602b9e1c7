package httpclient

import (
	"context"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// GetSignedURL creates a resource identifier and returns a presigned URL
// for uploading its file in a single request
func (c *Client) GetSignedURL(ctx context.Context, req schema.SignedURLRequest) (*schema.SignedURLResponse, error) {
	return post[*schema.SignedURLResponse](ctx, c, "get_signed_url", req)
}

// CreateMultipartUpload starts a multipart upload
func (c *Client) CreateMultipartUpload(ctx context.Context, req schema.CreateMultipartUploadRequest) (*schema.MultipartUpload, error) {
	return post[*schema.MultipartUpload](ctx, c, "create-multipart-upload", req)
}

// ListParts returns the parts of an upload in progress
func (c *Client) ListParts(ctx context.Context, req schema.MultipartRequest) ([]schema.UploadPart, error) {
	response, err := post[*schema.ListPartsResponse](ctx, c, "list-parts", req)
	if err != nil {
		return nil, err
	} else if response == nil {
		return []schema.UploadPart{}, nil
	}
	return response.Parts, nil
}

// SignPart returns a presigned URL for one part of an upload
func (c *Client) SignPart(ctx context.Context, req schema.SignPartRequest) (string, error) {
	response, err := post[*schema.SignPartResponse](ctx, c, "sign-part", req)
	if err != nil {
		return "", err
	} else if response == nil {
		return "", nil
	}
	return response.URL, nil
}

// PrepareUploadParts returns presigned URLs for several parts, keyed by
// part number
func (c *Client) PrepareUploadParts(ctx context.Context, req schema.PreparePartsRequest) (map[string]string, error) {
	response, err := post[*schema.PreparePartsResponse](ctx, c, "prepare-upload-parts", req)
	if err != nil {
		return nil, err
	} else if response == nil {
		return map[string]string{}, nil
	}
	return response.PresignedURLs, nil
}

// AbortMultipartUpload discards an upload in progress
func (c *Client) AbortMultipartUpload(ctx context.Context, req schema.MultipartRequest) (*schema.AbortMultipartUploadResponse, error) {
	return post[*schema.AbortMultipartUploadResponse](ctx, c, "abort-multipart-upload", req)
}

// CompleteMultipartUpload assembles the uploaded parts into the resource file
func (c *Client) CompleteMultipartUpload(ctx context.Context, req schema.CompleteMultipartUploadRequest) (*schema.CompletedUpload, error) {
	return post[*schema.CompletedUpload](ctx, c, "complete-multipart-upload", req)
}
