package aws

import (
	"context"
	"slices"

	// Packages
	aws "github.com/aws/aws-sdk-go-v2/aws"
	s3 "github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	// Maximum number of parts returned when listing an upload
	maxParts = 1000
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SignedURL returns a presigned PUT for a single-request upload
func (client *Client) SignedURL(ctx context.Context, key, contentType string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket: aws.String(client.bucket),
		Key:    aws.String(key),
		ACL:    s3types.ObjectCannedACL(client.acl),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	req, err := client.presign.PresignPutObject(ctx, input, s3.WithPresignExpires(client.signedExpiry))
	if err != nil {
		return "", Err(err)
	}
	return req.URL, nil
}

// CreateMultipartUpload starts a multipart upload for a key
func (client *Client) CreateMultipartUpload(ctx context.Context, key, contentType string) (*schema.MultipartUpload, error) {
	response, err := client.s3.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(client.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACL(client.acl),
	})
	if err != nil {
		return nil, Err(err)
	}
	return &schema.MultipartUpload{
		UploadId: aws.ToString(response.UploadId),
		Key:      key,
	}, nil
}

// SignPart returns a presigned URL for uploading one part
func (client *Client) SignPart(ctx context.Context, key, uploadId string, partNumber int32) (string, error) {
	if partNumber < 1 {
		return "", httpresponse.ErrBadRequest.Withf("invalid part number %d", partNumber)
	}
	req, err := client.presign.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(client.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadId),
		PartNumber: aws.Int32(partNumber),
	}, s3.WithPresignExpires(client.partExpiry))
	if err != nil {
		return "", Err(err)
	}
	return req.URL, nil
}

// ListParts returns the parts uploaded so far
func (client *Client) ListParts(ctx context.Context, key, uploadId string) ([]schema.UploadPart, error) {
	response, err := client.s3.ListParts(ctx, &s3.ListPartsInput{
		Bucket:   aws.String(client.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadId),
		MaxParts: aws.Int32(maxParts),
	})
	if err != nil {
		return nil, Err(err)
	}
	result := make([]schema.UploadPart, 0, len(response.Parts))
	for _, part := range response.Parts {
		result = append(result, schema.UploadPart{
			PartNumber:   aws.ToInt32(part.PartNumber),
			ETag:         aws.ToString(part.ETag),
			Size:         aws.ToInt64(part.Size),
			LastModified: part.LastModified,
		})
	}
	return result, nil
}

// CompleteMultipartUpload assembles the uploaded parts into the object
func (client *Client) CompleteMultipartUpload(ctx context.Context, key, uploadId string, parts []schema.UploadPart) (*schema.CompletedUpload, error) {
	completed := CompletedParts(parts)
	if len(completed) == 0 {
		return nil, httpresponse.ErrBadRequest.With("No valid parts provided for multipart upload completion")
	}
	response, err := client.s3.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:   aws.String(client.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadId),
		MultipartUpload: &s3types.CompletedMultipartUpload{
			Parts: completed,
		},
	})
	if err != nil {
		return nil, Err(err)
	}
	return &schema.CompletedUpload{
		Location: aws.ToString(response.Location),
		Bucket:   aws.ToString(response.Bucket),
		Key:      aws.ToString(response.Key),
		ETag:     aws.ToString(response.ETag),
	}, nil
}

// AbortMultipartUpload discards an upload and its parts
func (client *Client) AbortMultipartUpload(ctx context.Context, key, uploadId string) error {
	if _, err := client.s3.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(client.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadId),
	}); err != nil {
		return Err(err)
	}
	return nil
}

// CompletedParts drops incomplete parts and sorts the rest by part number
func CompletedParts(parts []schema.UploadPart) []s3types.CompletedPart {
	result := make([]s3types.CompletedPart, 0, len(parts))
	for _, part := range parts {
		if !part.Valid() {
			continue
		}
		result = append(result, s3types.CompletedPart{
			PartNumber: aws.Int32(part.PartNumber),
			ETag:       aws.String(part.ETag),
		})
	}
	slices.SortFunc(result, func(a, b s3types.CompletedPart) int {
		return int(aws.ToInt32(a.PartNumber) - aws.ToInt32(b.PartNumber))
	})
	return result
}
