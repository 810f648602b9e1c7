package aws

import (
	"errors"

	// Packages
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Err maps an S3 error to an httpresponse error with the status of the
// S3 response. Missing objects, uploads and buckets are not found errors.
func Err(err error) error {
	var noSuchKey *s3types.NoSuchKey
	var noSuchUpload *s3types.NoSuchUpload
	var noSuchBucket *s3types.NoSuchBucket
	var awserr *awshttp.ResponseError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &noSuchKey):
		return httpresponse.ErrNotFound.With("object not found")
	case errors.As(err, &noSuchUpload):
		return httpresponse.ErrNotFound.With("upload not found")
	case errors.As(err, &noSuchBucket):
		return httpresponse.ErrNotFound.With("bucket not found")
	case errors.As(err, &awserr):
		return httpresponse.Err(awserr.HTTPStatusCode()).With(awserr.Error())
	default:
		return err
	}
}
