package aws_test

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	// Packages
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	catalog "github.com/mutablelogic/go-catalog"
	aws "github.com/mutablelogic/go-catalog/pkg/aws"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

func newClient(t *testing.T, opt ...catalog.Opt) *aws.Client {
	t.Helper()
	opt = append([]catalog.Opt{
		catalog.WithS3Endpoint("http://localhost:9000"),
		catalog.WithRegion("us-east-1"),
		catalog.WithCredentials("AKIDEXAMPLE", "SECRETEXAMPLE"),
		catalog.WithStoragePath("catalog"),
	}, opt...)
	client, err := aws.New(context.TODO(), "uploads", opt...)
	require.NoError(t, err)
	require.NotNil(t, client)
	return client
}

func Test_aws_001(t *testing.T) {
	assert := assert.New(t)

	t.Run("MissingBucket", func(t *testing.T) {
		_, err := aws.New(context.TODO(), "")
		assert.Error(err)
	})

	t.Run("New", func(t *testing.T) {
		client := newClient(t)
		assert.Equal("uploads", client.Bucket())
		assert.Equal("us-east-1", client.Region())
		assert.NotNil(client.S3())
		assert.Contains(client.String(), "uploads")
	})

	t.Run("Key", func(t *testing.T) {
		client := newClient(t)
		assert.Equal("catalog/resources/abc/data.csv", client.Key("abc", "data.csv"))
	})

	t.Run("KeyNoStoragePath", func(t *testing.T) {
		client := newClient(t, catalog.WithStoragePath(""))
		assert.Equal("resources/abc/data.csv", client.Key("abc", "data.csv"))
	})
}

func Test_aws_002(t *testing.T) {
	assert := assert.New(t)
	client := newClient(t, catalog.WithExpiry(2*time.Minute, 0))

	t.Run("SignedURL", func(t *testing.T) {
		signed, err := client.SignedURL(context.TODO(), client.Key("abc", "data.csv"), "text/csv")
		require.NoError(t, err)
		u, err := url.Parse(signed)
		require.NoError(t, err)
		assert.Equal("localhost:9000", u.Host)
		assert.Equal("/uploads/catalog/resources/abc/data.csv", u.Path)
		assert.Equal("120", u.Query().Get("X-Amz-Expires"))
		assert.NotEmpty(u.Query().Get("X-Amz-Signature"))
	})

	t.Run("SignPart", func(t *testing.T) {
		signed, err := client.SignPart(context.TODO(), "catalog/resources/abc/data.csv", "upload-1", 3)
		require.NoError(t, err)
		u, err := url.Parse(signed)
		require.NoError(t, err)
		assert.Equal("3", u.Query().Get("partNumber"))
		assert.Equal("upload-1", u.Query().Get("uploadId"))
		assert.Equal("3600", u.Query().Get("X-Amz-Expires"))
	})

	t.Run("SignPartInvalid", func(t *testing.T) {
		_, err := client.SignPart(context.TODO(), "key", "upload-1", 0)
		assert.Error(err)
	})

	t.Run("CompleteNoParts", func(t *testing.T) {
		_, err := client.CompleteMultipartUpload(context.TODO(), "key", "upload-1", []schema.UploadPart{
			{PartNumber: 1},
			{ETag: "etag"},
		})
		if assert.Error(err) {
			assert.Contains(err.Error(), "No valid parts")
		}
	})
}

func Test_aws_003(t *testing.T) {
	assert := assert.New(t)

	t.Run("CompletedParts", func(t *testing.T) {
		parts := aws.CompletedParts([]schema.UploadPart{
			{PartNumber: 3, ETag: "c"},
			{PartNumber: 0, ETag: "x"},
			{PartNumber: 1, ETag: "a"},
			{PartNumber: 2},
		})
		if assert.Len(parts, 2) {
			assert.Equal(int32(1), *parts[0].PartNumber)
			assert.Equal("a", *parts[0].ETag)
			assert.Equal(int32(3), *parts[1].PartNumber)
		}
	})

	t.Run("ValidFilename", func(t *testing.T) {
		for name, valid := range map[string]bool{
			"data.csv":        true,
			"report 2024.pdf": true,
			"":                false,
			"../etc/passwd":   false,
			"a<b.txt":         false,
			"what?.txt":       false,
			"CON":             false,
			"con.txt":         false,
			"com1.csv":        false,
			"console.txt":     true,
		} {
			assert.Equal(valid, aws.ValidFilename(name), name)
		}
	})

	t.Run("LongFilename", func(t *testing.T) {
		name := make([]byte, 256)
		for i := range name {
			name[i] = 'a'
		}
		assert.False(aws.ValidFilename(string(name)))
		assert.True(aws.ValidFilename(string(name[:255])))
	})
}

func Test_aws_004(t *testing.T) {
	assert := assert.New(t)
	assert.NoError(aws.Err(nil))
	assert.ErrorContains(aws.Err(fmt.Errorf("complete: %w", &s3types.NoSuchUpload{})), "upload not found")
	assert.ErrorContains(aws.Err(&s3types.NoSuchKey{}), "object not found")
	err := errors.New("other")
	assert.Equal(err, aws.Err(err))
}

func Test_aws_005(t *testing.T) {
	assert := assert.New(t)

	cfg, err := aws.LoadConfig(context.TODO(),
		catalog.WithRegion("eu-west-1"),
		catalog.WithCredentials("AKIDEXAMPLE", "SECRETEXAMPLE"),
	)
	require.NoError(t, err)
	assert.Equal("eu-west-1", cfg.Region)
	creds, err := cfg.Credentials.Retrieve(context.TODO())
	require.NoError(t, err)
	assert.Equal("AKIDEXAMPLE", creds.AccessKeyID)
	assert.Equal("SECRETEXAMPLE", creds.SecretAccessKey)
}
