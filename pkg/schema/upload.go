package schema

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// SignedURLRequest asks for a presigned single-request upload URL
type SignedURLRequest struct {
	PackageId   string `json:"package_id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType,omitempty"`
}

type SignedURLResponse struct {
	ResourceId string `json:"resource_id"`
	SignedURL  string `json:"signed_url"`
}

// CreateMultipartUploadRequest starts a multipart upload. The uploader sends
// the content type as "type" or "contentType", other clients as
// "content_type".
type CreateMultipartUploadRequest struct {
	PackageId       string `json:"package_id"`
	ResourceId      string `json:"resource_id,omitempty"`
	Name            string `json:"name"`
	Type            string `json:"type,omitempty"`
	ContentType     string `json:"contentType,omitempty"`
	ContentTypeName string `json:"content_type,omitempty"`
}

// MultipartUpload identifies an upload in progress
type MultipartUpload struct {
	UploadId   string `json:"uploadId"`
	Key        string `json:"key"`
	ResourceId string `json:"resourceId,omitempty"`
}

// MultipartRequest is the common part of every request about an upload
// in progress
type MultipartRequest struct {
	PackageId  string `json:"package_id,omitempty"`
	ResourceId string `json:"resource_id,omitempty"`
	UploadId   string `json:"uploadId"`
	Key        string `json:"key"`
}

type SignPartRequest struct {
	MultipartRequest
	PartNumber int32 `json:"partNumber"`
}

type SignPartResponse struct {
	URL string `json:"url"`
}

type ListPartsResponse struct {
	Parts []UploadPart `json:"parts"`
}

// PreparePartsRequest asks for presigned URLs for several parts at once
type PreparePartsRequest struct {
	MultipartRequest
	Parts []PartNumber `json:"parts"`
}

type PartNumber struct {
	Number int32 `json:"number"`
}

// PreparePartsResponse maps each part number to its presigned URL
type PreparePartsResponse struct {
	PresignedURLs map[string]string `json:"presignedUrls"`
}

type CompleteMultipartUploadRequest struct {
	MultipartRequest
	Parts []UploadPart `json:"parts"`
}

// UploadPart is one uploaded part. It decodes from either
// {"PartNumber", "ETag"} or {"number", "etag"}.
type UploadPart struct {
	PartNumber   int32      `json:"PartNumber"`
	ETag         string     `json:"ETag"`
	Size         int64      `json:"Size,omitempty"`
	LastModified *time.Time `json:"LastModified,omitempty"`
}

// CompletedUpload describes the object created by completing an upload
type CompletedUpload struct {
	Location string `json:"location"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key"`
	ETag     string `json:"etag"`

	// Set when a resource identifier was given with the request
	ResourceUpdated *bool `json:"resource_updated,omitempty"`
}

type AbortMultipartUploadResponse struct {
	Message string `json:"message"`
}

// DownloadRequest asks for a presigned download URL for a resource file
type DownloadRequest struct {
	ResourceId string `json:"resource_id"`
	Filename   string `json:"filename"`
}

type DownloadResponse struct {
	URL string `json:"url"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r MultipartUpload) String() string {
	return types.Stringify(r)
}

func (r CompletedUpload) String() string {
	return types.Stringify(r)
}

func (r SignedURLResponse) String() string {
	return types.Stringify(r)
}

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// MimeType returns the content type of the upload, defaulting to
// application/octet-stream
func (r CreateMultipartUploadRequest) MimeType() string {
	for _, v := range []string{r.ContentTypeName, r.ContentType, r.Type} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return types.ContentTypeBinary
}

// Valid reports whether the part can be used to complete an upload
func (p UploadPart) Valid() bool {
	return p.PartNumber > 0 && p.ETag != ""
}

////////////////////////////////////////////////////////////////////////////////
// JSON

func (p *UploadPart) UnmarshalJSON(data []byte) error {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = UploadPart{}
	for _, key := range []string{"PartNumber", "number"} {
		if n := partNumber(v[key]); n > 0 {
			p.PartNumber = n
			break
		}
	}
	for _, key := range []string{"ETag", "etag"} {
		if etag, ok := v[key].(string); ok && etag != "" {
			p.ETag = etag
			break
		}
	}
	if size, ok := v["Size"].(float64); ok {
		p.Size = int64(size)
	}
	if modified, ok := v["LastModified"].(string); ok {
		if t, err := time.Parse(time.RFC3339, modified); err == nil {
			p.LastModified = &t
		}
	}
	return nil
}

func (p *PartNumber) UnmarshalJSON(data []byte) error {
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.Number = partNumber(v["number"])
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func partNumber(v any) int32 {
	switch v := v.(type) {
	case float64:
		return int32(v)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32); err == nil {
			return int32(n)
		}
	}
	return 0
}
