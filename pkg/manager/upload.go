package manager

import (
	"context"
	"strconv"
	"strings"

	// Packages
	uuid "github.com/google/uuid"
	aws "github.com/mutablelogic/go-catalog/pkg/aws"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	otel "github.com/mutablelogic/go-client/pkg/otel"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	msgLoginRequired = "You must be logged in to upload files"
	msgUploadId      = "Upload ID is required"
	msgKey           = "Key is required"
	msgPartNumber    = "Part number is required"
	msgParts         = "Parts list is required"
	msgFilename      = "Filename is required"
	msgPackageId     = "Package ID is required"
	msgInvalidName   = "Invalid filename"
	msgAborted       = "Multipart upload aborted successfully"
)

////////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// SignedURL creates a resource identifier and returns a presigned URL for
// uploading its file in a single request
func (manager *Manager) SignedURL(ctx context.Context, auth schema.Auth, req schema.SignedURLRequest) (_ *schema.SignedURLResponse, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("SignedURL"))
	defer func() { endFunc(err) }()

	// Validate the request
	if err := manager.canUpload(auth); err != nil {
		return nil, err
	}
	req.PackageId, req.Filename = strings.TrimSpace(req.PackageId), strings.TrimSpace(req.Filename)
	if req.PackageId == "" {
		return nil, schema.NewValidationError("package_id", msgPackageId)
	} else if req.Filename == "" {
		return nil, schema.NewValidationError("filename", msgFilename)
	} else if err := manager.packageExists(child, auth, req.PackageId); err != nil {
		return nil, err
	} else if !aws.ValidFilename(req.Filename) {
		return nil, schema.NewValidationError("filename", msgInvalidName)
	}

	// Sign the upload
	resourceId := uuid.NewString()
	url, err := manager.storage.SignedURL(child, manager.storage.Key(resourceId, req.Filename), req.ContentType)
	if err != nil {
		manager.logger.ErrorContext(child, "failed to sign upload", "package_id", req.PackageId, "error", err)
		return nil, schema.NewValidationError("upload", "Failed to generate upload URL")
	}

	// Return success
	manager.countUpload(child, "SignedURL")
	return &schema.SignedURLResponse{
		ResourceId: resourceId,
		SignedURL:  url,
	}, nil
}

// CreateMultipartUpload starts a multipart upload. A resource identifier is
// created when the request does not carry one.
func (manager *Manager) CreateMultipartUpload(ctx context.Context, auth schema.Auth, req schema.CreateMultipartUploadRequest) (_ *schema.MultipartUpload, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("CreateMultipartUpload"))
	defer func() { endFunc(err) }()

	// Validate the request
	if err := manager.canUpload(auth); err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, schema.NewValidationError("filename", msgFilename)
	} else if req.PackageId == "" {
		return nil, schema.NewValidationError("package_id", msgPackageId)
	} else if !aws.ValidFilename(req.Name) {
		return nil, schema.NewValidationError("filename", msgInvalidName)
	} else if err := manager.packageExists(child, auth, req.PackageId); err != nil {
		return nil, err
	}

	// Start the upload
	resourceId := req.ResourceId
	if resourceId == "" {
		resourceId = uuid.NewString()
	}
	upload, err := manager.storage.CreateMultipartUpload(child, manager.storage.Key(resourceId, req.Name), req.MimeType())
	if err != nil {
		return nil, manager.storageErr(child, "create upload", err)
	}
	upload.ResourceId = resourceId

	// Return success
	manager.countUpload(child, "CreateMultipartUpload")
	return upload, nil
}

// SignPart returns a presigned URL for one part of an upload
func (manager *Manager) SignPart(ctx context.Context, auth schema.Auth, req schema.SignPartRequest) (_ *schema.SignPartResponse, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("SignPart"))
	defer func() { endFunc(err) }()

	if err := manager.canUpload(auth); err != nil {
		return nil, err
	} else if req.UploadId == "" || req.Key == "" || req.PartNumber <= 0 {
		return nil, schema.NewValidationError("upload_id", msgUploadId, "key", msgKey, "part_number", msgPartNumber)
	}
	url, err := manager.storage.SignPart(child, req.Key, req.UploadId, req.PartNumber)
	if err != nil {
		return nil, manager.storageErr(child, "sign part", err)
	}
	return &schema.SignPartResponse{URL: url}, nil
}

// PrepareUploadParts returns presigned URLs for several parts of an upload,
// keyed by part number. Parts without a number are skipped.
func (manager *Manager) PrepareUploadParts(ctx context.Context, auth schema.Auth, req schema.PreparePartsRequest) (_ *schema.PreparePartsResponse, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("PrepareUploadParts"))
	defer func() { endFunc(err) }()

	if err := manager.canUpload(auth); err != nil {
		return nil, err
	} else if req.UploadId == "" || req.Key == "" {
		return nil, schema.NewValidationError("upload_id", msgUploadId, "key", msgKey)
	}
	result := &schema.PreparePartsResponse{
		PresignedURLs: make(map[string]string, len(req.Parts)),
	}
	for _, part := range req.Parts {
		if part.Number <= 0 {
			continue
		}
		url, err := manager.storage.SignPart(child, req.Key, req.UploadId, part.Number)
		if err != nil {
			return nil, manager.storageErr(child, "prepare parts", err)
		}
		result.PresignedURLs[strconv.Itoa(int(part.Number))] = url
	}
	return result, nil
}

// ListParts returns the parts uploaded so far
func (manager *Manager) ListParts(ctx context.Context, auth schema.Auth, req schema.MultipartRequest) (_ *schema.ListPartsResponse, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ListParts"))
	defer func() { endFunc(err) }()

	if err := manager.canUpload(auth); err != nil {
		return nil, err
	} else if req.UploadId == "" || req.Key == "" {
		return nil, schema.NewValidationError("upload_id", msgUploadId, "key", msgKey)
	}
	parts, err := manager.storage.ListParts(child, req.Key, req.UploadId)
	if err != nil {
		return nil, manager.storageErr(child, "list parts", err)
	}
	return &schema.ListPartsResponse{Parts: parts}, nil
}

// CompleteMultipartUpload assembles the uploaded parts. When the request
// names a resource, its URL is set to the location of the object.
func (manager *Manager) CompleteMultipartUpload(ctx context.Context, auth schema.Auth, req schema.CompleteMultipartUploadRequest) (_ *schema.CompletedUpload, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("CompleteMultipartUpload"))
	defer func() { endFunc(err) }()

	if err := manager.canUpload(auth); err != nil {
		return nil, err
	} else if req.UploadId == "" || req.Key == "" || len(req.Parts) == 0 {
		return nil, schema.NewValidationError("upload_id", msgUploadId, "key", msgKey, "parts", msgParts)
	}
	result, err := manager.storage.CompleteMultipartUpload(child, req.Key, req.UploadId, req.Parts)
	if err != nil {
		return nil, manager.storageErr(child, "complete upload", err)
	}

	manager.countUpload(child, "CompleteMultipartUpload")

	// Update the resource
	if req.ResourceId != "" && manager.catalog != nil {
		result.ResourceUpdated = types.Ptr(true)
		if err := manager.updateResourceURL(child, auth, req.ResourceId, req.UploadId, result.Location); err != nil {
			manager.logger.WarnContext(child, "failed to update resource", "resource_id", req.ResourceId, "error", err)
			result.ResourceUpdated = types.Ptr(false)
		}
	}

	// Return success
	return result, nil
}

// AbortMultipartUpload discards an upload and its parts
func (manager *Manager) AbortMultipartUpload(ctx context.Context, auth schema.Auth, req schema.MultipartRequest) (_ *schema.AbortMultipartUploadResponse, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("AbortMultipartUpload"))
	defer func() { endFunc(err) }()

	if err := manager.canUpload(auth); err != nil {
		return nil, err
	} else if req.UploadId == "" || req.Key == "" {
		return nil, schema.NewValidationError("upload_id", msgUploadId, "key", msgKey)
	}
	if err := manager.storage.AbortMultipartUpload(child, req.Key, req.UploadId); err != nil {
		return nil, manager.storageErr(child, "abort upload", err)
	}
	manager.countUpload(child, "AbortMultipartUpload")
	return &schema.AbortMultipartUploadResponse{Message: msgAborted}, nil
}

// Download returns a presigned URL for reading a resource file
func (manager *Manager) Download(ctx context.Context, req schema.DownloadRequest) (_ *schema.DownloadResponse, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("Download"))
	defer func() { endFunc(err) }()

	if manager.storage == nil {
		return nil, httpresponse.ErrNotFound.With("no storage configured")
	} else if req.ResourceId == "" || req.Filename == "" {
		return nil, httpresponse.ErrBadRequest.With("missing resource id or filename")
	} else if !aws.ValidFilename(req.Filename) {
		return nil, httpresponse.ErrBadRequest.Withf("invalid filename %q", req.Filename)
	}
	url, err := manager.storage.DownloadURL(child, manager.storage.Key(req.ResourceId, req.Filename))
	if err != nil {
		return nil, err
	}
	return &schema.DownloadResponse{URL: url}, nil
}

// ResourceCreate adds a resource to a record. A resource URL which holds the
// placeholder for the resource identifier is rewritten once the identifier
// is known.
func (manager *Manager) ResourceCreate(ctx context.Context, auth schema.Auth, resource schema.Values) (_ schema.Values, err error) {
	// OTEL span
	child, endFunc := otel.StartSpan(manager.tracer, ctx, spanManagerName("ResourceCreate"))
	defer func() { endFunc(err) }()

	client, err := manager.client(auth)
	if err != nil {
		return nil, err
	}
	result, err := client.ResourceCreate(child, resource)
	if err != nil {
		return nil, err
	}
	url, _ := result["url"].(string)
	if !strings.Contains(url, schema.ResourcePlaceholder) {
		return result, nil
	}
	result["url"] = ReplacePlaceholder(url, result.Id())
	return client.ResourceUpdate(child, result)
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// canUpload returns an error when uploads are not possible for the user
func (manager *Manager) canUpload(auth schema.Auth) error {
	if manager.storage == nil {
		return httpresponse.ErrNotFound.With("no storage configured")
	} else if auth.Token == "" {
		return &schema.ActionError{Type: schema.ErrorTypeAuthorization, Message: msgLoginRequired}
	}
	return nil
}

// packageExists checks the package can be read by the user, when there is a
// catalog to ask
func (manager *Manager) packageExists(ctx context.Context, auth schema.Auth, id string) error {
	if manager.catalog == nil {
		return nil
	}
	if _, err := manager.catalog.WithToken(auth.Token, auth.CSRF).PackageShow(ctx, id); err != nil {
		return err
	}
	return nil
}

func (manager *Manager) updateResourceURL(ctx context.Context, auth schema.Auth, resourceId, uploadId, location string) error {
	client := manager.catalog.WithToken(auth.Token, auth.CSRF)
	resource, err := client.ResourceShow(ctx, resourceId)
	if err != nil {
		return err
	}
	resource["url"] = location
	resource["upload_complete"] = true
	resource["multipart_upload_id"] = uploadId
	_, err = client.ResourceUpdate(ctx, resource)
	return err
}

// storageErr logs a storage failure and returns it as a validation error
func (manager *Manager) storageErr(ctx context.Context, op string, err error) error {
	manager.logger.ErrorContext(ctx, "storage error", "op", op, "error", err)
	return schema.NewValidationError("error", "Failed to "+op+": "+err.Error())
}
