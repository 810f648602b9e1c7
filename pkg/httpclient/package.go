package httpclient

import (
	"context"
	"net/url"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// PackageShow returns a record by identifier or name
func (c *Client) PackageShow(ctx context.Context, id string) (schema.Values, error) {
	if id == "" {
		return nil, httpresponse.ErrBadRequest.With("missing package id")
	}
	return get[schema.Values](ctx, c, "package_show", url.Values{"id": {id}})
}

// PackageCreate creates a record and returns it
func (c *Client) PackageCreate(ctx context.Context, record schema.Values) (schema.Values, error) {
	return post[schema.Values](ctx, c, "package_create", record)
}

// PackageUpdate replaces a record and returns it
func (c *Client) PackageUpdate(ctx context.Context, record schema.Values) (schema.Values, error) {
	if record.Id() == "" {
		return nil, httpresponse.ErrBadRequest.With("missing package id")
	}
	return post[schema.Values](ctx, c, "package_update", record)
}

// PackagePatch updates the given fields of a record and returns it
func (c *Client) PackagePatch(ctx context.Context, record schema.Values) (schema.Values, error) {
	if record.Id() == "" {
		return nil, httpresponse.ErrBadRequest.With("missing package id")
	}
	return post[schema.Values](ctx, c, "package_patch", record)
}

// PackageDelete deletes a record
func (c *Client) PackageDelete(ctx context.Context, id string) error {
	if id == "" {
		return httpresponse.ErrBadRequest.With("missing package id")
	}
	_, err := post[any](ctx, c, "package_delete", map[string]string{"id": id})
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - RESOURCES

// ResourceShow returns a resource by identifier
func (c *Client) ResourceShow(ctx context.Context, id string) (schema.Values, error) {
	if id == "" {
		return nil, httpresponse.ErrBadRequest.With("missing resource id")
	}
	return get[schema.Values](ctx, c, "resource_show", url.Values{"id": {id}})
}

// ResourceCreate adds a resource to a record and returns it
func (c *Client) ResourceCreate(ctx context.Context, resource schema.Values) (schema.Values, error) {
	return post[schema.Values](ctx, c, "resource_create", resource)
}

// ResourceUpdate replaces a resource and returns it
func (c *Client) ResourceUpdate(ctx context.Context, resource schema.Values) (schema.Values, error) {
	if resource.Id() == "" {
		return nil, httpresponse.ErrBadRequest.With("missing resource id")
	}
	return post[schema.Values](ctx, c, "resource_update", resource)
}
