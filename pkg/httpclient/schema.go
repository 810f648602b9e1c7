package httpclient

import (
	"context"
	"net/url"

	// Packages
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	client "github.com/mutablelogic/go-client"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type autocompleteResponse struct {
	ResultSet struct {
		Result []struct {
			Name string `json:"Name"`
		} `json:"Result"`
	} `json:"ResultSet"`
}

type authorizeRequest struct {
	Scopes   string `json:"scopes"`
	Lifetime int    `json:"lifetime"`
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// Lifetime of an authorization token, in seconds
const authorizeLifetime = 86400

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - SCHEMA

// SchemaList returns the dataset types which have a schema
func (c *Client) SchemaList(ctx context.Context) ([]string, error) {
	return get[[]string](ctx, c, "scheming_dataset_schema_list", nil)
}

// SchemaShow returns the schema for a dataset type
func (c *Client) SchemaShow(ctx context.Context, datasetType string) (*schema.DatasetSchema, error) {
	if datasetType == "" {
		return nil, httpresponse.ErrBadRequest.With("missing dataset type")
	}
	return get[*schema.DatasetSchema](ctx, c, "scheming_dataset_schema_show", url.Values{"type": {datasetType}})
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - LOOKUPS

// VocabularyList returns every vocabulary with its tags
func (c *Client) VocabularyList(ctx context.Context) ([]schema.Vocabulary, error) {
	return get[[]schema.Vocabulary](ctx, c, "vocabulary_list", nil)
}

// LicenseList returns the licenses a record can use
func (c *Client) LicenseList(ctx context.Context) ([]schema.License, error) {
	return get[[]schema.License](ctx, c, "license_list", nil)
}

// GroupList returns every group of a type, including empty groups, sorted
// by title
func (c *Client) GroupList(ctx context.Context, req schema.GroupListRequest) ([]schema.Group, error) {
	if req.Type == "" {
		return nil, httpresponse.ErrBadRequest.With("missing group type")
	}
	return get[[]schema.Group](ctx, c, "group_list", url.Values{
		"type":                 {req.Type},
		"all_fields":           {"True"},
		"sort":                 {"title asc"},
		"include_empty_groups": {"True"},
		"include_extras":       {"True"},
	})
}

// TagAutocomplete returns the tag names which start with a prefix, optionally
// within a vocabulary
func (c *Client) TagAutocomplete(ctx context.Context, incomplete, vocabularyId string) ([]string, error) {
	opts := []client.RequestOpt{
		client.OptPath(schema.AutocompletePath),
		client.OptQuery(url.Values{
			"incomplete":    {incomplete},
			"vocabulary_id": {vocabularyId},
		}),
	}
	if c.token != "" {
		opts = append(opts, client.OptReqHeader(schema.AuthorizationHeader, c.token))
	}

	var response autocompleteResponse
	if err := c.DoWithContext(ctx, client.NewRequest(), &response, opts...); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(response.ResultSet.Result))
	for _, tag := range response.ResultSet.Result {
		result = append(result, tag.Name)
	}
	return result, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS - AUTHORIZATION

// Authorize returns a token which grants access to the data of a dataset
func (c *Client) Authorize(ctx context.Context, datasetId string) (*schema.AuthorizeResponse, error) {
	if datasetId == "" {
		return nil, httpresponse.ErrBadRequest.With("missing dataset id")
	}
	return post[*schema.AuthorizeResponse](ctx, c, "authz_authorize", authorizeRequest{
		Scopes:   "ds:" + datasetId + ":data:*",
		Lifetime: authorizeLifetime,
	})
}

// S3CredentialsCreate creates object storage credentials
func (c *Client) S3CredentialsCreate(ctx context.Context, req schema.Values) (schema.Values, error) {
	return post[schema.Values](ctx, c, "s3_credentials_create", req)
}

// S3CredentialsShow returns object storage credentials
func (c *Client) S3CredentialsShow(ctx context.Context, req schema.Values) (schema.Values, error) {
	query := make(url.Values, len(req))
	for k, v := range req {
		if str, ok := v.(string); ok {
			query.Set(k, str)
		}
	}
	return get[schema.Values](ctx, c, "s3_credentials_show", query)
}
