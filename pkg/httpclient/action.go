package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	// Packages
	mapper "github.com/mutablelogic/go-catalog/pkg/mapper"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// get performs an action with GET and query parameters
func get[T any](ctx context.Context, c *Client, action string, query url.Values) (T, error) {
	return call[T](ctx, c, http.MethodGet, action, query, nil)
}

// post performs an action with a JSON body
func post[T any](ctx context.Context, c *Client, action string, body any) (T, error) {
	return call[T](ctx, c, http.MethodPost, action, nil, body)
}

// call performs an action and unwraps the result from the response envelope.
// The catalog returns the envelope for failed actions too, so the body is
// decoded whatever the status.
func call[T any](ctx context.Context, c *Client, method, action string, query url.Values, body any) (T, error) {
	var result T

	// Make the request
	u := c.url(schema.ActionPath, action)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return result, err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return result, err
	}
	req.Header.Set("Accept", types.ContentTypeJSON)
	if body != nil {
		req.Header.Set(types.ContentTypeHeader, types.ContentTypeJSON)
	}
	c.setHeaders(req)

	// Perform the request
	response, err := c.Client.Client.Do(req)
	if err != nil {
		return result, err
	}
	defer response.Body.Close()

	// Decode the envelope
	var envelope schema.ActionResponse[T]
	if err := json.NewDecoder(response.Body).Decode(&envelope); err != nil {
		if response.StatusCode < 200 || response.StatusCode > 299 {
			return result, httpresponse.Err(response.StatusCode).With(response.Status)
		}
		return result, httpresponse.ErrInternalError.Withf("%s: %v", action, err)
	}
	if envelope.Error != nil {
		return result, actionError(envelope.Error)
	} else if !envelope.Success {
		return result, httpresponse.Err(statusCode(response.StatusCode)).Withf("%s: action failed", action)
	}

	// Return success
	return envelope.Result, nil
}

// actionError flattens the field errors of a failed action
func actionError(err *schema.ActionError) error {
	if len(err.Fields) > 0 {
		err.Errors = mapper.FlattenErrors(err.Fields)
	}
	return err
}

func statusCode(code int) int {
	if code < 300 {
		return http.StatusInternalServerError
	}
	return code
}
