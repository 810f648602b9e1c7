package httphandler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	// Packages
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// FAKE STORAGE

type storage struct{}

func (storage) Bucket() string { return "uploads" }

func (storage) Key(resourceId, filename string) string {
	return "resources/" + resourceId + "/" + filename
}

func (storage) SignedURL(_ context.Context, key, _ string) (string, error) {
	return "https://s3.example.com/uploads/" + key, nil
}

func (storage) CreateMultipartUpload(_ context.Context, key, _ string) (*schema.MultipartUpload, error) {
	return &schema.MultipartUpload{UploadId: "u1", Key: key}, nil
}

func (storage) SignPart(_ context.Context, key, uploadId string, partNumber int32) (string, error) {
	return "https://s3.example.com/uploads/" + key + "?part", nil
}

func (storage) ListParts(context.Context, string, string) ([]schema.UploadPart, error) {
	return []schema.UploadPart{{PartNumber: 1, ETag: "a", Size: 5}}, nil
}

func (storage) CompleteMultipartUpload(_ context.Context, key, _ string, _ []schema.UploadPart) (*schema.CompletedUpload, error) {
	return &schema.CompletedUpload{Location: "https://s3.example.com/uploads/" + key, Bucket: "uploads", Key: key}, nil
}

func (storage) AbortMultipartUpload(context.Context, string, string) error {
	return nil
}

func (storage) DownloadURL(_ context.Context, key string) (string, error) {
	return "https://s3.example.com/uploads/" + key + "?get", nil
}

///////////////////////////////////////////////////////////////////////////////
// HELPERS

func newManager(t *testing.T, opts ...manager.Opt) *manager.Manager {
	t.Helper()
	mgr, err := manager.New(context.Background(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func do(mux http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(schema.AuthorizationHeader, token)
	}
	rw := httptest.NewRecorder()
	mux.ServeHTTP(rw, req)
	return rw
}

func envelope(t *testing.T, rw *httptest.ResponseRecorder) schema.ActionResponse[map[string]any] {
	t.Helper()
	var out schema.ActionResponse[map[string]any]
	require.NoError(t, json.NewDecoder(rw.Body).Decode(&out))
	return out
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_action(t *testing.T) {
	assert := assert.New(t)
	mux := serveMux(t, newManager(t, manager.WithStorage(storage{})))

	t.Run("SignedURL", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/get_signed_url", "secret", `{"package_id":"p1","filename":"data.csv"}`)
		require.Equal(t, http.StatusOK, rw.Code)
		out := envelope(t, rw)
		assert.True(out.Success)
		assert.Contains(out.Result["signed_url"], "/uploads/resources/")
		assert.NotEmpty(out.Result["resource_id"])
	})

	t.Run("NotLoggedIn", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/get_signed_url", "", `{"package_id":"p1","filename":"data.csv"}`)
		assert.Equal(http.StatusForbidden, rw.Code)
		out := envelope(t, rw)
		assert.False(out.Success)
		if assert.NotNil(out.Error) {
			assert.Equal(schema.ErrorTypeAuthorization, out.Error.Type)
			assert.Equal("You must be logged in to upload files", out.Error.Message)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/get_signed_url", "secret", `{"package_id":"p1"}`)
		assert.Equal(http.StatusConflict, rw.Code)
		out := envelope(t, rw)
		if assert.NotNil(out.Error) {
			assert.Equal(schema.ErrorTypeValidation, out.Error.Type)
			assert.Equal([]any{"Filename is required"}, out.Error.Fields["filename"])
		}
	})

	t.Run("CreateMultipartUpload", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/create-multipart-upload", "secret", `{"package_id":"p1","resource_id":"r1","name":"big.csv","type":"text/csv"}`)
		require.Equal(t, http.StatusOK, rw.Code)
		out := envelope(t, rw)
		assert.Equal("u1", out.Result["uploadId"])
		assert.Equal("resources/r1/big.csv", out.Result["key"])
		assert.Equal("r1", out.Result["resourceId"])
	})

	t.Run("PrepareUploadParts", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/prepare-upload-parts", "secret", `{"uploadId":"u1","key":"k","parts":[{"number":1},{"number":"2"}]}`)
		require.Equal(t, http.StatusOK, rw.Code)
		out := envelope(t, rw)
		urls, ok := out.Result["presignedUrls"].(map[string]any)
		if assert.True(ok) {
			assert.Len(urls, 2)
			assert.Contains(urls, "2")
		}
	})

	t.Run("ListParts", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/list-parts", "secret", `{"uploadId":"u1","key":"k"}`)
		require.Equal(t, http.StatusOK, rw.Code)
		out := envelope(t, rw)
		assert.Len(out.Result["parts"], 1)
	})

	t.Run("Complete", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/complete-multipart-upload", "secret", `{"uploadId":"u1","key":"k","parts":[{"number":1,"etag":"a"}]}`)
		require.Equal(t, http.StatusOK, rw.Code)
		out := envelope(t, rw)
		assert.Equal("https://s3.example.com/uploads/k", out.Result["location"])
	})

	t.Run("Abort", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/abort-multipart-upload", "secret", `{"uploadId":"u1","key":"k"}`)
		require.Equal(t, http.StatusOK, rw.Code)
		out := envelope(t, rw)
		assert.Equal("Multipart upload aborted successfully", out.Result["message"])
	})

	t.Run("UnknownAction", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/api/3/action/package_purge", "secret", `{}`)
		assert.Equal(http.StatusNotFound, rw.Code)
	})

	t.Run("MethodNotAllowed", func(t *testing.T) {
		rw := do(mux, http.MethodGet, "/api/3/action/list-parts", "secret", "")
		assert.Equal(http.StatusMethodNotAllowed, rw.Code)
	})
}

func Test_sample(t *testing.T) {
	assert := assert.New(t)
	content := "name\tvalue\nalpha\t1\nbeta\t2\ngamma\t3\n"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(schema.AuthorizationHeader) != "secret" {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		http.ServeContent(w, r, "data.tsv", time.Time{}, strings.NewReader(content))
	}))
	defer server.Close()
	mux := serveMux(t, newManager(t))

	t.Run("Sample", func(t *testing.T) {
		rw := do(mux, http.MethodGet, "/sample?rows=2&url="+server.URL+"/data.tsv", "secret", "")
		require.Equal(t, http.StatusOK, rw.Code)
		var out schema.SampleResult
		require.NoError(t, json.NewDecoder(rw.Body).Decode(&out))
		assert.True(out.IsEntireFile)
		assert.Len(out.Data, 3)
		assert.Equal("alpha", out.Data[0]["name"])
	})

	t.Run("Forbidden", func(t *testing.T) {
		rw := do(mux, http.MethodGet, "/sample?url="+server.URL+"/data.tsv", "", "")
		assert.Equal(http.StatusForbidden, rw.Code)
	})

	t.Run("MissingURL", func(t *testing.T) {
		rw := do(mux, http.MethodGet, "/sample", "", "")
		assert.Equal(http.StatusBadRequest, rw.Code)
	})
}

func Test_record(t *testing.T) {
	assert := assert.New(t)
	mux := serveMux(t, newManager(t))
	body := `{
		"form": { "title": "Title", "tag_string": [{ "label": "water", "value": "water" }] },
		"schema": {
			"dataset_type": "dataset",
			"dataset_fields": [
				{ "field_name": "title" },
				{ "field_name": "tag_string", "react_input": "tags" }
			]
		}
	}`

	t.Run("FormToRecord", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/record/dataset", "", body)
		require.Equal(t, http.StatusOK, rw.Code)
		var out schema.Values
		require.NoError(t, json.NewDecoder(rw.Body).Decode(&out))
		assert.Equal("dataset", out["type"])
		assert.Equal([]any{map[string]any{"name": "water"}}, out["tags"])
	})

	t.Run("RecordToForm", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/form/dataset", "", strings.Replace(body, `"form"`, `"record"`, 1))
		require.Equal(t, http.StatusOK, rw.Code)
		var out struct {
			Values schema.Values `json:"values"`
		}
		require.NoError(t, json.NewDecoder(rw.Body).Decode(&out))
		assert.Equal(schema.StateDraft, out.Values["state"])
		assert.Equal("Title", out.Values["title"])
	})

	t.Run("NoCatalog", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/record/dataset", "", `{"form":{"title":"Title"}}`)
		assert.Equal(http.StatusServiceUnavailable, rw.Code)
	})

	t.Run("MissingForm", func(t *testing.T) {
		rw := do(mux, http.MethodPost, "/record/dataset", "", `{}`)
		assert.Equal(http.StatusBadRequest, rw.Code)
	})
}

func Test_errors(t *testing.T) {
	mux := serveMux(t, newManager(t))
	rw := do(mux, http.MethodPost, "/errors", "", `{"resources":[{"url":["bad"]},{}],"title":["Missing value"]}`)
	require.Equal(t, http.StatusOK, rw.Code)
	var out schema.ValidationErrors
	require.NoError(t, json.NewDecoder(rw.Body).Decode(&out))
	assert.Equal(t, schema.ValidationErrors{
		"resources.0.url": {"bad"},
		"title":           {"Missing value"},
	}, out)
}

func Test_download(t *testing.T) {
	assert := assert.New(t)

	t.Run("Redirect", func(t *testing.T) {
		mux := serveMux(t, newManager(t, manager.WithStorage(storage{})))
		rw := do(mux, http.MethodGet, "/download/r1/data.csv", "", "")
		assert.Equal(http.StatusFound, rw.Code)
		assert.Equal("https://s3.example.com/uploads/resources/r1/data.csv?get", rw.Header().Get("Location"))
	})

	t.Run("NoStorage", func(t *testing.T) {
		mux := serveMux(t, newManager(t))
		rw := do(mux, http.MethodGet, "/download/r1/data.csv", "", "")
		assert.Equal(http.StatusNotFound, rw.Code)
	})
}

func Test_metrics(t *testing.T) {
	mux := serveMux(t, newManager(t))
	rw := do(mux, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, rw.Body.String(), "catalog_sampler_samples_total")
}
