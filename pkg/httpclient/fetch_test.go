package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	// Packages
	httpclient "github.com/mutablelogic/go-catalog/pkg/httpclient"
	sampler "github.com/mutablelogic/go-catalog/pkg/sampler"
	schema "github.com/mutablelogic/go-catalog/pkg/schema"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

// newFileServer serves a file with range support, and requires the token
// when it is not empty
func newFileServer(t *testing.T, content, token string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" && r.Header.Get("Authorization") != token {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		http.ServeContent(w, r, "data.csv", time.Time{}, strings.NewReader(content))
	}))
	t.Cleanup(server.Close)
	return server
}

func Test_fetch_001(t *testing.T) {
	assert := assert.New(t)
	server := newFileServer(t, "a,b\n1,2\n3,4\n", "secret")
	fetcher := httpclient.NewRangeFetcher(nil)

	t.Run("FetchRange", func(t *testing.T) {
		chunk, err := fetcher.FetchRange(context.TODO(), server.URL, 0, 3, "secret")
		require.NoError(t, err)
		assert.Equal("a,b\n", string(chunk.Body))
		assert.Equal("bytes 0-3/12", chunk.Header.Get("Content-Range"))
	})

	t.Run("Forbidden", func(t *testing.T) {
		_, err := fetcher.FetchRange(context.TODO(), server.URL, 0, 3, "")
		var responseErr *schema.ResponseError
		if assert.True(errors.As(err, &responseErr)) {
			assert.Equal(http.StatusForbidden, responseErr.StatusCode)
			assert.Equal(server.URL, responseErr.URL)
			assert.Equal("forbidden\n", string(responseErr.Body))
		}
	})

	t.Run("Sample", func(t *testing.T) {
		result, err := sampler.SampleRemoteRows(context.TODO(), fetcher, server.URL, 10, 5, "secret")
		require.NoError(t, err)
		assert.True(result.IsEntireFile)
		if assert.Len(result.Data, 2) {
			assert.Equal(schema.Row{"a": float64(1), "b": float64(2)}, result.Data[0])
		}
	})
}

func Test_fetch_002(t *testing.T) {
	assert := assert.New(t)
	var content strings.Builder
	content.WriteString("n,square\n")
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&content, "%d,%d\n", i, i*i)
	}
	server := newFileServer(t, content.String(), "")

	_, client := newCatalogServer(t, http.StatusOK, nil)
	result, err := sampler.SampleRemoteRows(context.TODO(), client.Fetcher(), server.URL, 5, 64, "")
	require.NoError(t, err)
	assert.False(result.IsEntireFile)
	if assert.Len(result.Data, 5) {
		assert.Equal(schema.Row{"n": float64(4), "square": float64(16)}, result.Data[4])
	}
}
