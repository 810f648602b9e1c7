package httphandler_test

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	// Packages
	httphandler "github.com/mutablelogic/go-catalog/pkg/httphandler"
	manager "github.com/mutablelogic/go-catalog/pkg/manager"
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	jsonschema "github.com/mutablelogic/go-server/pkg/jsonschema"
	logger "github.com/mutablelogic/go-server/pkg/logger"
	serverotel "github.com/mutablelogic/go-server/pkg/otel"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK ROUTER

type mockRouter struct {
	paths  []string
	retErr error
}

func (m *mockRouter) RegisterPath(path string, params *jsonschema.Schema, pathitem httprequest.PathItem) error {
	m.paths = append(m.paths, path)
	return m.retErr
}

// serveMux returns a router with the catalog handlers registered under the
// root prefix, allowing all origins
func serveMux(t *testing.T, mgr *manager.Manager) http.Handler {
	t.Helper()
	router, err := httprouter.NewRouter(context.Background(), http.NewServeMux(), "/", "*", "catalog", "test")
	require.NoError(t, err)
	require.NoError(t, httphandler.RegisterHandlers(mgr, router))
	return router
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_RegisterHandlers(t *testing.T) {
	mgr, err := manager.New(context.Background())
	require.NoError(t, err)
	defer mgr.Close()

	router := &mockRouter{}
	require.NoError(t, httphandler.RegisterHandlers(mgr, router))
	assert.Equal(t, []string{
		"api/3/action/{action}",
		"sample",
		"form/{type}",
		"record/{type}",
		"errors",
		"download/{resource}/{filename}",
		"metrics",
	}, router.paths)
}

func Test_RegisterHandlers_routerError(t *testing.T) {
	mgr, err := manager.New(context.Background())
	require.NoError(t, err)
	defer mgr.Close()

	router := &mockRouter{retErr: fmt.Errorf("router error")}
	assert.Error(t, httphandler.RegisterHandlers(mgr, router))
}

func Test_RegisterHandlers_prefix(t *testing.T) {
	mgr, err := manager.New(context.Background())
	require.NoError(t, err)
	defer mgr.Close()

	router, err := httprouter.NewRouter(context.Background(), http.NewServeMux(), "/v1", "*", "catalog", "test")
	require.NoError(t, err)
	require.NoError(t, httphandler.RegisterHandlers(mgr, router))

	rw := do(router, http.MethodPost, "/v1/errors", "", `{"title":["Missing value"]}`)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.NotNil(t, router.Spec())
}

func Test_RegisterHandlers_requestLog(t *testing.T) {
	mgr, err := manager.New(context.Background())
	require.NoError(t, err)
	defer mgr.Close()

	// Requests are logged by the router middleware
	var buf bytes.Buffer
	log := slog.New(logger.NewTermHandler(&buf, new(slog.LevelVar)))
	router, err := httprouter.NewRouter(context.Background(), http.NewServeMux(), "/", "*", "catalog", "test",
		serverotel.HTTPHandlerFunc("localhost", log),
	)
	require.NoError(t, err)
	require.NoError(t, httphandler.RegisterHandlers(mgr, router))

	rw := do(router, http.MethodPost, "/errors", "", `{"title":["Missing value"]}`)
	assert.Equal(t, http.StatusOK, rw.Code)
	assert.Contains(t, buf.String(), "request POST /errors -> 200")
}
