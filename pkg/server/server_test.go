package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfranzen/eightball/pkg/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine := storage.NewEngine(storage.WithTransactionSave(false))
	t.Cleanup(func() { _ = engine.Close() })
	return New(engine)
}

func TestServer_CORSHeadersOnEveryResponse(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestServer_PreflightRequest(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_RequestIDAssigned(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	// A caller-supplied ID is echoed back
	req = httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w = httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-Id"))
}

func TestServer_UnknownRouteReturnsJSON404(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("GET", "/does/not/exist", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}
