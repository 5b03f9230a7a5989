package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfranzen/eightball/pkg/domain"
	"github.com/cfranzen/eightball/pkg/storage"
	"github.com/cfranzen/eightball/pkg/storage/bolt"
)

// TestServer wraps an httptest server over a real store
type TestServer struct {
	Server *httptest.Server
	Store  domain.Store
}

// newTestServer starts a test server over the given store
func newTestServer(t *testing.T, store domain.Store) *TestServer {
	t.Helper()

	router := mux.NewRouter()
	NewHandler(store).RegisterRoutes(router)
	server := httptest.NewServer(router)

	ts := &TestServer{Server: server, Store: store}
	t.Cleanup(func() {
		server.Close()
		_ = store.Close()
	})
	return ts
}

func (ts *TestServer) do(t *testing.T, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &reqBody)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var respBody bytes.Buffer
	_, err = respBody.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, respBody.Bytes()
}

// storeBackends runs a subtest against both store implementations
func storeBackends(t *testing.T, fn func(t *testing.T, ts *TestServer)) {
	t.Run("memory", func(t *testing.T) {
		engine := storage.NewEngine(
			storage.WithDataDir(t.TempDir()),
			storage.WithTransactionSave(false),
		)
		fn(t, newTestServer(t, engine))
	})

	t.Run("bolt", func(t *testing.T) {
		store, err := bolt.Open(t.TempDir())
		require.NoError(t, err)
		fn(t, newTestServer(t, store))
	})
}

func TestIntegration_RecordLifecycle(t *testing.T) {
	storeBackends(t, func(t *testing.T, ts *TestServer) {
		// create({"name": "a"}) returns the record plus its new ID
		resp, body := ts.do(t, "POST", "/collections/things", map[string]interface{}{"name": "a"})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created domain.Record
		require.NoError(t, json.Unmarshal(body, &created))
		require.Equal(t, "1", created.ID())
		assert.Equal(t, "a", created["name"])

		// read(1) returns the same record
		resp, body = ts.do(t, "GET", "/collections/things/records/1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got domain.Record
		require.NoError(t, json.Unmarshal(body, &got))
		assert.Equal(t, created, got)

		// update(1, {"name": "b"}) merges and keeps the ID
		resp, body = ts.do(t, "PATCH", "/collections/things/records/1", map[string]interface{}{"name": "b"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var updated domain.Record
		require.NoError(t, json.Unmarshal(body, &updated))
		assert.Equal(t, "1", updated.ID())
		assert.Equal(t, "b", updated["name"])

		// delete(1) succeeds
		resp, _ = ts.do(t, "DELETE", "/collections/things/records/1", nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		// read(1) now fails with not found
		resp, _ = ts.do(t, "GET", "/collections/things/records/1", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		// and so does a repeated delete
		resp, _ = ts.do(t, "DELETE", "/collections/things/records/1", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestIntegration_FindWithFilter(t *testing.T) {
	storeBackends(t, func(t *testing.T, ts *TestServer) {
		for i := 0; i < 5; i++ {
			group := "even"
			if i%2 == 1 {
				group = "odd"
			}
			resp, _ := ts.do(t, "POST", "/collections/numbers", map[string]interface{}{
				"value": i,
				"group": group,
			})
			require.Equal(t, http.StatusCreated, resp.StatusCode)
		}

		resp, body := ts.do(t, "GET", "/collections/numbers/find?group=odd", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var recs []domain.Record
		require.NoError(t, json.Unmarshal(body, &recs))
		require.Len(t, recs, 2)
		for _, rec := range recs {
			assert.Equal(t, "odd", rec["group"])
		}
	})
}

func TestIntegration_EightballFlow(t *testing.T) {
	storeBackends(t, func(t *testing.T, ts *TestServer) {
		email := "a@example.com"

		// No account yet
		resp, _ := ts.do(t, "GET", fmt.Sprintf("/users/%s", email), nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = ts.do(t, "POST", fmt.Sprintf("/users/%s", email), nil)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		// First question seeds the ball with defaults
		resp, body := ts.do(t, "GET", fmt.Sprintf("/users/%s", email), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var answer AnswerResponse
		require.NoError(t, json.Unmarshal(body, &answer))
		assert.NotEmpty(t, answer.Answer)

		// Add a phrase and read it back from its category
		resp, body = ts.do(t, "PUT", fmt.Sprintf("/users/%s/answers", email), map[string]interface{}{
			"unknown": []string{"Who can say?"},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var added PhrasesResponse
		require.NoError(t, json.Unmarshal(body, &added))
		assert.Equal(t, []string{"Who can say?"}, added.Unknown)

		resp, body = ts.do(t, "GET", fmt.Sprintf("/users/%s/answers", email), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var phrases PhrasesResponse
		require.NoError(t, json.Unmarshal(body, &phrases))
		assert.Contains(t, phrases.Unknown, "Who can say?")
		assert.Len(t, phrases.Yes, 3)

		// Wipe the ball, the next read reseeds defaults
		resp, _ = ts.do(t, "DELETE", fmt.Sprintf("/users/%s/answers", email), nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp, body = ts.do(t, "GET", fmt.Sprintf("/users/%s/answers", email), nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &phrases))
		assert.NotContains(t, phrases.Unknown, "Who can say?")
		assert.Len(t, phrases.Unknown, 3)
	})
}

func TestIntegration_PersistenceAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	snapshot := storage.DataFilePath(dir, "")

	engine := storage.NewEngine(storage.WithDataDir(dir), storage.WithDataFile(snapshot))
	ts := &TestServer{Store: engine}
	router := mux.NewRouter()
	NewHandler(engine).RegisterRoutes(router)
	ts.Server = httptest.NewServer(router)

	resp, _ := ts.do(t, "POST", "/collections/things", map[string]interface{}{"name": "a"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	ts.Server.Close()
	require.NoError(t, engine.Close())

	// Start a fresh engine over the same snapshot
	restored := storage.NewEngine(storage.WithDataDir(dir), storage.WithDataFile(snapshot))
	require.NoError(t, restored.LoadFromFile(snapshot))
	ts2 := newTestServer(t, restored)

	resp, body := ts2.do(t, "GET", "/collections/things/records/1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rec domain.Record
	require.NoError(t, json.Unmarshal(body, &rec))
	assert.Equal(t, "a", rec["name"])
}
