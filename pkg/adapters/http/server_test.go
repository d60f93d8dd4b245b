package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courselets/trail"
	httpAdapter "github.com/courselets/trail/pkg/adapters/http"
	"github.com/courselets/trail/pkg/plugins/lesson"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	engine := trail.New()
	lesson.Register(engine.Registry())
	_, err := engine.Deploy(context.Background(), "sysadmin", lesson.Source)
	require.NoError(t, err)

	srv := httptest.NewServer(httpAdapter.NewHandler(engine, nil))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("X-Session-Key", "s1")
	req.Header.Set("X-User", "alice")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodePath(t *testing.T, resp *http.Response) string {
	t.Helper()
	var out struct {
		Path string `json:"path"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Path
}

func TestHealthAndInfo(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/info", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var info map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&info))
	assert.Equal(t, "trail", info["app"])
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)

	// No activity yet.
	resp := do(t, srv, http.MethodGet, "/session/current", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/session/push", map[string]any{
		"graph": "lesson",
		"data":  map[string]any{"questions": []string{"q1"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ct:lesson", decodePath(t, resp))

	resp = do(t, srv, http.MethodGet, "/session/current", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var st struct {
		Graph string `json:"graph"`
		Node  string `json:"node"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&st))
	assert.Equal(t, "lesson", st.Graph)
	assert.Equal(t, "ASK", st.Node)

	resp = do(t, srv, http.MethodPost, "/session/event", map[string]any{
		"event":  "next",
		"params": map[string]any{"input": "my answer"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ct:assess", decodePath(t, resp))

	resp = do(t, srv, http.MethodGet, "/session/options", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var edges []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&edges))
	assert.Len(t, edges, 2)

	resp = do(t, srv, http.MethodPost, "/session/pop", map[string]any{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodePath(t, resp))
}

func TestPushUnknownGraphIs404(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodPost, "/session/push", map[string]any{"graph": "nope"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventWithoutActivityIs404(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodPost, "/session/event", map[string]any{"event": "next"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListGraphs(t *testing.T) {
	srv := newServer(t)

	resp := do(t, srv, http.MethodGet, "/graphs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var names []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	assert.Contains(t, names, "lesson")
}

func TestInvalidBodyIs400(t *testing.T) {
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/session/push", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
