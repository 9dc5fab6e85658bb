package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/vango-cn/internal/metrics"
	"github.com/vango-dev/vango-cn/internal/server"
	"github.com/vango-dev/vango-cn/pkg/cn"
)

// testRouter creates a router over a fresh merger with logging silenced.
func testRouter(t *testing.T) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	merger := cn.New(cn.WithCacheSize(10))
	return server.New(merger, metrics.New(merger), logger).Routes()
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMergeEndpoint(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"conflict", `{"classes": ["margin:8px color:red", "margin-top:4px color:blue"]}`, "margin-top:4px color:blue"},
		{"falsy and nested", `{"classes": ["p-4", false, null, 0, ["color:red", ["color:blue"]]]}`, "p-4 color:blue"},
		{"grouped", `{"classes": ["sm:{color:red;margin:4px} sm:{margin:8px;color:blue}"]}`, "sm:color:blue sm:margin:8px"},
		{"empty", `{"classes": []}`, ""},
	}
	h := testRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, "/v1/merge", tt.body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, map[string]any{"result": tt.want}, decodeBody(t, rec))
		})
	}
}

func TestJoinEndpoint(t *testing.T) {
	rec := post(t, testRouter(t), "/v1/join", `{"classes": ["a", false, ["b", null, "c"], 0, "d", "color:red color:blue"]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a b c d color:red color:blue", decodeBody(t, rec)["result"])
}

func TestStylesEndpoint(t *testing.T) {
	h := testRouter(t)

	t.Run("objects", func(t *testing.T) {
		rec := post(t, h, "/v1/styles", `{"inputs": [{"color": "red", "hover": {"color": "blue"}}, null, {"color": "green", "hover": {"margin": "0"}}]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, map[string]any{
			"color": "green",
			"hover": map[string]any{"color": "blue", "margin": "0"},
		}, decodeBody(t, rec)["result"])
	})

	t.Run("classes", func(t *testing.T) {
		rec := post(t, h, "/v1/styles", `{"inputs": ["color:red", "color:blue"]}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "color:blue", decodeBody(t, rec)["result"])
	})

	t.Run("mixed", func(t *testing.T) {
		rec := post(t, h, "/v1/styles", `{"inputs": [{"color": "red"}, "p-4"]}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeBody(t, rec)["error"], "invalid mixed input")
	})
}

func TestBadRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{"malformed merge", "/v1/merge", `{"classes": [`},
		{"wrong shape join", "/v1/join", `{"classes": "p-4"}`},
		{"malformed styles", "/v1/styles", `nope`},
		{"oversized body", "/v1/merge", `{"classes": ["` + strings.Repeat("a", 2<<20) + `"]}`},
	}
	h := testRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decodeBody(t, rec)["error"], "invalid request body")
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/merge", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := testRouter(t)
	post(t, h, "/v1/merge", `{"classes": ["color:red color:blue"]}`)
	post(t, h, "/v1/merge", `{"classes": ["color:red color:blue"]}`)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "vango_cn_cache_hits_total 1")
	assert.Contains(t, body, "vango_cn_cache_misses_total 1")
	assert.Contains(t, body, `vango_cn_http_requests_total{code="200",method="POST",route="/v1/merge"} 2`)
	assert.Contains(t, body, `vango_cn_operations_total{op="merge",transport="http"} 2`)
}

func TestWebSocket(t *testing.T) {
	srv := httptest.NewServer(testRouter(t))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	frames := []string{
		`{"id": "1", "op": "merge", "classes": ["color:red", "color:blue"]}`,
		`{"id": "2", "op": "join", "classes": ["a", false, ["b"]]}`,
		`{"id": "3", "op": "split", "classes": []}`,
		`{"id": `,
		`{"id": "4", "op": "merge", "classes": []}`,
	}
	want := []map[string]any{
		{"id": "1", "result": "color:blue"},
		{"id": "2", "result": "a b"},
		{"id": "3", "error": `unknown op "split"`},
		nil,
		{"id": "4", "result": ""},
	}

	for i, f := range frames {
		require.NoError(t, conn.SetWriteDeadline(time.Now().Add(5*time.Second)))
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(f)))

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		_, msg, err := conn.ReadMessage()
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, json.Unmarshal(msg, &got))
		if want[i] == nil {
			assert.Equal(t, "", got["id"])
			assert.Contains(t, got["error"], "invalid frame")
			continue
		}
		assert.Equal(t, want[i], got, "frame %d", i)
	}

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
}

func TestWebSocket_RequiresUpgrade(t *testing.T) {
	rec := httptest.NewRecorder()
	testRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ws", bytes.NewReader(nil)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCloseSessions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	merger := cn.New()
	s := server.New(merger, metrics.New(merger), logger)

	httpServer := httptest.NewUnstartedServer(s.Routes())
	httpServer.Config.RegisterOnShutdown(s.CloseSessions)
	httpServer.Start()
	defer httpServer.Close()

	url := "ws" + strings.TrimPrefix(httpServer.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	// A reply proves the session is registered.
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"id": "1", "op": "join", "classes": ["a"]}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, 1, s.Sessions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, httpServer.Config.Shutdown(ctx))

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Eventually(t, func() bool { return s.Sessions() == 0 }, 5*time.Second, 10*time.Millisecond)
}

func TestCloseSessions_RefusesNewSessions(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	merger := cn.New()
	s := server.New(merger, metrics.New(merger), logger)
	srv := httptest.NewServer(s.Routes())
	defer srv.Close()

	s.CloseSessions()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Equal(t, 0, s.Sessions())
}
