package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapdgml/internal/engine"
	"github.com/leapstack-labs/leapdgml/internal/state"
	"github.com/leapstack-labs/leapdgml/internal/testutil"
)

func newTestServer(t *testing.T, cfg engine.Config, maxBody int64) *Server {
	t.Helper()
	cfg.Logger = testutil.NewTestLogger(t)
	eng, err := engine.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return New(Config{Engine: eng, MaxBodyBytes: maxBody, Logger: cfg.Logger})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{})
	assert.Equal(t, DefaultAddr, s.addr)
	assert.Equal(t, int64(DefaultMaxBodyBytes), s.maxBodyBytes)
	assert.NotNil(t, s.logger)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, engine.Config{}, 0)
	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestDGML(t *testing.T) {
	s := newTestServer(t, engine.Config{}, 0)
	rec := do(t, s.Handler(), http.MethodPost, "/api/dgml?context=SamuraiContext", testutil.SamuraiView)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/xml")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "<?xml"))
	assert.Contains(t, body, `<Node Id="IModel" Label="SamuraiContext"`)
	assert.Contains(t, body, `<Link Source="Quote" Target="Samurai"`)
}

func TestGraph(t *testing.T) {
	s := newTestServer(t, engine.Config{}, 0)
	rec := do(t, s.Handler(), http.MethodPost, "/api/graph", testutil.SamuraiView)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp apiResponse[graphData]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "DbContext", resp.Data.Context)
	assert.Len(t, resp.Data.Nodes, 10)
	assert.Len(t, resp.Data.Links, 10)
	assert.Equal(t, state.Stats{Entities: 2, Nodes: 10, Links: 10}, resp.Data.Stats)
	assert.Contains(t, resp.Data.Nodes[0], `Id="IModel"`)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name    string
		maxBody int64
		body    string
		status  int
		code    string
	}{
		{name: "empty body", body: "  \n", status: http.StatusBadRequest, code: ErrEmptyBody},
		{name: "too large", maxBody: 16, body: testutil.SamuraiView, status: http.StatusRequestEntityTooLarge, code: ErrBodyTooLarge},
		{name: "generator error", body: "Error:\nNo DbContext was found\n", status: http.StatusUnprocessableEntity, code: ErrConversion},
		{name: "inline generator error", body: "Error: Unable to create a 'DbContext' of type 'BloggingContext'.\n", status: http.StatusUnprocessableEntity, code: ErrConversion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, engine.Config{}, tt.maxBody)
			rec := do(t, s.Handler(), http.MethodPost, "/api/graph", tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestHistory(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		s := newTestServer(t, engine.Config{}, 0)
		rec := do(t, s.Handler(), http.MethodGet, "/api/history", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("lists conversions", func(t *testing.T) {
		dir := t.TempDir()
		src := testutil.WriteFile(t, dir, "SamuraiContext.txt", testutil.SamuraiView)
		s := newTestServer(t, engine.Config{StatePath: state.MemoryPath}, 0)
		_, err := s.engine.Convert(context.Background(), engine.Job{Source: src})
		require.NoError(t, err)

		rec := do(t, s.Handler(), http.MethodGet, "/api/history?limit=5", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp apiResponse[[]state.Conversion]
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		assert.Equal(t, "SamuraiContext", resp.Data[0].Context)
		assert.Equal(t, state.StatusSuccess, resp.Data[0].Status)
	})

	t.Run("bad limit", func(t *testing.T) {
		s := newTestServer(t, engine.Config{StatePath: state.MemoryPath}, 0)
		rec := do(t, s.Handler(), http.MethodGet, "/api/history?limit=abc", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t, engine.Config{}, 0)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRequestLogger(t *testing.T) {
	logger, logs := testutil.NewBufferLogger()
	eng, err := engine.New(engine.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	s := New(Config{Engine: eng, Logger: logger})

	rec := do(t, s.Handler(), http.MethodPost, "/api/dgml", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	assert.True(t, logs.Contains("msg=request"), logs.String())
	assert.True(t, logs.Contains("path=/api/dgml"), logs.String())
	assert.True(t, logs.Contains("status=400"), logs.String())
	assert.True(t, logs.Contains("code=EMPTY_BODY"), logs.String())
}
