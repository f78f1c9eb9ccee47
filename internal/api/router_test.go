package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Project-Sylos/Tabula/internal/config"
	"github.com/Project-Sylos/Tabula/internal/types"
	"github.com/Project-Sylos/Tabula/sdk"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T, withCatalog bool) *httptest.Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "data")
	cfg.Generator.MaxRows = 20_000
	if withCatalog {
		cfg.Catalog.DBPath = filepath.Join(t.TempDir(), "tabula.db")
	}

	tb, err := sdk.NewWithConfig(&cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(tb).SetupRoutes())
	t.Cleanup(func() {
		srv.Close()
		tb.Close()
	})
	return srv
}

func do(t *testing.T, method, url string, body any) (*http.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, false)

	resp, env := do(t, http.MethodGet, srv.URL+"/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, env.Success)
	assert.Equal(t, "Tabula API is healthy", env.Message)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestSchemaAndConfig(t *testing.T) {
	srv := newTestServer(t, false)

	resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/schema", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fields []types.FieldInfo
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	require.Len(t, fields, types.FieldCount)
	assert.Equal(t, "ID", fields[0].Name)
	assert.Equal(t, "Conversion Rate", fields[types.FieldCount-1].Name)

	resp, env = do(t, http.MethodGet, srv.URL+"/api/v1/config", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cfg types.Config
	require.NoError(t, json.Unmarshal(env.Data, &cfg))
	assert.Equal(t, int64(1000), cfg.Generator.MinRows)
	assert.Equal(t, int64(20_000), cfg.Generator.MaxRows)
}

func TestCreateDatasetErrors(t *testing.T) {
	srv := newTestServer(t, true)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"zero rows", map[string]any{"rows": 0}, http.StatusBadRequest},
		{"negative rows", map[string]any{"rows": -10}, http.StatusBadRequest},
		{"below minimum", map[string]any{"rows": 999}, http.StatusBadRequest},
		{"above maximum", map[string]any{"rows": 20_001}, http.StatusBadRequest},
		{"path in name", map[string]any{"rows": 1000, "name": "../x.csv"}, http.StatusBadRequest},
		{"rows as string", map[string]any{"rows": "abc"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := do(t, http.MethodPost, srv.URL+"/api/v1/datasets", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}

	resp, env := do(t, http.MethodGet, srv.URL+"/api/v1/datasets", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(env.Data))
}

func TestDatasetLifecycle(t *testing.T) {
	srv := newTestServer(t, true)

	resp, env := do(t, http.MethodPost, srv.URL+"/api/v1/datasets", map[string]any{"rows": 2000, "seed": 9})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)
	var ds types.Dataset
	require.NoError(t, json.Unmarshal(env.Data, &ds))
	assert.Equal(t, "sample_2k.csv", ds.Name)
	assert.Equal(t, int64(2000), ds.Rows)
	assert.Equal(t, int64(9), ds.Seed)

	base := srv.URL + "/api/v1/datasets/" + ds.ID

	resp, env = do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = do(t, http.MethodGet, base+"/verify", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var result types.Verification
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.True(t, result.Valid, "problems: %v", result.Problems)

	download, err := http.Get(base + "/download")
	require.NoError(t, err)
	data, err := io.ReadAll(download.Body)
	download.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, download.StatusCode)
	assert.Contains(t, download.Header.Get("Content-Disposition"), "sample_2k.csv")
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	assert.Len(t, lines, 2001)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Name,Department"))

	resp, _ = do(t, http.MethodDelete, base, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, env = do(t, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Success)
}

func TestCatalogDisabled(t *testing.T) {
	srv := newTestServer(t, false)

	resp, env := do(t, http.MethodPost, srv.URL+"/api/v1/datasets", map[string]any{"rows": 1000})
	require.Equal(t, http.StatusCreated, resp.StatusCode, env.Message)

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/v1/datasets", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// TestLongRunningRoutesSkipTimeout tests that only quick routes carry the request timeout
func TestLongRunningRoutesSkipTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Output.Dir = t.TempDir()
	tb, err := sdk.NewWithConfig(&cfg)
	require.NoError(t, err)
	defer tb.Close()

	// Closures returned by middleware.Timeout share one code pointer
	timeoutFn := reflect.ValueOf(middleware.Timeout(time.Second)).Pointer()

	timed := map[string]bool{}
	err = chi.Walk(NewRouter(tb).SetupRoutes(), func(method, route string, _ http.Handler, mws ...func(http.Handler) http.Handler) error {
		key := method + " " + route
		timed[key] = false
		for _, mw := range mws {
			if reflect.ValueOf(mw).Pointer() == timeoutFn {
				timed[key] = true
			}
		}
		return nil
	})
	require.NoError(t, err)

	expected := map[string]bool{
		"GET /health":                        true,
		"GET /api/v1/datasets":               true,
		"GET /api/v1/datasets/{id}":          true,
		"DELETE /api/v1/datasets/{id}":       true,
		"GET /api/v1/schema":                 true,
		"GET /api/v1/config":                 true,
		"POST /api/v1/datasets":              false,
		"GET /api/v1/datasets/{id}/verify":   false,
		"GET /api/v1/datasets/{id}/download": false,
	}
	assert.Equal(t, expected, timed)
}
