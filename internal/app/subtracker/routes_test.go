package subtracker

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmalakhov/subtracker/internal/storage/repository"
)

func newTestRouter() *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	r := chi.NewRouter()
	RegisterRoutes(r, logger, &repository.Storage{}, nil, nil)
	return r
}

func TestRoutes_SwaggerSpecIsServed(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/docs/swagger.json", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))

	paths, ok := doc["paths"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, paths, "/register")
	assert.Contains(t, paths, "/login")
	assert.Contains(t, paths, "/health")
	assert.Contains(t, paths, "/api/subscriptions")
	assert.Contains(t, paths, "/api/subscriptions/{id}")
}

func TestRoutes_MetricsIsServed(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRoutes_ProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"missing or invalid authorization header"}`, rr.Body.String())
}
