package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridwanfathin/rug-estimate-service/internal/config"
	"github.com/ridwanfathin/rug-estimate-service/internal/handler"
	"github.com/ridwanfathin/rug-estimate-service/internal/repository"
	"github.com/ridwanfathin/rug-estimate-service/internal/service"
)

func newTestServer(cfg *config.Config) *Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewEstimateService(repository.NewMemoryEstimateRepository(), service.Config{Logger: logger})
	return NewServer(cfg, handler.NewEstimateHandler(svc, logger), logger)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:               8080,
		GinMode:            gin.TestMode,
		CORSOrigins:        []string{"*"},
		SwaggerEnabled:     true,
		RateLimitPerMinute: 2,
		RateLimitMaxKeys:   100,
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(testConfig())

	w := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","storage":"disabled"}`, w.Body.String())

	srv.SetHealthCheck(func(ctx context.Context) error { return errors.New("db down") })
	w = httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestParseIsRateLimited(t *testing.T) {
	srv := newTestServer(testConfig())

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/estimates/parse", strings.NewReader(`{"text":"Cleaning: $10"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.GetRouter().ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	w := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/jobs/j/rugs", nil))
	assert.Equal(t, http.StatusOK, w.Code, "reads are not rate limited")
}

func TestAPIDocs(t *testing.T) {
	srv := newTestServer(testConfig())
	w := httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
	assert.Equal(t, http.StatusFound, w.Code)

	cfg := testConfig()
	cfg.SwaggerEnabled = false
	srv = newTestServer(cfg)
	w = httptest.NewRecorder()
	srv.GetRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api-docs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
