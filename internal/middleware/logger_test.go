package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedRouter(level slog.Level, buf *bytes.Buffer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level}))

	router := gin.New()
	router.Use(RequestResponseLogger(logger, LoggerConfig{SkipPaths: []string{"/health"}}))
	router.POST("/v1/echo", func(c *gin.Context) {
		var body map[string]any
		_ = c.ShouldBindJSON(&body)
		c.JSON(http.StatusCreated, body)
	})
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/v1/file", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", []byte("PK\x03\x04"))
	})
	return router
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	return entry
}

func TestRequestLoggerRedactsBodies(t *testing.T) {
	var buf bytes.Buffer
	router := newLoggedRouter(slog.LevelDebug, &buf)

	req := httptest.NewRequest(http.MethodPost, "/v1/echo", strings.NewReader(`{"jobId":"j1","apiToken":"s3cr3t"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer abc")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"jobId":"j1","apiToken":"s3cr3t"}`, w.Body.String(), "handlers see the original body")

	entry := decodeLine(t, &buf)
	assert.Equal(t, "http.request", entry["msg"])
	assert.Equal(t, "/v1/echo", entry["route"])
	assert.EqualValues(t, http.StatusCreated, entry["status"])

	reqBody := entry["request_body"].(map[string]any)
	assert.Equal(t, "j1", reqBody["jobId"])
	assert.Equal(t, redacted, reqBody["apiToken"])
	headers := entry["headers"].(map[string]any)
	assert.Equal(t, redacted, headers["Authorization"])
	assert.NotContains(t, buf.String(), "s3cr3t")
}

func TestRequestLoggerInfoLevelOmitsBodies(t *testing.T) {
	var buf bytes.Buffer
	router := newLoggedRouter(slog.LevelInfo, &buf)

	req := httptest.NewRequest(http.MethodPost, "/v1/echo", strings.NewReader(`{"jobId":"j1"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(httptest.NewRecorder(), req)

	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "request_body")
	assert.NotContains(t, entry, "headers")
}

func TestRequestLoggerSkipsBinaryAndSkippedPaths(t *testing.T) {
	var buf bytes.Buffer
	router := newLoggedRouter(slog.LevelDebug, &buf)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Zero(t, buf.Len())

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/file", nil))
	entry := decodeLine(t, &buf)
	assert.NotContains(t, entry, "response_body")
}

func TestLevelForStatus(t *testing.T) {
	assert.Equal(t, slog.LevelInfo, levelForStatus(200))
	assert.Equal(t, slog.LevelWarn, levelForStatus(404))
	assert.Equal(t, slog.LevelError, levelForStatus(503))
}
