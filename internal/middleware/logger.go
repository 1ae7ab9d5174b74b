package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	redacted            = "[REDACTED]"
	defaultMaxBodyBytes = 4096
)

// sensitiveFields are substrings of JSON keys whose values are never logged
var sensitiveFields = []string{
	"password",
	"token",
	"secret",
	"authorization",
	"api_key",
	"apikey",
	"credential",
	"cookie",
	"session",
}

var sensitiveHeaderPattern = regexp.MustCompile(`(?i)authorization|api[-_]?key|token|secret|password|cookie|session`)

// bodyWriter captures up to limit bytes of the response body
type bodyWriter struct {
	gin.ResponseWriter
	body  *bytes.Buffer
	limit int
}

func (w *bodyWriter) Write(b []byte) (int, error) {
	if room := w.limit - w.body.Len(); room > 0 {
		if len(b) < room {
			room = len(b)
		}
		w.body.Write(b[:room])
	}
	return w.ResponseWriter.Write(b)
}

// LoggerConfig holds configuration for the request logger
type LoggerConfig struct {
	// Bodies are attached only when the logger is enabled at debug level.
	MaxBodyBytes int
	SkipPaths    []string
}

// RequestResponseLogger logs one "http.request" event per request. Request
// and response bodies are attached at debug level with sensitive fields
// redacted; binary payloads such as workbook downloads are never attached.
func RequestResponseLogger(logger *slog.Logger, config LoggerConfig) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	limit := config.MaxBodyBytes
	if limit <= 0 {
		limit = defaultMaxBodyBytes
	}
	skip := make(map[string]bool, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		withBodies := logger.Enabled(c.Request.Context(), slog.LevelDebug)

		var requestBody []byte
		var writer *bodyWriter
		if withBodies {
			if c.Request.Body != nil {
				requestBody, _ = io.ReadAll(c.Request.Body)
				c.Request.Body = io.NopCloser(bytes.NewReader(requestBody))
			}
			writer = &bodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}, limit: limit}
			c.Writer = writer
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		}
		if route := c.FullPath(); route != "" {
			attrs = append(attrs, slog.String("route", route))
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		if withBodies {
			attrs = append(attrs, slog.Any("headers", redactHeaders(c.Request.Header)))
			if body := loggableBody(c.ContentType(), requestBody, limit); body != nil {
				attrs = append(attrs, slog.Any("request_body", body))
			}
			if body := loggableBody(c.Writer.Header().Get("Content-Type"), writer.body.Bytes(), limit); body != nil {
				attrs = append(attrs, slog.Any("response_body", body))
			}
		}

		logger.LogAttrs(context.Background(), levelForStatus(status), "http.request", attrs...)
	}
}

func levelForStatus(status int) slog.Level {
	switch {
	case status >= 500:
		return slog.LevelError
	case status >= 400:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func redactHeaders(headers map[string][]string) map[string]string {
	out := make(map[string]string, len(headers))
	for key, values := range headers {
		if sensitiveHeaderPattern.MatchString(key) {
			out[key] = redacted
		} else {
			out[key] = strings.Join(values, ", ")
		}
	}
	return out
}

// loggableBody returns the redacted JSON value of body, a truncated string for
// text, and nil for empty or binary payloads.
func loggableBody(contentType string, body []byte, limit int) any {
	if len(body) == 0 {
		return nil
	}
	if contentType != "" && !strings.Contains(contentType, "json") && !strings.HasPrefix(contentType, "text/") {
		return nil
	}

	var value any
	if err := json.Unmarshal(body, &value); err == nil {
		redactSensitiveFields(value)
		return value
	}
	if len(body) > limit {
		return string(body[:limit]) + "... (truncated)"
	}
	return string(body)
}

func redactSensitiveFields(data any) {
	switch v := data.(type) {
	case map[string]any:
		for key, value := range v {
			if isSensitiveField(key) {
				v[key] = redacted
			} else {
				redactSensitiveFields(value)
			}
		}
	case []any:
		for _, item := range v {
			redactSensitiveFields(item)
		}
	}
}

func isSensitiveField(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range sensitiveFields {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
