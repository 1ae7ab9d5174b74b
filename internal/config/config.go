package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port         int
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string

	// Swagger UI under /api-docs
	SwaggerEnabled bool

	// Logging configuration
	LogFormat string
	LogLevel  string

	// Database configuration; the in-memory repository is used when empty
	DatabaseURL string
	DBMaxConns  int

	// Rate limiting of the letter parsing endpoints
	RateLimitPerMinute int
	RateLimitMaxKeys   int

	// Export storage configuration
	S3Endpoint        string
	S3AccessKeyID     string
	S3AccessKeySecret string
	S3Bucket          string
	S3Region          string
	S3PublicBaseURL   string
	ExportPrefix      string
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{
		// Server configuration
		Port:         getEnvInt("PORT", 8080),
		GinMode:      getEnvString("GIN_MODE", "release"),
		ReadTimeout:  getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("WRITE_TIMEOUT", 30*time.Second),
		CORSOrigins:  getEnvStringSlice("CORS_ORIGINS", []string{"*"}),

		SwaggerEnabled: getEnvBool("SWAGGER_ENABLED", true),

		// Logging configuration
		LogFormat: strings.ToLower(getEnvString("LOG_FORMAT", "json")),
		LogLevel:  strings.ToLower(getEnvString("LOG_LEVEL", "info")),

		// Database configuration
		DatabaseURL: os.Getenv("POSTGRES_DB_URL"),
		DBMaxConns:  getEnvInt("DB_MAX_CONNS", 10),

		// Rate limiting
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitMaxKeys:   getEnvInt("RATE_LIMIT_MAX_KEYS", 10000),

		// Storage configuration
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3AccessKeySecret: os.Getenv("S3_ACCESS_KEY_SECRET"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnvString("S3_REGION", "us-east-1"),
		S3PublicBaseURL:   os.Getenv("S3_PUBLIC_BASE_URL"),
		ExportPrefix:      getEnvString("EXPORT_PREFIX", "exports"),
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	// Validate optional configuration
	validateConfig(config)

	return config, nil
}

// LogLevelValue returns the slog level named by LogLevel
func (c *Config) LogLevelValue() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StorageConfigured reports whether every S3 setting needed for uploads is set
func (c *Config) StorageConfigured() bool {
	return c.S3Endpoint != "" && c.S3AccessKeyID != "" && c.S3AccessKeySecret != "" && c.S3Bucket != ""
}

// validate rejects values the server cannot start with
func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.LogFormat != "json" && c.LogFormat != "pretty" {
		return fmt.Errorf("invalid LOG_FORMAT %q: expected json or pretty", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("invalid DB_MAX_CONNS %d: must be at least 1", c.DBMaxConns)
	}
	return nil
}

// validateConfig logs warnings for optional configuration that is missing
func validateConfig(config *Config) {
	if config.DatabaseURL == "" {
		slog.Warn("config.database.missing", "detail", "POSTGRES_DB_URL not set, estimates are kept in memory")
	}

	partial := config.S3Endpoint != "" || config.S3AccessKeyID != "" || config.S3AccessKeySecret != "" || config.S3Bucket != ""
	if partial && !config.StorageConfigured() {
		slog.Warn("config.storage.incomplete", "detail", "S3_ENDPOINT, S3_ACCESS_KEY_ID, S3_ACCESS_KEY_SECRET and S3_BUCKET are all required, export uploads are disabled")
	}

	if config.RateLimitPerMinute <= 0 {
		slog.Warn("config.rate_limit.disabled")
	}
}

// loadEnvFile loads .env from the project root, falling back to the working directory
func loadEnvFile() {
	execPath, err := os.Executable()
	if err != nil {
		slog.Warn("config.env.exec_path", "error", err)
	}

	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		if err := godotenv.Load(); err != nil {
			slog.Debug("config.env.none", "detail", "no .env file found, using environment variables")
		} else {
			slog.Info("config.env.loaded", "path", ".env")
		}
	} else {
		slog.Info("config.env.loaded", "path", envPath)
	}
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		slog.Warn("config.invalid_value", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration accepts Go durations ("15s") or whole seconds ("15")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if seconds, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(seconds) * time.Second
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		slog.Warn("config.invalid_value", "key", key, "value", valueStr, "default", defaultValue)
		return defaultValue
	}
	return value
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
