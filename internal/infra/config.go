package infra

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingCredential indicates that the remote edit credential is absent.
// The service refuses to start without it instead of failing item by item.
var ErrMissingCredential = errors.New("DASHSCOPE_API_KEY is required")

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv string
	Port   string

	DashScopeAPIKey string
	QwenBaseURL     string
	QwenEditModel   string
	QwenWatermark   bool
	RequestTimeout  time.Duration

	EditMaxAttempts int
	EditRetryDelay  time.Duration

	EditRateLimit  int
	EditRateWindow time.Duration

	AllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. The remote edit credential is the one hard
// requirement.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		DashScopeAPIKey:  strings.TrimSpace(os.Getenv("DASHSCOPE_API_KEY")),
		QwenBaseURL:      getEnv("QWEN_BASE_URL", "https://dashscope-intl.aliyuncs.com/api/v1"),
		QwenEditModel:    getEnv("QWEN_EDIT_MODEL", "qwen-image-edit"),
		QwenWatermark:    getEnvBool("QWEN_WATERMARK", false),
		RequestTimeout:   time.Second * time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 60)),
		EditMaxAttempts:  getEnvInt("EDIT_MAX_ATTEMPTS", 2),
		EditRetryDelay:   time.Second * time.Duration(getEnvInt("EDIT_RETRY_DELAY_SECONDS", 1)),
		EditRateLimit:    getEnvInt("EDIT_RATE_LIMIT", 10),
		EditRateWindow:   time.Second * time.Duration(getEnvInt("EDIT_RATE_WINDOW_SECONDS", 60)),
		AllowedOrigins:   splitCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 30)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 120)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.DashScopeAPIKey == "" {
		return nil, ErrMissingCredential
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
