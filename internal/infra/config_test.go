package infra

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigMissingCredential(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "")

	if _, err := LoadConfig(); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-test")
	t.Setenv("PORT", "")
	t.Setenv("QWEN_BASE_URL", "")
	t.Setenv("QWEN_EDIT_MODEL", "")
	t.Setenv("EDIT_MAX_ATTEMPTS", "")
	t.Setenv("EDIT_RETRY_DELAY_SECONDS", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: %q", cfg.Port)
	}
	if cfg.QwenBaseURL != "https://dashscope-intl.aliyuncs.com/api/v1" {
		t.Fatalf("QwenBaseURL mismatch: %q", cfg.QwenBaseURL)
	}
	if cfg.QwenEditModel != "qwen-image-edit" {
		t.Fatalf("QwenEditModel mismatch: %q", cfg.QwenEditModel)
	}
	if cfg.EditMaxAttempts != 2 {
		t.Fatalf("EditMaxAttempts mismatch: %d", cfg.EditMaxAttempts)
	}
	if cfg.EditRetryDelay != time.Second {
		t.Fatalf("EditRetryDelay mismatch: %s", cfg.EditRetryDelay)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Fatalf("RequestTimeout mismatch: %s", cfg.RequestTimeout)
	}
	if cfg.QwenWatermark {
		t.Fatal("QwenWatermark should default to false")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "  sk-test  ")
	t.Setenv("EDIT_MAX_ATTEMPTS", "3")
	t.Setenv("EDIT_RETRY_DELAY_SECONDS", "0")
	t.Setenv("QWEN_WATERMARK", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.DashScopeAPIKey != "sk-test" {
		t.Fatalf("credential should be trimmed: %q", cfg.DashScopeAPIKey)
	}
	if cfg.EditMaxAttempts != 3 {
		t.Fatalf("EditMaxAttempts mismatch: %d", cfg.EditMaxAttempts)
	}
	if cfg.EditRetryDelay != 0 {
		t.Fatalf("EditRetryDelay mismatch: %s", cfg.EditRetryDelay)
	}
	if !cfg.QwenWatermark {
		t.Fatal("QwenWatermark override not applied")
	}
	want := []string{"https://app.example.com", "https://staging.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins mismatch: %#v", cfg.AllowedOrigins)
	}
	for i, origin := range want {
		if cfg.AllowedOrigins[i] != origin {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], origin)
		}
	}
}

func TestLoadConfigIgnoresMalformedInt(t *testing.T) {
	t.Setenv("DASHSCOPE_API_KEY", "sk-test")
	t.Setenv("EDIT_MAX_ATTEMPTS", "lots")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.EditMaxAttempts != 2 {
		t.Fatalf("EditMaxAttempts should fall back to default, got %d", cfg.EditMaxAttempts)
	}
}
