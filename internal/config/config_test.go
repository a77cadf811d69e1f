package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/voicechat")
	t.Setenv("ARK_API_KEY", "test-api-key")
	t.Setenv("ARK_MODEL", "test-model")
	t.Setenv("SPEECH_ENDPOINT", "wss://tts.example.com/api/v1/stream")

	for _, key := range []string{
		"PORT", "ARK_ACCESS_KEY", "ARK_SECRET_KEY", "ARK_TEMPERATURE",
		"ARK_MAX_TOKENS", "SPEECH_MAX_WORKERS", "AUDIO_CACHE_SIZE",
		"AUDIO_OUTPUT_DIR", "SPEECH_VOICE", "EXTERNAL_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Speech.MaxWorkers != 12 {
		t.Fatalf("unexpected max workers: %d", cfg.Speech.MaxWorkers)
	}
	if cfg.Speech.CacheSize != 1000 {
		t.Fatalf("unexpected cache size: %d", cfg.Speech.CacheSize)
	}
	if cfg.Speech.OutputDir != "temp_audio" {
		t.Fatalf("unexpected output dir: %s", cfg.Speech.OutputDir)
	}
	if cfg.ExternalTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.ExternalTimeout)
	}
}

func TestLoadMissingSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET_KEY")
	} else if !strings.Contains(err.Error(), "JWT_SECRET_KEY") {
		t.Fatalf("error should name the missing key: %v", err)
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadMissingModelCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARK_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when neither API key nor AK/SK pair is set")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SPEECH_MAX_WORKERS", "4")
	t.Setenv("AUDIO_CACHE_SIZE", "50")
	t.Setenv("EXTERNAL_TIMEOUT_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.Speech.MaxWorkers != 4 {
		t.Fatalf("unexpected max workers: %d", cfg.Speech.MaxWorkers)
	}
	if cfg.Speech.CacheSize != 50 {
		t.Fatalf("unexpected cache size: %d", cfg.Speech.CacheSize)
	}
	if cfg.ExternalTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.ExternalTimeout)
	}
}

func TestLoadRejectsInvalidWorkerCount(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SPEECH_MAX_WORKERS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero worker count")
	}
}
