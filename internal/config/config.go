package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configuration section of the service.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
	AI       AIConfig
	Speech   SpeechConfig

	// ExternalTimeout bounds each call to the completion and speech services.
	ExternalTimeout time.Duration
}

// Load reads configuration from environment variables. It returns an error
// when any required value is absent so the process refuses to start.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	auth, err := loadAuthConfig()
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	speech, err := loadSpeechConfig()
	if err != nil {
		return nil, err
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("EXTERNAL_TIMEOUT_SECONDS"); err != nil {
		return nil, err
	} else if override != nil {
		if *override < 1 {
			return nil, fmt.Errorf("EXTERNAL_TIMEOUT_SECONDS must be positive, got %d", *override)
		}
		timeoutSeconds = *override
	}

	return &Config{
		Server:          server,
		Auth:            auth,
		Database:        database,
		AI:              ai,
		Speech:          speech,
		ExternalTimeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Allow ":8080" or "127.0.0.1:8080" directly.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AuthConfig carries the token signing secret.
type AuthConfig struct {
	JWTSecret string
}

func loadAuthConfig() (AuthConfig, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return AuthConfig{JWTSecret: secret}, nil
}

// DatabaseConfig carries the datastore connection string.
type DatabaseConfig struct {
	URL string
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	url := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if url == "" {
		return DatabaseConfig{}, fmt.Errorf("DATABASE_URL is required")
	}
	return DatabaseConfig{URL: url}, nil
}

// AIConfig describes the external completion model.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	cfg := AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	if cfg.Model == "" {
		return AIConfig{}, fmt.Errorf("ARK_MODEL is required")
	}
	if cfg.APIKey == "" && (cfg.AccessKey == "" || cfg.SecretKey == "") {
		return AIConfig{}, fmt.Errorf("ARK_API_KEY or the ARK_ACCESS_KEY/ARK_SECRET_KEY pair is required")
	}

	return cfg, nil
}

// NewChatModel builds a chat model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

// SpeechConfig describes the external speech-synthesis model and the local
// audio handling around it.
type SpeechConfig struct {
	Endpoint   string
	Voice      string
	OutputDir  string
	MaxWorkers int
	CacheSize  int
}

func loadSpeechConfig() (SpeechConfig, error) {
	endpoint := strings.TrimSpace(os.Getenv("SPEECH_ENDPOINT"))
	if endpoint == "" {
		return SpeechConfig{}, fmt.Errorf("SPEECH_ENDPOINT is required")
	}

	maxWorkers := 12
	if override, err := parseOptionalIntEnv("SPEECH_MAX_WORKERS"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SpeechConfig{}, fmt.Errorf("SPEECH_MAX_WORKERS must be positive, got %d", *override)
		}
		maxWorkers = *override
	}

	cacheSize := 1000
	if override, err := parseOptionalIntEnv("AUDIO_CACHE_SIZE"); err != nil {
		return SpeechConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return SpeechConfig{}, fmt.Errorf("AUDIO_CACHE_SIZE must be positive, got %d", *override)
		}
		cacheSize = *override
	}

	return SpeechConfig{
		Endpoint:   endpoint,
		Voice:      getEnvOrDefault("SPEECH_VOICE", ""),
		OutputDir:  getEnvOrDefault("AUDIO_OUTPUT_DIR", "temp_audio"),
		MaxWorkers: maxWorkers,
		CacheSize:  cacheSize,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
