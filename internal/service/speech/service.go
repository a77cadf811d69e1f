package speech

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/morrisliu/voicechat/backend/internal/config"
)

// Client renders text to audio bytes.
type Client interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// Service turns text into a servable audio file. A fixed-size semaphore
// bounds concurrent model calls so synthesis cannot starve request handling,
// and repeated texts are answered from an LRU cache without touching the
// model again.
type Service struct {
	client    Client
	workers   chan struct{}
	cache     *lru.Cache[string, string]
	outputDir string
}

// NewService prepares the output directory and the cache. The client is
// constructed once at startup and shared across requests.
func NewService(client Client, cfg config.SpeechConfig) (*Service, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audio output dir: %w", err)
	}

	cache, err := lru.New[string, string](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create audio cache: %w", err)
	}

	return &Service{
		client:    client,
		workers:   make(chan struct{}, cfg.MaxWorkers),
		cache:     cache,
		outputDir: cfg.OutputDir,
	}, nil
}

// Synthesize returns the URL path of a wav file for the text.
func (s *Service) Synthesize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", errors.New("synthesis text is empty")
	}

	if url, ok := s.cache.Get(text); ok {
		return url, nil
	}

	select {
	case s.workers <- struct{}{}:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	defer func() { <-s.workers }()

	data, err := s.client.Synthesize(ctx, text)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + ".wav"
	if err := os.WriteFile(filepath.Join(s.outputDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	url := "/audio/" + name
	s.cache.Add(text, url)
	return url, nil
}

// OutputDir is where synthesized files land; the router serves it at /audio.
func (s *Service) OutputDir() string {
	return s.outputDir
}
