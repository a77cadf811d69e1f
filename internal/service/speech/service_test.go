package speech

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morrisliu/voicechat/backend/internal/config"
)

type fakeClient struct {
	calls int
	data  []byte
	err   error
}

func (f *fakeClient) Synthesize(_ context.Context, _ string) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func newTestService(t *testing.T, client Client) *Service {
	t.Helper()
	svc, err := NewService(client, config.SpeechConfig{
		OutputDir:  t.TempDir(),
		MaxWorkers: 2,
		CacheSize:  8,
	})
	if err != nil {
		t.Fatalf("NewService err: %v", err)
	}
	return svc
}

func TestSynthesizeWritesFile(t *testing.T) {
	client := &fakeClient{data: []byte("RIFFfakewav")}
	svc := newTestService(t, client)

	url, err := svc.Synthesize(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}

	if !strings.HasPrefix(url, "/audio/") || !strings.HasSuffix(url, ".wav") {
		t.Fatalf("unexpected url: %s", url)
	}

	data, err := os.ReadFile(filepath.Join(svc.OutputDir(), strings.TrimPrefix(url, "/audio/")))
	if err != nil {
		t.Fatalf("read file err: %v", err)
	}
	if string(data) != "RIFFfakewav" {
		t.Fatalf("unexpected file contents: %q", data)
	}
}

func TestSynthesizeCachesRepeatedText(t *testing.T) {
	client := &fakeClient{data: []byte("RIFFfakewav")}
	svc := newTestService(t, client)

	first, err := svc.Synthesize(context.Background(), "same text")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}
	second, err := svc.Synthesize(context.Background(), "same text")
	if err != nil {
		t.Fatalf("Synthesize err: %v", err)
	}

	if first != second {
		t.Fatalf("cache miss: %s != %s", first, second)
	}
	if client.calls != 1 {
		t.Fatalf("expected one model call, got %d", client.calls)
	}
}

func TestSynthesizeEmptyText(t *testing.T) {
	svc := newTestService(t, &fakeClient{})

	if _, err := svc.Synthesize(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesizePropagatesClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("model unreachable")}
	svc := newTestService(t, client)

	if _, err := svc.Synthesize(context.Background(), "hello"); err == nil {
		t.Fatal("expected client error to propagate")
	}
}

func TestSynthesizeHonorsCancelledContext(t *testing.T) {
	client := &fakeClient{data: []byte("RIFFfakewav")}
	svc := newTestService(t, client)

	// Fill the worker pool so acquisition has to wait.
	svc.workers <- struct{}{}
	svc.workers <- struct{}{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Synthesize(ctx, "hello"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if client.calls != 0 {
		t.Fatalf("model should not be called, got %d calls", client.calls)
	}
}
