package chat_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	chatmodel "github.com/morrisliu/voicechat/backend/internal/model/chat"
	chat "github.com/morrisliu/voicechat/backend/internal/service/chat"
)

type fakeCompleter struct {
	text string
	err  error
}

func (f *fakeCompleter) Complete(_ context.Context, _ string, _ []chatmodel.Turn) (string, error) {
	return f.text, f.err
}

type fakeSynthesizer struct {
	url string
	err error
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, _ string) (string, error) {
	return f.url, f.err
}

type savedTurn struct {
	role    string
	content string
}

type fakeRecorder struct {
	saved []savedTurn
	ok    bool
}

func (f *fakeRecorder) SaveConversation(_ context.Context, _, role, content string) bool {
	f.saved = append(f.saved, savedTurn{role: role, content: content})
	return f.ok
}

func newService(ai chat.Completer, speech chat.Synthesizer, store chat.Recorder) *chat.Service {
	return chat.NewService(ai, speech, store, time.Second)
}

func TestProcessSuccess(t *testing.T) {
	store := &fakeRecorder{ok: true}
	svc := newService(
		&fakeCompleter{text: "Hi! How can I help?"},
		&fakeSynthesizer{url: "/audio/abc.wav"},
		store,
	)

	resp, ok := svc.Process(context.Background(), chatmodel.Request{Message: "Hello", UserID: "user-1"})
	if !ok {
		t.Fatalf("expected success, got error %q", resp.Err)
	}
	if resp.Text != "Hi! How can I help?" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
	if resp.AudioURL != "/audio/abc.wav" {
		t.Fatalf("unexpected audio url: %q", resp.AudioURL)
	}
	if resp.Err != "" {
		t.Fatalf("error should be empty on success, got %q", resp.Err)
	}

	if len(store.saved) != 2 {
		t.Fatalf("expected two persisted turns, got %d", len(store.saved))
	}
	if store.saved[0].role != "user" || store.saved[0].content != "Hello" {
		t.Fatalf("unexpected first turn: %+v", store.saved[0])
	}
	if store.saved[1].role != "assistant" || store.saved[1].content != "Hi! How can I help?" {
		t.Fatalf("unexpected second turn: %+v", store.saved[1])
	}
}

func TestProcessCompletionFailureSkipsPersistence(t *testing.T) {
	store := &fakeRecorder{ok: true}
	svc := newService(
		&fakeCompleter{err: errors.New("quota exceeded")},
		&fakeSynthesizer{url: "/audio/abc.wav"},
		store,
	)

	resp, ok := svc.Process(context.Background(), chatmodel.Request{Message: "Hello", UserID: "user-1"})
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(resp.Err, "AI response generation failed:") {
		t.Fatalf("unexpected error: %q", resp.Err)
	}
	if len(store.saved) != 0 {
		t.Fatalf("no turns should be persisted, got %d", len(store.saved))
	}
}

func TestProcessAudioFailureDiscardsText(t *testing.T) {
	store := &fakeRecorder{ok: true}
	svc := newService(
		&fakeCompleter{text: "some completion"},
		&fakeSynthesizer{err: errors.New("model unreachable")},
		store,
	)

	resp, ok := svc.Process(context.Background(), chatmodel.Request{Message: "Hello", UserID: "user-1"})
	if ok {
		t.Fatal("expected failure")
	}
	if !strings.HasPrefix(resp.Err, "Audio generation failed:") {
		t.Fatalf("unexpected error: %q", resp.Err)
	}
	if resp.Text != "" || resp.AudioURL != "" {
		t.Fatalf("partial result leaked: %+v", resp)
	}
	if len(store.saved) != 0 {
		t.Fatalf("no turns should be persisted, got %d", len(store.saved))
	}
}

func TestProcessPersistenceFaultDoesNotFailRequest(t *testing.T) {
	store := &fakeRecorder{ok: false}
	svc := newService(
		&fakeCompleter{text: "reply"},
		&fakeSynthesizer{url: "/audio/abc.wav"},
		store,
	)

	resp, ok := svc.Process(context.Background(), chatmodel.Request{Message: "Hello", UserID: "user-1"})
	if !ok {
		t.Fatalf("persistence faults must not fail the request: %q", resp.Err)
	}
	if resp.Text != "reply" {
		t.Fatalf("unexpected text: %q", resp.Text)
	}
}
