package chat

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/morrisliu/voicechat/backend/internal/model/chat"
)

// Completer is the external completion service boundary.
type Completer interface {
	Complete(ctx context.Context, message string, history []chat.Turn) (string, error)
}

// Synthesizer is the external audio service boundary.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// Recorder is the slice of the persistence gateway this service writes to.
type Recorder interface {
	SaveConversation(ctx context.Context, userID, role, content string) bool
}

// Service sequences one chat exchange: completion, then audio, then two
// conversation rows. Every external call is attempted exactly once.
type Service struct {
	ai      Completer
	speech  Synthesizer
	store   Recorder
	timeout time.Duration
}

// NewService wires the orchestrator. timeout bounds each external call.
func NewService(ai Completer, speech Synthesizer, store Recorder, timeout time.Duration) *Service {
	return &Service{ai: ai, speech: speech, store: store, timeout: timeout}
}

// Process runs one exchange. The second return value reports overall success;
// on failure the response carries only the error string. Persistence faults
// do not fail the request.
func (s *Service) Process(ctx context.Context, req chat.Request) (chat.Response, bool) {
	text, err := s.complete(ctx, req)
	if err != nil {
		return chat.Response{Err: fmt.Sprintf("AI response generation failed: %v", err)}, false
	}

	audioURL, err := s.synthesize(ctx, text)
	if err != nil {
		// The generated text is discarded along with the failed exchange.
		return chat.Response{Err: fmt.Sprintf("Audio generation failed: %v", err)}, false
	}

	if !s.store.SaveConversation(ctx, req.UserID, chat.RoleUser, req.Message) {
		log.Printf("[chat] user turn not persisted for user %s", req.UserID)
	}
	if !s.store.SaveConversation(ctx, req.UserID, chat.RoleAssistant, text) {
		log.Printf("[chat] assistant turn not persisted for user %s", req.UserID)
	}

	return chat.Response{Text: text, AudioURL: audioURL}, true
}

func (s *Service) complete(ctx context.Context, req chat.Request) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.ai.Complete(callCtx, req.Message, req.Context)
}

func (s *Service) synthesize(ctx context.Context, text string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.speech.Synthesize(callCtx, text)
}
