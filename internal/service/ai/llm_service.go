package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/morrisliu/voicechat/backend/internal/config"
	"github.com/morrisliu/voicechat/backend/internal/model/chat"
)

// Keep replies speakable; everything generated here is fed to the TTS model.
const systemPrompt = "You are a helpful voice assistant. Answer conversationally " +
	"and keep replies short enough to be spoken aloud."

// How many prior turns from the request context are forwarded to the model.
const historyLimit = 10

// Service generates completions through a prompt-template -> chat-model chain.
type Service struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the completion chain once; the model client is shared
// read-only across requests.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{chain: runnable}, nil
}

// Complete runs one completion for the message, with optional prior turns.
func (s *Service) Complete(ctx context.Context, message string, history []chat.Turn) (string, error) {
	input := map[string]any{
		"system":  systemPrompt,
		"history": buildHistoryMessages(history),
		"query":   message,
	}

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	return response.Content, nil
}

func buildHistoryMessages(history []chat.Turn) []*schema.Message {
	if len(history) == 0 {
		return nil
	}

	startIdx := 0
	if len(history) > historyLimit {
		startIdx = len(history) - historyLimit
	}

	messages := make([]*schema.Message, 0, len(history)-startIdx)
	for _, turn := range history[startIdx:] {
		switch turn.Role {
		case chat.RoleUser:
			messages = append(messages, schema.UserMessage(turn.Content))
		case chat.RoleAssistant:
			messages = append(messages, schema.AssistantMessage(turn.Content, nil))
		}
	}

	return messages
}
