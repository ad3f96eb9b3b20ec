package services

import (
	"context"

	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

// personaPrompt is prepended to every conversation sent to the provider.
const personaPrompt = `You are a friendly AI assistant with a warm "pookie" personality.
Be concise, encouraging, and use ♡ sparingly. Help manage tasks naturally.`

// ChatService relays conversations to the external completion provider.
// The server holds no conversation state; the caller supplies the full
// history on every call and it is forwarded as-is.
type ChatService struct {
	completer ports.ChatCompleter
	logger    *logger.Logger
}

// NewChatService creates a new chat service
func NewChatService(completer ports.ChatCompleter, logger *logger.Logger) *ChatService {
	return &ChatService{
		completer: completer,
		logger:    logger,
	}
}

// Chat builds the message list as persona + history + new message, sends it
// to the provider and returns the reply verbatim.
func (s *ChatService) Chat(ctx context.Context, userID string, req ports.ChatRequest) (*ports.ChatResponse, error) {
	messages := make([]ports.ChatMessage, 0, len(req.History)+2)
	messages = append(messages, ports.ChatMessage{Role: "system", Content: personaPrompt})
	messages = append(messages, req.History...)
	messages = append(messages, ports.ChatMessage{Role: "user", Content: req.Message})

	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		s.logger.Errorw("chat completion failed", "error", err, "user_id", userID)
		return nil, err
	}

	return &ports.ChatResponse{Response: reply}, nil
}
