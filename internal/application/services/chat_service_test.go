package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pookietodo/core/internal/domain/entities"
	"github.com/pookietodo/core/internal/infrastructure/logger"
	"github.com/pookietodo/core/internal/ports"
)

type fakeCompleter struct {
	gotMessages []ports.ChatMessage
	reply       string
	err         error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []ports.ChatMessage) (string, error) {
	f.gotMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeCompleter) Ready() bool { return true }

func TestChatService_BuildsMessageList(t *testing.T) {
	completer := &fakeCompleter{reply: "You got this ♡"}
	svc := NewChatService(completer, logger.NewNop())

	resp, err := svc.Chat(context.Background(), "1", ports.ChatRequest{
		Message: "what should I do next?",
		History: []ports.ChatMessage{
			{Role: "user", Content: "hi"},
			{Role: "assistant", Content: "hello!"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "You got this ♡", resp.Response)

	require.Len(t, completer.gotMessages, 4)
	assert.Equal(t, "system", completer.gotMessages[0].Role)
	assert.Contains(t, completer.gotMessages[0].Content, "pookie")
	assert.Equal(t, ports.ChatMessage{Role: "user", Content: "hi"}, completer.gotMessages[1])
	assert.Equal(t, ports.ChatMessage{Role: "assistant", Content: "hello!"}, completer.gotMessages[2])
	assert.Equal(t, ports.ChatMessage{Role: "user", Content: "what should I do next?"}, completer.gotMessages[3])
}

func TestChatService_EmptyHistory(t *testing.T) {
	completer := &fakeCompleter{reply: "hi there"}
	svc := NewChatService(completer, logger.NewNop())

	_, err := svc.Chat(context.Background(), "1", ports.ChatRequest{Message: "hello"})
	require.NoError(t, err)

	require.Len(t, completer.gotMessages, 2)
	assert.Equal(t, "system", completer.gotMessages[0].Role)
	assert.Equal(t, "user", completer.gotMessages[1].Role)
}

func TestChatService_ProviderErrorPropagates(t *testing.T) {
	completer := &fakeCompleter{err: entities.ErrChatUpstream}
	svc := NewChatService(completer, logger.NewNop())

	_, err := svc.Chat(context.Background(), "1", ports.ChatRequest{Message: "hello"})
	assert.ErrorIs(t, err, entities.ErrChatUpstream)
}

func TestChatService_TimeoutPropagates(t *testing.T) {
	completer := &fakeCompleter{err: entities.ErrChatTimeout}
	svc := NewChatService(completer, logger.NewNop())

	_, err := svc.Chat(context.Background(), "1", ports.ChatRequest{Message: "hello"})
	assert.ErrorIs(t, err, entities.ErrChatTimeout)
}
