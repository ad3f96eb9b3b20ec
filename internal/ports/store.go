package ports

import (
	"context"

	"github.com/pookietodo/core/internal/domain/entities"
)

// DocumentStore defines the persistence boundary for the single document
// holding all state. Update serializes the whole load-mutate-save cycle so
// two concurrent mutations can never overwrite each other.
type DocumentStore interface {
	Load(ctx context.Context) (*entities.Document, error)
	Update(ctx context.Context, fn func(doc *entities.Document) error) error
	Ping(ctx context.Context) error
}

// ChatMessage is one role/content pair in a conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompleter defines the external completion provider.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
	// Ready reports whether the provider is configured with a credential.
	Ready() bool
}
