// Package advisor streams financial guidance from a chat-completion model,
// grounded in the current ledger.
package advisor

import "context"

// ChatRequest is a single advisor turn: a system instruction carrying the
// ledger context and the user's question.
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
}

// Stream yields response text chunk by chunk. Recv returns io.EOF when
// the model has finished.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Client opens a streaming chat completion. Implementations must honor
// ctx cancellation.
type Client interface {
	StreamChat(ctx context.Context, req ChatRequest) (Stream, error)
}
