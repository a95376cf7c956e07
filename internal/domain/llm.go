package domain

import "context"

// Conversation is one server-side chat handle. Implementations keep the
// transcript so each Send carries full history to the hosted model.
type Conversation interface {
	Send(ctx context.Context, message string) (string, error)
}

// ChatModel starts conversations against a hosted chat-completion service.
type ChatModel interface {
	Start(ctx context.Context, systemPrompt string) (Conversation, error)
}

// GroundedGenerator runs a single generation with a web-search tool enabled and
// returns the raw text along with the search citations.
type GroundedGenerator interface {
	GenerateGrounded(ctx context.Context, prompt string) (string, []GroundingChunk, error)
}
