package llm

import (
	"context"

	"github.com/fieldserve/appointments/internal/domain"
)

// Request contains one chat completion call: the session's system context
// plus the conversation turns to send. Depending on configuration the caller
// passes the full history or only the latest user message.
type Request struct {
	SystemContext string
	Conversation  []domain.Turn
}

// Response contains the assistant's reply
type Response struct {
	Text       string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for chat assistant backends
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Complete sends the conversation and returns the assistant reply.
	// Any failure (auth, quota, network, bad model name) is returned as an
	// error; callers treat them all as the assistant being unavailable.
	Complete(ctx context.Context, req Request, model string) (*Response, error)
}
