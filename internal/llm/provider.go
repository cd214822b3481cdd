// Package llm generates nudge and synthesis content through a hosted
// chat-completion endpoint, with local fallbacks for the flows that must
// never fail.
package llm

import "context"

// Message is one chat message in the wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is the contract for any model backend.
type Provider interface {
	// Generate sends a single user prompt and returns the model text.
	Generate(ctx context.Context, prompt string) (string, error)
}
