package ai

import (
	"context"
	"errors"
)

// Message is one prior conversation turn passed as chat context.
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

var (
	// ErrQuotaExhausted signals a rate-limit (429-class) failure. Never
	// retried automatically; the free-tier quota would only burn faster.
	ErrQuotaExhausted = errors.New("ai: quota exhausted")
	// ErrOverloaded signals a transient backend (503-class) failure,
	// eligible for exactly one bounded retry.
	ErrOverloaded = errors.New("ai: model overloaded")
)

// ChatProvider defines the contract for chat completion.
// This interface allows swapping providers (Gemini, OpenAI, etc.) later.
type ChatProvider interface {
	// SendMessage sends one utterance with a bounded window of prior turns
	// and returns the assistant reply text.
	SendMessage(ctx context.Context, message string, history []Message) (string, error)
}
