package llm

import (
	"context"
	"errors"
	"fmt"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLM defines the interface for language model providers
type LLM interface {

	// Chat sends the conversation and returns the assistant's reply
	Chat(ctx context.Context, messages []Message) (string, error)

	// IsModelAvailable checks if the configured model is available
	IsModelAvailable(ctx context.Context) error
}

// StatusError is an upstream failure that carries the provider's HTTP status.
type StatusError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("llm upstream status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm upstream status %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Err }

// StatusCode returns the upstream HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Unavailable answers every call with Err. It stands in for a provider that
// could not be configured so the rest of the server still starts.
type Unavailable struct {
	Err error
}

func (u Unavailable) Chat(context.Context, []Message) (string, error) {
	return "", u.Err
}

func (u Unavailable) IsModelAvailable(context.Context) error {
	return u.Err
}
