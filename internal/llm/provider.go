// Package llm talks to the language model backends that can author a
// filament preset. Every backend satisfies Provider; decorators add
// retries and request logging on top.
package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one request to a model and returns its answer.
type Provider interface {
	// Generate returns the model's answer. When req.Schema is set the
	// answer has been checked against it, and a mismatch is reported as
	// *ErrInvalidResponse.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the resolved model identifier, e.g. "llama3.1:8b".
	ModelID() string
}

type Request struct {
	System string

	// Messages holds the conversation. Preset generation is single-turn,
	// so this is normally one user message.
	Messages []Message

	// Schema, when set, describes the JSON object expected back. Strict
	// schemas are forwarded to providers with native structured output.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1].
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is kebab-case and doubles as the compiled-schema cache key.
	Name string

	Description string

	// Definition is the schema itself. "additionalProperties": false
	// marks it strict.
	Definition map[string]any

	// Order is the key order the prompt asks for. Gemini emits object
	// keys in this order.
	Order []string
}

type Response struct {
	// Content is the answer text. With a schema it is a validated JSON
	// object.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
