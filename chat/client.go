// Package chat defines the LLM collaborator interface consumed by LLM-type
// node executors. The wire protocol behind a Client is out of scope for the
// engine; failures surface as node-level errors.
package chat

import "context"

// Role identifies the author of a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single conversation message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is an opaque chat request.
type Request struct {
	Model    string         `json:"model,omitempty"`
	Messages []Message      `json:"messages"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Response is an opaque chat response.
type Response struct {
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Client sends a chat request to an external model endpoint.
type Client interface {
	SendMessage(ctx context.Context, req *Request) (*Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, req *Request) (*Response, error)

func (f ClientFunc) SendMessage(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}
