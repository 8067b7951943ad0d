package handlers

import (
	"errors"

	"github.com/Prashantramappa/qwen-chat-personal/internal/api/server/client"
)

// ChatMessage is one turn of the conversation as sent by a client.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /chat. Clients send either a messages
// list or a bare prompt; the two shapes are decoded explicitly here and
// collapsed into the one canonical representation used everywhere else.
// Prompt is a pointer so that a missing field can be told apart from an
// empty one — `{}` is malformed, `{"prompt": ""}` is empty input.
type ChatRequest struct {
	Messages     []ChatMessage `json:"messages,omitempty"`
	Prompt       *string       `json:"prompt,omitempty"`
	MaxNewTokens int           `json:"max_new_tokens,omitempty"`
}

// ChatResponse is the uniform success envelope.
type ChatResponse struct {
	Response string `json:"response"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Validation failures, rejected with 400 before any rule or model logic.
var (
	ErrNoInput      = errors.New("request must contain messages or a prompt")
	ErrEmptyHistory = errors.New("messages must not be empty")
	ErrBadRole      = errors.New("message role must be user, assistant or system")
	ErrNotUserLast  = errors.New("messages must end with a user message")
)

// Canonicalize validates the tagged union and returns the conversation as a
// message list ending in the user's current turn.
func (r *ChatRequest) Canonicalize() ([]ChatMessage, error) {
	if r.Messages != nil {
		if len(r.Messages) == 0 {
			return nil, ErrEmptyHistory
		}
		for _, msg := range r.Messages {
			switch msg.Role {
			case client.RoleUser, client.RoleAssistant, client.RoleSystem:
			default:
				return nil, ErrBadRole
			}
		}
		if r.Messages[len(r.Messages)-1].Role != client.RoleUser {
			return nil, ErrNotUserLast
		}
		return r.Messages, nil
	}

	if r.Prompt != nil {
		return []ChatMessage{{Role: client.RoleUser, Content: *r.Prompt}}, nil
	}

	return nil, ErrNoInput
}

// lastUserContent returns the text of the final message. Canonicalize
// guarantees it exists and is user-authored.
func lastUserContent(messages []ChatMessage) string {
	return messages[len(messages)-1].Content
}
