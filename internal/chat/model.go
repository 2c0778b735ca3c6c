package chat

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Message roles. Order within a conversation is chronological, oldest first,
// and is preserved through every transformation in the pipeline.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one conversation turn as sent by the client. Clients only ever
// send user and assistant turns; the system prompt is assembled server-side,
// so a client-supplied system role is rejected rather than merged into the
// prompt.
type Message struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// Request is the POST /chat body. The last message is the current user
// query; everything before it is prior history.
type Request struct {
	Messages []Message `json:"messages" validate:"dive"`
	UserID   string    `json:"userId" validate:"required"`
	Persona  string    `json:"persona,omitempty"`
}

var (
	ErrEmptyConversation = errors.New("messages must contain at least one entry")
	ErrLastNotUser       = errors.New("the last message must be from the user")
)

// Validate rejects malformed requests before any provider call is made.
// An empty message list is allowed only for the roleplay bootstrap, where
// the service synthesizes the scenario-opening turn itself.
func (r *Request) Validate(v *validator.Validate) error {
	if err := v.Struct(r); err != nil {
		return err
	}
	if len(r.Messages) == 0 {
		if ParsePersona(r.Persona) == PersonaRoleplay {
			return nil
		}
		return ErrEmptyConversation
	}
	if r.Messages[len(r.Messages)-1].Role != RoleUser {
		return ErrLastNotUser
	}
	return nil
}
