// README: Conversation and message definitions.
package conversation

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrNotFound = errors.New("conversation not found")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Status tracks the lifecycle of an assistant message. A placeholder is
// appended as StatusSending, then updated in place to StatusSent or
// StatusError once the backend responds.
type Status string

const (
	StatusSending Status = "sending"
	StatusSent    Status = "sent"
	StatusError   Status = "error"
)

// EventDraft is a parsed calendar event attached to a confirmation
// message, editable by the user before it is committed.
type EventDraft struct {
	Title string    `json:"title"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Message struct {
	ID             string      `json:"id"`
	ConversationID string      `json:"conversation_id"`
	Role           Role        `json:"role"`
	Content        string      `json:"content"`
	Status         Status      `json:"status"`
	Event          *EventDraft `json:"event,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const titleMaxRunes = 30

// DeriveTitle builds a conversation title from its first user message,
// truncated to 30 characters with an ellipsis.
func DeriveTitle(firstUserMessage string) string {
	t := strings.TrimSpace(firstUserMessage)
	if t == "" {
		return "New conversation"
	}
	if utf8.RuneCountInString(t) <= titleMaxRunes {
		return t
	}
	runes := []rune(t)
	return string(runes[:titleMaxRunes]) + "..."
}
