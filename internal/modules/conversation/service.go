// README: Conversation service: message log plus placeholder lifecycle.
package conversation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MessageStore is the persistence surface the service needs. Satisfied
// by *Store; tests supply an in-memory fake.
type MessageStore interface {
	CreateConversation(ctx context.Context, c *Conversation) error
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	ListConversations(ctx context.Context) ([]Conversation, error)
	UpdateTitle(ctx context.Context, id, title string) error
	DeleteConversation(ctx context.Context, id string) error
	AppendMessage(ctx context.Context, m *Message) error
	UpdateMessage(ctx context.Context, m *Message) error
	DeleteMessage(ctx context.Context, id string) error
	RecentMessages(ctx context.Context, conversationID string, n int) ([]Message, error)
	Messages(ctx context.Context, conversationID string) ([]Message, error)
}

type Service struct {
	store MessageStore
	now   func() time.Time
}

func NewService(store MessageStore) *Service {
	return &Service{store: store, now: time.Now}
}

// Ensure returns the conversation with the given id, creating one when
// id is empty.
func (s *Service) Ensure(ctx context.Context, id string) (*Conversation, error) {
	if id != "" {
		return s.store.GetConversation(ctx, id)
	}
	now := s.now()
	c := &Conversation{
		ID:        uuid.NewString(),
		Title:     DeriveTitle(""),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.CreateConversation(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AppendUser records a user message. The first user message of a
// conversation also sets its title.
func (s *Service) AppendUser(ctx context.Context, conversationID, content string) (*Message, error) {
	existing, err := s.store.RecentMessages(ctx, conversationID, 1)
	if err != nil {
		return nil, err
	}
	m := &Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           RoleUser,
		Content:        content,
		Status:         StatusSent,
		CreatedAt:      s.now(),
	}
	if err := s.store.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		if err := s.store.UpdateTitle(ctx, conversationID, DeriveTitle(content)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AppendPlaceholder appends an assistant message in the sending state.
// The caller resolves it later with ResolvePlaceholder, keeping the
// same message id so the UI can update in place.
func (s *Service) AppendPlaceholder(ctx context.Context, conversationID, content string) (*Message, error) {
	m := &Message{
		ID:             uuid.NewString(),
		ConversationID: conversationID,
		Role:           RoleAssistant,
		Content:        content,
		Status:         StatusSending,
		CreatedAt:      s.now(),
	}
	if err := s.store.AppendMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// ResolvePlaceholder rewrites a placeholder with the final content.
func (s *Service) ResolvePlaceholder(ctx context.Context, m *Message, content string, status Status, event *EventDraft) (*Message, error) {
	m.Content = content
	m.Status = status
	m.Event = event
	if err := s.store.UpdateMessage(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// History returns the last n messages for prompting, oldest first.
func (s *Service) History(ctx context.Context, conversationID string, n int) ([]Message, error) {
	return s.store.RecentMessages(ctx, conversationID, n)
}

func (s *Service) List(ctx context.Context) ([]Conversation, error) {
	return s.store.ListConversations(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Conversation, error) {
	return s.store.GetConversation(ctx, id)
}

func (s *Service) Messages(ctx context.Context, id string) ([]Message, error) {
	return s.store.Messages(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteConversation(ctx, id)
}

func (s *Service) DeleteMessage(ctx context.Context, id string) error {
	return s.store.DeleteMessage(ctx, id)
}
