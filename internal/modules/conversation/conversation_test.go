package conversation

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"short message kept verbatim", "Lunch plans", "Lunch plans"},
		{"whitespace trimmed", "  hello  ", "hello"},
		{"empty falls back", "", "New conversation"},
		{
			"long message truncated with ellipsis",
			"Schedule a meeting with the entire design team tomorrow",
			"Schedule a meeting with the en...",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.input); got != tt.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeriveTitle_ExactlyAtLimit(t *testing.T) {
	in := strings.Repeat("a", 30)
	if got := DeriveTitle(in); got != in {
		t.Errorf("30-rune title should not be truncated, got %q", got)
	}
}

// memStore is an in-memory MessageStore for service tests.
type memStore struct {
	conversations map[string]*Conversation
	messages      map[string][]Message
}

func newMemStore() *memStore {
	return &memStore{
		conversations: map[string]*Conversation{},
		messages:      map[string][]Message{},
	}
}

func (s *memStore) CreateConversation(_ context.Context, c *Conversation) error {
	cp := *c
	s.conversations[c.ID] = &cp
	return nil
}

func (s *memStore) GetConversation(_ context.Context, id string) (*Conversation, error) {
	c, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *memStore) ListConversations(context.Context) ([]Conversation, error) {
	var out []Conversation
	for _, c := range s.conversations {
		out = append(out, *c)
	}
	return out, nil
}

func (s *memStore) UpdateTitle(_ context.Context, id, title string) error {
	if c, ok := s.conversations[id]; ok {
		c.Title = title
	}
	return nil
}

func (s *memStore) DeleteConversation(_ context.Context, id string) error {
	delete(s.conversations, id)
	delete(s.messages, id)
	return nil
}

func (s *memStore) AppendMessage(_ context.Context, m *Message) error {
	s.messages[m.ConversationID] = append(s.messages[m.ConversationID], *m)
	return nil
}

func (s *memStore) DeleteMessage(_ context.Context, id string) error {
	for conv, msgs := range s.messages {
		for i := range msgs {
			if msgs[i].ID == id {
				s.messages[conv] = append(msgs[:i], msgs[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (s *memStore) UpdateMessage(_ context.Context, m *Message) error {
	for _, msgs := range s.messages {
		for i := range msgs {
			if msgs[i].ID == m.ID {
				msgs[i] = *m
				return nil
			}
		}
	}
	// unknown id is a no-op
	return nil
}

func (s *memStore) RecentMessages(_ context.Context, conversationID string, n int) ([]Message, error) {
	msgs := s.messages[conversationID]
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *memStore) Messages(_ context.Context, conversationID string) ([]Message, error) {
	out := make([]Message, len(s.messages[conversationID]))
	copy(out, s.messages[conversationID])
	return out, nil
}

func TestService_FirstUserMessageSetsTitle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)

	c, err := svc.Ensure(ctx, "")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if _, err := svc.AppendUser(ctx, c.ID, "Find coffee shops near me"); err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	got, _ := svc.Get(ctx, c.ID)
	if got.Title != "Find coffee shops near me" {
		t.Errorf("title = %q, want first user message", got.Title)
	}

	// second message must not overwrite the title
	if _, err := svc.AppendUser(ctx, c.ID, "thanks"); err != nil {
		t.Fatalf("AppendUser: %v", err)
	}
	got, _ = svc.Get(ctx, c.ID)
	if got.Title != "Find coffee shops near me" {
		t.Errorf("title changed to %q after second message", got.Title)
	}
}

func TestService_PlaceholderLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)

	c, err := svc.Ensure(ctx, "")
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	ph, err := svc.AppendPlaceholder(ctx, c.ID, "Thinking...")
	if err != nil {
		t.Fatalf("AppendPlaceholder: %v", err)
	}
	if ph.Status != StatusSending {
		t.Errorf("placeholder status = %q, want sending", ph.Status)
	}

	draft := &EventDraft{Title: "Standup", Start: time.Now(), End: time.Now().Add(30 * time.Minute)}
	resolved, err := svc.ResolvePlaceholder(ctx, ph, "Here you go", StatusSent, draft)
	if err != nil {
		t.Fatalf("ResolvePlaceholder: %v", err)
	}
	if resolved.ID != ph.ID {
		t.Error("resolving must keep the message id")
	}

	msgs, _ := svc.Messages(ctx, c.ID)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if msgs[0].Status != StatusSent || msgs[0].Content != "Here you go" {
		t.Errorf("stored message not updated: %+v", msgs[0])
	}
	if msgs[0].Event == nil || msgs[0].Event.Title != "Standup" {
		t.Errorf("event draft not persisted: %+v", msgs[0].Event)
	}
}

func TestService_HistoryWindow(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	svc := NewService(store)

	c, _ := svc.Ensure(ctx, "")
	for _, content := range []string{"one", "two", "three", "four"} {
		if _, err := svc.AppendUser(ctx, c.ID, content); err != nil {
			t.Fatalf("AppendUser: %v", err)
		}
	}

	hist, err := svc.History(ctx, c.ID, 2)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("got %d messages, want 2", len(hist))
	}
	if hist[0].Content != "three" || hist[1].Content != "four" {
		t.Errorf("window should keep the most recent messages in order, got %v", hist)
	}
}
