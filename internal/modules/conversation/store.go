// README: Conversation store backed by PostgreSQL.
package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) CreateConversation(ctx context.Context, c *Conversation) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO conversations (id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`,
		c.ID, c.Title, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, title, created_at, updated_at
		FROM conversations
		WHERE id = $1`, id,
	)
	var c Conversation
	err := row.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) ListConversations(ctx context.Context) ([]Conversation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, title, created_at, updated_at
		FROM conversations
		ORDER BY updated_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTitle(ctx context.Context, id, title string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE conversations SET title = $1, updated_at = NOW()
		WHERE id = $2`, title, id,
	)
	return err
}

func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	return err
}

func (s *Store) AppendMessage(ctx context.Context, m *Message) error {
	event, err := marshalEvent(m.Event)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO messages (id, conversation_id, role, content, status, event, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.ConversationID, string(m.Role), m.Content, string(m.Status), event, m.CreatedAt,
	)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE conversations SET updated_at = NOW() WHERE id = $1`, m.ConversationID,
	)
	return err
}

func (s *Store) DeleteMessage(ctx context.Context, id string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

// UpdateMessage replaces the content, status and event of an existing
// message in place. Updating an unknown id is a no-op, not an error.
func (s *Store) UpdateMessage(ctx context.Context, m *Message) error {
	event, err := marshalEvent(m.Event)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		UPDATE messages
		SET content = $1, status = $2, event = $3
		WHERE id = $4`,
		m.Content, string(m.Status), event, m.ID,
	)
	return err
}

// RecentMessages returns the last n messages of a conversation in
// chronological order.
func (s *Store) RecentMessages(ctx context.Context, conversationID string, n int) ([]Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, conversation_id, role, content, status, event, created_at
		FROM (
			SELECT id, conversation_id, role, content, status, event, created_at
			FROM messages
			WHERE conversation_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC`,
		conversationID, n,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (s *Store) Messages(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, conversation_id, role, content, status, event, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC`,
		conversationID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessages(rows pgx.Rows) ([]Message, error) {
	var out []Message
	for rows.Next() {
		var m Message
		var event sql.NullString
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.Status, &event, &m.CreatedAt); err != nil {
			return nil, err
		}
		if event.Valid {
			var d EventDraft
			if err := json.Unmarshal([]byte(event.String), &d); err == nil {
				m.Event = &d
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func marshalEvent(d *EventDraft) (*string, error) {
	if d == nil {
		return nil, nil
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	s := string(raw)
	return &s, nil
}
