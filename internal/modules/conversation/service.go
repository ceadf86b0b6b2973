package conversation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service records chat turns. Every call is a single-statement write, so
// concurrent appends to one conversation serialize in Postgres.
type Service struct {
	store *Store
	now   func() time.Time
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store, now: time.Now}
}

// AppendUser appends a user message to the user's latest active
// conversation, creating one when there is none, and returns its id.
func (s *Service) AppendUser(ctx context.Context, userID string, meta Meta, text string) (string, error) {
	msg := Message{Role: RoleUser, Text: text, Timestamp: s.now().UTC()}

	title := ""
	if meta.DetectedCity != "" {
		title = Title(meta.DetectedCity, "")
	}
	id, err := s.store.AppendToLatest(ctx, userID, title, meta, msg)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return "", err
	}

	c, err := s.store.Insert(ctx, uuid.NewString(), userID, Title(meta.DetectedCity, text), meta, msg)
	if err != nil {
		return "", err
	}
	return c.ID, nil
}

// Append adds msgs to one of userID's conversations in a single write. Role
// defaults to bot and the timestamp to now. Returns ErrNotFound when the
// conversation does not exist or belongs to someone else.
func (s *Service) Append(ctx context.Context, userID, conversationID string, msgs ...Message) error {
	if _, err := uuid.Parse(conversationID); err != nil {
		return ErrNotFound
	}
	if len(msgs) == 0 {
		return nil
	}
	now := s.now().UTC()
	out := make([]Message, len(msgs))
	for i, msg := range msgs {
		if msg.Role == "" {
			msg.Role = RoleBot
		}
		if msg.Timestamp.IsZero() {
			msg.Timestamp = now
		}
		out[i] = msg
	}
	return s.store.Append(ctx, conversationID, userID, out...)
}

func (s *Service) Get(ctx context.Context, id string) (Conversation, error) {
	return s.store.Get(ctx, id)
}

// ListByUser returns up to HistoryLimit conversations, newest first.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Conversation, error) {
	return s.store.ListByUser(ctx, userID, HistoryLimit)
}

// Create starts an empty conversation holding only the greeting.
func (s *Service) Create(ctx context.Context, userID string) (Conversation, error) {
	greeting := Message{Role: RoleBot, Text: Greeting, Timestamp: s.now().UTC()}
	return s.store.Insert(ctx, uuid.NewString(), userID, NewTitle, Meta{}, greeting)
}
