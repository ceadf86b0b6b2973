package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles conversations persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const selectColumns = `id::text, user_id, title, messages, detected_city, departure_location,
	arrival_location, departure_date, arrival_date, status, created_at, updated_at`

func encodeMessages(msgs ...Message) ([]byte, error) {
	raw, err := json.Marshal(msgs)
	if err != nil {
		return nil, fmt.Errorf("encode messages: %w", err)
	}
	return raw, nil
}

// AppendToLatest appends msg to the user's most recently updated active
// conversation and refreshes its metadata. Returns ErrNotFound when the user
// has no active conversation.
func (s *Store) AppendToLatest(ctx context.Context, userID, title string, meta Meta, msg Message) (string, error) {
	raw, err := encodeMessages(msg)
	if err != nil {
		return "", err
	}
	var id string
	err = s.db.QueryRow(ctx, `
		UPDATE conversations SET
			messages = messages || $2::jsonb,
			title = CASE WHEN $3::text <> '' THEN $3::text ELSE title END,
			detected_city = COALESCE(NULLIF($4::text, ''), detected_city),
			departure_location = COALESCE(NULLIF($5::text, ''), departure_location),
			arrival_location = COALESCE(NULLIF($6::text, ''), arrival_location),
			departure_date = COALESCE(NULLIF($7::text, ''), departure_date),
			arrival_date = COALESCE(NULLIF($8::text, ''), arrival_date),
			updated_at = NOW()
		WHERE id = (
			SELECT id FROM conversations
			WHERE user_id = $1 AND status = 'active'
			ORDER BY updated_at DESC
			LIMIT 1
		)
		RETURNING id::text
	`, userID, raw, title, meta.DetectedCity, meta.DepartureLocation, meta.ArrivalLocation,
		meta.DepartureDate, meta.ArrivalDate).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

// Insert creates an active conversation holding msgs.
func (s *Store) Insert(ctx context.Context, id, userID, title string, meta Meta, msgs ...Message) (Conversation, error) {
	raw, err := encodeMessages(msgs...)
	if err != nil {
		return Conversation{}, err
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO conversations (id, user_id, title, messages, detected_city, departure_location,
			arrival_location, departure_date, arrival_date, status)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9, 'active')
		RETURNING `+selectColumns,
		id, userID, title, raw, meta.DetectedCity, meta.DepartureLocation, meta.ArrivalLocation,
		meta.DepartureDate, meta.ArrivalDate)
	return scanConversation(row)
}

// Append adds msgs to conversation id when it belongs to userID. Returns
// ErrNotFound for an unknown id or one owned by another user.
func (s *Store) Append(ctx context.Context, id, userID string, msgs ...Message) error {
	raw, err := encodeMessages(msgs...)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE conversations SET messages = messages || $2::jsonb, updated_at = NOW()
		WHERE id = $1::uuid AND user_id = $3
	`, id, raw, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (Conversation, error) {
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM conversations WHERE id = $1::uuid`, id)
	c, err := scanConversation(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Conversation{}, ErrNotFound
	}
	return c, err
}

// ListByUser returns the user's conversations that are not deleted, most
// recently updated first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Conversation, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+selectColumns+`
		FROM conversations
		WHERE user_id = $1 AND status <> 'deleted'
		ORDER BY updated_at DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Conversation{}
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func scanConversation(row pgx.Row) (Conversation, error) {
	var (
		c      Conversation
		raw    []byte
		status string
	)
	if err := row.Scan(&c.ID, &c.UserID, &c.Title, &raw, &c.DetectedCity, &c.DepartureLocation,
		&c.ArrivalLocation, &c.DepartureDate, &c.ArrivalDate, &status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return Conversation{}, err
	}
	c.Status = Status(status)
	if err := json.Unmarshal(raw, &c.Messages); err != nil {
		return Conversation{}, fmt.Errorf("decode messages of %s: %w", c.ID, err)
	}
	if c.Messages == nil {
		c.Messages = []Message{}
	}
	return c, nil
}
