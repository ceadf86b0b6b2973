package quota

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store handles chat_quota persistence.
type Store struct {
	db *pgxpool.Pool
}

// NewStore returns a Store backed by the given connection pool.
func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Use atomically checks the monthly allowance and deducts one message.
// The counter resets to allowance when last_reset_month is behind now.
// Returns ErrQuotaExceeded when no row is updated (exhausted or user absent).
func (s *Store) Use(ctx context.Context, uid string, allowance int, now time.Time) error {
	month := now.Format(monthLayout)

	tag, err := s.db.Exec(ctx, `
		UPDATE chat_quota SET
			messages_remaining = CASE WHEN last_reset_month != $1 THEN $2 - 1 ELSE messages_remaining - 1 END,
			last_reset_month = $1
		WHERE uid = $3 AND (last_reset_month < $1 OR messages_remaining > 0)
	`, month, allowance, uid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

// EnsureUser inserts a chat_quota row for uid with the full allowance.
// An existing row is left untouched.
func (s *Store) EnsureUser(ctx context.Context, uid string, allowance int, now time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chat_quota (uid, messages_remaining, last_reset_month)
		VALUES ($1, $2, $3)
		ON CONFLICT (uid) DO NOTHING
	`, uid, allowance, now.Format(monthLayout))
	return err
}
