package quota

import (
	"context"
	"errors"
	"time"
)

// Service enforces the monthly chat allowance. A nil Service or a zero
// allowance disables the check.
type Service struct {
	store     *Store
	allowance int
	now       func() time.Time
}

// NewService creates a Service backed by the given Store.
func NewService(store *Store, allowance int) *Service {
	return &Service{store: store, allowance: allowance, now: time.Now}
}

func (s *Service) Enabled() bool {
	return s != nil && s.store != nil && s.allowance > 0
}

// Use deducts one message from the user's monthly allowance.
// A missing row is initialised and the deduction retried once.
func (s *Service) Use(ctx context.Context, uid string) error {
	if !s.Enabled() {
		return nil
	}
	now := s.now()
	err := s.store.Use(ctx, uid, s.allowance, now)
	if !errors.Is(err, ErrQuotaExceeded) {
		return err
	}

	if initErr := s.store.EnsureUser(ctx, uid, s.allowance, now); initErr != nil {
		return initErr
	}
	return s.store.Use(ctx, uid, s.allowance, now)
}
