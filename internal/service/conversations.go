package service

import (
	"context"
	"fmt"
	"strings"

	"samway/internal/modules/conversation"
)

// History lists the user's latest conversations. It is empty, not an
// error, when no store is configured.
func (p *TripPlanner) History(ctx context.Context, userID string) ([]conversation.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: userId requis", ErrBadRequest)
	}
	if p.deps.Conversations == nil {
		return []conversation.Conversation{}, nil
	}
	list, err := p.deps.Conversations.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	if list == nil {
		list = []conversation.Conversation{}
	}
	return list, nil
}

// NewConversation starts a thread holding only the greeting.
func (p *TripPlanner) NewConversation(ctx context.Context, userID string) (conversation.Conversation, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return conversation.Conversation{}, fmt.Errorf("%w: userId requis", ErrBadRequest)
	}
	if p.deps.Conversations == nil {
		return conversation.Conversation{}, ErrUnavailable
	}
	c, err := p.deps.Conversations.Create(ctx, userID)
	if err != nil {
		return conversation.Conversation{}, fmt.Errorf("create conversation: %w", err)
	}
	return c, nil
}
