package service

import (
	"context"
	"encoding/json"
	"errors"

	log "github.com/sirupsen/logrus"

	"samway/internal/modules/conversation"
	"samway/internal/modules/reasoning"
)

// persist records one turn as a user message then a bot message and returns
// the conversation id. Failures are logged and leave the id empty.
func (p *TripPlanner) persist(ctx context.Context, logger *log.Entry, userID string, meta conversation.Meta, text string, bot conversation.Message) string {
	store := p.deps.Conversations
	if store == nil {
		return ""
	}
	id, err := store.AppendUser(ctx, userID, meta, text)
	if err != nil {
		logger.WithError(err).Error("chat: failed to record user message")
		return ""
	}
	if err := store.Append(ctx, userID, id, bot); err != nil {
		logger.WithError(err).WithField("conversation_id", id).Error("chat: failed to record bot message")
	}
	return id
}

// record appends the turn to the caller's named conversation. An empty,
// unknown or foreign id falls back to the user's latest thread.
func (p *TripPlanner) record(ctx context.Context, logger *log.Entry, userID, conversationID string, meta conversation.Meta, text string, bot conversation.Message) string {
	store := p.deps.Conversations
	if store == nil {
		return ""
	}
	if conversationID == "" {
		return p.persist(ctx, logger, userID, meta, text, bot)
	}
	user := conversation.Message{Role: conversation.RoleUser, Text: text}
	err := store.Append(ctx, userID, conversationID, user, bot)
	switch {
	case err == nil:
		return conversationID
	case errors.Is(err, conversation.ErrNotFound):
		logger.WithField("conversation_id", conversationID).Warn("reservation: conversation not owned by caller, using latest thread")
		return p.persist(ctx, logger, userID, meta, text, bot)
	default:
		logger.WithError(err).WithField("conversation_id", conversationID).Error("reservation: failed to record turn")
		return ""
	}
}

func botMessage(text string, data *ChatData, r *reasoning.Reasoning) conversation.Message {
	msg := conversation.Message{Role: conversation.RoleBot, Text: text}
	if data != nil {
		msg.Data = rawJSON(data)
	}
	if r != nil {
		msg.Reasoning = rawJSON(r)
	}
	return msg
}

// rawJSON is nil when v cannot be encoded; the message is still stored.
func rawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		log.WithError(err).Warn("chat: payload not stored")
		return nil
	}
	return b
}
