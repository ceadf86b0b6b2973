// README: Chat handlers (chat turn, reservation action, history, new conversation).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"samway/internal/http/middleware"
	"samway/internal/modules/conversation"
	"samway/internal/service"
)

// Planner is the part of service.TripPlanner the handlers call.
type Planner interface {
	Chat(ctx context.Context, req service.ChatRequest) (*service.ChatResponse, error)
	Reserve(ctx context.Context, req service.ReservationRequest) (*service.ReservationResponse, error)
	History(ctx context.Context, userID string) ([]conversation.Conversation, error)
	NewConversation(ctx context.Context, userID string) (conversation.Conversation, error)
}

type ChatHandler struct {
	planner Planner
	timeout time.Duration
}

func NewChatHandler(planner Planner, timeout time.Duration) *ChatHandler {
	return &ChatHandler{planner: planner, timeout: timeout}
}

type newConversationReq struct {
	UserID string `json:"userId"`
}

// callerOr prefers the authenticated uid over the one sent by the client.
func callerOr(c *gin.Context, userID string) string {
	if uid := middleware.CallerUID(c); uid != "" {
		return uid
	}
	return strings.TrimSpace(userID)
}

// Chat handles POST /api/chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req service.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserID = callerOr(c, req.UserID)
	if req.UserID != "" && !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "invalid userId")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp, err := h.planner.Chat(ctx, req)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, statusFor(resp.Outcome), resp)
}

// Reserve handles POST /api/chat/reservation-action.
func (h *ChatHandler) Reserve(c *gin.Context) {
	var req service.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.UserID = callerOr(c, req.UserID)
	if req.UserID != "" && !isValidID(req.UserID) {
		writeError(c, http.StatusBadRequest, "invalid userId")
		return
	}
	if req.ConversationID != "" && !isValidID(req.ConversationID) {
		writeError(c, http.StatusBadRequest, "invalid conversationId")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	resp, err := h.planner.Reserve(ctx, req)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, statusFor(resp.Outcome), resp)
}

// History handles GET /api/chat/history/:userId.
func (h *ChatHandler) History(c *gin.Context) {
	userID := callerOr(c, c.Param("userId"))
	if !isValidID(userID) {
		writeError(c, http.StatusBadRequest, "invalid userId")
		return
	}
	list, err := h.planner.History(c.Request.Context(), userID)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, list)
}

// New handles POST /api/chat/new.
func (h *ChatHandler) New(c *gin.Context) {
	var req newConversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	userID := callerOr(c, req.UserID)
	if !isValidID(userID) {
		writeError(c, http.StatusBadRequest, "missing or invalid userId")
		return
	}
	conv, err := h.planner.NewConversation(c.Request.Context(), userID)
	if err != nil {
		writeChatError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, conv)
}
