package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"samway/internal/metrics"
	"samway/internal/modules/conversation"
	"samway/internal/service"
)

type nopPlanner struct{}

func (nopPlanner) Chat(context.Context, service.ChatRequest) (*service.ChatResponse, error) {
	return &service.ChatResponse{Response: "ok", Outcome: service.OutcomeOK}, nil
}

func (nopPlanner) Reserve(context.Context, service.ReservationRequest) (*service.ReservationResponse, error) {
	return &service.ReservationResponse{Outcome: service.OutcomeOK}, nil
}

func (nopPlanner) History(context.Context, string) ([]conversation.Conversation, error) {
	return []conversation.Conversation{}, nil
}

func (nopPlanner) NewConversation(context.Context, string) (conversation.Conversation, error) {
	return conversation.Conversation{}, nil
}

func TestRouterServesHealthMetricsAndChat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterDeps{Planner: nopPlanner{}, RequestTimeout: time.Second, RateLimitRPS: 100, RateLimitBurst: 10})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	metrics.ChatOutcomes.WithLabelValues(string(service.OutcomeOK)).Inc()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "samway_chat_outcomes_total")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"Paris"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
