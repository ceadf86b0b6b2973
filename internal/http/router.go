// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"samway/internal/http/handlers"
	"samway/internal/http/middleware"
	"samway/internal/infra"
	"samway/internal/metrics"
)

type RouterDeps struct {
	Planner handlers.Planner
	// Verifier enables bearer auth on the chat routes when set.
	Verifier       infra.TokenVerifier
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logging(), middleware.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api/chat")
	api.Use(middleware.NewRateLimiter(deps.RateLimitRPS, deps.RateLimitBurst).Limit())
	if deps.Verifier != nil {
		api.Use(middleware.Auth(deps.Verifier))
	}

	chatHandler := handlers.NewChatHandler(deps.Planner, deps.RequestTimeout)
	api.POST("", chatHandler.Chat)
	api.POST("/reservation-action", chatHandler.Reserve)
	api.GET("/history/:userId", chatHandler.History)
	api.POST("/new", chatHandler.New)

	return r
}
