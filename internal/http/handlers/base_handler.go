// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"samway/internal/http/middleware"
	"samway/internal/modules/quota"
	"samway/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts uuids, Firebase uids and similar opaque ids.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBadRequest), errors.Is(err, service.ErrUnknownAction):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, quota.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, service.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		log.WithError(err).WithField("request_id", middleware.RequestID(c)).Error("http: request failed")
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// statusFor picks the success status of a turn; a filtered message is 403.
func statusFor(outcome service.Outcome) int {
	if outcome == service.OutcomeRejected {
		return http.StatusForbidden
	}
	return http.StatusOK
}
