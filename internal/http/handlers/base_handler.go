// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sky/internal/ai"
	"sky/internal/modules/calendar"
	"sky/internal/modules/conversation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writeDomainError maps module sentinel errors onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, calendar.ErrAuthRequired):
		writeError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, calendar.ErrNotInitialized):
		writeError(c, http.StatusConflict, err.Error())
	case errors.Is(err, ai.ErrQuotaExhausted):
		writeError(c, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, ai.ErrOverloaded):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
