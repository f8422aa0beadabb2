// README: Calendar handlers: OAuth flow, event confirmation, upcoming list.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sky/internal/modules/calendar"
	"sky/internal/modules/conversation"
)

// CalendarStatus is the read-only view the handlers need, satisfied by
// *calendar.Service.
type CalendarStatus interface {
	Ready() bool
	IsAuthenticated() bool
	AuthURL() (string, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]calendar.Event, error)
	SignOut() error
}

type CalendarHandler struct {
	assistant Assistant
	calendar  CalendarStatus
}

func NewCalendarHandler(assistant Assistant, cal CalendarStatus) *CalendarHandler {
	return &CalendarHandler{assistant: assistant, calendar: cal}
}

// Status handles GET /api/calendar/status.
func (h *CalendarHandler) Status(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{
		"ready":         h.calendar.Ready(),
		"authenticated": h.calendar.IsAuthenticated(),
	})
}

// AuthURL handles GET /api/calendar/auth-url.
func (h *CalendarHandler) AuthURL(c *gin.Context) {
	url, err := h.calendar.AuthURL()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"url": url})
}

type oauthReq struct {
	Code string `json:"code"`
}

// OAuth handles POST /api/calendar/oauth: exchanges the pasted consent code
// and, when a confirmation was waiting on auth, returns its retried reply.
func (h *CalendarHandler) OAuth(c *gin.Context) {
	var req oauthReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		writeError(c, http.StatusBadRequest, "missing code")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	msg, err := h.assistant.CompleteAuth(ctx, req.Code)
	if err != nil {
		writeError(c, http.StatusBadRequest, "authentication failed")
		return
	}

	resp := gin.H{"authenticated": true}
	if msg != nil {
		resp["reply"] = msg
	}
	writeJSON(c, http.StatusOK, resp)
}

type confirmEventReq struct {
	ConversationID string    `json:"conversation_id"`
	Title          string    `json:"title"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
}

// Confirm handles POST /api/calendar/confirm. The body carries the draft as
// the user (possibly) edited it; the stored draft is not consulted again.
func (h *CalendarHandler) Confirm(c *gin.Context) {
	var req confirmEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ConversationID == "" {
		writeError(c, http.StatusBadRequest, "missing conversation_id")
		return
	}
	if req.Start.IsZero() || req.End.IsZero() || !req.End.After(req.Start) {
		writeError(c, http.StatusBadRequest, "invalid event times")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	msg, err := h.assistant.ConfirmEvent(ctx, req.ConversationID, conversation.EventDraft{
		Title: req.Title,
		Start: req.Start,
		End:   req.End,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"reply": msg})
}

// Events handles GET /api/calendar/events.
func (h *CalendarHandler) Events(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	events, err := h.calendar.ListUpcoming(ctx, time.Now())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"events": events})
}

// SignOut handles POST /api/calendar/signout.
func (h *CalendarHandler) SignOut(c *gin.Context) {
	if err := h.calendar.SignOut(); err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"authenticated": false})
}
