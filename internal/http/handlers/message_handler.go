// README: Message handler: one utterance in, routed reply out.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sky/internal/maps"
	"sky/internal/modules/conversation"
	"sky/internal/service"
)

const requestTimeout = 45 * time.Second

// Assistant is the routing surface the handlers call into, satisfied by
// *service.Assistant.
type Assistant interface {
	HandleUtterance(ctx context.Context, conversationID, text string, fix maps.ClientFix) (*service.Result, error)
	ConfirmEvent(ctx context.Context, conversationID string, draft conversation.EventDraft) (*conversation.Message, error)
	CompleteAuth(ctx context.Context, code string) (*conversation.Message, error)
}

type MessageHandler struct {
	assistant Assistant
}

func NewMessageHandler(assistant Assistant) *MessageHandler {
	return &MessageHandler{assistant: assistant}
}

type postMessageReq struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
	// Location is the UI's foreground geolocation fix, when it has one.
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	LocationPermissionDenied bool `json:"location_permission_denied"`
}

// Post handles POST /api/messages.
func (h *MessageHandler) Post(c *gin.Context) {
	var req postMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}

	fix := maps.ClientFix{PermissionDenied: req.LocationPermissionDenied}
	if req.Location != nil {
		fix.Point = &maps.Point{Lat: req.Location.Lat, Lng: req.Location.Lng}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	res, err := h.assistant.HandleUtterance(ctx, req.ConversationID, req.Message, fix)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, res)
}
