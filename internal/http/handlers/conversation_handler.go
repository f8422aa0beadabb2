// README: Conversation log handlers (list, read, delete).
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"sky/internal/modules/conversation"
)

// ConversationReader is the log surface the handlers need, satisfied by
// *conversation.Service.
type ConversationReader interface {
	List(ctx context.Context) ([]conversation.Conversation, error)
	Get(ctx context.Context, id string) (*conversation.Conversation, error)
	Messages(ctx context.Context, id string) ([]conversation.Message, error)
	Delete(ctx context.Context, id string) error
	DeleteMessage(ctx context.Context, id string) error
}

type ConversationHandler struct {
	convs ConversationReader
}

func NewConversationHandler(convs ConversationReader) *ConversationHandler {
	return &ConversationHandler{convs: convs}
}

// List handles GET /api/conversations.
func (h *ConversationHandler) List(c *gin.Context) {
	convs, err := h.convs.List(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"conversations": convs})
}

// Get handles GET /api/conversations/:id.
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.convs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, conv)
}

// Messages handles GET /api/conversations/:id/messages.
func (h *ConversationHandler) Messages(c *gin.Context) {
	if _, err := h.convs.Get(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	msgs, err := h.convs.Messages(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"messages": msgs})
}

// Delete handles DELETE /api/conversations/:id.
func (h *ConversationHandler) Delete(c *gin.Context) {
	if err := h.convs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DeleteMessage handles DELETE /api/conversations/:id/messages/:mid.
func (h *ConversationHandler) DeleteMessage(c *gin.Context) {
	if err := h.convs.DeleteMessage(c.Request.Context(), c.Param("mid")); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
