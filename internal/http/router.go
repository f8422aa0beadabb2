// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sky/internal/http/handlers"
	"sky/internal/http/middleware"
)

func NewRouter(
	assistant handlers.Assistant,
	cal handlers.CalendarStatus,
	convs handlers.ConversationReader,
	log *zap.SugaredLogger,
) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.Logging(log))
	r.Use(middleware.LoopbackOnly())

	messageHandler := handlers.NewMessageHandler(assistant)
	r.POST("/api/messages", messageHandler.Post)

	conversationHandler := handlers.NewConversationHandler(convs)
	r.GET("/api/conversations", conversationHandler.List)
	r.GET("/api/conversations/:id", conversationHandler.Get)
	r.GET("/api/conversations/:id/messages", conversationHandler.Messages)
	r.DELETE("/api/conversations/:id", conversationHandler.Delete)
	r.DELETE("/api/conversations/:id/messages/:mid", conversationHandler.DeleteMessage)

	calendarHandler := handlers.NewCalendarHandler(assistant, cal)
	r.GET("/api/calendar/status", calendarHandler.Status)
	r.GET("/api/calendar/auth-url", calendarHandler.AuthURL)
	r.POST("/api/calendar/oauth", calendarHandler.OAuth)
	r.POST("/api/calendar/confirm", calendarHandler.Confirm)
	r.GET("/api/calendar/events", calendarHandler.Events)
	r.POST("/api/calendar/signout", calendarHandler.SignOut)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
