// README: Loopback guard: the API serves a local desktop UI only.
package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoopbackOnly rejects requests that do not originate from the local
// machine. There is no user auth; network isolation is the boundary.
func LoopbackOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}
		ip := net.ParseIP(host)
		if ip == nil || !ip.IsLoopback() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}
