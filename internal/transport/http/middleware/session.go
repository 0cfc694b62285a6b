package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionChecker reports whether a backend session is currently held.
type SessionChecker interface {
	IsAuthenticated() bool
}

// RequireSession rejects requests when no backend session exists. The
// backend still authenticates every proxied call; this guard only produces
// a clearer local error before a doomed round trip.
func RequireSession(session SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if session == nil || !session.IsAuthenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":      "sign in required",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}
