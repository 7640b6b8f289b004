package httpserver

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "cart_session"
	sessionCtxKey = "sessionID"
)

// sessionMiddleware assigns every visitor an opaque session ID via a browser
// session cookie. The ID keys the in-memory cart and the pending-order record.
func sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			// MaxAge 0 makes it a browser-session cookie; the cart does
			// not outlive the visit.
			c.SetCookie(sessionCookie, id, 0, "/", "", false, true)
		}
		c.Set(sessionCtxKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
