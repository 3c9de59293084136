package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionIDKey = "sid"

// SessionCookie gives every browser an opaque session id cookie. The id only
// keys server-side state; it carries no credentials. The cookie is renewed on
// every request so an active browser keeps its id.
func SessionCookie(name string, secure bool, ttl time.Duration) gin.HandlerFunc {
	maxAge := int(ttl.Seconds())
	return func(c *gin.Context) {
		sid, err := c.Cookie(name)
		if err != nil || uuid.Validate(sid) != nil {
			sid = uuid.NewString()
		}
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(name, sid, maxAge, "/", "", secure, true)
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

// SessionID returns the browser session id set by SessionCookie, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
