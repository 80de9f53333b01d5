package httpctx

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	userIDKey  = "userID"
	isAdminKey = "isAdmin"
)

// SetUser records the authenticated operator on the request context.
func SetUser(c *gin.Context, userID uint, isAdmin bool) {
	c.Set(userIDKey, userID)
	c.Set(isAdminKey, isAdmin)
}

// CurrentUserID retrieves the authenticated user ID from Gin context if present.
func CurrentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}
	uid, ok := val.(uint)
	return uid, ok
}

// IsAdminRequest indicates whether the current request is from an admin.
func IsAdminRequest(c *gin.Context) bool {
	val, exists := c.Get(isAdminKey)
	if !exists {
		return false
	}
	isAdmin, ok := val.(bool)
	return ok && isAdmin
}

// ClientIP returns the first X-Forwarded-For hop when present and the
// connection address otherwise.
func ClientIP(c *gin.Context) string {
	if fwd := c.GetHeader("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	host := c.Request.RemoteAddr
	if i := strings.LastIndex(host, ":"); i > 0 {
		host = host[:i]
	}
	return strings.Trim(host, "[]")
}
