package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// UserIDKey is the gin context key holding the caller's identity.
const UserIDKey = "userID"

// UserIDHeader lets clients send their identity without a query parameter.
const UserIDHeader = "X-User-ID"

// CallerIdentity resolves who is calling: the user_id query parameter wins,
// then the X-User-ID header, then defaultUserID. There is no authentication;
// with required set, callers that name nobody are rejected.
func CallerIdentity(defaultUserID string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.Query("user_id"))
		if userID == "" {
			userID = strings.TrimSpace(c.GetHeader(UserIDHeader))
		}
		if userID == "" && !required {
			userID = defaultUserID
		}
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "user_id is required"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
