package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ycelik/miniblog/internal/session"
)

// Context keys set by SessionAuth.
const (
	ContextSession  = "session"
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "user_role"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "session"

// SessionAuth resolves the caller's session token against the store.
// The token comes from the session cookie, or from a Bearer header for
// non-browser clients. Requests without a valid session are rejected.
func SessionAuth(sessions *session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			// Only a missing token is an auth miss; a store failure is a
			// generic server error, not a session rejection.
			if errors.Is(err, session.ErrNotFound) {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid or expired session",
				})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
			c.Abort()
			return
		}

		c.Set(ContextSession, sess)
		c.Set(ContextUserID, sess.UserID)
		c.Set(ContextUsername, sess.Username)
		c.Set(ContextRole, sess.Role)

		c.Next()
	}
}

// RequireAdmin rejects non-admin sessions. Must run after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFromContext(c)
		if sess == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		if !sess.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// SessionFromContext returns the authenticated session, or nil when the
// request is anonymous.
func SessionFromContext(c *gin.Context) *session.Session {
	v, exists := c.Get(ContextSession)
	if !exists {
		return nil
	}
	sess, ok := v.(*session.Session)
	if !ok {
		return nil
	}
	return sess
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return token
}
