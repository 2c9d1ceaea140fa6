package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrmenu/internal/auth"
)

// SessionCookieName is the cookie holding the signed admin session token.
const SessionCookieName = "session"

const userIDKey = "userID"

// SessionMiddleware validates the session cookie and injects the userID
// into the context. Requests without a valid session are redirected to
// the login page rather than rejected, so the admin UI stays navigable.
func SessionMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			redirectToLogin(c)
			return
		}

		claims, err := authService.ValidateSessionToken(token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user ID set by SessionMiddleware.
func UserIDFromContext(c *gin.Context) (uint, bool) {
	value, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

func redirectToLogin(c *gin.Context) {
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}
