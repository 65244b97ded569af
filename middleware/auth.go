package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Authenticator resolves the user of the current request.
type Authenticator interface {
	Authenticate(c *gin.Context) (uint, error)
}

// RequireAuth redirects to the login page unless the request carries a valid
// session. On success the user id is stored under "user_id".
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := auth.Authenticate(c)
		if err != nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// UserID returns the id stored by RequireAuth.
func UserID(c *gin.Context) uint {
	return c.MustGet("user_id").(uint)
}

// NoCache stops browsers from caching pages that show account data.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		h.Set("Expires", "0")
		h.Set("Pragma", "no-cache")
		c.Next()
	}
}
