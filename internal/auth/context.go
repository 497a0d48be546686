package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
)

// UserID returns the authenticated user's id (the Firebase UID), or "" when
// the request is anonymous.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

func Email(c *gin.Context) string {
	return c.GetString(CtxEmail)
}

// SetUser stores the identity on the context. Tests use it in place of the
// middleware.
func SetUser(c *gin.Context, userID, email string) {
	c.Set(CtxUserID, userID)
	if email != "" {
		c.Set(CtxEmail, email)
	}
}
