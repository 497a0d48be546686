package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/DesignIQ-Labs/designiq-backend/internal/logging"
	"github.com/gin-gonic/gin"
)

// Profile is what the middleware knows about the caller.
type Profile struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
}

// UserSyncer records the caller in the users table.
type UserSyncer interface {
	EnsureUser(ctx context.Context, p Profile) error
}

type Options struct {
	// Verifier may be nil when Firebase is not configured; only dev users
	// are then accepted.
	Verifier TokenVerifier
	// AllowDevUser trusts the X-User-Id header when no bearer token is sent.
	AllowDevUser bool
	Users        UserSyncer
}

// Middleware authenticates the request with a Firebase ID token and stores
// the user on the gin context. Requests without an identity get 401.
func Middleware(opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var p Profile

		if token := extractToken(c); token != "" {
			if opts.Verifier == nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token authentication is not configured"})
				return
			}
			decoded, err := opts.Verifier.VerifyIDToken(ctx, token)
			if err != nil {
				logging.NewLogger(ctx).LogWarnf("auth", "invalid token: %v", err)
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			p.UserID = decoded.UID
			p.Email, _ = decoded.Claims["email"].(string)
			p.DisplayName, _ = decoded.Claims["name"].(string)
			p.PhotoURL, _ = decoded.Claims["picture"].(string)
		} else if opts.AllowDevUser {
			p.UserID = strings.TrimSpace(c.GetHeader("X-User-Id"))
			p.Email = c.GetHeader("X-User-Email")
			p.DisplayName = c.GetHeader("X-User-Name")
		}

		if p.UserID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		if opts.Users != nil {
			if err := opts.Users.EnsureUser(ctx, p); err != nil {
				logging.NewLogger(ctx).LogError("auth_ensure_user", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
				return
			}
		}

		SetUser(c, p.UserID, p.Email)
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
