package middleware

import (
	"context"
	"strings"

	"github.com/Sheetal-x-Sharma/LCC/internal/apperr"
	"github.com/Sheetal-x-Sharma/LCC/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	CheckUserKey = "user"
	TokenCookie  = "access_token"
)

// Authenticator resolves a session token to a user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// LoadUser 从 access_token cookie 或 Authorization 头读取 token 并加载用户。
// Invalid tokens are ignored here and AuthRequired rejects the request.
// Any other failure aborts with its own kind.
func LoadUser(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFrom(c); token != "" {
			user, err := auth.Authenticate(c.Request.Context(), token)
			switch {
			case err == nil:
				c.Set(CheckUserKey, user)
			case apperr.KindOf(err) != apperr.KindUnauthenticated:
				AbortWithError(c, err)
				return
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			AbortWithError(c, apperr.Unauthenticated("authentication required"))
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CheckUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func tokenFrom(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	h := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return ""
}
