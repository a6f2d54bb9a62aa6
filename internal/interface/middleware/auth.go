package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ddd-catalog/internal/application"
	"github.com/oksasatya/go-ddd-catalog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-catalog/pkg/helpers"
	"github.com/oksasatya/go-ddd-catalog/pkg/response"
)

const (
	CtxIdentityKey = "identity"
	CtxUserIDKey   = "userID"
)

// Authenticator is satisfied by application.Guard.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*application.Identity, error)
}

// Auth resolves the bearer token (Authorization header first, then the
// access_token cookie) and attaches the identity to the context.
func Auth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.Authenticate(c.Request.Context(), bearerToken(c))
		if err != nil {
			response.FromError(c, err)
			return
		}
		c.Set(CtxIdentityKey, id)
		c.Set(CtxUserIDKey, id.ID)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(min entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := application.RequireRole(IdentityFrom(c), min); err != nil {
			response.FromError(c, err)
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the identity attached by Auth, or nil.
func IdentityFrom(c *gin.Context) *application.Identity {
	v, ok := c.Get(CtxIdentityKey)
	if !ok {
		return nil
	}
	id, _ := v.(*application.Identity)
	return id
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if tok, err := c.Cookie(helpers.AccessTokenCookie); err == nil {
		return tok
	}
	return ""
}
