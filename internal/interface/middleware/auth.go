package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/blogsphere/internal/application"
	"github.com/oksasatya/blogsphere/internal/domain/entity"
	repo "github.com/oksasatya/blogsphere/internal/domain/repository"
	"github.com/oksasatya/blogsphere/pkg/helpers"
	"github.com/oksasatya/blogsphere/pkg/response"
)

const ctxIdentityKey = "identity"

// tokenFrom reads the session token from the cookie, falling back to a
// bearer Authorization header.
func tokenFrom(c *gin.Context) string {
	if t, err := c.Cookie(helpers.TokenCookie); err == nil && t != "" {
		return t
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func anonymous(c *gin.Context) *entity.Identity {
	return &entity.Identity{IP: ipFromCtx(c), UserAgent: c.GetHeader("User-Agent")}
}

func resolve(c *gin.Context, users repo.UserRepository, jwt *helpers.JWTManager) (*entity.Identity, bool) {
	token := tokenFrom(c)
	if token == "" {
		return nil, false
	}
	claims, err := jwt.ParseToken(token)
	if err != nil {
		return nil, false
	}
	u, err := users.GetByID(c.Request.Context(), claims.UserClaims.ID)
	if err != nil {
		return nil, false
	}
	id := anonymous(c)
	id.UserID = u.ID
	id.Username = u.Username
	id.User = u
	return id, true
}

// Strict rejects the request with 401 unless the token resolves to a user.
func Strict(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := resolve(c, users, jwt)
		if !ok {
			response.Fail(c, application.ErrUnauthenticated)
			return
		}
		c.Set(ctxIdentityKey, id)
		c.Next()
	}
}

// Optional attaches the identity when the token is valid and otherwise lets
// the request through anonymously.
func Optional(users repo.UserRepository, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, ok := resolve(c, users, jwt); ok {
			c.Set(ctxIdentityKey, id)
		}
		c.Next()
	}
}

// IdentityFrom returns the caller built by Strict or Optional, or an
// anonymous identity carrying only client metadata.
func IdentityFrom(c *gin.Context) *entity.Identity {
	if v, ok := c.Get(ctxIdentityKey); ok {
		if id, ok := v.(*entity.Identity); ok {
			return id
		}
	}
	return anonymous(c)
}
