package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/qa-forum/internal/service"
	"github.com/d60-Lab/qa-forum/pkg/response"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// TokenParser 由 service.AuthService 实现
type TokenParser interface {
	ParseToken(token string) (*service.Claims, error)
}

func bearer(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// RequireAuth 校验 Bearer token，并把用户 ID 写入上下文
func RequireAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed Authorization header")
			c.Abort()
			return
		}
		claims, err := parser.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}
		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxUsername, claims.Username)
		c.Next()
	}
}

// CurrentUserID 返回 RequireAuth 写入的用户 ID
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}
