package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/palmbay/storefront/internal/identity/application"
	"github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/pkg/response"
)

const identityKey = "identity"

// SessionHeader 匿名会话令牌使用的请求/响应头
const SessionHeader = "X-Session-ID"

// IdentityMiddleware 解析请求身份并写入 gin context。
// 新签发的会话令牌通过响应头回传，客户端负责持久化。
func IdentityMiddleware(resolver *application.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, issued := resolver.Resolve(
			c.GetHeader("Authorization"),
			c.GetHeader(SessionHeader),
		)

		c.Set(identityKey, identity)
		if issued {
			c.Header(SessionHeader, identity.SessionID)
		}

		c.Next()
	}
}

// RequireUser 要求已认证用户身份，否则返回 401
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok || !identity.IsUser() {
			response.Error(c, http.StatusUnauthorized, domain.ErrAuthenticationRequired.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFrom 从 gin context 中取出已解析的身份
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

// UserIDFrom 从 gin context 中取出已认证用户 ID
func UserIDFrom(c *gin.Context) (uint, bool) {
	identity, ok := IdentityFrom(c)
	if !ok || !identity.IsUser() {
		return 0, false
	}
	return identity.UserID, true
}
