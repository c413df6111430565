package application

import (
	"strings"

	"github.com/google/uuid"
	"github.com/palmbay/storefront/internal/identity/domain"
)

// Resolver 将请求凭证解析为购物车归属身份
type Resolver struct {
	auth *AuthService
}

// NewResolver 创建身份解析器
func NewResolver(auth *AuthService) *Resolver {
	return &Resolver{auth: auth}
}

// Resolve 按优先级解析身份：有效 Bearer 令牌优先，其次沿用请求携带的
// 会话令牌，否则签发新的会话令牌。issued 表示本次新签发了会话令牌，
// 调用方负责将其回传给客户端持久化。
func (r *Resolver) Resolve(authorization, sessionToken string) (identity domain.Identity, issued bool) {
	if token, ok := strings.CutPrefix(authorization, "Bearer "); ok {
		if userID, err := r.auth.VerifyToken(token); err == nil {
			return domain.UserIdentity(userID), false
		}
	}

	if sessionToken != "" {
		return domain.SessionIdentity(sessionToken), false
	}

	return domain.SessionIdentity(uuid.New().String()), true
}
