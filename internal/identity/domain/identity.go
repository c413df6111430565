// Package domain 包含身份上下文的领域模型
package domain

import "fmt"

// Kind 身份类别
type Kind string

const (
	// KindUser 已认证用户
	KindUser Kind = "user"
	// KindSession 匿名会话
	KindSession Kind = "session"
)

// Identity 购物车归属身份，user 与 session 二选一
type Identity struct {
	Kind      Kind
	UserID    uint
	SessionID string
}

// UserIdentity 构造用户身份
func UserIdentity(userID uint) Identity {
	return Identity{Kind: KindUser, UserID: userID}
}

// SessionIdentity 构造匿名会话身份
func SessionIdentity(sessionID string) Identity {
	return Identity{Kind: KindSession, SessionID: sessionID}
}

// IsUser 是否已认证用户
func (i Identity) IsUser() bool {
	return i.Kind == KindUser
}

// Valid 校验身份表示的合法性
func (i Identity) Valid() bool {
	switch i.Kind {
	case KindUser:
		return i.UserID != 0 && i.SessionID == ""
	case KindSession:
		return i.SessionID != "" && i.UserID == 0
	default:
		return false
	}
}

// Key 返回可用于日志与事件分区的稳定键
func (i Identity) Key() string {
	if i.Kind == KindUser {
		return fmt.Sprintf("user:%d", i.UserID)
	}
	return fmt.Sprintf("session:%s", i.SessionID)
}
