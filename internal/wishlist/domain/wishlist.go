// Package domain 包含心愿单的领域模型
package domain

import (
	"context"
	"time"
)

// WishlistItem 心愿单条目，仅登录用户可用，同一商品只保留一条
type WishlistItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_wishlist_user_product,priority:1" json:"user_id"`
	ProductID uint      `gorm:"column:product_id;not null;uniqueIndex:idx_wishlist_user_product,priority:2" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (WishlistItem) TableName() string { return "wishlist_items" }

// WishlistRepository 心愿单仓储接口
type WishlistRepository interface {
	// Add 幂等加入心愿单，重复加入不报错也不产生新行
	Add(ctx context.Context, userID, productID uint) error
	// Remove 幂等移除，返回本次是否确实删除了条目
	Remove(ctx context.Context, userID, productID uint) (bool, error)
	// ListByUser 按加入时间倒序返回用户心愿单
	ListByUser(ctx context.Context, userID uint) ([]*WishlistItem, error)
}
