// Package mysql 心愿单 MySQL 仓储实现
package mysql

import (
	"context"

	"github.com/palmbay/storefront/internal/wishlist/domain"
	"github.com/palmbay/storefront/pkg/contextx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type wishlistRepository struct{ db *gorm.DB }

// NewWishlistRepository 创建心愿单仓储
func NewWishlistRepository(db *gorm.DB) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

func (r *wishlistRepository) Add(ctx context.Context, userID, productID uint) error {
	item := &domain.WishlistItem{UserID: userID, ProductID: productID}
	// 撞到唯一键时静默忽略，重复加入保持幂等
	return r.getDB(ctx).WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(item).Error
}

func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uint) (bool, error) {
	result := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&domain.WishlistItem{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *wishlistRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.WishlistItem, error) {
	var items []*domain.WishlistItem
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
