// Package mysql 购物车 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"

	"github.com/palmbay/storefront/internal/cart/domain"
	identitydomain "github.com/palmbay/storefront/internal/identity/domain"
	"github.com/palmbay/storefront/pkg/contextx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRepository struct{ db *gorm.DB }

// NewCartRepository 创建购物车仓储
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

// identityScope 把身份条件落到零值编码列上，user_id 与 session_id
// 恒为 NOT NULL，唯一索引因此对匿名行同样生效。
func identityScope(db *gorm.DB, identity identitydomain.Identity) *gorm.DB {
	if identity.IsUser() {
		return db.Where("user_id = ? AND session_id = ''", identity.UserID)
	}
	return db.Where("user_id = 0 AND session_id = ?", identity.SessionID)
}

func (r *cartRepository) UpsertAdd(ctx context.Context, line *domain.CartLine) error {
	// 撞到 idx_cart_identity_product 唯一键时在存储层原子累加，
	// 并发 Add 不会彼此覆盖
	return r.getDB(ctx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"}, {Name: "session_id"},
			{Name: "product_id"}, {Name: "variant_id"},
		},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("quantity + VALUES(quantity)"),
		}),
	}).Create(line).Error
}

func (r *cartRepository) GetLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (*domain.CartLine, error) {
	var line domain.CartLine
	err := identityScope(r.getDB(ctx).WithContext(ctx), identity).
		Where("id = ?", lineID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) FindLine(ctx context.Context, identity identitydomain.Identity, productID uint, variantID string) (*domain.CartLine, error) {
	var line domain.CartLine
	err := identityScope(r.getDB(ctx).WithContext(ctx), identity).
		Where("product_id = ? AND variant_id = ?", productID, variantID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLineNotFound
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *cartRepository) UpdateQuantity(ctx context.Context, identity identitydomain.Identity, lineID uint, qty int) error {
	result := identityScope(r.getDB(ctx).WithContext(ctx).Model(&domain.CartLine{}), identity).
		Where("id = ?", lineID).
		Update("quantity", qty)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrLineNotFound
	}
	return nil
}

func (r *cartRepository) DeleteLine(ctx context.Context, identity identitydomain.Identity, lineID uint) (bool, error) {
	result := identityScope(r.getDB(ctx).WithContext(ctx), identity).
		Where("id = ?", lineID).
		Delete(&domain.CartLine{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *cartRepository) ListByIdentity(ctx context.Context, identity identitydomain.Identity) ([]*domain.CartLine, error) {
	var lines []*domain.CartLine
	err := identityScope(r.getDB(ctx).WithContext(ctx), identity).
		Order("id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *cartRepository) Clear(ctx context.Context, identity identitydomain.Identity) error {
	return identityScope(r.getDB(ctx).WithContext(ctx), identity).
		Delete(&domain.CartLine{}).Error
}
