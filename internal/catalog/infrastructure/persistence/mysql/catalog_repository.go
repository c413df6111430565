// Package mysql 商品目录 MySQL 仓储实现
package mysql

import (
	"context"
	"errors"

	"github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/pkg/contextx"
	"gorm.io/gorm"
)

type productRepository struct{ db *gorm.DB }

// NewProductRepository 创建商品仓储
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db
}

func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	return r.getDB(ctx).WithContext(ctx).Save(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	err := r.getDB(ctx).WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) GetByHandle(ctx context.Context, handle string) (*domain.Product, error) {
	var p domain.Product
	err := r.getDB(ctx).WithContext(ctx).Where("handle = ?", handle).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ListFilter) ([]*domain.Product, int64, error) {
	q := r.getDB(ctx).WithContext(ctx).Model(&domain.Product{}).Where("available = ?", true)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.PriceMin != nil {
		q = q.Where("price >= ?", filter.PriceMin)
	}
	if filter.PriceMax != nil {
		q = q.Where("price <= ?", filter.PriceMax)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "price_asc":
		q = q.Order("price ASC")
	case "price_desc":
		q = q.Order("price DESC")
	case "title":
		q = q.Order("title ASC")
	default:
		q = q.Order("created_at DESC")
	}

	var products []*domain.Product
	err := q.Offset(filter.Offset).Limit(filter.Limit).Find(&products).Error
	return products, total, err
}

// DecrementInventory 以单条条件更新实现原子扣减：
// UPDATE products SET inventory_quantity = inventory_quantity - ?
// WHERE id = ? AND inventory_quantity >= ?
// RowsAffected 为 0 时说明库存不足（或商品不存在），存储值未被修改。
func (r *productRepository) DecrementInventory(ctx context.Context, productID uint, qty int) error {
	res := r.getDB(ctx).WithContext(ctx).Model(&domain.Product{}).
		Where("id = ? AND inventory_quantity >= ?", productID, qty).
		UpdateColumn("inventory_quantity", gorm.Expr("inventory_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, productID); err != nil {
			return err
		}
		return domain.ErrInsufficientInventory
	}
	return nil
}
