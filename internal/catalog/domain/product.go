// Package domain 包含商品目录与库存账本的领域模型
package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrProductUnavailable 商品不可售
	ErrProductUnavailable = errors.New("product is not available")
	// ErrInsufficientInventory 库存不足
	ErrInsufficientInventory = errors.New("insufficient inventory")
)

// InsufficientInventoryError 携带当前可用库存的库存不足错误，
// 便于调用方直接向客户端返回可恢复的已知状态。
type InsufficientInventoryError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Is 支持 errors.Is(err, ErrInsufficientInventory) 判定
func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

// Product 商品实体
// inventory_quantity 是多个购物车并发竞争的共享库存，只允许通过
// ProductRepository.DecrementInventory 原子扣减。
type Product struct {
	gorm.Model
	Handle            string          `gorm:"column:handle;type:varchar(255);uniqueIndex;not null" json:"handle"`
	Title             string          `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description       string          `gorm:"column:description;type:text" json:"description"`
	Price             decimal.Decimal `gorm:"column:price;type:decimal(10,2);not null" json:"price"`
	Category          string          `gorm:"column:category;type:varchar(100);index" json:"category"`
	Featured          bool            `gorm:"column:featured;not null;default:false" json:"featured"`
	Available         bool            `gorm:"column:available;not null;default:true" json:"available"`
	InventoryQuantity int             `gorm:"column:inventory_quantity;not null;default:0" json:"inventory_quantity"`
	Images            []string        `gorm:"column:images;serializer:json" json:"images"`
	Features          []string        `gorm:"column:features;serializer:json" json:"features"`
}

func (Product) TableName() string { return "products" }

// FirstImage 返回首图，无图时返回空串
func (p *Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// Availability 库存检查结果
type Availability struct {
	Available       bool `json:"available"`
	CurrentQuantity int  `json:"current_quantity"`
}

// CanFulfill 判断当前商品能否满足请求数量
func (p *Product) CanFulfill(quantity int) Availability {
	return Availability{
		Available:       p.Available && p.InventoryQuantity >= quantity,
		CurrentQuantity: p.InventoryQuantity,
	}
}

// ListFilter 商品列表过滤条件
type ListFilter struct {
	Category string
	Search   string
	PriceMin *decimal.Decimal
	PriceMax *decimal.Decimal
	Sort     string
	Limit    int
	Offset   int
}

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	GetByHandle(ctx context.Context, handle string) (*Product, error)
	List(ctx context.Context, filter ListFilter) ([]*Product, int64, error)
	// DecrementInventory 原子扣减库存：仅当剩余库存不小于 qty 时成功，
	// 否则返回 ErrInsufficientInventory 且不产生任何修改。
	DecrementInventory(ctx context.Context, productID uint, qty int) error
}
