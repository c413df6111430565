// Package domain 包含购物车上下文的领域模型
package domain

import (
	"errors"
	"time"

	identitydomain "github.com/palmbay/storefront/internal/identity/domain"
	"github.com/shopspring/decimal"
)

var (
	// ErrLineNotFound 购物车行不存在或不属于当前身份
	ErrLineNotFound = errors.New("cart line not found")
	// ErrInvalidQuantity 数量非法
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// CartLine 购物车行
// 归属身份以 user_id / session_id 二选一表示，未使用的一侧存零值而非
// NULL：MySQL 的唯一索引对 NULL 不去重，零值编码让
// (身份, product_id, variant_id) 的合并不变量由索引本身保证。
// 行为硬删除（无 DeletedAt）：软删除的残留行会占住唯一键，
// 使后续同键插入命中已删除行。
type CartLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null;default:0;uniqueIndex:idx_cart_identity_product,priority:1" json:"user_id,omitempty"`
	SessionID string    `gorm:"column:session_id;type:varchar(64);not null;default:'';uniqueIndex:idx_cart_identity_product,priority:2" json:"session_id,omitempty"`
	ProductID uint      `gorm:"column:product_id;not null;index;uniqueIndex:idx_cart_identity_product,priority:3" json:"product_id"`
	VariantID string    `gorm:"column:variant_id;type:varchar(64);not null;default:'';uniqueIndex:idx_cart_identity_product,priority:4" json:"variant_id,omitempty"`
	Quantity  int       `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartLine) TableName() string { return "cart_lines" }

// NewCartLine 由身份构造购物车行，完成 XOR 零值编码
func NewCartLine(identity identitydomain.Identity, productID uint, variantID string, quantity int) *CartLine {
	line := &CartLine{
		ProductID: productID,
		VariantID: variantID,
		Quantity:  quantity,
	}
	if identity.IsUser() {
		line.UserID = identity.UserID
	} else {
		line.SessionID = identity.SessionID
	}
	return line
}

// Identity 还原购物车行的归属身份
func (l *CartLine) Identity() identitydomain.Identity {
	if l.UserID != 0 {
		return identitydomain.UserIdentity(l.UserID)
	}
	return identitydomain.SessionIdentity(l.SessionID)
}

// ProductSummary 购物车视图中联查出的商品快照（实时数据，非冻结价格）
type ProductSummary struct {
	ID                uint            `json:"id"`
	Title             string          `json:"title"`
	Handle            string          `json:"handle"`
	Price             decimal.Decimal `json:"price"`
	Image             string          `json:"image,omitempty"`
	Available         bool            `json:"available"`
	InventoryQuantity int             `json:"inventory_quantity"`
}

// CartLineView 购物车行视图
type CartLineView struct {
	ID        uint           `json:"id"`
	Quantity  int            `json:"quantity"`
	VariantID string         `json:"variant_id,omitempty"`
	Product   ProductSummary `json:"product"`
}

// CartView 购物车视图，小计总额在每次读取时重算，从不落库
type CartView struct {
	Items     []CartLineView `json:"items"`
	ItemCount int            `json:"itemCount"`
	Subtotal  string         `json:"subtotal"`
	Total     string         `json:"total"`
}
