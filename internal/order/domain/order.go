// Package domain 包含订单服务的领域模型
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrOrderNotFound 订单不存在或不属于当前用户
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyCart 购物车为空时不允许下单
	ErrEmptyCart = errors.New("cart is empty")
)

// OrderStatus 订单状态
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// PaymentStatus 支付状态
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Address 收货地址，整体以 JSON 冗余在订单上
type Address struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Order 订单实体。金额与条目在下单时刻从购物车和商品快照而来，
// 此后商品价格变动不影响已生成的订单。
type Order struct {
	gorm.Model
	// 对外订单号
	OrderID string `gorm:"column:order_id;type:varchar(36);uniqueIndex;not null" json:"order_id"`
	// 下单用户
	UserID uint `gorm:"column:user_id;index;not null" json:"user_id"`
	// 订单状态
	Status OrderStatus `gorm:"column:status;type:varchar(20);index;not null;default:'pending'" json:"status"`
	// 支付状态
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(20);not null;default:'pending'" json:"payment_status"`
	// 订单总额
	TotalAmount decimal.Decimal `gorm:"column:total_amount;type:decimal(10,2);not null" json:"total_amount"`
	// 支付方式
	PaymentMethod string `gorm:"column:payment_method;type:varchar(32);not null;default:''" json:"payment_method"`
	// 收货地址快照
	ShippingAddress Address `gorm:"column:shipping_address;serializer:json" json:"shipping_address"`
	// 账单地址快照
	BillingAddress Address `gorm:"column:billing_address;serializer:json" json:"billing_address"`
	// 订单条目
	Items []OrderItem `gorm:"foreignKey:OrderRef" json:"items"`
}

func (Order) TableName() string { return "orders" }

// OrderItem 订单条目，冻结下单时刻的商品标题与单价
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderRef  uint            `gorm:"column:order_ref;index;not null" json:"-"`
	ProductID uint            `gorm:"column:product_id;not null" json:"product_id"`
	VariantID string          `gorm:"column:variant_id;type:varchar(64);not null;default:''" json:"variant_id,omitempty"`
	Title     string          `gorm:"column:title;type:varchar(255);not null" json:"title"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:decimal(10,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt time.Time       `json:"created_at"`
}

func (OrderItem) TableName() string { return "order_items" }
