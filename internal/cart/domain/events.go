package domain

import (
	"context"
	"time"
)

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	Identity  string    `json:"identity"`
	LineID    uint      `json:"line_id"`
	ProductID uint      `json:"product_id"`
	VariantID string    `json:"variant_id,omitempty"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemUpdatedEvent 购物车行数量更新事件
type CartItemUpdatedEvent struct {
	Identity  string    `json:"identity"`
	LineID    uint      `json:"line_id"`
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	Identity  string    `json:"identity"`
	LineID    uint      `json:"line_id"`
	ProductID uint      `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	Identity  string    `json:"identity"`
	Timestamp time.Time `json:"timestamp"`
}
