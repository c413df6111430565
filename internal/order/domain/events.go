package domain

import (
	"context"
	"time"
)

// EventPublisher 订单事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// OrderPlacedEvent 下单成功事件
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      uint      `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}
