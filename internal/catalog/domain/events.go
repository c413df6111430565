package domain

import (
	"context"
	"time"
)

// EventPublisher 领域事件发布接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}

// InventoryDecrementedEvent 库存扣减事件
type InventoryDecrementedEvent struct {
	ProductID uint      `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// InventoryConflictEvent 库存不足冲突事件
type InventoryConflictEvent struct {
	ProductID uint      `json:"product_id"`
	Requested int       `json:"requested"`
	Timestamp time.Time `json:"timestamp"`
}
