// Package messaging 商品目录事件发布实现
package messaging

import (
	"context"

	"github.com/palmbay/storefront/internal/catalog/domain"
	"github.com/palmbay/storefront/pkg/logger"
	"github.com/palmbay/storefront/pkg/mq"
)

// kafkaPublisher 基于 Kafka 的事件发布者实现
type kafkaPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaPublisher 创建 Kafka 事件发布者
func NewKafkaPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &kafkaPublisher{producer: producer}
}

// Publish 发布事件。发布失败只记录日志，不阻断业务写路径。
func (p *kafkaPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	if err := p.producer.SendMessage(ctx, topic, key, event); err != nil {
		logger.Error(ctx, "Failed to publish catalog event", "topic", topic, "key", key, "error", err)
		return err
	}
	return nil
}

// noopPublisher 事件发布关闭时的空实现
type noopPublisher struct{}

// NewNoopPublisher 创建空事件发布者
func NewNoopPublisher() domain.EventPublisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return nil
}
