// Package messaging 订单事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/smartbuy/internal/order/domain"
	"github.com/wyfcoding/smartbuy/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的事件发布器
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建事件发布器实例
func NewKafkaEventPublisher(producer *mq.KafkaProducer) domain.EventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// Publish 发布订单事件
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}

// NopEventPublisher 空实现，事件发布未启用时使用
type NopEventPublisher struct{}

// NewNopEventPublisher 创建空发布器实例
func NewNopEventPublisher() domain.EventPublisher {
	return &NopEventPublisher{}
}

// Publish 丢弃事件
func (p *NopEventPublisher) Publish(ctx context.Context, topic, key string, event any) error {
	return nil
}
