package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelSummaryEvents = "summary_events"
)

// 事件类型常量
const (
	EventSummaryCreated = "summary_created"
	EventSummaryFailed  = "summary_failed"
)

// SummaryEvent 摘要事件，推送给用户的所有在线连接
type SummaryEvent struct {
	Type      string `json:"type"`
	UserID    int64  `json:"user_id"`
	SummaryID int64  `json:"summary_id,omitempty"`
	Preview   string `json:"preview,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishEvent 发布摘要事件
func (p *Publisher) PublishEvent(ctx context.Context, event *SummaryEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal summary event: %w", err)
	}

	return p.client.Publish(ctx, ChannelSummaryEvents, data).Err()
}

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅摘要事件，收到一条回调一次
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*SummaryEvent)) error {
	pubsub := s.client.Subscribe(ctx, ChannelSummaryEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event SummaryEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
