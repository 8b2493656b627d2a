package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestSummaryEvent_JSON(t *testing.T) {
	event := &SummaryEvent{
		Type:      EventSummaryCreated,
		UserID:    1,
		SummaryID: 42,
		Preview:   "some text...",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	// 键必须是 snake_case
	assert.Contains(t, decoded, "user_id")
	assert.Contains(t, decoded, "summary_id")
	assert.Equal(t, EventSummaryCreated, decoded["type"])

	// 空字段省略
	assert.NotContains(t, decoded, "error")
}

func TestPublishSubscribe(t *testing.T) {
	rdb := setupRedis(t)
	defer rdb.Close()

	publisher := NewPublisher(rdb)
	subscriber := NewSubscriber(rdb)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan *SummaryEvent, 1)
	go func() {
		subscriber.Subscribe(ctx, func(event *SummaryEvent) {
			received <- event
		})
	}()

	// 等订阅建立
	time.Sleep(50 * time.Millisecond)

	err := publisher.PublishEvent(ctx, &SummaryEvent{
		Type:      EventSummaryCreated,
		UserID:    7,
		SummaryID: 99,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, EventSummaryCreated, event.Type)
		assert.Equal(t, int64(7), event.UserID)
		assert.Equal(t, int64(99), event.SummaryID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscribe_ContextCancel(t *testing.T) {
	rdb := setupRedis(t)
	defer rdb.Close()

	subscriber := NewSubscriber(rdb)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- subscriber.Subscribe(ctx, func(*SummaryEvent) {})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after cancel")
	}
}
