package repository

import (
	"context"
	"encoding/json"

	"classifieds_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ConversationChannelPrefix redis channel of one conversation is prefix + conversation id
const ConversationChannelPrefix = "chat:conversation:"

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

// Publish 將 message 序列化後，發布到指定 channel
func (r *RedisPubSub) Publish(ctx context.Context, channel string, message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, channel, data).Err()
}

// PSubscribe 訂閱 pattern, handler runs on one goroutine per subscription until ctx is done
func (r *RedisPubSub) PSubscribe(ctx context.Context, pattern string, handler func(channel string, payload []byte)) error {
	sub := r.client.PSubscribe(ctx, pattern)
	// 確認訂閱成功再回傳
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()

		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}
				handler(m.Channel, []byte(m.Payload))
			case <-ctx.Done():
				logger.Log.Info("redis subscription closed", zap.String("pattern", pattern))
				return
			}
		}
	}()
	return nil
}
