package notify

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const RedisChannel = "gigfinder_catalog_changed"

type RedisNotifier struct {
	client *redis.Client
	origin string
	logger *zap.Logger
}

func NewRedisNotifier(addr, password string, db int, logger *zap.Logger) *RedisNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisNotifier{client: rdb, origin: NewOrigin(), logger: logger}
}

func (r *RedisNotifier) Origin() string {
	return r.origin
}

func (r *RedisNotifier) Publish(ctx context.Context, change Change) error {
	change.Origin = r.origin
	if change.At.IsZero() {
		change.At = time.Now()
	}
	data, err := encode(change)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, RedisChannel, data).Err()
}

func (r *RedisNotifier) Subscribe(ctx context.Context, fn func(Change)) error {
	sub := r.client.Subscribe(ctx, RedisChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}
	go func() {
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				change, err := decode([]byte(msg.Payload))
				if err != nil {
					r.logger.Warn("invalid catalog change message", zap.String("payload", msg.Payload), zap.Error(err))
					continue
				}
				if change.Origin == r.origin {
					continue
				}
				fn(change)
			}
		}
	}()
	return nil
}

func (r *RedisNotifier) Close() error {
	return r.client.Close()
}
