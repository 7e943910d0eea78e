package output

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSink publishes engine output onto a redis pub/sub channel, for hosts
// that mirror the conversation to other processes. Publish failures are
// logged and swallowed.
type RedisSink struct {
	client  *redis.Client
	channel string
}

func NewRedisSink(addr, channel string) *RedisSink {
	return &RedisSink{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
	}
}

func (s *RedisSink) Write(message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.client.Publish(ctx, s.channel, message).Err(); err != nil {
		log.Printf("Warning: redis output: %v", err)
	}
}

func (s *RedisSink) Close() error {
	return s.client.Close()
}
