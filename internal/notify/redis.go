// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// QueueKey is the Redis list the delivery worker consumes.
const QueueKey = "inkpress:notifications"

// RedisQueue pushes composed messages onto a Redis list for an external
// delivery worker to drain. The queue does not retry: a failed push is
// reported to the caller and the worker owns redelivery semantics.
type RedisQueue struct {
	client *redis.Client
}

// ConnectQueue opens the Redis connection backing the notification queue
// and verifies it with a ping.
func ConnectQueue(addr, password string) (*RedisQueue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("notification queue ping: %w", err)
	}

	slog.Info("notification queue connected", "addr", addr)
	return &RedisQueue{client: client}, nil
}

// Send enqueues the message as JSON.
func (q *RedisQueue) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := q.client.LPush(ctx, QueueKey, payload).Err(); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (q *RedisQueue) Close() error {
	return q.client.Close()
}
