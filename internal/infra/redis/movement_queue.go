package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// MovementQueue is a Redis list producers LPUSH to and workers RPOPLPUSH from.
type MovementQueue struct {
	client *redis.Client
}

func NewMovementQueue(client *redis.Client) *MovementQueue {
	return &MovementQueue{client: client}
}

func (q *MovementQueue) Enqueue(ctx context.Context, payload []byte) error {
	if err := q.client.LPush(ctx, MovementsQueue, payload).Err(); err != nil {
		return fmt.Errorf("lpush %s: %w", MovementsQueue, err)
	}
	return nil
}
