package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/collabhub/server/internal/port/outbound"
)

const usageKeyPrefix = "usage:"

// usageCounter implements outbound.UsageCounterPort.
type usageCounter struct {
	client redis.UniversalClient
}

// NewUsageCounter creates a new usage counter adapter.
func NewUsageCounter(client redis.UniversalClient) outbound.UsageCounterPort {
	return &usageCounter{client: client}
}

func (c *usageCounter) key(accountID uuid.UUID, metric string) string {
	return fmt.Sprintf("%s%s:%s", usageKeyPrefix, metric, accountID.String())
}

func (c *usageCounter) Increment(ctx context.Context, accountID uuid.UUID, metric string) (int64, error) {
	return c.client.Incr(ctx, c.key(accountID, metric)).Result()
}

func (c *usageCounter) Get(ctx context.Context, accountID uuid.UUID, metric string) (int64, error) {
	val, err := c.client.Get(ctx, c.key(accountID, metric)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return val, nil
}

var _ outbound.UsageCounterPort = (*usageCounter)(nil)
