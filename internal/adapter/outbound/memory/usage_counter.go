package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/collabhub/server/internal/port/outbound"
)

type usageKey struct {
	account uuid.UUID
	metric  string
}

// usageCounter implements outbound.UsageCounterPort in memory.
type usageCounter struct {
	mu     sync.Mutex
	counts map[usageKey]int64
}

// NewUsageCounter creates an in-memory usage counter.
func NewUsageCounter() outbound.UsageCounterPort {
	return &usageCounter{counts: make(map[usageKey]int64)}
}

func (c *usageCounter) Increment(ctx context.Context, accountID uuid.UUID, metric string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := usageKey{account: accountID, metric: metric}
	c.counts[k]++
	return c.counts[k], nil
}

func (c *usageCounter) Get(ctx context.Context, accountID uuid.UUID, metric string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counts[usageKey{account: accountID, metric: metric}], nil
}

var _ outbound.UsageCounterPort = (*usageCounter)(nil)
