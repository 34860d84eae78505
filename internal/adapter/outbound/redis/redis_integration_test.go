//go:build integration

package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/collabhub/server/internal/infra/events"
	"github.com/collabhub/server/internal/model"
	"github.com/collabhub/server/internal/port/outbound"
)

func startRedis(t *testing.T) goredis.UniversalClient {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())
	return client
}

func TestRedisAdapters_Integration(t *testing.T) {
	ctx := context.Background()
	client := startRedis(t)

	t.Run("rate limiter", func(t *testing.T) {
		limiter := NewRateLimiter(client)
		key := "user:" + uuid.NewString()

		for i := 0; i < 2; i++ {
			ok, err := limiter.Allow(ctx, key, 2, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok)
		}
		ok, err := limiter.Allow(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		remaining, err := limiter.GetRemaining(ctx, key, 2, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 0, remaining)

		remaining, err = limiter.GetRemaining(ctx, "user:"+uuid.NewString(), 2, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, 2, remaining)
	})

	t.Run("usage counter", func(t *testing.T) {
		counter := NewUsageCounter(client)
		account := uuid.New()

		n, err := counter.Get(ctx, account, outbound.UsageCompleted)
		require.NoError(t, err)
		assert.Zero(t, n)

		for i := int64(1); i <= 3; i++ {
			n, err = counter.Increment(ctx, account, outbound.UsageCompleted)
			require.NoError(t, err)
			assert.Equal(t, i, n)
		}
		n, err = counter.Get(ctx, account, outbound.UsageCompleted)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("notification publisher", func(t *testing.T) {
		const channel = "collaboration.events.test"
		sub := client.Subscribe(ctx, channel)
		t.Cleanup(func() { _ = sub.Close() })
		_, err := sub.Receive(ctx)
		require.NoError(t, err)

		collab := &model.Collaboration{
			ID:        uuid.New(),
			CollabID:  "COL-20260301-AB12C",
			Kind:      model.KindAdSlot,
			Status:    model.StatusWorkSubmitted,
			Requester: model.Party{ID: uuid.New(), Role: model.RoleBrand},
			Fulfiller: model.Party{ID: uuid.New(), Role: model.RoleChannel},
		}
		pub := NewNotificationPublisher(client, channel)
		require.NoError(t, pub.Handle(events.NewCollaborationEvent(outbound.NotifyWorkSubmitted, collab)))

		select {
		case msg := <-sub.Channel():
			var got NotificationMessage
			require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
			assert.Equal(t, outbound.NotifyWorkSubmitted, got.Event)
			assert.Equal(t, collab.CollabID, got.CollabID)
			assert.ElementsMatch(t, []uuid.UUID{collab.Requester.ID, collab.Fulfiller.ID}, got.Recipients)
		case <-time.After(5 * time.Second):
			t.Fatal("no notification received")
		}
	})
}
