package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/server/internal/infra/config"
)

func TestOptions(t *testing.T) {
	t.Run("host and port", func(t *testing.T) {
		opts, err := Options(&config.RedisConfig{Address: "localhost:6379", DB: 2})
		require.NoError(t, err)
		assert.Equal(t, "localhost:6379", opts.Addr)
		assert.Equal(t, 2, opts.DB)
	})

	t.Run("url", func(t *testing.T) {
		opts, err := Options(&config.RedisConfig{Address: "redis://:secret@cache:6380/3"})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, "secret", opts.Password)
		assert.Equal(t, 3, opts.DB)
	})

	t.Run("config overrides url", func(t *testing.T) {
		opts, err := Options(&config.RedisConfig{Address: "redis://cache:6380/3", Password: "pw", DB: 5})
		require.NoError(t, err)
		assert.Equal(t, "pw", opts.Password)
		assert.Equal(t, 5, opts.DB)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := Options(&config.RedisConfig{Address: "http://cache"})
		assert.Error(t, err)
	})
}

func TestClose_Nil(t *testing.T) {
	assert.NoError(t, Close(nil))
}
