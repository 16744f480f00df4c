package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis implements the two commands the cache issues.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	v, ok := f.data[key]
	if !ok {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(v)
	return cmd
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key, value)
	if f.err != nil {
		cmd.SetErr(f.err)
		return cmd
	}
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	cmd.SetVal("OK")
	return cmd
}

func TestCache_GetValue(t *testing.T) {
	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		c := NewWithClient(newFakeRedis())

		v, ok, err := c.GetValue(ctx, "nextHistogramShareMessage")

		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("stored key uses prefix", func(t *testing.T) {
		fake := newFakeRedis()
		fake.data["histograms:nextHistogramShareMessage"] = "1700000000000"
		c := NewWithClient(fake)

		v, ok, err := c.GetValue(ctx, "nextHistogramShareMessage")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "1700000000000", v)
	})

	t.Run("backend error", func(t *testing.T) {
		fake := newFakeRedis()
		fake.err = errors.New("connection refused")
		c := NewWithClient(fake)

		_, ok, err := c.GetValue(ctx, "k")

		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestCache_SetValue(t *testing.T) {
	ctx := context.Background()
	fake := newFakeRedis()
	c := NewWithClient(fake, WithKeyPrefix("test:"), WithTTL(time.Hour))

	require.NoError(t, c.SetValue(ctx, "k", "v"))

	assert.Equal(t, "v", fake.data["test:k"])
	assert.Equal(t, time.Hour, fake.ttls["test:k"])
	assert.NoError(t, c.Close())
}
