package cachesvc

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	nowFunc = func() time.Time { return now }
	defer func() { nowFunc = time.Now }()

	ctx := context.Background()
	c := NewMemoryCache()

	_, ok := c.Get(ctx, "tip")
	assert.False(t, ok, "miss on empty cache")

	assert.NoError(t, c.Set(ctx, "tip", "v1", time.Hour))
	assert.NoError(t, c.Set(ctx, "forever", "v2", 0))

	val, ok := c.Get(ctx, "tip")
	assert.True(t, ok)
	assert.Equal(t, "v1", val)

	now = now.Add(time.Hour)
	_, ok = c.Get(ctx, "tip")
	assert.False(t, ok, "expired entry")

	val, ok = c.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, "v2", val)
}
