package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/models"
)

func TestProductCacheWithoutRedisAlwaysLoads(t *testing.T) {
	ctx := context.Background()
	c := NewProductCache(nil)

	calls := 0
	load := func(_ context.Context, id int64) (*models.ProductDetail, error) {
		calls++
		return &models.ProductDetail{Product: models.Product{ID: id, Name: "Tee"}}, nil
	}
	for i := 0; i < 2; i++ {
		p, err := c.GetOrLoad(ctx, 5, load)
		require.NoError(t, err)
		assert.Equal(t, "Tee", p.Name)
	}
	assert.Equal(t, 2, calls)

	c.Invalidate(ctx, 5)
	_, ok := c.Get(ctx, 5)
	assert.False(t, ok)
}

func TestProductCacheLoadError(t *testing.T) {
	var c *ProductCache
	boom := errors.New("boom")
	_, err := c.GetOrLoad(context.Background(), 1, func(context.Context, int64) (*models.ProductDetail, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "product:42", productKey(42))
}

func TestLimiterDisabledWithoutRedis(t *testing.T) {
	l := NewLimiter(nil, "login", 5, time.Minute)
	assert.False(t, l.Enabled())
	assert.Equal(t, "login_attempts:bob", l.attemptsKey("bob"))
	assert.Equal(t, "login_cooldown:bob", l.cooldownKey("bob"))

	var none *Limiter
	assert.False(t, none.Enabled())
}
