package cache

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/models"
)

const ProductCacheTTL = 10 * time.Minute

// ProductCache met en cache la vue détaillée des produits.
// Avec un client nil, toutes les opérations sont des no-op.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(client *redis.Client) *ProductCache {
	return &ProductCache{client: client, ttl: ProductCacheTTL}
}

func productKey(id int64) string {
	return "product:" + strconv.FormatInt(id, 10)
}

// Get lit un produit du cache. Le booléen est faux en cas d'absence ou d'erreur.
func (c *ProductCache) Get(ctx context.Context, id int64) (*models.ProductDetail, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("⚠️ Lecture cache produit %d: %v", id, err)
		}
		return nil, false
	}
	var p models.ProductDetail
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, false
	}
	return &p, true
}

func (c *ProductCache) Set(ctx context.Context, p *models.ProductDetail) {
	if c == nil || c.client == nil || p == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		log.Printf("⚠️ Écriture cache produit %d: %v", p.ID, err)
	}
}

// GetOrLoad lit le cache puis, en cas d'absence, appelle load et mémorise le résultat.
func (c *ProductCache) GetOrLoad(ctx context.Context, id int64, load func(context.Context, int64) (*models.ProductDetail, error)) (*models.ProductDetail, error) {
	if p, ok := c.Get(ctx, id); ok {
		return p, nil
	}
	p, err := load(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Set(ctx, p)
	return p, nil
}

// Invalidate supprime les produits donnés du cache.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...int64) {
	if c == nil || c.client == nil || len(ids) == 0 {
		return
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = productKey(id)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		log.Printf("⚠️ Invalidation cache produits %v: %v", ids, err)
	}
}
