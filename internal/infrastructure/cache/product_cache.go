// Package cache keeps the catalog listing in Redis.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ddd-ecommerce/internal/domain/entity"
	"github.com/oksasatya/go-ddd-ecommerce/pkg/helpers"
)

const KeyProductList = "products:all"

type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client, ttl time.Duration) *ProductCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ProductCache{rdb: rdb, ttl: ttl}
}

func (c *ProductCache) GetProducts(ctx context.Context) ([]entity.Product, bool, error) {
	var products []entity.Product
	ok, err := helpers.RedisGetJSON(ctx, c.rdb, KeyProductList, &products)
	if err != nil || !ok {
		return nil, false, err
	}
	return products, true, nil
}

func (c *ProductCache) SetProducts(ctx context.Context, products []entity.Product) error {
	return helpers.RedisSetJSON(ctx, c.rdb, KeyProductList, products, c.ttl)
}

func (c *ProductCache) Invalidate(ctx context.Context) error {
	return helpers.RedisDel(ctx, c.rdb, KeyProductList)
}
