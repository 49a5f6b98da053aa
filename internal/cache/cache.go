package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"ecom/internal/models"
)

const productTTL = 5 * time.Minute

// ProductCache is a read-through cache in front of the product collection.
// A nil *ProductCache, or one built from an empty REDIS_URL, disables
// caching entirely so the rest of the code never branches on availability.
type ProductCache struct {
	client *redis.Client
}

func NewProductCache(redisURL string) *ProductCache {
	if redisURL == "" {
		log.Println("redis url not provided, product caching disabled")
		return nil
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("failed to parse redis url: %v, product caching disabled", err)
		return nil
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("failed to connect to redis: %v, product caching disabled", err)
		return nil
	}

	return &ProductCache{client: client}
}

func (c *ProductCache) Get(ctx context.Context, id string) (*models.Product, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, false
	}
	return &product, true
}

func (c *ProductCache) Set(ctx context.Context, product *models.Product) {
	if c == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	c.client.Set(ctx, key(product.ID.Hex()), data, productTTL)
}

func (c *ProductCache) Delete(ctx context.Context, id string) {
	if c == nil {
		return
	}
	c.client.Del(ctx, key(id))
}

func (c *ProductCache) Close() {
	if c != nil {
		c.client.Close()
	}
}

func key(id string) string { return "product:" + id }
