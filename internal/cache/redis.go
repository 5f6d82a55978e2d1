package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// InitRedis connects to Redis at addr. The cache is optional: an empty addr
// or an unreachable server disables it rather than failing startup.
func InitRedis(ctx context.Context, addr string) *redis.Client {
	if addr == "" {
		log.Println("REDIS_URL not set, price cache disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, price cache disabled: %v", err)
		_ = client.Close()
		return nil
	}
	log.Println("Connected to Redis")
	return client
}
