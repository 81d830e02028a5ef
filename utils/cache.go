// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"chime/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient is the generic cache client.
	CacheClient *redis.Client
	// QueueClient is the dedicated client for the delivery queue DB.
	QueueClient *redis.Client
)

// InitCache initializes the generic Redis cache client (using DB from AppConfig for general caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitQueueClient initializes the Redis client for the delivery queue DB.
// asynq owns its own connections; this client exists for health checks.
func InitQueueClient() {
	QueueClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := QueueClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Queue): %v", err)
	}
}

// GetQueueClient returns the queue-DB Redis client.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		InitQueueClient()
	}
	return QueueClient
}

// InitRedis initializes all Redis clients used by the service.
func InitRedis() {
	InitCache()
	InitQueueClient()
}
