package utils

import (
	"context"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Healthy   bool      `json:"healthy"`
	Mongo     *bool     `json:"mongo,omitempty"`
	Redis     []bool    `json:"redis"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

func checkHealth(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	status := HealthStatus{Healthy: true, Redis: []bool{}, CheckedAt: time.Now()}
	for _, client := range redisClients {
		ok := client.Ping(ctx).Err() == nil
		status.Redis = append(status.Redis, ok)
		status.Healthy = status.Healthy && ok
	}
	if mongoClient != nil {
		ok := mongoClient.Ping(ctx, nil) == nil
		status.Mongo = &ok
		status.Healthy = status.Healthy && ok
	}

	mu.Lock()
	currentHealth = status
	mu.Unlock()
}

// StartHealthMonitor performs periodic health checks until ctx is done.
// A nil mongoClient is skipped (memory store).
func StartHealthMonitor(ctx context.Context, redisClients []*redis.Client, mongoClient *mongo.Client) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		checkHealth(ctx, redisClients, mongoClient)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				checkHealth(ctx, redisClients, mongoClient)
			}
		}
	}()
}
