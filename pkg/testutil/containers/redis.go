//go:build integration

package containers

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisContainer wraps a testcontainers Redis instance.
type RedisContainer struct {
	Container testcontainers.Container
	URL       string
}

// NewRedisContainer starts a new Redis container.
func NewRedisContainer(t *testing.T) *RedisContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Fatalf("failed to start redis container: %v", err)
	}

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get redis connection string: %v", err)
	}

	// Shared through the Manager, so no t.Cleanup; Ryuk reaps the container
	// when the test process exits.

	return &RedisContainer{
		Container: container,
		URL:       url,
	}
}

// NewClient builds a go-redis client connected to the container.
func (r *RedisContainer) NewClient(t *testing.T) *goredis.Client {
	t.Helper()

	opts, err := goredis.ParseURL(r.URL)
	if err != nil {
		t.Fatalf("failed to parse redis URL: %v", err)
	}
	client := goredis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("redis ping failed: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })
	return client
}

// FlushAll clears all keys. Use between tests for isolation.
func (r *RedisContainer) FlushAll(ctx context.Context, client *goredis.Client) error {
	return client.FlushAll(ctx).Err()
}
