package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/GGamerE/SecureKYC/internal/eligibility"
	id "github.com/GGamerE/SecureKYC/pkg/domain"
)

// RedisStore caches evaluator results in Redis so multiple engine replicas
// agree on the current result for a pair. Results carry ciphertext handles
// only; the cached value reveals nothing without a decrypt grant.
type RedisStore struct {
	client *redis.Client
}

// NewRedis constructs a Redis-backed result cache.
func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func resultCacheKey(projectID id.ProjectID, subject id.Principal) string {
	return fmt.Sprintf("eligibility:result:%s:%s", projectID, subject)
}

func (s *RedisStore) Save(ctx context.Context, result eligibility.Result) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal eligibility result: %w", err)
	}
	key := resultCacheKey(result.ProjectID, result.Subject)
	if err := s.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("save eligibility result: %w", err)
	}
	return nil
}

func (s *RedisStore) Find(ctx context.Context, projectID id.ProjectID, subject id.Principal) (eligibility.Result, error) {
	payload, err := s.client.Get(ctx, resultCacheKey(projectID, subject)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return eligibility.Result{}, ErrNotFound
		}
		return eligibility.Result{}, fmt.Errorf("find eligibility result: %w", err)
	}
	var result eligibility.Result
	if err := json.Unmarshal(payload, &result); err != nil {
		return eligibility.Result{}, fmt.Errorf("unmarshal eligibility result: %w", err)
	}
	return result, nil
}
