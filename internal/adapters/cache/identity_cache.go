package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unisga/academic-service/internal/core/domain"
	"github.com/unisga/academic-service/internal/core/ports"
)

// RedisIdentityCache holds resolved identities for a short TTL so the
// authentication gate does not hit the users table on every request. The
// user service invalidates entries whenever a user record is mutated.
type RedisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.IdentityCache = (*RedisIdentityCache)(nil)

func NewRedisIdentityCache(client *redis.Client, ttl time.Duration) *RedisIdentityCache {
	return &RedisIdentityCache{client: client, ttl: ttl}
}

// cachedIdentity carries only what the authentication gate needs; the
// credential hash and reset-token fields never enter the cache.
type cachedIdentity struct {
	ID       int64       `json:"id"`
	Name     string      `json:"nombre"`
	Email    string      `json:"correo"`
	Role     domain.Role `json:"rol"`
	IsActive bool        `json:"is_active"`
}

func identityKey(userID int64) string {
	return fmt.Sprintf("identity:%d", userID)
}

func (c *RedisIdentityCache) Get(ctx context.Context, userID int64) (*domain.User, error) {
	data, err := c.client.Get(ctx, identityKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedIdentity
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &domain.User{
		ID:       cached.ID,
		Name:     cached.Name,
		Email:    cached.Email,
		Role:     cached.Role,
		IsActive: cached.IsActive,
	}, nil
}

func (c *RedisIdentityCache) Set(ctx context.Context, user *domain.User) error {
	data, err := json.Marshal(cachedIdentity{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, identityKey(user.ID), data, c.ttl).Err()
}

func (c *RedisIdentityCache) Invalidate(ctx context.Context, userID int64) error {
	return c.client.Del(ctx, identityKey(userID)).Err()
}
