// Copyright (c) 2026 PawWell Care Center. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Aayusha497/PawWell-Care-Center/internal/platform/constants"
)

// # Token Blacklist

// RedisTokenBlacklist implements TokenBlacklist using Redis.
//
// Revoked refresh-token IDs (jti) are stored as keys with a TTL equal to the
// token's remaining lifetime, so the set cleans itself up as tokens would
// have expired anyway.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewTokenBlacklist creates a new Redis-backed TokenBlacklist.
func NewTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

/*
Add records a token ID as revoked until its natural expiry.

Parameters:
  - context: context.Context
  - tokenID: string (jti claim)
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (blacklist *RedisTokenBlacklist) Add(context context.Context, tokenID string, ttl time.Duration) error {

	// Tokens already past their expiry need no bookkeeping
	if ttl <= 0 {
		return nil
	}

	key := constants.RedisPrefixBlacklist + tokenID

	if err := blacklist.client.Set(context, key, "revoked", ttl).Err(); err != nil {
		return fmt.Errorf("redis_blacklist_add_failed: %w", err)
	}

	return nil
}

/*
IsRevoked reports whether a token ID has been blacklisted.

Parameters:
  - context: context.Context
  - tokenID: string

Returns:
  - bool: true when revoked
  - error: Connectivity errors
*/
func (blacklist *RedisTokenBlacklist) IsRevoked(context context.Context, tokenID string) (bool, error) {

	key := constants.RedisPrefixBlacklist + tokenID

	if err := blacklist.client.Get(context, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis_blacklist_get_failed: %w", err)
	}

	return true, nil
}
