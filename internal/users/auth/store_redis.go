// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taibuivan/gametrack/internal/platform/apperr"
	"github.com/taibuivan/gametrack/internal/platform/constants"
	"github.com/taibuivan/gametrack/internal/platform/sec"
)

// RedisResetTokenRepository implements [ResetTokenRepository] using Redis.
//
// Expiry is delegated to Redis TTLs, so abandoned tokens vanish on their own
// instead of accumulating in process memory. Keys are derived from the
// SHA-256 digest of the token, never the raw value, so a leaked keyspace
// cannot be replayed against /reset-password.
type RedisResetTokenRepository struct {
	client *redis.Client
}

// NewResetTokenRepository creates a new Redis-backed ResetTokenRepository.
func NewResetTokenRepository(client *redis.Client) *RedisResetTokenRepository {
	return &RedisResetTokenRepository{client: client}
}

// tokenKey builds the Redis key for a token from its digest.
func tokenKey(token string) string {
	return constants.RedisPrefixResetToken + sec.HashToken(token)
}

/*
Set stores a reset token with its associated account ID and TTL.
*/
func (repository *RedisResetTokenRepository) Set(context context.Context, token string, accountID int64, ttl time.Duration) error {
	key := tokenKey(token)

	if err := repository.client.Set(context, key, strconv.FormatInt(accountID, 10), ttl).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_set_failed: %w", err)
	}

	return nil
}

/*
Get retrieves the account ID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.
*/
func (repository *RedisResetTokenRepository) Get(context context.Context, token string) (int64, error) {
	key := tokenKey(token)

	value, err := repository.client.Get(context, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperr.NotFound("Reset token")
		}
		return 0, fmt.Errorf("redis_reset_token_get_failed: %w", err)
	}

	accountID, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis_reset_token_parse_failed: %w", err)
	}

	return accountID, nil
}

/*
Delete removes the token from Redis.
*/
func (repository *RedisResetTokenRepository) Delete(context context.Context, token string) error {
	key := tokenKey(token)

	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_reset_token_delete_failed: %w", err)
	}

	return nil
}
