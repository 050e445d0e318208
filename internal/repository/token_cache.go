package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk-web-server/config"

	"github.com/redis/go-redis/v9"
)

// RedisTokenCache — реализация ports.TokenCache поверх Redis.
// Каждая операция занимает один сетевой вызов; составные операции
// (SADD+EXPIRE, массовое удаление) выполняются одним pipeline.
type RedisTokenCache struct {
	client *config.RedisClient
}

func NewRedisTokenCache(rdb *config.RedisClient) *RedisTokenCache {
	return &RedisTokenCache{client: rdb}
}

func (r *RedisTokenCache) GetDel(ctx context.Context, key string) (string, error) {
	val, err := r.client.Client.GetDel(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		return "", wrapCacheError("ошибка GETDEL", err)
	}
	return val, nil
}

func (r *RedisTokenCache) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := r.client.Client.Set(ctx, key, value, ttl).Err(); err != nil {
		return wrapCacheError("ошибка SET", err)
	}
	return nil
}

func (r *RedisTokenCache) AddToSet(ctx context.Context, key, member string, ttl time.Duration) error {
	pipe := r.client.Client.TxPipeline()
	pipe.SAdd(ctx, key, member)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapCacheError("ошибка SADD/EXPIRE", err)
	}
	return nil
}

func (r *RedisTokenCache) SetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.Client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, wrapCacheError("ошибка SMEMBERS", err)
	}
	return members, nil
}

func (r *RedisTokenCache) RemoveFromSet(ctx context.Context, key, member string) error {
	if err := r.client.Client.SRem(ctx, key, member).Err(); err != nil {
		return wrapCacheError("ошибка SREM", err)
	}
	return nil
}

func (r *RedisTokenCache) DeleteAll(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	pipe := r.client.Client.TxPipeline()
	for _, key := range keys {
		pipe.Unlink(ctx, key)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return wrapCacheError("ошибка UNLINK", err)
	}
	return nil
}

// wrapCacheError сворачивает любой транспортный сбой (таймаут пула,
// обрыв соединения) в ErrCacheUnavailable
func wrapCacheError(message string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrCacheUnavailable, message, err)
}
