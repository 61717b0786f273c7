package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vibecap/internal/pkg/cache"
)

// 并发修改时 Update 的最大重试次数
const maxUpdateRetries = 16

// RedisStore 基于 Redis 的会话存储，多实例部署时共享会话
type RedisStore struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// NewRedisStore 创建 Redis 会话存储
func NewRedisStore(c *cache.RedisCache, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = cache.SessionCacheTTL
	}
	return &RedisStore{cache: c, ttl: ttl}
}

// Load 读取会话状态
func (r *RedisStore) Load(ctx context.Context, id string) (State, error) {
	var s State
	if err := r.cache.Get(ctx, cache.SessionCacheKey(id), &s); err != nil {
		if errors.Is(err, redis.Nil) {
			return State{}, ErrNotFound
		}
		return State{}, fmt.Errorf("load session %s: %w", id, err)
	}
	return s, nil
}

// Save 保存会话状态
func (r *RedisStore) Save(ctx context.Context, id string, s State) error {
	if err := r.cache.Set(ctx, cache.SessionCacheKey(id), s, r.ttl); err != nil {
		return fmt.Errorf("save session %s: %w", id, err)
	}
	return nil
}

// Update 使用 WATCH/MULTI 乐观锁读取-迁移-保存
// 其他实例在提交前修改了同一会话时重新读取并重试
func (r *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (State, error) {
	key := cache.SessionCacheKey(id)

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		var (
			cur, next State
			fnErr     error
		)

		err := r.cache.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					return ErrNotFound
				}
				return err
			}
			if err := json.Unmarshal(data, &cur); err != nil {
				return err
			}

			next, fnErr = fn(cur)
			if fnErr != nil {
				return fnErr
			}

			payload, err := json.Marshal(next)
			if err != nil {
				return err
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, r.ttl)
				return nil
			})
			return err
		}, key)

		switch {
		case err == nil:
			return next, nil
		case errors.Is(err, redis.TxFailedErr):
			continue
		case errors.Is(err, ErrNotFound):
			return State{}, ErrNotFound
		case fnErr != nil:
			return cur, fnErr
		default:
			return cur, fmt.Errorf("update session %s: %w", id, err)
		}
	}

	return State{}, fmt.Errorf("update session %s: %w", id, ErrConflict)
}

// Delete 删除会话
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.cache.Delete(ctx, cache.SessionCacheKey(id))
}
