package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKeyPrefix namespaces session keys, followed by the profile name.
const RedisKeyPrefix = "fixmycity:session:"

// RedisStore keeps the pair as two string keys written in one MULTI/EXEC.
type RedisStore struct {
	client  *redis.Client
	profile string
}

// NewRedisStore creates a store for the given profile (e.g. "default").
func NewRedisStore(client *redis.Client, profile string) *RedisStore {
	if profile == "" {
		profile = "default"
	}
	return &RedisStore{client: client, profile: profile}
}

func (s *RedisStore) key(name string) string {
	return RedisKeyPrefix + s.profile + ":" + name
}

func (s *RedisStore) Load(ctx context.Context) (string, []byte, error) {
	vals, err := s.client.MGet(ctx, s.key(KeyToken), s.key(KeyUser)).Result()
	if err != nil {
		return "", nil, fmt.Errorf("%w: redis mget: %w", ErrStoreUnavailable, err)
	}

	var token string
	var user []byte
	if v, ok := vals[0].(string); ok {
		token = v
	}
	if v, ok := vals[1].(string); ok {
		user = []byte(v)
	}

	return token, user, nil
}

func (s *RedisStore) Save(ctx context.Context, token string, user []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(KeyToken), token, 0)
		pipe.Set(ctx, s.key(KeyUser), string(user), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: redis save: %w", ErrStoreUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(KeyToken), s.key(KeyUser)).Err(); err != nil {
		return fmt.Errorf("%w: redis del: %w", ErrStoreUnavailable, err)
	}
	return nil
}
