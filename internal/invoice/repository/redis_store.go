package repository

import (
	"context"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore persists records as plain redis strings.
type RedisStore struct {
	client   *redis.Client
	compress bool
}

func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(password),
		DB:       db,
	}), nil
}

func NewRedisStore(client *redis.Client, compress bool) *RedisStore {
	return &RedisStore{client: client, compress: compress}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unpack(raw)
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, pack(value, s.compress), 0).Err()
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
