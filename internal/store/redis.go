package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisConfig holds connection settings for the Redis store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // key prefix, default "connections:puzzle:"
}

// Redis keeps each puzzle as a JSON document under <prefix><id>.
// Timestamps come from the Redis server clock (TIME).
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis connects to Redis and checks the connection.
func NewRedis(ctx context.Context, cfg RedisConfig) (*Redis, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisWithClient(client, cfg.Prefix), nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "connections:puzzle:"
	}
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(id string) string { return r.prefix + id }

// Create writes p under a new id. SETNX guards against id reuse.
func (r *Redis) Create(ctx context.Context, p SavedPuzzle) (SavedPuzzle, error) {
	now, err := r.client.Time(ctx).Result()
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("redis time: %w", err)
	}
	p.ID = uuid.NewString()
	p.CreatedAt = now.UTC()
	p.UpdatedAt = p.CreatedAt

	b, err := json.Marshal(p)
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("encode puzzle: %w", err)
	}
	ok, err := r.client.SetNX(ctx, r.key(p.ID), b, 0).Result()
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return SavedPuzzle{}, fmt.Errorf("puzzle id %s already exists", p.ID)
	}
	return p, nil
}

// Get reads and decodes one puzzle.
func (r *Redis) Get(ctx context.Context, id string) (SavedPuzzle, error) {
	b, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return SavedPuzzle{}, ErrNotFound
	}
	if err != nil {
		return SavedPuzzle{}, fmt.Errorf("redis get: %w", err)
	}
	var p SavedPuzzle
	if err := json.Unmarshal(b, &p); err != nil {
		return SavedPuzzle{}, fmt.Errorf("decode puzzle: %w", err)
	}
	p.ID = id
	return p, nil
}

// Close releases the client.
func (r *Redis) Close() error { return r.client.Close() }
