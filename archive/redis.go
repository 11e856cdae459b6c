package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codefix-ai/weave/state"
)

// RedisConfig configures the Redis-backed archive.
type RedisConfig struct {
	Addr      string        `json:"addr" yaml:"addr"`
	Password  string        `json:"password,omitempty" yaml:"password,omitempty"`
	DB        int           `json:"db,omitempty" yaml:"db,omitempty"`
	KeyPrefix string        `json:"key_prefix,omitempty" yaml:"key_prefix,omitempty"`
	TTL       time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// RedisStore archives executions as JSON values with an optional TTL.
// Suitable when archived runs must survive process restarts.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	keyPrefix := cfg.KeyPrefix
	if keyPrefix == "" {
		keyPrefix = "weave:"
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix + "execution:",
		ttl:       cfg.TTL,
	}, nil
}

// NewRedisStoreWithClient wraps an existing client, e.g. a test server.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "weave:"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix + "execution:", ttl: ttl}
}

func (s *RedisStore) key(id string) string { return s.keyPrefix + id }

func (s *RedisStore) Save(ctx context.Context, exec *state.WorkflowExecution) error {
	data, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("failed to marshal execution: %w", err)
	}
	if err := s.client.Set(ctx, s.key(exec.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to archive execution: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*state.WorkflowExecution, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read archived execution: %w", err)
	}
	var exec state.WorkflowExecution
	if err := json.Unmarshal(data, &exec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution: %w", err)
	}
	return &exec, nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

// Ping checks store health.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
