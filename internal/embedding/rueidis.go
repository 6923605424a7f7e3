package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
)

// RueidisStore implements KVStore on a Redis/Valkey instance via rueidis.
type RueidisStore struct {
	client rueidis.Client
}

// RueidisConfig holds cache store connection parameters.
type RueidisConfig struct {
	Addrs    []string
	Password string
}

// NewRueidisStore connects to the cache backend.
func NewRueidisStore(cfg RueidisConfig) (*RueidisStore, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Password:     cfg.Password,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache client: %w", err)
	}
	return &RueidisStore{client: client}, nil
}

var _ KVStore = (*RueidisStore)(nil)

// Get retrieves a value by key. Absent keys return ErrCacheMiss.
func (s *RueidisStore) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.client.B().Get().Key(key).Build()
	data, err := s.client.Do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return data, nil
}

// SetWithTTL stores a value with an expiration.
func (s *RueidisStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	cmd := s.client.B().Set().Key(key).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Ping checks connectivity.
func (s *RueidisStore) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("cache ping: %w", err)
	}
	return nil
}

// Close shuts down the client.
func (s *RueidisStore) Close() {
	s.client.Close()
}
