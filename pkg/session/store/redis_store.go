package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"github.com/redis/go-redis/v9"
)

const (
	// Per-operation timeout. Store calls never block past this; on expiry the
	// operation fails with ErrStoreUnavailable rather than hanging.
	defaultOpTimeout = 5 * time.Second

	connectAttempts = 3
	connectBackoff  = 1 * time.Second
)

// RedisOptions holds the connection settings for a RedisKVStore
type RedisOptions struct {
	Addr     string
	Username string
	Password string
	DB       int

	// Whether to connect over TLS
	EnableTLS bool

	// Per-operation timeout; defaults to 5s when zero
	OpTimeout time.Duration
}

// RedisKVStore implements KVStore using Redis. The client handle is lazily
// validated: it is pinged before use and reconnected once when the ping fails,
// so a dropped connection never silently returns stale data.
type RedisKVStore struct {
	opts RedisOptions

	mu     sync.Mutex
	client *redis.Client
}

// NewRedisKVStore creates a new Redis-backed store. No connection is
// established yet; the first operation dials with a bounded retry.
func NewRedisKVStore(opts RedisOptions) *RedisKVStore {
	if opts.OpTimeout <= 0 {
		opts.OpTimeout = defaultOpTimeout
	}
	return &RedisKVStore{opts: opts}
}

// healthyClient returns a live client, dialing or reconnecting as needed.
func (s *RedisKVStore) healthyClient(ctx context.Context) (*redis.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		pingCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
		err := s.client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return s.client, nil
		}

		// Connection is dead, drop it and reconnect below
		slog.Warn("Redis connection lost, reconnecting", "address", s.opts.Addr, "error", err)
		_ = s.client.Close()
		s.client = nil
	}

	client, err := s.connect(ctx)
	if err != nil {
		return nil, err
	}

	s.client = client
	return client, nil
}

// connect dials Redis with a bounded number of fixed-backoff attempts
func (s *RedisKVStore) connect(ctx context.Context) (*redis.Client, error) {
	var tlsConfig *tls.Config
	if s.opts.EnableTLS {
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	var client *redis.Client
	retrier := retry.NewRetrier(connectAttempts, connectBackoff, connectBackoff)
	err := retrier.RunContext(ctx, func(ctx context.Context) error {
		c := redis.NewClient(&redis.Options{
			Addr:         s.opts.Addr,
			Username:     s.opts.Username,
			Password:     s.opts.Password,
			DB:           s.opts.DB,
			DialTimeout:  s.opts.OpTimeout,
			ReadTimeout:  s.opts.OpTimeout,
			WriteTimeout: s.opts.OpTimeout,
			TLSConfig:    tlsConfig,
		})

		pingCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
		defer cancel()
		if err := c.Ping(pingCtx).Err(); err != nil {
			_ = c.Close()
			slog.Warn("Redis connection attempt failed", "address", s.opts.Addr, "error", err)
			return err
		}

		client = c
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w: %v", s.opts.Addr, ErrStoreUnavailable, err)
	}

	slog.Info("Connected to Redis", "address", s.opts.Addr)
	return client, nil
}

// Get retrieves the record stored under key
func (s *RedisKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	client, err := s.healthyClient(ctx)
	if err != nil {
		return nil, err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	value, err := client.Get(opCtx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrKeyNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w: %v", key, ErrStoreUnavailable, err)
	}

	return value, nil
}

// SetWithTTL stores the record under key and resets its idle expiration
func (s *RedisKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	client, err := s.healthyClient(ctx)
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	if err := client.Set(opCtx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set key %s: %w: %v", key, ErrStoreUnavailable, err)
	}

	slog.Debug("Stored record", "key", key, "ttl", ttl)
	return nil
}

// Delete removes the record stored under key. Deleting an absent key is not
// an error.
func (s *RedisKVStore) Delete(ctx context.Context, key string) error {
	client, err := s.healthyClient(ctx)
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, s.opts.OpTimeout)
	defer cancel()

	if err := client.Del(opCtx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w: %v", key, ErrStoreUnavailable, err)
	}

	slog.Debug("Deleted record", "key", key)
	return nil
}

// Close closes the Redis client
func (s *RedisKVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

var _ KVStore = (*RedisKVStore)(nil)
