// Package redis implements db.Store over rueidis. Only plain string commands
// are issued, so the same store serves Redis and Valkey.
package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/patentcompass/internal/db"
)

var _ db.Store = (*Store)(nil)

const (
	defaultClientName  = "patentcompass"
	defaultDialTimeout = 5 * time.Second

	readyBackoffMin = 100 * time.Millisecond
	readyBackoffMax = time.Second
)

// Config holds connection parameters for the cache server.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
	// Standalone skips cluster topology discovery.
	Standalone  bool
	ClientName  string
	DialTimeout time.Duration
}

// Store is the embedding cache backend.
type Store struct {
	client rueidis.Client
}

// NewStore connects a rueidis client. Client-side caching stays off: cached
// vectors are written once and read by key, so tracking buys nothing.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, errors.New("redis: at least one address is required")
	}
	if cfg.ClientName == "" {
		cfg.ClientName = defaultClientName
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = defaultDialTimeout
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:       cfg.Addrs,
		Username:          cfg.Username,
		Password:          cfg.Password,
		SelectDB:          cfg.DB,
		ClientName:        cfg.ClientName,
		ForceSingleClient: cfg.Standalone,
		Dialer:            net.Dialer{Timeout: cfg.DialTimeout},
		DisableCache:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: connect %v: %w", cfg.Addrs, err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.do(ctx, s.b().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady pings immediately, then retries with doubling delays until
// the server answers or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	delay := readyBackoffMin
	for {
		lastErr := s.Ping(ctx)
		if lastErr == nil {
			return nil
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("cache not ready: %w (last error: %w)", ctx.Err(), lastErr)
		case <-timer.C:
		}
		delay = min(delay*2, readyBackoffMax)
	}
}

func (s *Store) do(ctx context.Context, cmd rueidis.Completed) rueidis.RedisResult {
	return s.client.Do(ctx, cmd)
}

func (s *Store) b() rueidis.Builder {
	return s.client.B()
}
