package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"customer-portal-svc/src/internal/config"
	"customer-portal-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Scope selects which of a client's two state namespaces a Store operates on.
type Scope string

const (
	ScopeDurable Scope = "durable"
	ScopeSession Scope = "session"
)

const keyPattern = "%s:%s:%s:" // prefix:clientID:scope:

// ParseScope maps a query value onto a Scope; empty means durable.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeDurable:
		return ScopeDurable, nil
	case ScopeSession:
		return ScopeSession, nil
	default:
		return "", models.ErrInvalidScope
	}
}

// Store is a namespaced view over Redis holding one client's state.
type Store struct {
	client    redis.UniversalClient
	prefix    string
	ttl       time.Duration
	batchSize int64
}

// NewStore returns the store for clientID in the given scope. Session scoped
// keys expire after the configured TTL; durable keys never do.
func NewStore(client redis.UniversalClient, cfg *config.CacheConfig, clientID string, scope Scope) *Store {
	var ttl time.Duration
	if scope == ScopeSession {
		ttl = time.Duration(cfg.SessionStateTTLMinutes) * time.Minute
	}

	batch := int64(cfg.ClearBatchSize)
	if batch <= 0 {
		batch = 100
	}

	return &Store{
		client:    client,
		prefix:    fmt.Sprintf(keyPattern, cfg.StatePrefix, clientID, scope),
		ttl:       ttl,
		batchSize: batch,
	}
}

func (s *Store) Prefix() string {
	return s.prefix
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		logrus.WithError(err).WithField("key", s.prefix+key).Error("Failed to get state from cache")
		return "", false, fmt.Errorf("%w: %v", models.ErrRedisGet, err)
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, s.ttl).Err(); err != nil {
		logrus.WithError(err).WithField("key", s.prefix+key).Error("Failed to set state in cache")
		return fmt.Errorf("%w: %v", models.ErrRedisSet, err)
	}
	return nil
}

// Clear deletes every key under this store's prefix.
func (s *Store) Clear(ctx context.Context) error {
	var (
		cursor  uint64
		deleted int64
	)

	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", s.batchSize).Result()
		if err != nil {
			logrus.WithError(err).WithField("prefix", s.prefix).Error("Failed to scan state keys")
			return fmt.Errorf("%w: %v", models.ErrRedisDelete, err)
		}

		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				logrus.WithError(err).WithField("prefix", s.prefix).Error("Failed to delete state keys")
				return fmt.Errorf("%w: %v", models.ErrRedisDelete, err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	logrus.WithFields(logrus.Fields{
		"prefix":  s.prefix,
		"deleted": deleted,
	}).Debug("State cleared")
	return nil
}
