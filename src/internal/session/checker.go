package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// LastActivityKey holds the last activity marker, unix milliseconds as a decimal string.
	LastActivityKey = "last_activity"

	// StaleAfter is how long a client may stay inactive before its state is wiped.
	StaleAfter = 24 * time.Hour
)

// Store is the key/value state a client keeps between visits.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context) error
}

// AuthBackend signs the current session out of the identity backend.
// It must be safe to call when no session exists.
type AuthBackend interface {
	SignOut(ctx context.Context) error
}

// Option configures a Checker.
type Option func(*Checker)

// WithThreshold overrides StaleAfter.
func WithThreshold(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.threshold = d
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger overrides the standard logrus logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Checker) {
		if log != nil {
			c.log = log
		}
	}
}

// Checker decides whether a client session went stale and wipes it if so.
type Checker struct {
	durable   Store
	scoped    Store
	auth      AuthBackend
	threshold time.Duration
	now       func() time.Time
	log       logrus.FieldLogger
}

// NewChecker builds a checker over the durable store (which holds the marker),
// the session-scoped store and the identity backend. scoped may be nil.
func NewChecker(durable, scoped Store, auth AuthBackend, opts ...Option) *Checker {
	c := &Checker{
		durable:   durable,
		scoped:    scoped,
		auth:      auth,
		threshold: StaleAfter,
		now:       time.Now,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check reports whether the session was cleared. It never returns an error:
// failures are logged and reported as not cleared.
func (c *Checker) Check(ctx context.Context) (cleared bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", r).Error("Session expiry check panicked")
			cleared = false
		}
	}()

	cleared, err := c.check(ctx)
	if err != nil {
		c.log.WithError(err).Error("Session expiry check failed")
		return false
	}
	return cleared
}

func (c *Checker) check(ctx context.Context) (bool, error) {
	now := c.now()

	raw, found, err := c.durable.Get(ctx, LastActivityKey)
	if err != nil {
		return false, fmt.Errorf("read activity marker: %w", err)
	}

	if found {
		last, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil {
			c.log.WithField("value", raw).Warn("Ignoring malformed activity marker")
		} else if now.Sub(time.UnixMilli(last)) > c.threshold {
			return true, c.clear(ctx, last)
		}
	}

	if err := c.durable.Set(ctx, LastActivityKey, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return false, fmt.Errorf("write activity marker: %w", err)
	}

	c.log.Debug("Session activity marker refreshed")
	return false, nil
}

// clear wipes every key of both stores, not just the marker.
func (c *Checker) clear(ctx context.Context, last int64) error {
	c.log.WithFields(logrus.Fields{
		"last_activity": time.UnixMilli(last).UTC().Format(time.RFC3339),
		"threshold":     c.threshold.String(),
	}).Info("Session is stale, clearing local state")

	if err := c.durable.Clear(ctx); err != nil {
		return fmt.Errorf("clear durable state: %w", err)
	}

	if c.scoped != nil {
		if err := c.scoped.Clear(ctx); err != nil {
			return fmt.Errorf("clear session state: %w", err)
		}
	}

	if c.auth != nil {
		if err := c.auth.SignOut(ctx); err != nil {
			return fmt.Errorf("sign out: %w", err)
		}
	}

	return nil
}
