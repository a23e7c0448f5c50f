package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/zerodesign/zerodesign-backend/internal/platform/logger"
)

// LoginThrottle counts failed logins per client key in a fixed window.
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

type ThrottleConfig struct {
	MaxAttempts int
	Window      time.Duration
}

func (c ThrottleConfig) withDefaults() ThrottleConfig {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	return c
}

// NewLoginThrottle uses Redis when rdb is non-nil and process memory otherwise.
func NewLoginThrottle(log *logger.Logger, rdb *goredis.Client, cfg ThrottleConfig) LoginThrottle {
	cfg = cfg.withDefaults()
	if rdb != nil {
		return &redisThrottle{log: log.With("service", "LoginThrottle", "backend", "redis"), rdb: rdb, cfg: cfg}
	}
	return &memoryThrottle{
		log:     log.With("service", "LoginThrottle", "backend", "memory"),
		cfg:     cfg,
		now:        time.Now,
		sweepEvery: memorySweepEvery,
		buckets:    map[string]*attemptBucket{},
	}
}

// memorySweepEvery is how many recorded failures pass between scans that drop
// expired buckets for keys never seen again.
const memorySweepEvery = 256

type attemptBucket struct {
	count   int
	expires time.Time
}

type memoryThrottle struct {
	log *logger.Logger
	cfg ThrottleConfig
	now func() time.Time

	mu         sync.Mutex
	buckets    map[string]*attemptBucket
	sweepEvery int
	recorded   int
}

func (m *memoryThrottle) bucket(key string) *attemptBucket {
	b, ok := m.buckets[key]
	if !ok {
		return nil
	}
	if !m.now().Before(b.expires) {
		delete(m.buckets, key)
		return nil
	}
	return b
}

func (m *memoryThrottle) sweep() {
	now := m.now()
	for key, b := range m.buckets {
		if !now.Before(b.expires) {
			delete(m.buckets, key)
		}
	}
}

func (m *memoryThrottle) Blocked(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.bucket(key)
	return b != nil && b.count >= m.cfg.MaxAttempts, nil
}

func (m *memoryThrottle) RecordFailure(_ context.Context, key string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded++
	if m.sweepEvery > 0 && m.recorded%m.sweepEvery == 0 {
		m.sweep()
	}
	b := m.bucket(key)
	if b == nil {
		b = &attemptBucket{expires: m.now().Add(m.cfg.Window)}
		m.buckets[key] = b
	}
	b.count++
	if b.count == m.cfg.MaxAttempts {
		m.log.Warn("login locked out", "client_ip", key, "window", m.cfg.Window.String())
	}
	return b.count, nil
}

func (m *memoryThrottle) Reset(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.buckets, key)
	return nil
}

type redisThrottle struct {
	log *logger.Logger
	rdb *goredis.Client
	cfg ThrottleConfig
}

func redisKey(key string) string { return "zd:login_failures:" + key }

func (r *redisThrottle) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := r.rdb.Get(ctx, redisKey(key)).Int()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("throttle get: %w", err)
	}
	return n >= r.cfg.MaxAttempts, nil
}

// RecordFailure starts the window on the first failure; later failures do
// not extend it.
func (r *redisThrottle) RecordFailure(ctx context.Context, key string) (int, error) {
	k := redisKey(key)
	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.cfg.Window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("throttle incr: %w", err)
	}
	n := int(incr.Val())
	if n == r.cfg.MaxAttempts {
		r.log.Warn("login locked out", "client_ip", key, "window", r.cfg.Window.String())
	}
	return n, nil
}

func (r *redisThrottle) Reset(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, redisKey(key)).Err(); err != nil {
		return fmt.Errorf("throttle reset: %w", err)
	}
	return nil
}
