package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hackdays-io/toban-indexer/internal/adapter"
	"github.com/hackdays-io/toban-indexer/internal/logger"
)

const (
	defaultKeyPrefix           = "toban:indexer:limiter:"
	defaultFallbackMultiplier  = 0.5
	defaultHealthCheckInterval = 10 * time.Second
	pollInterval               = 100 * time.Millisecond
)

// ErrClosed is returned by Wait after Close
var ErrClosed = errors.New("rate limiter is closed")

// Config holds the configuration of a distributed request limiter.
// Every process sharing Name and KeyPrefix draws from the same budget.
type Config struct {
	Name              string
	KeyPrefix         string
	RequestsPerSecond int
	Burst             int

	// LocalFallback switches to an in-process limiter while Redis is unreachable.
	// The local rate is RequestsPerSecond * LocalFallbackMultiplier, at least 1.
	LocalFallback           bool
	LocalFallbackMultiplier float64

	HealthCheckInterval time.Duration
}

// Limiter blocks callers until a request token is available
//
//go:generate mockgen -source=limiter.go -destination=../mocks/ratelimit.go -package=mocks -mock_names=Limiter=MockRateLimiter
type Limiter interface {
	// Wait blocks until a token is acquired or ctx is done
	Wait(ctx context.Context) error

	// Close stops the health check and closes the Redis connection
	Close() error
}

type limiter struct {
	config         Config
	redis          adapter.RedisClient
	clock          adapter.Clock
	local          *rate.Limiter
	preFilter      *rate.Limiter
	redisAvailable atomic.Bool
	closed         atomic.Bool
	done           chan struct{}
	closeOnce      sync.Once
}

// NewLimiter creates a limiter backed by Redis.
// An unreachable Redis is an error unless LocalFallback is enabled.
func NewLimiter(cfg Config, rc adapter.RedisClient, clock adapter.Clock) (Limiter, error) {
	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisAvailable := true
	if err := rc.Ping(ctx); err != nil {
		redisAvailable = false
		if !cfg.LocalFallback {
			return nil, fmt.Errorf("redis unavailable and fallback disabled: %w", err)
		}
		logger.Warn("Redis unavailable, will use local fallback", zap.Error(err))
	}

	localRate := max(float64(cfg.RequestsPerSecond)*cfg.LocalFallbackMultiplier, 1.0)

	l := &limiter{
		config: cfg,
		redis:  rc,
		clock:  clock,
		local:  rate.NewLimiter(rate.Limit(localRate), cfg.Burst),
		// The pre-filter keeps a single process from flooding Redis with denied requests
		preFilter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		done:      make(chan struct{}),
	}
	l.redisAvailable.Store(redisAvailable)

	go l.monitorRedisHealth()

	logger.Info("Rate limiter initialized",
		zap.String("name", cfg.Name),
		zap.Int("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.Burst),
		zap.Bool("local_fallback", cfg.LocalFallback),
		zap.Bool("redis_available", redisAvailable),
	)

	return l, nil
}

func (l *limiter) Wait(ctx context.Context) error {
	for {
		if l.closed.Load() {
			return ErrClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if l.redisAvailable.Load() {
			allowed, retryAfter, err := l.tryDistributed(ctx)
			switch {
			case err != nil:
				if ctx.Err() != nil {
					return ctx.Err()
				}

				l.redisAvailable.Store(false)
				if !l.config.LocalFallback {
					return fmt.Errorf("redis rate limiter unavailable: %w", err)
				}
				logger.Warn("Redis rate limiter error, falling back to local",
					zap.String("name", l.config.Name),
					zap.Error(err),
				)
			case allowed:
				return nil
			case retryAfter > 0:
				// 50-150% of retryAfter spreads out competing processes
				jitter := time.Duration(float64(retryAfter) * (0.5 + rand.Float64())) //nolint:gosec,G404
				if err := l.sleep(ctx, jitter); err != nil {
					return err
				}
				continue
			}
		}

		if !l.redisAvailable.Load() && l.config.LocalFallback {
			return l.local.Wait(ctx)
		}

		if err := l.sleep(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// tryDistributed returns whether a token was granted, or how long to wait before retrying
func (l *limiter) tryDistributed(ctx context.Context) (bool, time.Duration, error) {
	if err := l.preFilter.Wait(ctx); err != nil {
		return false, 0, err
	}

	key := l.config.KeyPrefix + l.config.Name
	res, err := l.redis.Allow(ctx, key, redis_rate.Limit{
		Rate:   l.config.RequestsPerSecond,
		Burst:  l.config.Burst,
		Period: time.Second,
	})
	if err != nil {
		return false, 0, err
	}

	if res.Allowed == 0 {
		logger.Debug("Rate limit token unavailable, waiting",
			zap.String("name", l.config.Name),
			zap.Duration("retry_after", res.RetryAfter),
			zap.Int("remaining", res.Remaining),
		)
		return false, res.RetryAfter, nil
	}

	return true, 0, nil
}

func (l *limiter) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrClosed
	case <-l.clock.After(d):
		return nil
	}
}

// monitorRedisHealth re-enables the distributed limiter once Redis answers again
func (l *limiter) monitorRedisHealth() {
	for {
		select {
		case <-l.done:
			return
		case <-l.clock.After(l.config.HealthCheckInterval):
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := l.redis.Ping(ctx)
		cancel()

		wasAvailable := l.redisAvailable.Swap(err == nil)
		if !wasAvailable && err == nil {
			logger.Info("Redis connection restored", zap.String("name", l.config.Name))
		}
	}
}

func (l *limiter) Close() error {
	var err error
	l.closeOnce.Do(func() {
		l.closed.Store(true)
		close(l.done)

		if closeErr := l.redis.Close(); closeErr != nil {
			logger.Warn("Error closing Redis connection", zap.Error(closeErr))
			err = closeErr
		}
	})
	return err
}

// validateConfig validates and sets defaults for the configuration
func validateConfig(cfg *Config) error {
	if cfg.Name == "" {
		return fmt.Errorf("name is required")
	}
	if cfg.RequestsPerSecond <= 0 {
		return fmt.Errorf("%s: requests_per_second must be positive", cfg.Name)
	}

	if cfg.Burst <= 0 {
		cfg.Burst = cfg.RequestsPerSecond
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}
	if cfg.LocalFallbackMultiplier <= 0 {
		cfg.LocalFallbackMultiplier = defaultFallbackMultiplier
	}
	if cfg.HealthCheckInterval <= 0 {
		cfg.HealthCheckInterval = defaultHealthCheckInterval
	}

	return nil
}
