package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gabapcia/ethcrawler/internal/admission"
	"github.com/gabapcia/ethcrawler/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// admissionKeyPrefix is the Redis key namespace for admission locks.
	admissionKeyPrefix = "admission"

	// defaultPollInterval is how long a waiting caller sleeps between lock attempts.
	defaultPollInterval = 100 * time.Millisecond

	// releaseTimeout bounds the unlock call, which runs even when the holder's context is done.
	releaseTimeout = 5 * time.Second
)

// releaseScript deletes the lock only while it still holds the caller's token, so
// a holder whose lock expired cannot remove a lock taken by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// refreshScript resets the lock's expiry to ARGV[2] milliseconds while it still
// holds the caller's token. It returns 0 once the lock belongs to someone else.
var refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)

// admissionKey builds the Redis key for the named lock.
//
// Format: "admission:lock:{name}"
func admissionKey(name string) string {
	return fmt.Sprintf("%s:lock:%s", admissionKeyPrefix, name)
}

// lock is an admission.Limiter shared by every process using the same Redis
// server and lock name. It admits a single holder at a time.
type lock struct {
	conn            *redis.Client
	key             string
	ttl             time.Duration
	pollInterval    time.Duration
	refreshInterval time.Duration
}

var _ admission.Limiter = (*lock)(nil)

// Acquire implements admission.Limiter.
//
// The lock is taken with SET NX PX under a random token. While held, its expiry
// is pushed back to a full TTL every refresh interval, so the TTL only bounds how
// long a holder that stopped running keeps others out. While another holder has
// it, Acquire polls until the lock is free or ctx is done.
func (l *lock) Acquire(ctx context.Context) (admission.ReleaseFunc, error) {
	token := uuid.NewString()

	for {
		ok, err := l.conn.SetNX(ctx, l.key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}

		if ok {
			stop, done := make(chan struct{}), make(chan struct{})
			go l.keepAlive(ctx, token, stop, done)

			return l.releaseFunc(ctx, token, stop, done), nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.pollInterval):
		}
	}
}

// keepAlive renews the lock every refreshInterval until stop is closed or the
// lock no longer holds token. It closes done on return.
func (l *lock) keepAlive(ctx context.Context, token string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	if l.ttl <= 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)

	ticker := time.NewTicker(l.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		held, err := l.refresh(ctx, token)
		if err != nil {
			logger.Warn(ctx, "failed to refresh admission lock", "admission.key", l.key, "error", err)
			continue
		}

		if !held {
			logger.Warn(ctx, "admission lock lost before release", "admission.key", l.key)
			return
		}
	}
}

func (l *lock) refresh(ctx context.Context, token string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, releaseTimeout)
	defer cancel()

	renewed, err := refreshScript.Run(ctx, l.conn, []string{l.key}, token, max(l.ttl.Milliseconds(), 1)).Int64()
	if err != nil {
		return false, err
	}

	return renewed == 1, nil
}

func (l *lock) releaseFunc(ctx context.Context, token string, stop chan<- struct{}, done <-chan struct{}) admission.ReleaseFunc {
	var once sync.Once

	return func() {
		once.Do(func() {
			close(stop)
			<-done

			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
			defer cancel()

			if err := releaseScript.Run(ctx, l.conn, []string{l.key}, token).Err(); err != nil {
				logger.Warn(ctx, "failed to release admission lock", "admission.key", l.key, "error", err)
			}
		})
	}
}

// LockOption configures an admission lock.
type LockOption func(*lock)

// WithPollInterval sets how often a waiting caller retries the lock.
//
// Default: 100ms.
func WithPollInterval(d time.Duration) LockOption {
	return func(l *lock) {
		if d > 0 {
			l.pollInterval = d
		}
	}
}

// WithRefreshInterval sets how often a holder renews its lock.
//
// Default: a third of the TTL.
func WithRefreshInterval(d time.Duration) LockOption {
	return func(l *lock) {
		if d > 0 {
			l.refreshInterval = d
		}
	}
}

// AdmissionLock returns a distributed admission.Limiter named name. ttl caps how
// long a holder keeps the lock after it stops renewing it, e.g. when its process
// crashes before releasing.
func (c *client) AdmissionLock(name string, ttl time.Duration, opts ...LockOption) *lock {
	l := &lock{
		conn:            c.conn,
		key:             admissionKey(name),
		ttl:             ttl,
		pollInterval:    defaultPollInterval,
		refreshInterval: max(ttl/3, time.Millisecond),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}
