package service

import (
	"context"
	"fmt"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/util"
	"math_quiz_backend/pkg/logger"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// UserLocker serializes work on one user's records. Different users never
// contend.
type UserLocker interface {
	// Lock blocks until the user's lock is held or ctx is done. The returned
	// func releases it.
	Lock(ctx context.Context, userID uint) (func(), error)
}

// LocalLocker is an in-process keyed mutex for single-instance deployments.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[uint]*userLock
}

type userLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[uint]*userLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, userID uint) (func(), error) {
	l.mu.Lock()
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{ch: make(chan struct{}, 1)}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	select {
	case ul.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(userID, ul, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.release(userID, ul, true) })
	}, nil
}

func (l *LocalLocker) release(userID uint, ul *userLock, held bool) {
	if held {
		<-ul.ch
	}
	l.mu.Lock()
	ul.refs--
	if ul.refs == 0 {
		delete(l.locks, userID)
	}
	l.mu.Unlock()
}

// releaseScript deletes the key only if it still holds our token, so an
// expired lock taken over by another holder is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds a SET NX lock per user so submissions serialize across
// instances. The TTL bounds how long a crashed holder blocks the user.
type RedisLocker struct {
	Client *redis.Client
	TTL    time.Duration
	Retry  time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{Client: client, TTL: ttl, Retry: 50 * time.Millisecond}
}

func (l *RedisLocker) key(userID uint) string {
	return fmt.Sprintf("math_quiz:lock:progress:%d", userID)
}

func (l *RedisLocker) Lock(ctx context.Context, userID uint) (func(), error) {
	key := l.key(userID)
	token := model.GenerateUUID()

	ticker := time.NewTicker(l.Retry)
	defer ticker.Stop()
	for {
		ok, err := l.Client.SetNX(ctx, key, token, l.TTL).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", util.ErrSubmitInProgress, ctx.Err())
		case <-ticker.C:
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Release on a fresh context so a cancelled request still unlocks.
			releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			l.release(releaseCtx, userID, key, token)
		})
	}, nil
}

// release drops the lock if it still holds token. A failure leaves the user
// locked until the TTL runs out, so it is logged.
func (l *RedisLocker) release(ctx context.Context, userID uint, key, token string) error {
	if err := releaseScript.Run(ctx, l.Client, []string{key}, token).Err(); err != nil {
		logger.Log.Warn("Failed to release submit lock",
			zap.Uint("userID", userID),
			zap.String("key", key),
			zap.Error(err),
		)
		return err
	}
	return nil
}
