package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/sirupsen/logrus"
)

// CollectionLockKey - распределённая блокировка записи коллекции
const CollectionLockKey = "falaCidadao:demandas:lock"

const lockRetryInterval = 100 * time.Millisecond

type RedisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger *logrus.Logger) service.Locker {
	return &RedisLocker{
		locker: redislock.New(client),
		ttl:    ttl,
		logger: logger,
	}
}

// WithLock выполняет fn под блокировкой; ждёт не дольше TTL
func (l *RedisLocker) WithLock(ctx context.Context, fn func(ctx context.Context) error) error {
	retries := int(l.ttl / lockRetryInterval)
	lock, err := l.locker.Obtain(ctx, CollectionLockKey, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), retries),
	})
	// без своего дедлайна redislock ограничивает ожидание TTL, и ретраи могут упереться в него
	if errors.Is(err, redislock.ErrNotObtained) || (errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil) {
		return service.ErrCollectionBusy
	}
	if err != nil {
		return fmt.Errorf("failed to obtain collection lock: %w", err)
	}
	defer func() {
		// отдельный контекст: запрос мог быть отменён
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.logger.WithError(err).Warn("Failed to release collection lock")
		}
	}()

	return fn(ctx)
}
