package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/fala_cidadao/internal/repository"
	"github.com/shenikar/fala_cidadao/internal/service"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T, ttl time.Duration) (service.Locker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	logger, _ := test.NewNullLogger()
	return repository.NewRedisLocker(client, ttl, logger), mr
}

func TestWithLock_HoldsKeyDuringFnAndReleases(t *testing.T) {
	// Подготовка
	locker, mr := newTestLocker(t, time.Second)
	heldInside := false

	// Действие
	err := locker.WithLock(context.Background(), func(ctx context.Context) error {
		heldInside = mr.Exists(repository.CollectionLockKey)
		return nil
	})

	// Проверки
	require.NoError(t, err)
	assert.True(t, heldInside)
	assert.False(t, mr.Exists(repository.CollectionLockKey))
}

func TestWithLock_ReturnsFnError(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	boom := errors.New("save failed")

	err := locker.WithLock(context.Background(), func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(repository.CollectionLockKey))
}

func TestWithLock_BusyWhenHeldElsewhere(t *testing.T) {
	// Подготовка: блокировку держит другая реплика
	locker, mr := newTestLocker(t, 300*time.Millisecond)
	require.NoError(t, mr.Set(repository.CollectionLockKey, "other-replica-token"))
	called := false

	// Действие
	err := locker.WithLock(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})

	// Проверки
	assert.ErrorIs(t, err, service.ErrCollectionBusy)
	assert.False(t, called)
	got, getErr := mr.Get(repository.CollectionLockKey)
	require.NoError(t, getErr)
	assert.Equal(t, "other-replica-token", got)
}

func TestWithLock_CallerCancelIsNotBusy(t *testing.T) {
	locker, mr := newTestLocker(t, time.Second)
	require.NoError(t, mr.Set(repository.CollectionLockKey, "other-replica-token"))
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	err := locker.WithLock(ctx, func(ctx context.Context) error { return nil })

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.NotErrorIs(t, err, service.ErrCollectionBusy)
}
