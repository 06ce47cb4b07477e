package lock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		mr.Close()
	})
	return mr, client
}

func exerciseMutualExclusion(t *testing.T, l Locker) {
	t.Helper()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(context.Background(), "profile-1")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()
			time.Sleep(2 * time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocalMutualExclusion(t *testing.T) {
	exerciseMutualExclusion(t, NewLocal())
}

func TestLocalKeysAreIndependent(t *testing.T) {
	l := NewLocal()
	releaseA, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	defer releaseA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	releaseB, err := l.Lock(ctx, "b")
	require.NoError(t, err)
	releaseB()
}

func TestLocalTimeout(t *testing.T) {
	l := NewLocal()
	release, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "a")
	assert.True(t, errors.Is(err, ErrNotAcquired))

	release()
	release()
	again, err := l.Lock(context.Background(), "a")
	require.NoError(t, err)
	again()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.locks)
}

func TestRedisMutualExclusion(t *testing.T) {
	_, client := setupTestRedis(t)
	exerciseMutualExclusion(t, NewRedis(client, RedisOptions{RetryEvery: time.Millisecond}))
}

func TestRedisReleaseOnlyOwnToken(t *testing.T) {
	mr, client := setupTestRedis(t)
	l := NewRedis(client, RedisOptions{TTL: time.Second, RetryEvery: time.Millisecond})

	release, err := l.Lock(context.Background(), "p")
	require.NoError(t, err)
	assert.True(t, mr.Exists("typequest:lock:p"))

	// Simulate expiry and a new holder.
	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists("typequest:lock:p"))
	other, err := l.Lock(context.Background(), "p")
	require.NoError(t, err)

	release()
	assert.True(t, mr.Exists("typequest:lock:p"), "stale release must not drop another holder's lock")
	other()
	assert.False(t, mr.Exists("typequest:lock:p"))
}

func TestRedisTimeout(t *testing.T) {
	_, client := setupTestRedis(t)
	l := NewRedis(client, RedisOptions{RetryEvery: time.Millisecond})
	release, err := l.Lock(context.Background(), "p")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "p")
	assert.ErrorIs(t, err, ErrNotAcquired)
}
