//go:build integration

package lock

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"
)

func TestRedisLockerIntegration(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	rdb, err := NewRedisClient(ctx, addr, "", "")
	if err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	defer rdb.Close()

	l := NewRedisSlotLocker(rdb, 2*time.Second)
	key := SlotKey{DoctorID: "it", Date: "2030-01-01", Time: "09:00"}

	err = l.WithSlotLock(ctx, key, func(ctx context.Context) error {
		inner := l.WithSlotLock(ctx, key, func(context.Context) error { return nil })
		if !errors.Is(inner, ErrLockNotAcquired) {
			t.Errorf("expected ErrLockNotAcquired, got %v", inner)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if n, _ := rdb.Exists(ctx, "lock:slot:"+key.String()).Result(); n != 0 {
		t.Error("lock key should be deleted after release")
	}
}
