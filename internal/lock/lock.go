package lock

import (
	"context"
	"errors"
	"fmt"
)

var ErrLockNotAcquired = errors.New("slot lock not acquired")

// SlotKey identifies one bookable doctor slot.
type SlotKey struct {
	DoctorID string
	Date     string
	Time     string
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s:%s:%s", k.DoctorID, k.Date, k.Time)
}

// Locker is used by the appointment ledger to guard check-then-insert per slot.
type Locker interface {
	WithSlotLock(ctx context.Context, key SlotKey, fn func(ctx context.Context) error) error
}
