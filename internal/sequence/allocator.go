// Package sequence issues the daily, per-kind order numbers and composes the
// long-form order code embedded in tickets. Counter state lives in the
// settings table so numbering survives restarts and multiple instances; the
// enclosing database transaction is the only concurrency guard.
package sequence

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/entity"
)

// SettingsStore is the slice of the settings repository the allocator needs.
// Reads and writes go through the caller-supplied bun.IDB so they join the
// order-insert transaction.
type SettingsStore interface {
	Get(ctx context.Context, db bun.IDB, key string) (string, bool, error)
	GetForUpdate(ctx context.Context, db bun.IDB, key string) (string, bool, error)
	Set(ctx context.Context, db bun.IDB, key string, value any) error
	Ensure(ctx context.Context, db bun.IDB, key string, value any) error
}

// Allocation is the result of one sequence grant.
type Allocation struct {
	// Code is the long-form composite order code:
	// businessCode + store(3) + yyyymmdd(8) + HHMMSS(6) + rand(2) + seq(4+).
	Code string
	// DailySequence is the bare counter driving the short ticket number.
	DailySequence int
}

// Allocator grants strictly increasing daily sequence numbers per order kind.
type Allocator struct {
	settings SettingsStore
	now      func() time.Time
	rand     func() int // two-digit noise component, 0..99
	logger   *zap.Logger
}

// NewAllocator constructs an Allocator using wall-clock time.
func NewAllocator(settings SettingsStore, logger *zap.Logger) *Allocator {
	return &Allocator{
		settings: settings,
		now:      time.Now,
		rand:     func() int { return rand.Intn(100) },
		logger:   logger,
	}
}

// counterKey maps an order kind to its settings counter key.
func counterKey(kind entity.OrderKind) string {
	if kind == entity.KindTakeout {
		return entity.SettingTakeoutSequence
	}
	return entity.SettingDineInSequence
}

func otherCounterKey(kind entity.OrderKind) string {
	if kind == entity.KindTakeout {
		return entity.SettingDineInSequence
	}
	return entity.SettingTakeoutSequence
}

// Allocate issues the next daily sequence for kind and composes the order
// code. It must run inside the same transaction that inserts the order so
// the counter's read-modify-write is serialized with the insert; any error
// here aborts that transaction.
func (a *Allocator) Allocate(ctx context.Context, tx bun.IDB, kind entity.OrderKind, storeID int64) (Allocation, error) {
	now := a.now()
	today := now.Format("20060102")

	storedDay, ok, err := a.settings.GetForUpdate(ctx, tx, entity.SettingDailySequenceDay)
	if err != nil {
		return Allocation{}, fmt.Errorf("read sequence date: %w", err)
	}
	if !ok {
		// No date row means there was nothing to lock: under read committed,
		// two first-ever transactions would both miss here and both start at
		// 1. Insert the row without overwriting (a racing loser blocks on the
		// conflict until the winner commits), then re-read under a real lock.
		if err := a.settings.Ensure(ctx, tx, entity.SettingDailySequenceDay, ""); err != nil {
			return Allocation{}, fmt.Errorf("seed sequence date: %w", err)
		}
		storedDay, _, err = a.settings.GetForUpdate(ctx, tx, entity.SettingDailySequenceDay)
		if err != nil {
			return Allocation{}, fmt.Errorf("read sequence date: %w", err)
		}
	}

	seq := 1
	if storedDay == today {
		raw, ok, err := a.settings.GetForUpdate(ctx, tx, counterKey(kind))
		if err != nil {
			return Allocation{}, fmt.Errorf("read %s: %w", counterKey(kind), err)
		}
		if ok {
			var current int
			if _, err := fmt.Sscanf(raw, "%d", &current); err != nil {
				return Allocation{}, fmt.Errorf("corrupt counter %s=%q", counterKey(kind), raw)
			}
			seq = current + 1
		}
	} else {
		// New calendar day: both kinds restart. The other kind's counter is
		// zeroed so its first allocation today lands on 1.
		if err := a.settings.Set(ctx, tx, entity.SettingDailySequenceDay, today); err != nil {
			return Allocation{}, fmt.Errorf("reset sequence date: %w", err)
		}
		if err := a.settings.Set(ctx, tx, otherCounterKey(kind), 0); err != nil {
			return Allocation{}, fmt.Errorf("reset %s: %w", otherCounterKey(kind), err)
		}
	}

	if err := a.settings.Set(ctx, tx, counterKey(kind), seq); err != nil {
		return Allocation{}, fmt.Errorf("persist %s: %w", counterKey(kind), err)
	}

	code := a.compose(ctx, tx, kind, storeID, now, seq)
	return Allocation{Code: code, DailySequence: seq}, nil
}

func (a *Allocator) compose(ctx context.Context, tx bun.IDB, kind entity.OrderKind, storeID int64, now time.Time, seq int) string {
	store := a.storeNumber(ctx, tx, storeID)
	return fmt.Sprintf("%s%s%s%s%02d%04d",
		kind.BusinessCode(),
		store,
		now.Format("20060102"),
		now.Format("150405"),
		a.rand(),
		seq,
	)
}

// storeNumber resolves the 3-digit store label from settings, falling back
// to the numeric store id.
func (a *Allocator) storeNumber(ctx context.Context, db bun.IDB, storeID int64) string {
	value, ok, err := a.settings.Get(ctx, db, entity.SettingStoreNumber)
	if err != nil {
		a.logger.Warn("store number lookup failed", zap.Error(err))
	}
	if err == nil && ok && value != "" {
		if len(value) >= 3 {
			return value[:3]
		}
		return strings.Repeat("0", 3-len(value)) + value
	}
	return fmt.Sprintf("%03d", storeID)
}

// FallbackCode derives a code from the timestamp alone. It carries no
// uniqueness guarantee and exists only for contexts with no transaction,
// such as reprint tooling; the allocator itself never uses it.
func (a *Allocator) FallbackCode(kind entity.OrderKind, storeID int64) string {
	now := a.now()
	return fmt.Sprintf("%s%03d%s%s%02d0000",
		kind.BusinessCode(),
		storeID,
		now.Format("20060102"),
		now.Format("150405"),
		a.rand(),
	)
}

// ShortCode renders the customer-facing ticket number, e.g. "D0007". Past
// 9999 the padding widens silently, matching the long code's behaviour.
func ShortCode(kind entity.OrderKind, seq int) string {
	return fmt.Sprintf("%s%04d", kind.BusinessCode(), seq)
}
