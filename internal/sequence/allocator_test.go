package sequence

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/entity"
)

// memStore mimics the settings repository on a plain map. The bun.IDB
// argument is ignored; tests never open a database.
type memStore struct {
	values  map[string]string
	failGet bool
	failSet bool
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, _ bun.IDB, key string) (string, bool, error) {
	if m.failGet {
		return "", false, errors.New("store unreachable")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) GetForUpdate(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	return m.Get(ctx, db, key)
}

func (m *memStore) Set(_ context.Context, _ bun.IDB, key string, value any) error {
	if m.failSet {
		return errors.New("store unreachable")
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		return err
	}
	switch v := decoded.(type) {
	case string:
		m.values[key] = v
	case float64:
		m.values[key] = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		m.values[key] = string(encoded)
	}
	return nil
}

func (m *memStore) Ensure(ctx context.Context, db bun.IDB, key string, value any) error {
	if _, ok := m.values[key]; ok {
		return nil
	}
	return m.Set(ctx, db, key, value)
}

// lateRowStore simulates the losing side of two racing first-ever
// allocations: the initial locked read misses because the winner's insert is
// not yet committed, and only after Ensure blocks on the conflict does the
// winner's committed state become visible.
type lateRowStore struct {
	*memStore
	missedDate bool
}

func (l *lateRowStore) GetForUpdate(ctx context.Context, db bun.IDB, key string) (string, bool, error) {
	if key == entity.SettingDailySequenceDay && !l.missedDate {
		l.missedDate = true
		return "", false, nil
	}
	return l.memStore.GetForUpdate(ctx, db, key)
}

func testAllocator(store SettingsStore, at time.Time) *Allocator {
	return &Allocator{
		settings: store,
		now:      func() time.Time { return at },
		rand:     func() int { return 42 },
		logger:   zap.NewNop(),
	}
}

func TestAllocateFreshDayStartsAtOne(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store, time.Date(2026, 8, 29, 12, 30, 5, 0, time.Local))

	got, err := a.Allocate(context.Background(), nil, entity.KindDineIn, 7)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got.DailySequence != 1 {
		t.Fatalf("DailySequence = %d, want 1", got.DailySequence)
	}
	if got.Code != "D00720260829123005420001" {
		t.Fatalf("Code = %q", got.Code)
	}
}

func TestAllocateSeedsMissingDateRow(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store, time.Date(2026, 8, 29, 12, 30, 5, 0, time.Local))

	if _, err := a.Allocate(context.Background(), nil, entity.KindDineIn, 7); err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if _, ok := store.values[entity.SettingDailySequenceDay]; !ok {
		t.Fatalf("date row must exist after the first allocation")
	}
}

func TestAllocateRacingFirstAllocationsStayUnique(t *testing.T) {
	at := time.Date(2026, 8, 29, 12, 30, 5, 0, time.Local)
	winner := newMemStore()
	winner.values[entity.SettingDailySequenceDay] = at.Format("20060102")
	winner.values[entity.SettingDineInSequence] = "1"

	// The loser's first locked read saw no row; after seeding the date key
	// it must re-read, adopt the winner's state, and take 2, not 1 again.
	loser := &lateRowStore{memStore: winner}
	a := testAllocator(loser, at)

	got, err := a.Allocate(context.Background(), nil, entity.KindDineIn, 7)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got.DailySequence != 2 {
		t.Fatalf("DailySequence = %d, want 2", got.DailySequence)
	}
}

func TestAllocateIncrementsWithinDay(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store, time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local))

	for want := 1; want <= 5; want++ {
		got, err := a.Allocate(context.Background(), nil, entity.KindTakeout, 1)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", want, err)
		}
		if got.DailySequence != want {
			t.Fatalf("DailySequence = %d, want %d", got.DailySequence, want)
		}
	}
}

func TestAllocateKindsCountIndependently(t *testing.T) {
	store := newMemStore()
	a := testAllocator(store, time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := a.Allocate(ctx, nil, entity.KindDineIn, 1); err != nil {
			t.Fatalf("dine-in allocate: %v", err)
		}
	}
	got, err := a.Allocate(ctx, nil, entity.KindTakeout, 1)
	if err != nil {
		t.Fatalf("takeout allocate: %v", err)
	}
	if got.DailySequence != 1 {
		t.Fatalf("takeout DailySequence = %d, want 1", got.DailySequence)
	}
}

func TestAllocateDayRolloverResetsBothKinds(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	day1 := testAllocator(store, time.Date(2026, 8, 28, 23, 50, 0, 0, time.Local))
	for i := 0; i < 4; i++ {
		if _, err := day1.Allocate(ctx, nil, entity.KindDineIn, 1); err != nil {
			t.Fatalf("day1 dine-in: %v", err)
		}
	}
	if _, err := day1.Allocate(ctx, nil, entity.KindTakeout, 1); err != nil {
		t.Fatalf("day1 takeout: %v", err)
	}

	day2 := testAllocator(store, time.Date(2026, 8, 29, 0, 5, 0, 0, time.Local))
	dineIn, err := day2.Allocate(ctx, nil, entity.KindDineIn, 1)
	if err != nil {
		t.Fatalf("day2 dine-in: %v", err)
	}
	if dineIn.DailySequence != 1 {
		t.Fatalf("day2 dine-in sequence = %d, want 1", dineIn.DailySequence)
	}
	takeout, err := day2.Allocate(ctx, nil, entity.KindTakeout, 1)
	if err != nil {
		t.Fatalf("day2 takeout: %v", err)
	}
	if takeout.DailySequence != 1 {
		t.Fatalf("day2 takeout sequence = %d, want 1", takeout.DailySequence)
	}
}

func TestAllocateCodePattern(t *testing.T) {
	pattern := regexp.MustCompile(`^[DT]\d{3}\d{8}\d{6}\d{2}\d{4,}$`)
	store := newMemStore()
	store.values[entity.SettingStoreNumber] = "005"
	a := testAllocator(store, time.Date(2026, 8, 29, 18, 45, 59, 0, time.Local))

	for _, kind := range []entity.OrderKind{entity.KindDineIn, entity.KindTakeout} {
		got, err := a.Allocate(context.Background(), nil, kind, 5)
		if err != nil {
			t.Fatalf("Allocate: %v", err)
		}
		if !pattern.MatchString(got.Code) {
			t.Fatalf("code %q does not match pattern", got.Code)
		}
		if got.Code[:1] != kind.BusinessCode() {
			t.Fatalf("code %q: business code mismatch for kind %v", got.Code, kind)
		}
		if got.Code[1:4] != "005" {
			t.Fatalf("code %q: store number not taken from settings", got.Code)
		}
	}
}

func TestAllocateSequenceWidensPast9999(t *testing.T) {
	at := time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local)
	store := newMemStore()
	store.values[entity.SettingDailySequenceDay] = at.Format("20060102")
	store.values[entity.SettingDineInSequence] = "9999"
	a := testAllocator(store, at)

	got, err := a.Allocate(context.Background(), nil, entity.KindDineIn, 1)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got.DailySequence != 10000 {
		t.Fatalf("DailySequence = %d, want 10000", got.DailySequence)
	}
	if got.Code[len(got.Code)-5:] != "10000" {
		t.Fatalf("code %q should end in a widened 5-digit sequence", got.Code)
	}
	if ShortCode(entity.KindDineIn, got.DailySequence) != "D10000" {
		t.Fatalf("ShortCode widened wrong: %q", ShortCode(entity.KindDineIn, got.DailySequence))
	}
}

func TestAllocateFailsWhenCounterUnreachable(t *testing.T) {
	store := newMemStore()
	store.failSet = true
	a := testAllocator(store, time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local))

	if _, err := a.Allocate(context.Background(), nil, entity.KindDineIn, 1); err == nil {
		t.Fatal("expected error when counter store is unreachable")
	}
}

func TestShortCode(t *testing.T) {
	if got := ShortCode(entity.KindDineIn, 7); got != "D0007" {
		t.Fatalf("ShortCode = %q, want D0007", got)
	}
	if got := ShortCode(entity.KindTakeout, 123); got != "T0123" {
		t.Fatalf("ShortCode = %q, want T0123", got)
	}
}

func TestFallbackCodeShape(t *testing.T) {
	a := testAllocator(newMemStore(), time.Date(2026, 8, 29, 10, 0, 0, 0, time.Local))
	got := a.FallbackCode(entity.KindTakeout, 2)
	if !regexp.MustCompile(`^T\d{3}\d{8}\d{6}\d{2}0000$`).MatchString(got) {
		t.Fatalf("fallback code %q has wrong shape", got)
	}
}
