package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/cache"
	"github.com/TongyunK/orderFood-system/internal/dto"
	"github.com/TongyunK/orderFood-system/internal/entity"
)

type fakeStore struct {
	items []*entity.MenuItem
	err   error
	calls int
}

func (f *fakeStore) ActiveItems(ctx context.Context) ([]*entity.MenuItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type memoryCache struct {
	values map[string][]byte
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string][]byte{}}
}

func (m *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return nil, cache.ErrMiss
}

func (m *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memoryCache) Delete(ctx context.Context, key string) error {
	delete(m.values, key)
	return nil
}

func newTestService(store Store, c cache.Store) *Service {
	return &Service{store: store, cache: c, ttl: time.Minute, logger: zap.NewNop()}
}

func TestMenuReadsDatabaseAndFillsCache(t *testing.T) {
	store := &fakeStore{items: []*entity.MenuItem{
		{ID: 1, NameZH: "牛肉麵", NameEN: "Beef Noodles", Price: "12.50", Active: true},
		{ID: 2, NameZH: "珍珠奶茶", NameEN: "Bubble Tea", Price: "3.00", Active: true},
	}}
	mem := newMemoryCache()
	s := newTestService(store, mem)

	menu, err := s.Menu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu) != 2 || menu[0].Price != "12.50" {
		t.Fatalf("unexpected menu %+v", menu)
	}
	if _, ok := mem.values[menuCacheKey]; !ok {
		t.Fatalf("menu should be cached after a database read")
	}
}

func TestMenuServesFromCache(t *testing.T) {
	store := &fakeStore{items: []*entity.MenuItem{{ID: 1, NameZH: "牛肉麵", Price: "12.50"}}}
	mem := newMemoryCache()
	s := newTestService(store, mem)

	if _, err := s.Menu(context.Background()); err != nil {
		t.Fatalf("first menu: %v", err)
	}
	if _, err := s.Menu(context.Background()); err != nil {
		t.Fatalf("second menu: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("second call should hit the cache, database calls = %d", store.calls)
	}
}

func TestMenuRecoversFromCorruptCacheEntry(t *testing.T) {
	store := &fakeStore{items: []*entity.MenuItem{{ID: 1, NameZH: "牛肉麵", Price: "12.50"}}}
	mem := newMemoryCache()
	mem.values[menuCacheKey] = []byte("{not json")
	s := newTestService(store, mem)

	menu, err := s.Menu(context.Background())
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	if len(menu) != 1 {
		t.Fatalf("unexpected menu %+v", menu)
	}

	var rewritten []dto.MenuItemResponse
	if err := json.Unmarshal(mem.values[menuCacheKey], &rewritten); err != nil {
		t.Fatalf("cache entry should be rewritten with valid JSON: %v", err)
	}
}

func TestMenuSucceedsWhenCacheWriteFails(t *testing.T) {
	store := &fakeStore{items: []*entity.MenuItem{{ID: 1, NameZH: "牛肉麵", Price: "12.50"}}}
	mem := newMemoryCache()
	mem.setErr = errors.New("redis down")
	s := newTestService(store, mem)

	menu, err := s.Menu(context.Background())
	if err != nil {
		t.Fatalf("a cache write failure must not fail the listing: %v", err)
	}
	if len(menu) != 1 {
		t.Fatalf("unexpected menu %+v", menu)
	}
}

func TestMenuPropagatesDatabaseFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	s := newTestService(store, newMemoryCache())

	if _, err := s.Menu(context.Background()); err == nil {
		t.Fatalf("expected error when the database read fails")
	}
}

func TestInvalidateDropsCachedMenu(t *testing.T) {
	store := &fakeStore{items: []*entity.MenuItem{{ID: 1, NameZH: "牛肉麵", Price: "12.50"}}}
	mem := newMemoryCache()
	s := newTestService(store, mem)

	if _, err := s.Menu(context.Background()); err != nil {
		t.Fatalf("menu: %v", err)
	}
	if err := s.Invalidate(context.Background()); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, ok := mem.values[menuCacheKey]; ok {
		t.Fatalf("cache entry should be gone")
	}
}
