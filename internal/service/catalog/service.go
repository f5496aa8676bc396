package catalog

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/cache"
	"github.com/TongyunK/orderFood-system/internal/config"
	"github.com/TongyunK/orderFood-system/internal/dto"
	"github.com/TongyunK/orderFood-system/internal/entity"
	catalogrepo "github.com/TongyunK/orderFood-system/internal/repository/catalog"
	"github.com/TongyunK/orderFood-system/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/TongyunK/orderFood-system/service/catalog")

const menuCacheKey = "catalog:menu:active"

// Store is the slice of the catalog repository the menu needs.
type Store interface {
	ActiveItems(ctx context.Context) ([]*entity.MenuItem, error)
}

// Service serves the kiosk menu. Listings are cached; the database stays the
// source of truth and cache failures degrade to direct reads.
type Service struct {
	store  Store
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Store  *catalogrepo.Repository
	Cache  cache.Store
	Config config.Config
	Logger *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		store:  p.Store,
		cache:  p.Cache,
		ttl:    p.Config.Cache.DefaultTTL,
		logger: p.Logger,
	}
}

// Menu lists the active menu items, cache first.
func (s *Service) Menu(ctx context.Context) ([]dto.MenuItemResponse, error) {
	ctx, span := serviceTracer.Start(ctx, "CatalogService.Menu")
	defer span.End()

	if cached, err := s.cache.Get(ctx, menuCacheKey); err == nil {
		var menu []dto.MenuItemResponse
		if err := json.Unmarshal(cached, &menu); err == nil {
			return menu, nil
		}
		// A corrupt entry falls through to the database and gets rewritten.
		s.logger.Warn("discarding unreadable menu cache entry")
	}

	items, err := s.store.ActiveItems(ctx)
	if err != nil {
		return nil, errorbank.Internal("failed to load menu", errorbank.WithCause(err))
	}

	menu := make([]dto.MenuItemResponse, 0, len(items))
	for _, item := range items {
		menu = append(menu, dto.MenuItemResponse{
			ID:     item.ID,
			NameZH: item.NameZH,
			NameEN: item.NameEN,
			Price:  item.Price,
		})
	}

	if encoded, err := json.Marshal(menu); err == nil {
		if err := s.cache.Set(ctx, menuCacheKey, encoded, s.ttl); err != nil {
			s.logger.Warn("menu cache write failed", zap.Error(err))
		}
	}
	return menu, nil
}

// Invalidate drops the cached menu listing.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, menuCacheKey)
}
