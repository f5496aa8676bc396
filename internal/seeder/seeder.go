package seeder

import (
	"context"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/database"
	"github.com/TongyunK/orderFood-system/internal/entity"
)

// Module exposes the seeder to Fx.
var Module = fx.Provide(New)

// Seeder fills a fresh database with the data a kiosk needs to take its
// first order: store settings, a starter menu, and payment methods.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// All runs every seeder.
func (s *Seeder) All(ctx context.Context) error {
	if err := s.Settings(ctx); err != nil {
		return err
	}
	if err := s.MenuItems(ctx); err != nil {
		return err
	}
	return s.PaymentMethods(ctx)
}

// Settings seeds the store identity keys if they are missing.
func (s *Seeder) Settings(ctx context.Context) error {
	samples := []entity.Setting{
		{Key: entity.SettingStoreNumber, Value: `"001"`},
		{Key: entity.SettingStoreNameZH, Value: `"美味小館"`},
		{Key: entity.SettingStoreNameEN, Value: `"Tasty House"`},
	}

	for _, sample := range samples {
		setting := sample
		_, err := s.db.NewInsert().Model(&setting).
			On("CONFLICT (key) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	s.logger.Info("seeded settings", zap.Int("count", len(samples)))
	return nil
}

// MenuItems seeds a starter menu if the items are missing.
func (s *Seeder) MenuItems(ctx context.Context) error {
	samples := []entity.MenuItem{
		{NameZH: "牛肉麵", NameEN: "Beef Noodles", Price: "12.50", Active: true},
		{NameZH: "滷肉飯", NameEN: "Braised Pork Rice", Price: "8.00", Active: true},
		{NameZH: "珍珠奶茶", NameEN: "Bubble Tea", Price: "3.50", Active: true},
		{NameZH: "炸雞排", NameEN: "Fried Chicken Cutlet", Price: "6.00", Active: true},
	}

	for _, sample := range samples {
		item := sample
		_, err := s.db.NewInsert().Model(&item).
			On("CONFLICT (name_zh) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	s.logger.Info("seeded menu items", zap.Int("count", len(samples)))
	return nil
}

// PaymentMethods seeds the supported payment methods if they are missing.
func (s *Seeder) PaymentMethods(ctx context.Context) error {
	samples := []entity.PaymentMethod{
		{NameZH: "現金", NameEN: "Cash", Active: true},
		{NameZH: "信用卡", NameEN: "Credit Card", Active: true},
		{NameZH: "行動支付", NameEN: "Mobile Payment", Active: true},
	}

	for _, sample := range samples {
		method := sample
		_, err := s.db.NewInsert().Model(&method).
			On("CONFLICT (name_zh) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
	}

	s.logger.Info("seeded payment methods", zap.Int("count", len(samples)))
	return nil
}
