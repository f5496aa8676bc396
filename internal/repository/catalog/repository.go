package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TongyunK/orderFood-system/internal/database"
	"github.com/TongyunK/orderFood-system/internal/entity"
)

var repoTracer = otel.Tracer("github.com/TongyunK/orderFood-system/repository/catalog")

// ErrNotFound is returned when a catalog row is missing.
var ErrNotFound = errors.New("catalog entry not found")

// Repository provides read access to menu items and payment methods.
// The order core never writes catalog rows.
type Repository struct {
	reader *bun.DB
}

// NewRepository wires a repository backed by the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{reader: conns.Reader}
}

// ActiveItems lists all active menu items ordered by id.
func (r *Repository) ActiveItems(ctx context.Context) ([]*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "CatalogRepository.ActiveItems")
	defer span.End()

	var items []*entity.MenuItem
	err := r.reader.NewSelect().Model(&items).
		Where("active").
		Order("id").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return items, nil
}

// ActiveItemsByID fetches the active menu items among ids, keyed by id.
// Callers detect missing or inactive references by absent map entries.
func (r *Repository) ActiveItemsByID(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "CatalogRepository.ActiveItemsByID", trace.WithAttributes(attribute.Int("count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return map[int64]*entity.MenuItem{}, nil
	}

	var items []*entity.MenuItem
	err := r.reader.NewSelect().Model(&items).
		Where("id IN (?)", bun.In(ids)).
		Where("active").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	byID := make(map[int64]*entity.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

// ItemsByID fetches menu items regardless of active flag; receipts for
// already-committed orders must still resolve names after deactivation.
func (r *Repository) ItemsByID(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error) {
	ctx, span := repoTracer.Start(ctx, "CatalogRepository.ItemsByID", trace.WithAttributes(attribute.Int("count", len(ids))))
	defer span.End()

	if len(ids) == 0 {
		return map[int64]*entity.MenuItem{}, nil
	}

	var items []*entity.MenuItem
	err := r.reader.NewSelect().Model(&items).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}

	byID := make(map[int64]*entity.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return byID, nil
}

// ActivePaymentMethod fetches a payment method that must exist and be active.
func (r *Repository) ActivePaymentMethod(ctx context.Context, id int64) (*entity.PaymentMethod, error) {
	ctx, span := repoTracer.Start(ctx, "CatalogRepository.ActivePaymentMethod", trace.WithAttributes(attribute.Int64("payment_method.id", id)))
	defer span.End()

	method := new(entity.PaymentMethod)
	err := r.reader.NewSelect().Model(method).
		Where("id = ?", id).
		Where("active").
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return method, nil
}

// PaymentMethod fetches a payment method by id regardless of active flag.
func (r *Repository) PaymentMethod(ctx context.Context, id int64) (*entity.PaymentMethod, error) {
	ctx, span := repoTracer.Start(ctx, "CatalogRepository.PaymentMethod", trace.WithAttributes(attribute.Int64("payment_method.id", id)))
	defer span.End()

	method := new(entity.PaymentMethod)
	err := r.reader.NewSelect().Model(method).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return method, nil
}
