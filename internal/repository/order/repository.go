package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/TongyunK/orderFood-system/internal/database"
	"github.com/TongyunK/orderFood-system/internal/entity"
	"github.com/TongyunK/orderFood-system/internal/sequence"
)

var repoTracer = otel.Tracer("github.com/TongyunK/orderFood-system/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Repository persists orders and their lines. Creation runs the sequence
// allocation, the order insert, and the line inserts in one transaction so
// either everything exists afterwards or nothing does.
type Repository struct {
	writer    *bun.DB
	reader    *bun.DB
	allocator *sequence.Allocator
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections, allocator *sequence.Allocator) *Repository {
	return &Repository{
		writer:    conns.Writer,
		reader:    conns.Reader,
		allocator: allocator,
	}
}

// Create allocates the daily sequence, fills order.Code and
// order.DailySequence, and persists the order with its lines atomically.
func (r *Repository) Create(ctx context.Context, order *entity.Order, lines []*entity.OrderLine) error {
	if order == nil {
		return errors.New("nil order")
	}
	if len(lines) == 0 {
		return errors.New("order has no lines")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.Int("lines", len(lines))))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		alloc, err := r.allocator.Allocate(ctx, tx, order.Kind, order.StoreID)
		if err != nil {
			return fmt.Errorf("allocate sequence: %w", err)
		}
		order.Code = alloc.Code
		order.DailySequence = alloc.DailySequence

		if _, err := tx.NewInsert().Model(order).Exec(ctx); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		for _, line := range lines {
			line.OrderID = order.ID
		}
		if _, err := tx.NewInsert().Model(&lines).Exec(ctx); err != nil {
			return fmt.Errorf("insert order lines: %w", err)
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transaction failed")
		return err
	}
	return nil
}

// GetByID fetches an order by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// GetWithLines fetches an order and its line items. Reads go through the
// writer so a print task enqueued right after commit never misses the row
// on a lagging replica.
func (r *Repository) GetWithLines(ctx context.Context, id int64) (*entity.Order, []*entity.OrderLine, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetWithLines", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.writer.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, nil, err
	}

	var lines []*entity.OrderLine
	err = r.writer.NewSelect().Model(&lines).
		Where("order_id = ?", id).
		Order("id").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select lines failed")
		return nil, nil, err
	}
	return order, lines, nil
}

// UpdatePrintOutcome records the asynchronous print result onto the order.
// Called exactly once per print attempt; failures here are the caller's to
// log, never to surface.
func (r *Repository) UpdatePrintOutcome(ctx context.Context, id int64, status entity.PrintStatus, message string) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdatePrintOutcome", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("print.status", string(status)),
	))
	defer span.End()

	res, err := r.writer.NewUpdate().Model((*entity.Order)(nil)).
		Set("print_status = ?", status).
		Set("print_message = ?", message).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}
