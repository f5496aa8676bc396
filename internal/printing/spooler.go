// Package printing runs the asynchronous receipt path: a committed order is
// handed over as a task, rendered, executed against the printer, and its
// outcome written back onto the order row. One worker goroutine drains the
// queue, which also serializes access to the single printer handle.
package printing

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/entity"
	"github.com/TongyunK/orderFood-system/internal/printer"
	"github.com/TongyunK/orderFood-system/internal/receipt"
)

var spoolTracer = otel.Tracer("github.com/TongyunK/orderFood-system/printing")

// Task identifies one order whose receipt should print. Tasks are not
// persisted and not retried; a dropped task only costs a paper ticket.
type Task struct {
	OrderID int64
}

// OrderStore loads committed orders and records print outcomes.
type OrderStore interface {
	GetWithLines(ctx context.Context, id int64) (*entity.Order, []*entity.OrderLine, error)
	UpdatePrintOutcome(ctx context.Context, id int64, status entity.PrintStatus, message string) error
}

// Catalog resolves display names for receipt rows.
type Catalog interface {
	ItemsByID(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error)
	PaymentMethod(ctx context.Context, id int64) (*entity.PaymentMethod, error)
}

// Settings supplies store identity for the ticket header.
type Settings interface {
	String(ctx context.Context, key, fallback string) string
}

// Executor runs a rendered job on the device.
type Executor interface {
	Execute(job receipt.Job) printer.Result
}

// Spooler is the background print queue.
type Spooler struct {
	tasks    chan Task
	orders   OrderStore
	catalog  Catalog
	settings Settings
	executor Executor
	logger   *zap.Logger
	encoding receipt.Encoding

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSpooler constructs the spooler with a bounded task buffer.
func NewSpooler(
	orders OrderStore,
	catalog Catalog,
	settings Settings,
	executor Executor,
	queueSize int,
	defaultEncoding receipt.Encoding,
	logger *zap.Logger,
) *Spooler {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Spooler{
		tasks:    make(chan Task, queueSize),
		orders:   orders,
		catalog:  catalog,
		settings: settings,
		executor: executor,
		logger:   logger,
		encoding: defaultEncoding,
	}
}

// Enqueue hands a task to the worker without blocking the caller. A full
// queue drops the task and returns false.
func (s *Spooler) Enqueue(task Task) bool {
	select {
	case s.tasks <- task:
		return true
	default:
		return false
	}
}

// Start launches the single worker goroutine.
func (s *Spooler) Start(context.Context) error {
	runCtx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-runCtx.Done():
				return
			case task := <-s.tasks:
				// Detached so a job caught mid-print by shutdown still gets
				// its outcome written back; Stop waits for it via the group.
				s.Process(context.WithoutCancel(runCtx), task)
			}
		}
	}()
	s.logger.Info("print spooler started")
	return nil
}

// Stop cancels the worker and waits for an in-flight job to finish.
func (s *Spooler) Stop(ctx context.Context) error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		s.logger.Info("print spooler stopped")
		return nil
	}
}

// Process prints one order's receipt and records the outcome. Every failure,
// including a rendering panic, lands in the order's print status; nothing
// propagates to the order's creator.
func (s *Spooler) Process(ctx context.Context, task Task) {
	ctx, span := spoolTracer.Start(ctx, "printing.Process", trace.WithAttributes(attribute.Int64("order.id", task.OrderID)))
	defer span.End()

	result := s.attempt(ctx, task)

	status := entity.PrintSuccess
	if !result.Success {
		status = entity.PrintError
		s.logger.Warn("receipt print failed",
			zap.Int64("order_id", task.OrderID),
			zap.String("message", result.Message),
		)
	}

	// Best-effort write-back; a failure here is logged and forgotten.
	if err := s.orders.UpdatePrintOutcome(ctx, task.OrderID, status, result.Message); err != nil {
		s.logger.Error("record print outcome failed",
			zap.Int64("order_id", task.OrderID),
			zap.Error(err),
		)
	}
}

func (s *Spooler) attempt(ctx context.Context, task Task) (result printer.Result) {
	defer func() {
		if r := recover(); r != nil {
			result = printer.Result{Success: false, Message: fmt.Sprintf("print pipeline panic: %v", r)}
		}
	}()

	ticket, err := s.buildTicket(ctx, task.OrderID)
	if err != nil {
		return printer.Result{Success: false, Message: err.Error()}
	}
	return s.executor.Execute(receipt.Render(*ticket))
}

func (s *Spooler) buildTicket(ctx context.Context, orderID int64) (*receipt.Ticket, error) {
	order, lines, err := s.orders.GetWithLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", orderID, err)
	}

	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MenuItemID)
	}
	items, err := s.catalog.ItemsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	rows := make([]receipt.Line, 0, len(lines))
	for _, line := range lines {
		name := fmt.Sprintf("#%d", line.MenuItemID)
		if item, ok := items[line.MenuItemID]; ok {
			name = item.DisplayName()
		}
		rows = append(rows, receipt.Line{
			Name:      name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  line.Subtotal,
		})
	}

	var payment *receipt.PaymentMeta
	if order.PaymentMethodID != nil {
		method, err := s.catalog.PaymentMethod(ctx, *order.PaymentMethodID)
		if err != nil {
			s.logger.Warn("payment method lookup failed; printing without it",
				zap.Int64("payment_method_id", *order.PaymentMethodID),
				zap.Error(err),
			)
		} else {
			payment = &receipt.PaymentMeta{NameZH: method.NameZH, NameEN: method.NameEN}
		}
	}

	return &receipt.Ticket{
		Code:          order.Code,
		DailySequence: order.DailySequence,
		Kind:          order.Kind,
		CreatedAt:     order.CreatedAt,
		TotalAmount:   order.TotalAmount,
		Lines:         rows,
		Store: receipt.StoreMeta{
			NameZH: s.settings.String(ctx, entity.SettingStoreNameZH, ""),
			NameEN: s.settings.String(ctx, entity.SettingStoreNameEN, ""),
		},
		Payment:         payment,
		DefaultEncoding: s.encoding,
	}, nil
}
