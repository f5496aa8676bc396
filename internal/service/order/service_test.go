package order

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/TongyunK/orderFood-system/internal/dto"
	"github.com/TongyunK/orderFood-system/internal/entity"
	"github.com/TongyunK/orderFood-system/internal/printing"
	catalogrepo "github.com/TongyunK/orderFood-system/internal/repository/catalog"
	orderrepo "github.com/TongyunK/orderFood-system/internal/repository/order"
	"github.com/TongyunK/orderFood-system/pkg/errorbank"
)

type fakeOrderStore struct {
	created      *entity.Order
	createdLines []*entity.OrderLine
	createErr    error

	order  *entity.Order
	getErr error
}

func (f *fakeOrderStore) Create(ctx context.Context, order *entity.Order, lines []*entity.OrderLine) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = 42
	order.Code = "D00120260829120000420001"
	order.DailySequence = 1
	f.created = order
	f.createdLines = lines
	return nil
}

func (f *fakeOrderStore) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.order, nil
}

type fakeCatalog struct {
	active    map[int64]*entity.MenuItem
	activeErr error
	method    *entity.PaymentMethod
	methodErr error
}

func (f *fakeCatalog) ActiveItemsByID(ctx context.Context, ids []int64) (map[int64]*entity.MenuItem, error) {
	if f.activeErr != nil {
		return nil, f.activeErr
	}
	return f.active, nil
}

func (f *fakeCatalog) ActivePaymentMethod(ctx context.Context, id int64) (*entity.PaymentMethod, error) {
	if f.methodErr != nil {
		return nil, f.methodErr
	}
	return f.method, nil
}

type fakeQueue struct {
	tasks []printing.Task
	full  bool
}

func (f *fakeQueue) Enqueue(task printing.Task) bool {
	if f.full {
		return false
	}
	f.tasks = append(f.tasks, task)
	return true
}

func newTestService(store *fakeOrderStore, catalog *fakeCatalog, queue *fakeQueue) *Service {
	return &Service{
		orders:         store,
		catalog:        catalog,
		queue:          queue,
		logger:         zap.NewNop(),
		defaultStoreID: 1,
	}
}

func validRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Items: []dto.OrderItemRequest{
			{CatalogItemID: 11, Quantity: 2, Price: json.Number("12.50")},
		},
		TotalAmount: json.Number("25.00"),
		OrderKind:   int(entity.KindDineIn),
	}
}

func activeCatalog() *fakeCatalog {
	return &fakeCatalog{
		active: map[int64]*entity.MenuItem{11: {ID: 11, NameZH: "牛肉麵", Active: true}},
		method: &entity.PaymentMethod{ID: 2, NameZH: "現金", Active: true},
	}
}

func wantKind(t *testing.T, err error, kind errorbank.Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	var appErr *errorbank.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Kind() != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, appErr.Kind(), appErr)
	}
}

func TestCreateHappyPath(t *testing.T) {
	store := &fakeOrderStore{}
	queue := &fakeQueue{}
	s := newTestService(store, activeCatalog(), queue)

	resp, err := s.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if resp.Code != "D00120260829120000420001" || resp.DailySequence != 1 {
		t.Fatalf("unexpected response %+v", resp)
	}

	if store.created == nil {
		t.Fatalf("order was not persisted")
	}
	if store.created.StoreID != 1 {
		t.Fatalf("store id should fall back to the configured store, got %d", store.created.StoreID)
	}
	if !store.created.Settled {
		t.Fatalf("kiosk orders are settled at creation")
	}
	if store.created.PrintStatus != entity.PrintPending {
		t.Fatalf("print status should start pending, got %q", store.created.PrintStatus)
	}
	if store.created.TotalAmount != "25.00" {
		t.Fatalf("total must keep its literal form, got %q", store.created.TotalAmount)
	}

	if len(store.createdLines) != 1 {
		t.Fatalf("expected one line, got %d", len(store.createdLines))
	}
	line := store.createdLines[0]
	if line.UnitPrice != "12.50" || line.Subtotal != "25.00" {
		t.Fatalf("line amounts wrong: price=%q subtotal=%q", line.UnitPrice, line.Subtotal)
	}

	if len(queue.tasks) != 1 || queue.tasks[0].OrderID != 42 {
		t.Fatalf("a print task should be queued for the new order, got %+v", queue.tasks)
	}
}

func TestCreateRejectsEmptyOrder(t *testing.T) {
	s := newTestService(&fakeOrderStore{}, activeCatalog(), &fakeQueue{})

	req := validRequest()
	req.Items = nil
	_, err := s.Create(context.Background(), req)
	wantKind(t, err, errorbank.KindBadRequest)
}

func TestCreateRejectsInvalidKind(t *testing.T) {
	s := newTestService(&fakeOrderStore{}, activeCatalog(), &fakeQueue{})

	req := validRequest()
	req.OrderKind = 5
	_, err := s.Create(context.Background(), req)
	wantKind(t, err, errorbank.KindBadRequest)
}

func TestCreateRejectsBadAmounts(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*dto.CreateOrderRequest)
	}{
		{"negative total", func(r *dto.CreateOrderRequest) { r.TotalAmount = json.Number("-1.00") }},
		{"exponent total", func(r *dto.CreateOrderRequest) { r.TotalAmount = json.Number("1e2") }},
		{"zero quantity", func(r *dto.CreateOrderRequest) { r.Items[0].Quantity = 0 }},
		{"zero price", func(r *dto.CreateOrderRequest) { r.Items[0].Price = json.Number("0.00") }},
		{"missing item id", func(r *dto.CreateOrderRequest) { r.Items[0].CatalogItemID = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(&fakeOrderStore{}, activeCatalog(), &fakeQueue{})
			req := validRequest()
			tc.mutate(&req)
			_, err := s.Create(context.Background(), req)
			wantKind(t, err, errorbank.KindBadRequest)
		})
	}
}

func TestCreateRejectsInactiveCatalogItem(t *testing.T) {
	catalog := activeCatalog()
	catalog.active = map[int64]*entity.MenuItem{}
	store := &fakeOrderStore{}
	s := newTestService(store, catalog, &fakeQueue{})

	_, err := s.Create(context.Background(), validRequest())
	wantKind(t, err, errorbank.KindUnprocessableEntity)
	if store.created != nil {
		t.Fatalf("nothing should persist when validation fails")
	}
}

func TestCreateRejectsInactivePaymentMethod(t *testing.T) {
	catalog := activeCatalog()
	catalog.methodErr = catalogrepo.ErrNotFound
	s := newTestService(&fakeOrderStore{}, catalog, &fakeQueue{})

	methodID := int64(9)
	req := validRequest()
	req.PaymentMethodID = &methodID
	_, err := s.Create(context.Background(), req)
	wantKind(t, err, errorbank.KindUnprocessableEntity)
}

func TestCreateWrapsRepositoryFailure(t *testing.T) {
	store := &fakeOrderStore{createErr: errors.New("deadlock detected")}
	s := newTestService(store, activeCatalog(), &fakeQueue{})

	_, err := s.Create(context.Background(), validRequest())
	wantKind(t, err, errorbank.KindInternal)
}

func TestCreateSucceedsWhenQueueFull(t *testing.T) {
	queue := &fakeQueue{full: true}
	s := newTestService(&fakeOrderStore{}, activeCatalog(), queue)

	resp, err := s.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("a full print queue must not fail the order: %v", err)
	}
	if resp.Code == "" {
		t.Fatalf("response should carry the order code")
	}
}

func TestGetMapsNotFound(t *testing.T) {
	store := &fakeOrderStore{getErr: orderrepo.ErrNotFound}
	s := newTestService(store, activeCatalog(), &fakeQueue{})

	_, err := s.Get(context.Background(), 404)
	wantKind(t, err, errorbank.KindNotFound)
}

func TestGetReturnsOrder(t *testing.T) {
	store := &fakeOrderStore{order: &entity.Order{ID: 7, Code: "T00120260829120000420002"}}
	s := newTestService(store, activeCatalog(), &fakeQueue{})

	order, err := s.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.Code != "T00120260829120000420002" {
		t.Fatalf("unexpected order %+v", order)
	}
}
