package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// OrderKind distinguishes the two business types, each with its own
// daily sequence counter.
type OrderKind int

const (
	KindDineIn  OrderKind = 0
	KindTakeout OrderKind = 1
)

// Valid reports whether the kind is one of the two supported values.
func (k OrderKind) Valid() bool {
	return k == KindDineIn || k == KindTakeout
}

// BusinessCode returns the single-letter prefix embedded in order codes.
func (k OrderKind) BusinessCode() string {
	if k == KindTakeout {
		return "T"
	}
	return "D"
}

// Label returns the bilingual kind label printed on tickets.
func (k OrderKind) Label() string {
	if k == KindTakeout {
		return "外帶 Takeout"
	}
	return "內用 Dine-In"
}

// PrintStatus tracks the outcome of the asynchronous receipt print.
type PrintStatus string

const (
	PrintPending PrintStatus = "pending"
	PrintSuccess PrintStatus = "success"
	PrintError   PrintStatus = "error"
)

// Order is a paid kiosk order. It is created once inside the allocation
// transaction; only the print outcome fields are mutated afterwards.
//
// Currency amounts are carried as literal decimal strings end to end so the
// receipt renderer reproduces exactly what the client submitted.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID              int64       `bun:",pk,autoincrement"`
	Code            string      `bun:"code,unique"`
	StoreID         int64       `bun:"store_id"`
	Kind            OrderKind   `bun:"kind"`
	TotalAmount     string      `bun:"total_amount,type:numeric"`
	PaymentMethodID *int64      `bun:"payment_method_id"`
	Settled         bool        `bun:"settled"`
	PrintStatus     PrintStatus `bun:"print_status"`
	PrintMessage    string      `bun:"print_message"`
	DailySequence   int         `bun:"daily_sequence"`
	CreatedAt       time.Time   `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP"`
}

// OrderLine is one item row of an order. The unit price is a snapshot taken
// at order time so later menu price changes never alter historical orders.
type OrderLine struct {
	bun.BaseModel `bun:"table:order_lines"`

	ID         int64  `bun:",pk,autoincrement"`
	OrderID    int64  `bun:"order_id"`
	MenuItemID int64  `bun:"menu_item_id"`
	Quantity   int    `bun:"quantity"`
	UnitPrice  string `bun:"unit_price,type:numeric"`
	Subtotal   string `bun:"subtotal,type:numeric"`
}
