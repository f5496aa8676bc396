package dto

import (
	"encoding/json"
	"time"
)

// OrderItemRequest is one requested line. Price arrives as json.Number so
// the literal decimal text survives all the way onto the printed receipt.
type OrderItemRequest struct {
	CatalogItemID int64       `json:"catalogItemId"`
	Quantity      int         `json:"quantity"`
	Price         json.Number `json:"price"`
}

// CreateOrderRequest is the kiosk order submission payload.
type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     json.Number        `json:"totalAmount"`
	StoreID         int64              `json:"storeId,omitempty"`
	OrderKind       int                `json:"orderKind"`
	PaymentMethodID *int64             `json:"paymentMethodId,omitempty"`
}

// CreateOrderResponse reports a successfully persisted order. Print outcome
// is deliberately absent; it resolves asynchronously.
type CreateOrderResponse struct {
	Code          string `json:"code"`
	DailySequence int    `json:"dailySequence"`
}

// OrderResponse represents an order as exposed via transport layers.
type OrderResponse struct {
	ID            int64     `json:"id"`
	Code          string    `json:"code"`
	StoreID       int64     `json:"storeId"`
	OrderKind     int       `json:"orderKind"`
	TotalAmount   string    `json:"totalAmount"`
	Settled       bool      `json:"settled"`
	PrintStatus   string    `json:"printStatus"`
	PrintMessage  string    `json:"printMessage,omitempty"`
	DailySequence int       `json:"dailySequence"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MenuItemResponse is an active catalog entry as shown to the kiosk UI.
type MenuItemResponse struct {
	ID     int64  `json:"id"`
	NameZH string `json:"nameZh"`
	NameEN string `json:"nameEn"`
	Price  string `json:"price"`
}
