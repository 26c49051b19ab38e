package types

import (
	"github.com/shopspring/decimal"
)

// CustomerInput carries buyer details for a new order.
type CustomerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// ItemInput describes one purchased line.
type ItemInput struct {
	ProductID string
	SKU       string
	Name      string
	Size      string
	Color     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput records a new order for a store.
type CreateOrderInput struct {
	StoreID        string
	Actor          string
	IdempotencyKey string
	Customer       CustomerInput
	ShippingMethod string
	Items          []ItemInput
	SalesTax       decimal.Decimal
	Shipping       decimal.Decimal
	Note           string
}

// OrderIdentifier addresses one order within a store.
type OrderIdentifier struct {
	StoreID string
	OrderID string
}

type ListStoreOrdersInput struct {
	StoreID  string
	Statuses []string
	Limit    int
	Offset   int
}

// UpdateItemStatusInput moves a single item. A nil Target advances the item
// one step; a non-nil ExpectedVersion rejects the change when the order moved on.
type UpdateItemStatusInput struct {
	StoreID         string
	OrderID         string
	ItemID          string
	Actor           string
	Target          *string
	ExpectedVersion *int64
}

type FulfillOrderInput struct {
	StoreID         string
	OrderID         string
	Actor           string
	ExpectedVersion *int64
}

type CancelOrderInput struct {
	StoreID         string
	OrderID         string
	Actor           string
	Reason          string
	ExpectedVersion *int64
}

type ShipOrderInput struct {
	StoreID string
	OrderID string
	Actor   string
}

// TriggerShipmentInput ships every fulfilled item in a store.
type TriggerShipmentInput struct {
	StoreID string
	Actor   string
}
