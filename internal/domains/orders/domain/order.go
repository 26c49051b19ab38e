package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ShippingMethod describes how an order reaches the customer.
type ShippingMethod string

const (
	// ShippingPrimary ships with the store's bulk delivery to its primary location.
	ShippingPrimary ShippingMethod = "Primary"
	// ShippingDirect ships straight to the customer's address.
	ShippingDirect ShippingMethod = "Direct"
)

var (
	ErrMissingStoreID       = errors.New("store id is required")
	ErrNoItems              = errors.New("order must contain at least one item")
	ErrInvalidQuantity      = errors.New("item quantity must be greater than zero")
	ErrInvalidPrice         = errors.New("item unit price must not be negative")
	ErrMissingSKU           = errors.New("item sku is required")
	ErrInvalidShipping      = errors.New("shipping method is invalid")
	ErrInvalidCustomerEmail = errors.New("customer email must contain '@'")
	ErrInvalidAmount        = errors.New("monetary amounts must not be negative")
	ErrItemNotFound         = errors.New("order item not found")
	ErrAlreadyCanceled      = errors.New("order is already canceled")
)

// Customer is the buyer recorded on an order.
type Customer struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// Item is one purchased line of an order.
type Item struct {
	ID        string
	ProductID string
	SKU       string
	Name      string
	Size      string
	Color     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	Status    ItemStatusState
}

// Summary holds the monetary totals of an order.
type Summary struct {
	Subtotal decimal.Decimal
	SalesTax decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// TimePrecision is the resolution order timestamps are kept at. BSON dates
// hold milliseconds, so every storage backend can return them unchanged.
const TimePrecision = time.Millisecond

// Timestamp normalises t to UTC at TimePrecision.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimePrecision)
}

// Refund records money returned to the customer.
type Refund struct {
	Amount    decimal.Decimal
	Full      bool
	Reason    string
	User      string
	CreatedAt time.Time
}

// Order is the aggregate root for a customer purchase in one store.
type Order struct {
	ID             string
	StoreID        string
	Customer       Customer
	ShippingMethod ShippingMethod
	Items          []Item
	Summary        Summary
	Refund         *Refund
	Status         OrderStatus
	Note           string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewItem builds an unfulfilled item and computes its line total.
func NewItem(id, productID, sku, name string, quantity int, unitPrice decimal.Decimal) (Item, error) {
	item := Item{
		ID:        id,
		ProductID: productID,
		SKU:       strings.TrimSpace(sku),
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
	if err := item.Validate(); err != nil {
		return Item{}, err
	}
	item.LineTotal = unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return item, nil
}

// Validate enforces item invariants.
func (i Item) Validate() error {
	if i.SKU == "" {
		return ErrMissingSKU
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.UnitPrice.IsNegative() {
		return ErrInvalidPrice
	}
	return nil
}

// NewOrder assembles a new Unfulfilled order. Every item starts Unfulfilled
// with its audit trail attributed to user at the given time.
func NewOrder(id, storeID string, customer Customer, shipping ShippingMethod, items []Item, salesTax, shippingCost decimal.Decimal, user string, at time.Time) (*Order, error) {
	at = Timestamp(at)
	order := &Order{
		ID:             id,
		StoreID:        strings.TrimSpace(storeID),
		Customer:       customer,
		ShippingMethod: shipping,
		Status:         OrderUnfulfilled,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
	if order.StoreID == "" {
		return nil, ErrMissingStoreID
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if salesTax.IsNegative() || shippingCost.IsNegative() {
		return nil, ErrInvalidAmount
	}
	order.Items = make([]Item, 0, len(items))
	subtotal := decimal.Zero
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		item.LineTotal = item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		item.Status = NewItemStatusState(ItemUnfulfilled, user, at)
		subtotal = subtotal.Add(item.LineTotal)
		order.Items = append(order.Items, item)
	}
	order.Summary = Summary{
		Subtotal: subtotal,
		SalesTax: salesTax,
		Shipping: shippingCost,
		Total:    subtotal.Add(salesTax).Add(shippingCost),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces aggregate invariants that hold for any persisted order.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.StoreID) == "" {
		return ErrMissingStoreID
	}
	if len(o.Items) == 0 {
		return ErrNoItems
	}
	switch o.ShippingMethod {
	case ShippingPrimary, ShippingDirect:
	default:
		return ErrInvalidShipping
	}
	if email := strings.TrimSpace(o.Customer.Email); email != "" && !strings.Contains(email, "@") {
		return ErrInvalidCustomerEmail
	}
	if !o.Status.Valid() {
		return ErrInvalidOrderStatus
	}
	for _, item := range o.Items {
		if !item.Status.Current.Valid() {
			return ErrInvalidItemStatus
		}
	}
	return nil
}

// Item returns a copy of the item with the given id.
func (o *Order) Item(itemID string) (Item, bool) {
	for _, item := range o.Items {
		if item.ID == itemID {
			return item.clone(), true
		}
	}
	return Item{}, false
}

// SetItemStatus moves one item to target, or to its next forward status when
// target is nil, and reconciles the order status.
func (o *Order) SetItemStatus(itemID string, target *ItemStatus, user string, at time.Time) (Item, error) {
	at = Timestamp(at)
	idx := o.itemIndex(itemID)
	if idx < 0 {
		return Item{}, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}
	items := cloneItems(o.Items)
	item := items[idx]
	var next ItemStatus
	if target != nil {
		if !target.Valid() {
			return Item{}, fmt.Errorf("%w: %q", ErrInvalidItemStatus, string(*target))
		}
		next = *target
	} else {
		advanced, err := NextItemStatus(item.Status.Current)
		if err != nil {
			return Item{}, err
		}
		next = advanced
	}
	item.Status = item.Status.Transition(next, user, at)
	items[idx] = item
	o.apply(Reconcile(*o, items), at)
	return item.clone(), nil
}

// FulfillPending marks every Unfulfilled item Fulfilled and reconciles the
// order status. It returns the number of items moved.
func (o *Order) FulfillPending(user string, at time.Time) int {
	return o.transitionAll(ItemUnfulfilled, ItemFulfilled, user, at)
}

// Ship marks every Fulfilled item Shipped and reconciles the order status.
// It returns the number of items moved; zero means the order is unchanged.
func (o *Order) Ship(user string, at time.Time) int {
	return o.transitionAll(ItemFulfilled, ItemShipped, user, at)
}

// Cancel cancels every item that is neither Canceled nor Shipped, zeroes the
// summary, records a full refund of the previous total and forces the order
// status to Canceled without consulting the status rules. An order whose
// items were all canceled one by one is Canceled but not yet refunded, so
// the refund record is what marks a completed cancellation.
func (o *Order) Cancel(user, reason string, at time.Time) error {
	at = Timestamp(at)
	if o.Refund != nil {
		return ErrAlreadyCanceled
	}
	items := cloneItems(o.Items)
	for i := range items {
		switch items[i].Status.Current {
		case ItemCanceled, ItemShipped:
			continue
		}
		items[i].Status = items[i].Status.Transition(ItemCanceled, user, at)
	}
	if strings.TrimSpace(reason) == "" {
		reason = "order canceled"
	}
	o.Refund = &Refund{
		Amount:    o.Summary.Total,
		Full:      true,
		Reason:    reason,
		User:      user,
		CreatedAt: at,
	}
	o.Summary = Summary{
		Subtotal: decimal.Zero,
		SalesTax: decimal.Zero,
		Shipping: decimal.Zero,
		Total:    decimal.Zero,
	}
	o.Items = items
	o.Status = OrderCanceled
	o.UpdatedAt = at
	return nil
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = cloneItems(o.Items)
	if o.Refund != nil {
		refund := *o.Refund
		clone.Refund = &refund
	}
	return &clone
}

func (o *Order) transitionAll(from, to ItemStatus, user string, at time.Time) int {
	at = Timestamp(at)
	items := cloneItems(o.Items)
	moved := 0
	for i := range items {
		if items[i].Status.Current != from {
			continue
		}
		items[i].Status = items[i].Status.Transition(to, user, at)
		moved++
	}
	if moved == 0 {
		return 0
	}
	o.apply(Reconcile(*o, items), at)
	return moved
}

func (o *Order) apply(next Order, at time.Time) {
	o.Items = next.Items
	o.Status = next.Status
	o.UpdatedAt = at
}

func (o *Order) itemIndex(itemID string) int {
	for i, item := range o.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func (i Item) clone() Item {
	i.Status = i.Status.Clone()
	return i
}

func cloneItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	for idx, item := range items {
		out[idx] = item.clone()
	}
	return out
}
