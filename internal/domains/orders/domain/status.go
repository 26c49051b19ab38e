package domain

import (
	"errors"
	"fmt"
	"time"
)

// ItemStatus enumerates the fulfilment lifecycle of a single order item.
type ItemStatus string

const (
	ItemUnfulfilled ItemStatus = "Unfulfilled"
	ItemBackordered ItemStatus = "Backordered"
	ItemFulfilled   ItemStatus = "Fulfilled"
	ItemShipped     ItemStatus = "Shipped"
	ItemCanceled    ItemStatus = "Canceled"
)

// OrderStatus enumerates the aggregate status derived from an order's items.
type OrderStatus string

const (
	OrderUnfulfilled      OrderStatus = "Unfulfilled"
	OrderFulfilled        OrderStatus = "Fulfilled"
	OrderShipped          OrderStatus = "Shipped"
	OrderPartiallyShipped OrderStatus = "PartiallyShipped"
	OrderCanceled         OrderStatus = "Canceled"
)

var (
	ErrInvalidItemStatus    = errors.New("item status is invalid")
	ErrInvalidOrderStatus   = errors.New("order status is invalid")
	ErrStatusNotAdvanceable = errors.New("item status cannot be advanced automatically")
)

// ItemStatuses lists every item status in lifecycle order.
var ItemStatuses = []ItemStatus{ItemUnfulfilled, ItemBackordered, ItemFulfilled, ItemShipped, ItemCanceled}

// OrderStatuses lists every aggregate order status.
var OrderStatuses = []OrderStatus{OrderUnfulfilled, OrderFulfilled, OrderShipped, OrderPartiallyShipped, OrderCanceled}

// Valid reports whether the status is one of the known item statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemUnfulfilled, ItemBackordered, ItemFulfilled, ItemShipped, ItemCanceled:
		return true
	default:
		return false
	}
}

// Valid reports whether the status is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderUnfulfilled, OrderFulfilled, OrderShipped, OrderPartiallyShipped, OrderCanceled:
		return true
	default:
		return false
	}
}

// ParseItemStatus converts raw input into a known item status.
func ParseItemStatus(raw string) (ItemStatus, error) {
	status := ItemStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidItemStatus, raw)
	}
	return status, nil
}

// ParseOrderStatus converts raw input into a known order status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	status := OrderStatus(raw)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderStatus, raw)
	}
	return status, nil
}

// NextItemStatus returns the next step of the forward progression
// Unfulfilled -> Fulfilled -> Shipped. Backordered, Canceled and Shipped are
// never advanced; callers must pass an explicit target for those.
func NextItemStatus(current ItemStatus) (ItemStatus, error) {
	switch current {
	case ItemUnfulfilled:
		return ItemFulfilled, nil
	case ItemFulfilled:
		return ItemShipped, nil
	case ItemBackordered, ItemShipped, ItemCanceled:
		return current, fmt.Errorf("%w: %s", ErrStatusNotAdvanceable, current)
	default:
		return current, fmt.Errorf("%w: %q", ErrInvalidItemStatus, string(current))
	}
}

// StatusChange records who moved an item into a status and when.
type StatusChange struct {
	User      string
	UpdatedAt time.Time
}

// ItemStatusState is the current item status plus its audit trail.
type ItemStatusState struct {
	Current ItemStatus
	Meta    map[ItemStatus]StatusChange
}

// NewItemStatusState starts an audit trail at the given status.
func NewItemStatusState(status ItemStatus, user string, at time.Time) ItemStatusState {
	return ItemStatusState{
		Current: status,
		Meta:    map[ItemStatus]StatusChange{status: {User: user, UpdatedAt: at}},
	}
}

// Transition moves the state to status and records the change. Existing meta
// entries are kept; only the entry for status is written.
func (s ItemStatusState) Transition(status ItemStatus, user string, at time.Time) ItemStatusState {
	meta := s.cloneMeta()
	meta[status] = StatusChange{User: user, UpdatedAt: at}
	return ItemStatusState{Current: status, Meta: meta}
}

// Clone returns a deep copy of the state.
func (s ItemStatusState) Clone() ItemStatusState {
	return ItemStatusState{Current: s.Current, Meta: s.cloneMeta()}
}

func (s ItemStatusState) cloneMeta() map[ItemStatus]StatusChange {
	meta := make(map[ItemStatus]StatusChange, len(s.Meta)+1)
	for k, v := range s.Meta {
		meta[k] = v
	}
	return meta
}
