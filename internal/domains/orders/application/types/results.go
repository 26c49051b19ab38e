package types

import (
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
)

// ShipOrderResult reports the outcome of shipping one order.
type ShipOrderResult struct {
	Order        *domain.Order
	ItemsShipped int
}

// ShipmentResult summarises a store-wide shipment run.
type ShipmentResult struct {
	StoreID         string
	OrdersScanned   int
	OrdersUpdated   int
	ItemsShipped    int
	UpdatedOrderIDs []string
	FailedOrderIDs  []string
}

// Add folds a single order outcome into the run totals.
func (r *ShipmentResult) Add(orderID string, itemsShipped int) {
	r.OrdersScanned++
	if itemsShipped == 0 {
		return
	}
	r.OrdersUpdated++
	r.ItemsShipped += itemsShipped
	r.UpdatedOrderIDs = append(r.UpdatedOrderIDs, orderID)
}

// Fail counts an order that was scanned but could not be shipped.
func (r *ShipmentResult) Fail(orderID string) {
	r.OrdersScanned++
	r.FailedOrderIDs = append(r.FailedOrderIDs, orderID)
}

// StatusSummary counts a store's orders by aggregate status and its items by item status.
type StatusSummary struct {
	StoreID string
	Orders  map[domain.OrderStatus]int
	Items   map[domain.ItemStatus]int
	Total   int
}

// NewStatusSummary tallies orders, listing every known status even when its count is zero.
func NewStatusSummary(storeID string, orders []*domain.Order) *StatusSummary {
	summary := &StatusSummary{
		StoreID: storeID,
		Orders:  make(map[domain.OrderStatus]int, len(domain.OrderStatuses)),
		Items:   make(map[domain.ItemStatus]int, len(domain.ItemStatuses)),
	}
	for _, status := range domain.OrderStatuses {
		summary.Orders[status] = 0
	}
	for _, status := range domain.ItemStatuses {
		summary.Items[status] = 0
	}
	for _, order := range orders {
		if order == nil {
			continue
		}
		summary.Total++
		summary.Orders[order.Status]++
		for _, item := range order.Items {
			summary.Items[item.Status.Current]++
		}
	}
	return summary
}
