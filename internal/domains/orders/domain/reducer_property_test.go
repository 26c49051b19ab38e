package domain_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
)

var propertyClock = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func itemsFromIndexes(indexes []int) []domain.Item {
	items := make([]domain.Item, 0, len(indexes))
	for i, idx := range indexes {
		items = append(items, domain.Item{
			ID:        string(rune('a' + i%26)),
			SKU:       "SKU",
			Quantity:  1,
			UnitPrice: decimal.NewFromInt(10),
			Status:    domain.NewItemStatusState(domain.ItemStatuses[idx], "seed", propertyClock),
		})
	}
	return items
}

func orderFromIndexes(indexes []int) domain.Order {
	return domain.Order{
		ID:             "o-1",
		StoreID:        "s-1",
		ShippingMethod: domain.ShippingPrimary,
		Items:          itemsFromIndexes(indexes),
		Status:         domain.OrderUnfulfilled,
	}
}

// Property: any non-empty item list reduces to exactly one known order status.
func TestDeriveStatusTotality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("reducer output is a valid order status", prop.ForAll(
		func(indexes []int) bool {
			if len(indexes) == 0 {
				return true
			}
			status := domain.DeriveStatus(itemsFromIndexes(indexes), domain.OrderStatus("sentinel"))
			return status.Valid()
		},
		gen.SliceOf(gen.IntRange(0, len(domain.ItemStatuses)-1)),
	))

	properties.TestingRun(t)
}

// Property: shipping an order twice changes nothing the second time.
func TestShipIdempotence(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("second shipment is a no-op", prop.ForAll(
		func(indexes []int) bool {
			if len(indexes) == 0 {
				return true
			}
			order := orderFromIndexes(indexes)
			order.Status = domain.DeriveStatus(order.Items, order.Status)

			order.Ship("shipper", propertyClock.Add(time.Hour))
			snapshot := order.Clone()
			moved := order.Ship("shipper", propertyClock.Add(2*time.Hour))

			if moved != 0 || snapshot.Status != order.Status || !snapshot.UpdatedAt.Equal(order.UpdatedAt) {
				return false
			}
			for i := range order.Items {
				if order.Items[i].Status.Current != snapshot.Items[i].Status.Current ||
					len(order.Items[i].Status.Meta) != len(snapshot.Items[i].Status.Meta) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(domain.ItemStatuses)-1)),
	))

	properties.TestingRun(t)
}

// Property: after shipping, no item remains Fulfilled and previously shipped or
// canceled items keep their status.
func TestShipLeavesNoFulfilledItems(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("shipment drains fulfilled items", prop.ForAll(
		func(indexes []int) bool {
			if len(indexes) == 0 {
				return true
			}
			order := orderFromIndexes(indexes)
			before := order.Clone()
			order.Ship("shipper", propertyClock)
			for i, item := range order.Items {
				prev := before.Items[i].Status.Current
				switch {
				case item.Status.Current == domain.ItemFulfilled:
					return false
				case prev == domain.ItemFulfilled && item.Status.Current != domain.ItemShipped:
					return false
				case prev != domain.ItemFulfilled && item.Status.Current != prev:
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(domain.ItemStatuses)-1)),
	))

	properties.TestingRun(t)
}

// Property: cancellation never rewrites a shipped item and always ends Canceled.
func TestCancelPreservesShipped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("cancel keeps shipped items", prop.ForAll(
		func(indexes []int) bool {
			if len(indexes) == 0 {
				return true
			}
			order := orderFromIndexes(indexes)
			before := order.Clone()
			if err := order.Cancel("clerk", "", propertyClock); err != nil {
				return false
			}
			if order.Status != domain.OrderCanceled || !order.Summary.Total.IsZero() {
				return false
			}
			for i, item := range order.Items {
				prev := before.Items[i].Status.Current
				if prev == domain.ItemShipped && item.Status.Current != domain.ItemShipped {
					return false
				}
				if prev != domain.ItemShipped && item.Status.Current != domain.ItemCanceled {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(domain.ItemStatuses)-1)),
	))

	properties.TestingRun(t)
}
