package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var created = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	items := []Item{
		{ID: "i-1", SKU: "TEE-BLK-M", Name: "Tee", Quantity: 2, UnitPrice: decimal.RequireFromString("15.00")},
		{ID: "i-2", SKU: "HOOD-GRY-L", Name: "Hoodie", Quantity: 1, UnitPrice: decimal.RequireFromString("40.00")},
	}
	order, err := NewOrder("o-1", "store-1", Customer{FirstName: "Ann", Email: "ann@example.com"}, ShippingDirect, items,
		decimal.RequireFromString("3.50"), decimal.RequireFromString("8.00"), "clerk", created)
	require.NoError(t, err)
	return order
}

func TestNewOrder_ComputesTotalsAndInitialStatus(t *testing.T) {
	order := newTestOrder(t)

	require.Equal(t, OrderUnfulfilled, order.Status)
	require.True(t, order.Items[0].LineTotal.Equal(decimal.RequireFromString("30.00")))
	require.True(t, order.Summary.Subtotal.Equal(decimal.RequireFromString("70.00")))
	require.True(t, order.Summary.Total.Equal(decimal.RequireFromString("81.50")))
	for _, item := range order.Items {
		require.Equal(t, ItemUnfulfilled, item.Status.Current)
		require.Equal(t, StatusChange{User: "clerk", UpdatedAt: created}, item.Status.Meta[ItemUnfulfilled])
	}
}

func TestNewOrder_Validation(t *testing.T) {
	item := Item{ID: "i-1", SKU: "SKU", Quantity: 1, UnitPrice: decimal.NewFromInt(5)}
	cases := []struct {
		name     string
		storeID  string
		items    []Item
		shipping ShippingMethod
		email    string
		want     error
	}{
		{"missing store", "", []Item{item}, ShippingPrimary, "", ErrMissingStoreID},
		{"no items", "s", nil, ShippingPrimary, "", ErrNoItems},
		{"zero quantity", "s", []Item{{ID: "x", SKU: "SKU"}}, ShippingPrimary, "", ErrInvalidQuantity},
		{"missing sku", "s", []Item{{ID: "x", Quantity: 1}}, ShippingPrimary, "", ErrMissingSKU},
		{"negative price", "s", []Item{{ID: "x", SKU: "SKU", Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}, ShippingPrimary, "", ErrInvalidPrice},
		{"bad shipping", "s", []Item{item}, ShippingMethod("Drone"), "", ErrInvalidShipping},
		{"bad email", "s", []Item{item}, ShippingPrimary, "nope", ErrInvalidCustomerEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewOrder("o", tc.storeID, Customer{Email: tc.email}, tc.shipping, tc.items, decimal.Zero, decimal.Zero, "u", created)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSetItemStatus_AdvancesAndReconciles(t *testing.T) {
	order := newTestOrder(t)
	at := created.Add(time.Hour)

	item, err := order.SetItemStatus("i-1", nil, "bob", at)
	require.NoError(t, err)
	require.Equal(t, ItemFulfilled, item.Status.Current)
	require.Equal(t, OrderUnfulfilled, order.Status)

	_, err = order.SetItemStatus("i-2", nil, "bob", at)
	require.NoError(t, err)
	require.Equal(t, OrderFulfilled, order.Status)

	_, err = order.SetItemStatus("i-1", nil, "bob", at)
	require.NoError(t, err)
	require.Equal(t, OrderPartiallyShipped, order.Status)
	require.Equal(t, at, order.UpdatedAt)
}

func TestSetItemStatus_ExplicitTarget(t *testing.T) {
	order := newTestOrder(t)
	backordered := ItemBackordered

	item, err := order.SetItemStatus("i-2", &backordered, "bob", created)
	require.NoError(t, err)
	require.Equal(t, ItemBackordered, item.Status.Current)
	require.Equal(t, OrderUnfulfilled, order.Status)

	_, err = order.SetItemStatus("i-2", nil, "bob", created)
	require.ErrorIs(t, err, ErrStatusNotAdvanceable)

	bogus := ItemStatus("Lost")
	_, err = order.SetItemStatus("i-2", &bogus, "bob", created)
	require.ErrorIs(t, err, ErrInvalidItemStatus)
}

func TestSetItemStatus_UnknownItem(t *testing.T) {
	order := newTestOrder(t)
	before := order.Clone()

	_, err := order.SetItemStatus("missing", nil, "bob", created)
	require.ErrorIs(t, err, ErrItemNotFound)
	require.Equal(t, before, order)
}

func TestMetaIsAppendOnly(t *testing.T) {
	order := newTestOrder(t)
	t1 := created.Add(time.Minute)
	t2 := created.Add(2 * time.Minute)
	unfulfilled := ItemUnfulfilled

	_, err := order.SetItemStatus("i-1", nil, "bob", t1)
	require.NoError(t, err)
	before, _ := order.Item("i-1")

	_, err = order.SetItemStatus("i-1", &unfulfilled, "carol", t2)
	require.NoError(t, err)
	after, _ := order.Item("i-1")

	for status, change := range before.Status.Meta {
		if status == ItemUnfulfilled {
			continue
		}
		require.Equal(t, change, after.Status.Meta[status])
	}
	require.Equal(t, StatusChange{User: "carol", UpdatedAt: t2}, after.Status.Meta[ItemUnfulfilled])
	require.Len(t, after.Status.Meta, 2)
}

func TestFulfillPending(t *testing.T) {
	order := newTestOrder(t)
	backordered := ItemBackordered
	_, err := order.SetItemStatus("i-2", &backordered, "bob", created)
	require.NoError(t, err)

	moved := order.FulfillPending("bob", created)
	require.Equal(t, 1, moved)
	require.Equal(t, OrderUnfulfilled, order.Status)

	require.Zero(t, order.FulfillPending("bob", created))
}

func TestShip_IsIdempotent(t *testing.T) {
	order := newTestOrder(t)
	order.FulfillPending("bob", created)

	require.Equal(t, 2, order.Ship("carol", created.Add(time.Hour)))
	require.Equal(t, OrderShipped, order.Status)
	snapshot := order.Clone()

	require.Zero(t, order.Ship("carol", created.Add(2*time.Hour)))
	require.Equal(t, snapshot, order)
}

func TestShip_OnlyTouchesFulfilled(t *testing.T) {
	order := newTestOrder(t)
	_, err := order.SetItemStatus("i-1", nil, "bob", created)
	require.NoError(t, err)

	require.Equal(t, 1, order.Ship("carol", created))
	shipped, _ := order.Item("i-1")
	pending, _ := order.Item("i-2")
	require.Equal(t, ItemShipped, shipped.Status.Current)
	require.Equal(t, ItemUnfulfilled, pending.Status.Current)
	require.Equal(t, OrderPartiallyShipped, order.Status)
}

func TestCancel_PreservesShippedItems(t *testing.T) {
	order := newTestOrder(t)
	shipped := ItemShipped
	_, err := order.SetItemStatus("i-1", &shipped, "bob", created)
	require.NoError(t, err)
	total := order.Summary.Total

	require.NoError(t, order.Cancel("carol", "", created.Add(time.Hour)))

	first, _ := order.Item("i-1")
	second, _ := order.Item("i-2")
	require.Equal(t, ItemShipped, first.Status.Current)
	require.Equal(t, ItemCanceled, second.Status.Current)
	require.Equal(t, "carol", second.Status.Meta[ItemCanceled].User)
	require.Equal(t, OrderCanceled, order.Status)
	require.True(t, order.Summary.Total.IsZero())
	require.True(t, order.Summary.Subtotal.IsZero())
	require.NotNil(t, order.Refund)
	require.True(t, order.Refund.Full)
	require.True(t, order.Refund.Amount.Equal(total))
	require.Equal(t, "order canceled", order.Refund.Reason)
}

func TestCancel_Twice(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Cancel("carol", "customer request", created))
	require.ErrorIs(t, order.Cancel("carol", "again", created), ErrAlreadyCanceled)
	require.Equal(t, "customer request", order.Refund.Reason)
}

func TestCancel_AfterItemsCanceledIndividually(t *testing.T) {
	order := newTestOrder(t)
	canceled := ItemCanceled
	for _, id := range []string{"i-1", "i-2"} {
		_, err := order.SetItemStatus(id, &canceled, "bob", created)
		require.NoError(t, err)
	}
	require.Equal(t, OrderCanceled, order.Status)
	require.Nil(t, order.Refund)
	total := order.Summary.Total

	require.NoError(t, order.Cancel("carol", "", created.Add(time.Hour)))
	require.Equal(t, OrderCanceled, order.Status)
	require.True(t, order.Summary.Total.IsZero())
	require.NotNil(t, order.Refund)
	require.True(t, order.Refund.Amount.Equal(total))
	first, _ := order.Item("i-1")
	require.Equal(t, "bob", first.Status.Meta[ItemCanceled].User)

	require.ErrorIs(t, order.Cancel("carol", "", created.Add(2*time.Hour)), ErrAlreadyCanceled)
}

func TestTimestampsKeepMillisecondPrecision(t *testing.T) {
	precise := time.Date(2024, 6, 1, 9, 0, 0, 123456789, time.FixedZone("CDT", -5*3600))
	want := time.Date(2024, 6, 1, 14, 0, 0, 123000000, time.UTC)
	items := []Item{{ID: "i-1", SKU: "TEE-M", Quantity: 1, UnitPrice: decimal.NewFromInt(15)}}
	order, err := NewOrder("o-1", "store-1", Customer{}, ShippingPrimary, items, decimal.Zero, decimal.Zero, "clerk", precise)
	require.NoError(t, err)
	require.Equal(t, want, order.CreatedAt)
	require.Equal(t, want, order.Items[0].Status.Meta[ItemUnfulfilled].UpdatedAt)

	later := precise.Add(time.Hour)
	_, err = order.SetItemStatus("i-1", nil, "bob", later)
	require.NoError(t, err)
	require.Equal(t, want.Add(time.Hour), order.UpdatedAt)
	require.Equal(t, want.Add(time.Hour), order.Items[0].Status.Meta[ItemFulfilled].UpdatedAt)

	require.NoError(t, order.Cancel("carol", "", later))
	require.Equal(t, want.Add(time.Hour), order.Refund.CreatedAt)
}

func TestClone_IsDeep(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.Cancel("carol", "", created))
	clone := order.Clone()

	clone.Items[0].Status.Meta[ItemShipped] = StatusChange{User: "x"}
	clone.Refund.Reason = "changed"

	_, leaked := order.Items[0].Status.Meta[ItemShipped]
	require.False(t, leaked)
	require.Equal(t, "order canceled", order.Refund.Reason)
}
