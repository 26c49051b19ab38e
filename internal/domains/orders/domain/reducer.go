package domain

// Tally counts items per status.
type Tally struct {
	Unfulfilled int
	Backordered int
	Fulfilled   int
	Shipped     int
	Canceled    int
	Total       int
}

// TallyItems counts the current status of every item.
func TallyItems(items []Item) Tally {
	t := Tally{Total: len(items)}
	for _, item := range items {
		switch item.Status.Current {
		case ItemUnfulfilled:
			t.Unfulfilled++
		case ItemBackordered:
			t.Backordered++
		case ItemFulfilled:
			t.Fulfilled++
		case ItemShipped:
			t.Shipped++
		case ItemCanceled:
			t.Canceled++
		}
	}
	return t
}

// StatusRule maps a tally predicate to the aggregate status it yields.
type StatusRule struct {
	Name    string
	Status  OrderStatus
	Matches func(Tally) bool
}

// StatusRules is evaluated top to bottom; the first matching rule wins.
// Shipment activity is checked before unfulfilled activity so a partly
// shipped order never reverts to Unfulfilled.
var StatusRules = []StatusRule{
	{
		Name:   "all shipped or canceled",
		Status: OrderShipped,
		Matches: func(t Tally) bool {
			return t.Shipped > 0 && t.Shipped+t.Canceled == t.Total
		},
	},
	{
		Name:    "all canceled",
		Status:  OrderCanceled,
		Matches: func(t Tally) bool { return t.Canceled == t.Total },
	},
	{
		Name:    "some shipped",
		Status:  OrderPartiallyShipped,
		Matches: func(t Tally) bool { return t.Shipped > 0 },
	},
	{
		Name:    "some unfulfilled or backordered",
		Status:  OrderUnfulfilled,
		Matches: func(t Tally) bool { return t.Unfulfilled > 0 || t.Backordered > 0 },
	},
	{
		Name:    "all fulfilled or canceled",
		Status:  OrderFulfilled,
		Matches: func(t Tally) bool { return t.Fulfilled+t.Canceled == t.Total },
	},
}

// DeriveStatus computes the aggregate status for items. When items is empty
// or no rule matches, previous is returned unchanged.
func DeriveStatus(items []Item, previous OrderStatus) OrderStatus {
	if len(items) == 0 {
		return previous
	}
	tally := TallyItems(items)
	for _, rule := range StatusRules {
		if rule.Matches(tally) {
			return rule.Status
		}
	}
	return previous
}

// Reconcile returns a copy of order holding items with its status recomputed.
// The input order is not modified.
func Reconcile(order Order, items []Item) Order {
	next := order
	next.Items = cloneItems(items)
	next.Status = DeriveStatus(next.Items, order.Status)
	return next
}
