package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
)

// Customer is the HTTP representation of the buyer.
type Customer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// StatusChange records who moved an item into a status and when.
type StatusChange struct {
	User      string    `json:"user"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ItemStatus is the persisted `{current, meta}` shape of an item's status.
type ItemStatus struct {
	Current string                  `json:"current"`
	Meta    map[string]StatusChange `json:"meta"`
}

// Item is one order line as returned to clients.
type Item struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId,omitempty"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	ItemTotal decimal.Decimal `json:"itemTotal"`
	Status    ItemStatus      `json:"status"`
}

type Summary struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	SalesTax decimal.Decimal `json:"salesTax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

type Refund struct {
	Amount    decimal.Decimal `json:"amount"`
	Full      bool            `json:"full"`
	Reason    string          `json:"reason,omitempty"`
	User      string          `json:"user"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Order is the HTTP representation of an order aggregate.
type Order struct {
	ID             string    `json:"id"`
	StoreID        string    `json:"storeId"`
	Customer       Customer  `json:"customer"`
	ShippingMethod string    `json:"shippingMethod"`
	Items          []Item    `json:"items"`
	OrderStatus    string    `json:"orderStatus"`
	Summary        Summary   `json:"summary"`
	Refund         *Refund   `json:"refund,omitempty"`
	Note           string    `json:"note,omitempty"`
	Version        int64     `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewItem is an inbound order line.
type NewItem struct {
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Size      string          `json:"size,omitempty"`
	Color     string          `json:"color,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// NewOrder is the payload accepted when recording an order.
type NewOrder struct {
	Customer       Customer        `json:"customer"`
	ShippingMethod string          `json:"shippingMethod"`
	Items          []NewItem       `json:"items"`
	SalesTax       decimal.Decimal `json:"salesTax"`
	Shipping       decimal.Decimal `json:"shipping"`
	Note           string          `json:"note,omitempty"`
}

// ItemStatusUpdate carries an optional explicit target; without one the item advances a step.
type ItemStatusUpdate struct {
	Status  *string `json:"status,omitempty"`
	Version *int64  `json:"version,omitempty"`
}

type OrderChange struct {
	Version *int64 `json:"version,omitempty"`
}

type Cancellation struct {
	Reason  string `json:"reason,omitempty"`
	Version *int64 `json:"version,omitempty"`
}

type StatusSummary struct {
	StoreID string         `json:"storeId"`
	Orders  map[string]int `json:"orders"`
	Items   map[string]int `json:"items"`
	Total   int            `json:"total"`
}

type ShipmentResult struct {
	StoreID         string   `json:"storeId"`
	OrdersScanned   int      `json:"ordersScanned"`
	OrdersUpdated   int      `json:"ordersUpdated"`
	ItemsShipped    int      `json:"itemsShipped"`
	UpdatedOrderIDs []string `json:"updatedOrderIds"`
	FailedOrderIDs  []string `json:"failedOrderIds,omitempty"`
}

// ShipmentResponse pairs a shipment run with the store's orders after it.
type ShipmentResponse struct {
	Result ShipmentResult `json:"result"`
	Orders []Order        `json:"orders"`
}

// ToCreateOrderInput maps the inbound payload into the application command.
func ToCreateOrderInput(storeID, actor, idempotencyKey string, payload NewOrder) ordertypes.CreateOrderInput {
	items := make([]ordertypes.ItemInput, 0, len(payload.Items))
	for _, item := range payload.Items {
		items = append(items, ordertypes.ItemInput{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return ordertypes.CreateOrderInput{
		StoreID:        storeID,
		Actor:          actor,
		IdempotencyKey: idempotencyKey,
		Customer: ordertypes.CustomerInput{
			FirstName: payload.Customer.FirstName,
			LastName:  payload.Customer.LastName,
			Email:     payload.Customer.Email,
			Phone:     payload.Customer.Phone,
		},
		ShippingMethod: payload.ShippingMethod,
		Items:          items,
		SalesTax:       payload.SalesTax,
		Shipping:       payload.Shipping,
		Note:           payload.Note,
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	out := Order{
		ID:      order.ID,
		StoreID: order.StoreID,
		Customer: Customer{
			FirstName: order.Customer.FirstName,
			LastName:  order.Customer.LastName,
			Email:     order.Customer.Email,
			Phone:     order.Customer.Phone,
		},
		ShippingMethod: string(order.ShippingMethod),
		Items:          make([]Item, 0, len(order.Items)),
		OrderStatus:    string(order.Status),
		Summary: Summary{
			Subtotal: order.Summary.Subtotal,
			SalesTax: order.Summary.SalesTax,
			Shipping: order.Summary.Shipping,
			Total:    order.Summary.Total,
		},
		Note:      order.Note,
		Version:   order.Version,
		CreatedAt: order.CreatedAt,
		UpdatedAt: order.UpdatedAt,
	}
	for _, item := range order.Items {
		out.Items = append(out.Items, fromDomainItem(item))
	}
	if order.Refund != nil {
		out.Refund = &Refund{
			Amount:    order.Refund.Amount,
			Full:      order.Refund.Full,
			Reason:    order.Refund.Reason,
			User:      order.Refund.User,
			CreatedAt: order.Refund.CreatedAt,
		}
	}
	return out
}

// FromDomainOrders converts a list of orders.
func FromDomainOrders(orders []*domain.Order) []Order {
	result := make([]Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, FromDomainOrder(order))
	}
	return result
}

func fromDomainItem(item domain.Item) Item {
	meta := make(map[string]StatusChange, len(item.Status.Meta))
	for status, change := range item.Status.Meta {
		meta[string(status)] = StatusChange{User: change.User, UpdatedAt: change.UpdatedAt}
	}
	return Item{
		ID:        item.ID,
		ProductID: item.ProductID,
		SKU:       item.SKU,
		Name:      item.Name,
		Size:      item.Size,
		Color:     item.Color,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		ItemTotal: item.LineTotal,
		Status:    ItemStatus{Current: string(item.Status.Current), Meta: meta},
	}
}

func FromStatusSummary(summary *ordertypes.StatusSummary) StatusSummary {
	if summary == nil {
		return StatusSummary{}
	}
	out := StatusSummary{
		StoreID: summary.StoreID,
		Orders:  make(map[string]int, len(summary.Orders)),
		Items:   make(map[string]int, len(summary.Items)),
		Total:   summary.Total,
	}
	for status, count := range summary.Orders {
		out.Orders[string(status)] = count
	}
	for status, count := range summary.Items {
		out.Items[string(status)] = count
	}
	return out
}

func FromShipmentResult(result *ordertypes.ShipmentResult) ShipmentResult {
	if result == nil {
		return ShipmentResult{UpdatedOrderIDs: []string{}}
	}
	ids := result.UpdatedOrderIDs
	if ids == nil {
		ids = []string{}
	}
	return ShipmentResult{
		StoreID:         result.StoreID,
		OrdersScanned:   result.OrdersScanned,
		OrdersUpdated:   result.OrdersUpdated,
		ItemsShipped:    result.ItemsShipped,
		UpdatedOrderIDs: ids,
		FailedOrderIDs:  result.FailedOrderIDs,
	}
}
