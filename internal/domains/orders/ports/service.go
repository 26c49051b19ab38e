package ports

import (
	"context"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error)
	ListStoreOrders(ctx context.Context, input ordertypes.ListStoreOrdersInput) ([]*domain.Order, error)
	StatusSummary(ctx context.Context, storeID string) (*ordertypes.StatusSummary, error)
	UpdateItemStatus(ctx context.Context, input ordertypes.UpdateItemStatusInput) (*domain.Order, error)
	FulfillOrder(ctx context.Context, input ordertypes.FulfillOrderInput) (*domain.Order, error)
	CancelOrder(ctx context.Context, input ordertypes.CancelOrderInput) (*domain.Order, error)
	ShipOrder(ctx context.Context, input ordertypes.ShipOrderInput) (*ordertypes.ShipOrderResult, error)
	TriggerShipment(ctx context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error)
}
