package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	orderapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application"
	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

const (
	// ListStoreOrderIDsActivityName lists every order id of a store, oldest first.
	ListStoreOrderIDsActivityName = "orders.activities.ListStoreOrderIDs"
	// ShipOrderActivityName moves a single order's fulfilled items to Shipped.
	ShipOrderActivityName = "orders.activities.ShipOrder"
)

// ShippedOrder is the serialisable outcome of ShipOrder.
type ShippedOrder struct {
	OrderID      string
	ItemsShipped int
	Status       string
	Version      int64
}

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// ListStoreOrderIDs returns the ids of every order in the store.
func (a *Activities) ListStoreOrderIDs(ctx context.Context, storeID string) ([]string, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order list activity not initialized", "storeId", storeID)
		return nil, errors.New("order list activity not initialized")
	}
	orders, err := a.service.ListStoreOrders(ctx, ordertypes.ListStoreOrdersInput{StoreID: storeID})
	if err != nil {
		logger.Error("ListStoreOrderIDs activity failed", "storeId", storeID, "error", err)
		return nil, classify(err)
	}
	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	logger.Info("ListStoreOrderIDs activity completed", "storeId", storeID, "count", len(ids))
	return ids, nil
}

// ShipOrder ships one order. Re-running it after success is a no-op.
func (a *Activities) ShipOrder(ctx context.Context, input ordertypes.ShipOrderInput) (*ShippedOrder, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("ship order activity not initialized", "orderId", input.OrderID)
		return nil, errors.New("ship order activity not initialized")
	}
	result, err := a.service.ShipOrder(ctx, input)
	if err != nil {
		logger.Error("ShipOrder activity failed", "storeId", input.StoreID, "orderId", input.OrderID, "error", err)
		return nil, classify(err)
	}
	shipped := &ShippedOrder{OrderID: input.OrderID, ItemsShipped: result.ItemsShipped}
	if result.Order != nil {
		shipped.Status = string(result.Order.Status)
		shipped.Version = result.Order.Version
	}
	logger.Info("ShipOrder activity completed", "orderId", input.OrderID, "itemsShipped", result.ItemsShipped)
	return shipped, nil
}

// classify stops Temporal from retrying errors that another attempt cannot fix.
// Version conflicts stay retryable: the next attempt re-reads the order.
func classify(err error) error {
	switch {
	case errors.Is(err, orderports.ErrNotFound):
		return temporal.NewNonRetryableApplicationError(err.Error(), "NotFound", err)
	case errors.Is(err, orderapp.ErrInvalidInput), errors.Is(err, orderapp.ErrInvalidActor):
		return temporal.NewNonRetryableApplicationError(err.Error(), "InvalidInput", err)
	case errors.Is(err, domain.ErrAlreadyCanceled):
		return temporal.NewNonRetryableApplicationError(err.Error(), "AlreadyCanceled", err)
	default:
		return err
	}
}
