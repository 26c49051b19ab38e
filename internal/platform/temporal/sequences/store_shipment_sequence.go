package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	orderactivities "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/temporal/activities/orders"
)

// RunStoreShipmentSequence lists the store's orders and ships them one at a time.
// An order that still fails after its retries is recorded and the run moves on.
func RunStoreShipmentSequence(ctx workflow.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("store shipment sequence started", "storeId", input.StoreID)
	listOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}
	shipOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}

	var orderIDs []string
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, listOptions), orderactivities.ListStoreOrderIDsActivityName, input.StoreID).Get(ctx, &orderIDs)
	if err != nil {
		logger.Error("store shipment sequence failed to list orders", "storeId", input.StoreID, "error", err)
		return nil, err
	}

	result := &ordertypes.ShipmentResult{StoreID: input.StoreID}
	shipCtx := workflow.WithActivityOptions(ctx, shipOptions)
	for _, orderID := range orderIDs {
		var shipped orderactivities.ShippedOrder
		shipInput := ordertypes.ShipOrderInput{StoreID: input.StoreID, OrderID: orderID, Actor: input.Actor}
		if err := workflow.ExecuteActivity(shipCtx, orderactivities.ShipOrderActivityName, shipInput).Get(ctx, &shipped); err != nil {
			logger.Warn("store shipment sequence could not ship order", "orderId", orderID, "error", err)
			result.Fail(orderID)
			continue
		}
		result.Add(orderID, shipped.ItemsShipped)
	}
	logger.Info("store shipment sequence finished",
		"storeId", input.StoreID,
		"ordersUpdated", result.OrdersUpdated,
		"itemsShipped", result.ItemsShipped,
		"failed", len(result.FailedOrderIDs),
	)
	return result, nil
}
