package orders

import (
	"go.temporal.io/sdk/workflow"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/temporal/sequences"
)

const (
	// StoreShipmentWorkflowName is the public identifier for registering the workflow.
	StoreShipmentWorkflowName = "orders.workflows.StoreShipment"
	// StoreShipmentTaskQueue is the queue consumed by the worker processing shipment workflows.
	StoreShipmentTaskQueue = "STORE_SHIPMENTS"
)

// StoreShipmentWorkflowInput captures the store to ship and who triggered it.
type StoreShipmentWorkflowInput struct {
	Command ordertypes.TriggerShipmentInput
	TraceID string
}

// StoreShipmentWorkflow ships every fulfilled item of a store.
func StoreShipmentWorkflow(ctx workflow.Context, input StoreShipmentWorkflowInput) (*ordertypes.ShipmentResult, error) {
	logger := workflow.GetLogger(ctx)
	storeID := input.Command.StoreID
	logger.Info("StoreShipmentWorkflow started", withTraceID(input.TraceID, "storeId", storeID, "actor", input.Command.Actor)...)
	result, err := sequences.RunStoreShipmentSequence(ctx, input.Command)
	if err != nil {
		logger.Error("StoreShipmentWorkflow failed", withTraceID(input.TraceID, "storeId", storeID, "error", err)...)
		return nil, err
	}
	logger.Info("StoreShipmentWorkflow completed", withTraceID(input.TraceID, "storeId", storeID, "itemsShipped", result.ItemsShipped)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
