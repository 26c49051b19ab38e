package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
	orderworkflows "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.ShipmentOrchestrator = (*TemporalShipmentWorkflows)(nil)
	_ ports.ShipmentOrchestrator = (*InlineShipmentWorkflows)(nil)
)

// ErrShipmentIncomplete reports that some orders of a run could not be shipped.
var ErrShipmentIncomplete = errors.New("store shipment left orders unshipped")

// TemporalShipmentWorkflows starts store shipments on a Temporal cluster.
type TemporalShipmentWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalShipmentWorkflows wires a Temporal client into the orchestrator.
func NewTemporalShipmentWorkflows(c client.Client) *TemporalShipmentWorkflows {
	return &TemporalShipmentWorkflows{client: c, taskQueue: orderworkflows.StoreShipmentTaskQueue}
}

// TriggerShipment runs the store shipment workflow and waits for its result.
// A shipment already running for the store is joined rather than started twice.
func (o *TemporalShipmentWorkflows) TriggerShipment(ctx context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal shipment workflows not configured")
	}
	storeID := strings.TrimSpace(input.StoreID)
	if storeID == "" {
		return nil, errors.New("store id is required")
	}
	workflowID := ShipmentWorkflowID(storeID)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.StoreShipmentWorkflowName,
		orderworkflows.StoreShipmentWorkflowInput{Command: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return nil, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var result ordertypes.ShipmentResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return &result, incomplete(&result)
}

// InlineShipmentWorkflows executes the service directly without Temporal, useful for tests or dev fallbacks.
type InlineShipmentWorkflows struct {
	service ports.Service
}

// NewInlineShipmentWorkflows wraps the orders service for synchronous execution.
func NewInlineShipmentWorkflows(service ports.Service) *InlineShipmentWorkflows {
	return &InlineShipmentWorkflows{service: service}
}

// TriggerShipment delegates to the application service without durable orchestration.
func (o *InlineShipmentWorkflows) TriggerShipment(ctx context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline shipment workflows not configured")
	}
	result, err := o.service.TriggerShipment(ctx, input)
	if err != nil && result != nil && len(result.FailedOrderIDs) > 0 {
		return result, fmt.Errorf("%w: %w", ErrShipmentIncomplete, err)
	}
	return result, err
}

// ShipmentWorkflowID is the per-store workflow id; one shipment per store runs at a time.
func ShipmentWorkflowID(storeID string) string {
	return fmt.Sprintf("store-shipment-%s", storeID)
}

func incomplete(result *ordertypes.ShipmentResult) error {
	if result == nil || len(result.FailedOrderIDs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrShipmentIncomplete, strings.Join(result.FailedOrderIDs, ", "))
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	traceID := spanCtx.TraceID()
	if !traceID.IsValid() {
		return ""
	}
	return traceID.String()
}
