package ports

import (
	"context"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
)

// ShipmentOrchestrator runs store-wide shipments, durably when a workflow engine is available.
type ShipmentOrchestrator interface {
	TriggerShipment(ctx context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error)
}
