package adminserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/http/mapper"
	orderworkflows "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/workflows"
	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

const (
	// HeaderActingUser names the staff member performing a change.
	HeaderActingUser = "X-Acting-User"
	// HeaderIdempotencyKey lets clients retry order submissions safely.
	HeaderIdempotencyKey = "Idempotency-Key"
)

// OrderAPI wires HTTP transport with the orders bounded context service and shipment workflows.
type OrderAPI struct {
	service   orderports.Service
	shipments orderports.ShipmentOrchestrator
}

// NewOrderAPI creates an OrderAPI. Without an orchestrator shipments run on the service directly.
// NewOrderAPI runs shipments inline through service when shipments is nil.
func NewOrderAPI(service orderports.Service, shipments orderports.ShipmentOrchestrator) OrderAPI {
	if shipments == nil {
		shipments = orderworkflows.NewInlineShipmentWorkflows(service)
	}
	return OrderAPI{service: service, shipments: shipments}
}

// Post /api/stores/:storeId/orders
// Record a new order for a store
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.NewOrder
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToCreateOrderInput(c.Param("storeId"), actingUser(c), c.GetHeader(HeaderIdempotencyKey), payload)
	order, err := api.service.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.FromDomainOrder(order))
}

// Get /api/stores/:storeId/orders
// List a store's orders, optionally filtered by order status
func (api *OrderAPI) ListStoreOrders(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}
	orders, err := api.service.ListStoreOrders(c.Request.Context(), ordertypes.ListStoreOrdersInput{
		StoreID:  c.Param("storeId"),
		Statuses: c.QueryArray("status"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Get /api/stores/:storeId/summary
// Count a store's orders and items by status
func (api *OrderAPI) GetStatusSummary(c *gin.Context) {
	summary, err := api.service.StatusSummary(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromStatusSummary(summary))
}

// Get /api/stores/:storeId/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderIdentifier{
		StoreID: c.Param("storeId"),
		OrderID: c.Param("orderId"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Patch /api/stores/:storeId/orders/:orderId/items/:itemId/status
// Move an item to a status, or one step forward when none is given
func (api *OrderAPI) UpdateItemStatus(c *gin.Context) {
	var payload orderhttpmapper.ItemStatusUpdate
	if !bindOptionalJSON(c, &payload) {
		return
	}
	order, err := api.service.UpdateItemStatus(c.Request.Context(), ordertypes.UpdateItemStatusInput{
		StoreID:         c.Param("storeId"),
		OrderID:         c.Param("orderId"),
		ItemID:          c.Param("itemId"),
		Actor:           actingUser(c),
		Target:          payload.Status,
		ExpectedVersion: payload.Version,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/stores/:storeId/orders/:orderId/fulfill
// Mark every unfulfilled item of an order fulfilled
func (api *OrderAPI) FulfillOrder(c *gin.Context) {
	var payload orderhttpmapper.OrderChange
	if !bindOptionalJSON(c, &payload) {
		return
	}
	order, err := api.service.FulfillOrder(c.Request.Context(), ordertypes.FulfillOrderInput{
		StoreID:         c.Param("storeId"),
		OrderID:         c.Param("orderId"),
		Actor:           actingUser(c),
		ExpectedVersion: payload.Version,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/stores/:storeId/orders/:orderId/cancel
// Cancel an order and refund it in full
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	var payload orderhttpmapper.Cancellation
	if !bindOptionalJSON(c, &payload) {
		return
	}
	order, err := api.service.CancelOrder(c.Request.Context(), ordertypes.CancelOrderInput{
		StoreID:         c.Param("storeId"),
		OrderID:         c.Param("orderId"),
		Actor:           actingUser(c),
		Reason:          payload.Reason,
		ExpectedVersion: payload.Version,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Post /api/stores/:storeId/shipments
// Ship every fulfilled item in the store
func (api *OrderAPI) TriggerShipment(c *gin.Context) {
	ctx := c.Request.Context()
	storeID := c.Param("storeId")
	input := ordertypes.TriggerShipmentInput{StoreID: storeID, Actor: actingUser(c)}

	result, err := api.shipments.TriggerShipment(ctx, input)
	// Orders that failed are listed in the result; the rest of the run stands.
	if err != nil && !(errors.Is(err, orderworkflows.ErrShipmentIncomplete) && result != nil) {
		respondServiceError(c, err)
		return
	}
	orders, err := api.service.ListStoreOrders(ctx, ordertypes.ListStoreOrdersInput{StoreID: storeID})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.ShipmentResponse{
		Result: orderhttpmapper.FromShipmentResult(result),
		Orders: orderhttpmapper.FromDomainOrders(orders),
	})
}

func actingUser(c *gin.Context) string {
	return c.GetHeader(HeaderActingUser)
}

func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		respondInvalidQuery(c, name, "must be a non-negative integer")
		return 0, false
	}
	return value, true
}
