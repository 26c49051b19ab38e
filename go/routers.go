/*
 * Merch Store Admin API
 *
 * Order fulfilment and staff administration for pop-up merch stores.
 *
 * API version: 1.0.0
 */

package adminserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router with request logging and problem-style panic recovery.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), Recovery())
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	router.NoRoute(NoRoute)
	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the EmployeeAPI part of the API
	EmployeeAPI EmployeeAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"CreateOrder",
			http.MethodPost,
			"/api/stores/:storeId/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"ListStoreOrders",
			http.MethodGet,
			"/api/stores/:storeId/orders",
			handleFunctions.OrderAPI.ListStoreOrders,
		},
		{
			"GetStatusSummary",
			http.MethodGet,
			"/api/stores/:storeId/summary",
			handleFunctions.OrderAPI.GetStatusSummary,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/api/stores/:storeId/orders/:orderId",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"UpdateItemStatus",
			http.MethodPatch,
			"/api/stores/:storeId/orders/:orderId/items/:itemId/status",
			handleFunctions.OrderAPI.UpdateItemStatus,
		},
		{
			"FulfillOrder",
			http.MethodPost,
			"/api/stores/:storeId/orders/:orderId/fulfill",
			handleFunctions.OrderAPI.FulfillOrder,
		},
		{
			"CancelOrder",
			http.MethodPost,
			"/api/stores/:storeId/orders/:orderId/cancel",
			handleFunctions.OrderAPI.CancelOrder,
		},
		{
			"TriggerShipment",
			http.MethodPost,
			"/api/stores/:storeId/shipments",
			handleFunctions.OrderAPI.TriggerShipment,
		},
		{
			"CreateEmployee",
			http.MethodPost,
			"/api/employees",
			handleFunctions.EmployeeAPI.CreateEmployee,
		},
		{
			"ListEmployees",
			http.MethodGet,
			"/api/employees",
			handleFunctions.EmployeeAPI.ListEmployees,
		},
		{
			"GetEmployee",
			http.MethodGet,
			"/api/employees/:username",
			handleFunctions.EmployeeAPI.GetEmployee,
		},
		{
			"UpdateEmployee",
			http.MethodPut,
			"/api/employees/:username",
			handleFunctions.EmployeeAPI.UpdateEmployee,
		},
		{
			"DeleteEmployee",
			http.MethodDelete,
			"/api/employees/:username",
			handleFunctions.EmployeeAPI.DeleteEmployee,
		},
	}
}
