package adminserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	employeememory "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/memory"
	employeeapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/application"
	orderhttpmapper "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/http/mapper"
	ordermemory "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/memory"
	orderworkflows "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/workflows"
	orderapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application"
	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
	apierrors "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/shared/errors"
)

const newOrderJSON = `{
	"customer": {"firstName": "Ann", "lastName": "Lee", "email": "ann@example.com"},
	"shippingMethod": "Primary",
	"items": [{"productId": "p-1", "sku": "TEE-M", "name": "Tee", "quantity": 2, "unitPrice": "15.00"}],
	"salesTax": "1.50",
	"shipping": "0"
}`

type testServer struct {
	router  *gin.Engine
	service orderports.Service
}

func newTestServer(t *testing.T, shipments func(orderports.Service) orderports.ShipmentOrchestrator) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	next := 0
	service := orderapp.NewService(
		ordermemory.NewRepository(),
		orderapp.WithIdempotencyStore(ordermemory.NewIdempotencyStore()),
		orderapp.WithIDGenerator(func() string {
			next++
			return fmt.Sprintf("id-%d", next)
		}),
	)
	var orchestrator orderports.ShipmentOrchestrator = orderworkflows.NewInlineShipmentWorkflows(service)
	if shipments != nil {
		orchestrator = shipments(service)
	}
	handlers := ApiHandleFunctions{
		OrderAPI:    NewOrderAPI(service, orchestrator),
		EmployeeAPI: NewEmployeeAPI(employeeapp.NewService(employeememory.NewRepository())),
	}
	return &testServer{router: NewRouterWithGinEngine(gin.New(), handlers), service: service}
}

func (s *testServer) do(t *testing.T, method, path, actor, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set(HeaderActingUser, actor)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) createOrder(t *testing.T, storeID string) orderhttpmapper.Order {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/stores/"+storeID+"/orders", "clerk", newOrderJSON)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[orderhttpmapper.Order](t, rec)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func requireProblem(t *testing.T, rec *httptest.ResponseRecorder, status int, problemType string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, problemType, problem.Type)
	require.Equal(t, status, problem.Status)
}

func TestOrderAPI_CreateOrder(t *testing.T) {
	srv := newTestServer(t, nil)

	order := srv.createOrder(t, "s-1")
	require.Equal(t, "id-1", order.ID)
	require.Equal(t, "s-1", order.StoreID)
	require.Equal(t, "Unfulfilled", order.OrderStatus)
	require.Equal(t, int64(1), order.Version)
	require.Len(t, order.Items, 1)
	item := order.Items[0]
	require.Equal(t, "Unfulfilled", item.Status.Current)
	require.Equal(t, "clerk", item.Status.Meta["Unfulfilled"].User)
	require.Equal(t, "30", item.ItemTotal.String())
	require.Equal(t, "31.5", order.Summary.Total.String())
}

func TestOrderAPI_CreateOrderRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := srv.do(t, http.MethodPost, "/api/stores/s-1/orders", "", newOrderJSON)
	requireProblem(t, rec, http.StatusBadRequest, apierrors.TypeValidation)

	rec = srv.do(t, http.MethodPost, "/api/stores/s-1/orders", "clerk", `{"items": []}`)
	requireProblem(t, rec, http.StatusBadRequest, apierrors.TypeValidation)

	rec = srv.do(t, http.MethodPost, "/api/stores/s-1/orders", "clerk", `{"items":`)
	requireProblem(t, rec, http.StatusBadRequest, apierrors.TypeBadRequest)
}

func TestOrderAPI_CreateOrderIsIdempotent(t *testing.T) {
	srv := newTestServer(t, nil)
	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/stores/s-1/orders", bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderActingUser, "clerk")
		req.Header.Set(HeaderIdempotencyKey, "order-42")
		rec := httptest.NewRecorder()
		srv.router.ServeHTTP(rec, req)
		return rec
	}

	first := post(newOrderJSON)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := post(newOrderJSON)
	require.Equal(t, http.StatusCreated, second.Code, second.Body.String())
	require.Equal(t, decode[orderhttpmapper.Order](t, first).ID, decode[orderhttpmapper.Order](t, second).ID)

	changed := bytes.Replace([]byte(newOrderJSON), []byte(`"quantity": 2`), []byte(`"quantity": 3`), 1)
	requireProblem(t, post(string(changed)), http.StatusConflict, apierrors.TypeConflict)
}

func TestOrderAPI_GetOrder(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createOrder(t, "s-1")

	rec := srv.do(t, http.MethodGet, "/api/stores/s-1/orders/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, created.ID, decode[orderhttpmapper.Order](t, rec).ID)

	requireProblem(t, srv.do(t, http.MethodGet, "/api/stores/s-2/orders/"+created.ID, "", ""), http.StatusNotFound, apierrors.TypeNotFound)
	requireProblem(t, srv.do(t, http.MethodGet, "/api/stores/s-1/orders/missing", "", ""), http.StatusNotFound, apierrors.TypeNotFound)
}

func TestOrderAPI_UpdateItemStatus(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createOrder(t, "s-1")
	path := fmt.Sprintf("/api/stores/s-1/orders/%s/items/%s/status", created.ID, created.Items[0].ID)

	rec := srv.do(t, http.MethodPatch, path, "bob", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	advanced := decode[orderhttpmapper.Order](t, rec)
	require.Equal(t, "Fulfilled", advanced.Items[0].Status.Current)
	require.Equal(t, "Fulfilled", advanced.OrderStatus)
	require.Equal(t, "bob", advanced.Items[0].Status.Meta["Fulfilled"].User)
	require.Equal(t, "clerk", advanced.Items[0].Status.Meta["Unfulfilled"].User)
	require.Equal(t, int64(2), advanced.Version)

	rec = srv.do(t, http.MethodPatch, path, "bob", `{"status": "Canceled", "version": 2}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Canceled", decode[orderhttpmapper.Order](t, rec).OrderStatus)
}

func TestOrderAPI_UpdateItemStatusErrors(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createOrder(t, "s-1")
	path := fmt.Sprintf("/api/stores/s-1/orders/%s/items/%s/status", created.ID, created.Items[0].ID)

	requireProblem(t, srv.do(t, http.MethodPatch, path, "bob", `{"version": 7}`), http.StatusConflict, apierrors.TypeVersionConflict)
	requireProblem(t, srv.do(t, http.MethodPatch, path, "bob", `{"status": "Lost"}`), http.StatusBadRequest, apierrors.TypeValidation)
	requireProblem(t, srv.do(t, http.MethodPatch, path, "", `{"status": "Fulfilled"}`), http.StatusBadRequest, apierrors.TypeValidation)
	requireProblem(t, srv.do(t, http.MethodPatch, path, "bob", `{"status":`), http.StatusBadRequest, apierrors.TypeBadRequest)

	missingItem := fmt.Sprintf("/api/stores/s-1/orders/%s/items/nope/status", created.ID)
	requireProblem(t, srv.do(t, http.MethodPatch, missingItem, "bob", ""), http.StatusNotFound, apierrors.TypeNotFound)
}

func TestOrderAPI_FulfillAndCancel(t *testing.T) {
	srv := newTestServer(t, nil)
	created := srv.createOrder(t, "s-1")
	base := "/api/stores/s-1/orders/" + created.ID

	rec := srv.do(t, http.MethodPost, base+"/fulfill", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "Fulfilled", decode[orderhttpmapper.Order](t, rec).OrderStatus)

	rec = srv.do(t, http.MethodPost, base+"/cancel", "bob", `{"reason": "customer request"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	canceled := decode[orderhttpmapper.Order](t, rec)
	require.Equal(t, "Canceled", canceled.OrderStatus)
	require.NotNil(t, canceled.Refund)
	require.True(t, canceled.Refund.Full)
	require.Equal(t, "customer request", canceled.Refund.Reason)

	requireProblem(t, srv.do(t, http.MethodPost, base+"/cancel", "bob", ""), http.StatusConflict, apierrors.TypeConflict)
}

func TestOrderAPI_ListAndSummary(t *testing.T) {
	srv := newTestServer(t, nil)
	first := srv.createOrder(t, "s-1")
	srv.createOrder(t, "s-1")
	srv.createOrder(t, "s-2")
	rec := srv.do(t, http.MethodPost, "/api/stores/s-1/orders/"+first.ID+"/fulfill", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/stores/s-1/orders", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 2)

	rec = srv.do(t, http.MethodGet, "/api/stores/s-1/orders?status=Fulfilled", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	fulfilled := decode[[]orderhttpmapper.Order](t, rec)
	require.Len(t, fulfilled, 1)
	require.Equal(t, first.ID, fulfilled[0].ID)

	rec = srv.do(t, http.MethodGet, "/api/stores/s-1/orders?limit=1&offset=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]orderhttpmapper.Order](t, rec), 1)

	requireProblem(t, srv.do(t, http.MethodGet, "/api/stores/s-1/orders?limit=-1", "", ""), http.StatusBadRequest, apierrors.TypeValidation)
	requireProblem(t, srv.do(t, http.MethodGet, "/api/stores/s-1/orders?status=Lost", "", ""), http.StatusBadRequest, apierrors.TypeValidation)

	rec = srv.do(t, http.MethodGet, "/api/stores/s-1/summary", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[orderhttpmapper.StatusSummary](t, rec)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.Orders["Fulfilled"])
	require.Equal(t, 1, summary.Orders["Unfulfilled"])
	require.Equal(t, 0, summary.Orders["Shipped"])
	require.Equal(t, 1, summary.Items["Fulfilled"])
}

func TestOrderAPI_TriggerShipment(t *testing.T) {
	srv := newTestServer(t, nil)
	first := srv.createOrder(t, "s-1")
	second := srv.createOrder(t, "s-1")
	rec := srv.do(t, http.MethodPost, "/api/stores/s-1/orders/"+first.ID+"/fulfill", "bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodPost, "/api/stores/s-1/shipments", "shipper", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	response := decode[orderhttpmapper.ShipmentResponse](t, rec)
	require.Equal(t, 2, response.Result.OrdersScanned)
	require.Equal(t, 1, response.Result.OrdersUpdated)
	require.Equal(t, 1, response.Result.ItemsShipped)
	require.Equal(t, []string{first.ID}, response.Result.UpdatedOrderIDs)
	require.Empty(t, response.Result.FailedOrderIDs)

	statuses := map[string]string{}
	for _, order := range response.Orders {
		statuses[order.ID] = order.OrderStatus
	}
	require.Equal(t, map[string]string{first.ID: "Shipped", second.ID: "Unfulfilled"}, statuses)

	rec = srv.do(t, http.MethodPost, "/api/stores/s-1/shipments", "shipper", "")
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[orderhttpmapper.ShipmentResponse](t, rec)
	require.Zero(t, again.Result.ItemsShipped)
	require.Equal(t, []string{}, again.Result.UpdatedOrderIDs)

	requireProblem(t, srv.do(t, http.MethodPost, "/api/stores/s-1/shipments", "", ""), http.StatusBadRequest, apierrors.TypeValidation)
}

type partialShipments struct{}

func (partialShipments) TriggerShipment(_ context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	result := &ordertypes.ShipmentResult{StoreID: input.StoreID}
	result.Add("o-1", 2)
	result.Fail("o-2")
	return result, fmt.Errorf("%w: o-2", orderworkflows.ErrShipmentIncomplete)
}

type brokenShipments struct{}

func (brokenShipments) TriggerShipment(context.Context, ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	return nil, orderports.ErrVersionConflict
}

func TestOrderAPI_TriggerShipmentReportsFailedOrders(t *testing.T) {
	srv := newTestServer(t, func(orderports.Service) orderports.ShipmentOrchestrator { return partialShipments{} })

	rec := srv.do(t, http.MethodPost, "/api/stores/s-1/shipments", "shipper", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	response := decode[orderhttpmapper.ShipmentResponse](t, rec)
	require.Equal(t, []string{"o-1"}, response.Result.UpdatedOrderIDs)
	require.Equal(t, []string{"o-2"}, response.Result.FailedOrderIDs)
	require.Equal(t, 2, response.Result.OrdersScanned)
}

func TestOrderAPI_TriggerShipmentFailure(t *testing.T) {
	srv := newTestServer(t, func(orderports.Service) orderports.ShipmentOrchestrator { return brokenShipments{} })

	requireProblem(t, srv.do(t, http.MethodPost, "/api/stores/s-1/shipments", "shipper", ""), http.StatusConflict, apierrors.TypeVersionConflict)
}

type partialService struct {
	orderports.Service
}

func (partialService) TriggerShipment(_ context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	result := &ordertypes.ShipmentResult{StoreID: input.StoreID}
	result.Add("o-1", 1)
	result.Fail("o-2")
	return result, errors.Join(fmt.Errorf("order o-2: %w", orderports.ErrVersionConflict))
}

func TestOrderAPI_TriggerShipmentWithoutOrchestrator(t *testing.T) {
	base := newTestServer(t, nil)
	service := partialService{Service: base.service}
	srv := &testServer{
		router:  NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{OrderAPI: NewOrderAPI(service, nil)}),
		service: service,
	}

	rec := srv.do(t, http.MethodPost, "/api/stores/s-1/shipments", "shipper", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	response := decode[orderhttpmapper.ShipmentResponse](t, rec)
	require.Equal(t, []string{"o-1"}, response.Result.UpdatedOrderIDs)
	require.Equal(t, []string{"o-2"}, response.Result.FailedOrderIDs)
}

func TestRouter_UnknownRouteAndPanics(t *testing.T) {
	srv := newTestServer(t, nil)
	rec := srv.do(t, http.MethodGet, "/api/warehouses", "", "")
	requireProblem(t, rec, http.StatusNotFound, apierrors.TypeNotFound)
	require.Equal(t, "route", decode[apierrors.ProblemDetail](t, rec).Extensions["resourceType"])

	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(*gin.Context) { panic("boom") })
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	requireProblem(t, rec, http.StatusInternalServerError, apierrors.TypeInternal)
}
