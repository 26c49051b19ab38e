package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

const tracerName = "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

func (s *Service) CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder",
		attribute.String("store.id", input.StoreID),
		attribute.Int("order.items.requested", len(input.Items)),
		attribute.Bool("order.idempotent", input.IdempotencyKey != ""),
	)
	defer span.End()

	s.logInfo(ctx, "creating order", slog.String("store.id", input.StoreID), slog.String("actor", input.Actor))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("store.id", input.StoreID))
	}
	span.SetAttributes(attribute.String("order.id", result.ID))
	s.metrics.recordCreated(ctx, result.StoreID)
	s.logInfo(ctx, "order created", slog.String("order.id", result.ID), slog.String("total", result.Summary.Total.StringFixed(2)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, input ordertypes.OrderIdentifier) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", orderAttrs(input.StoreID, input.OrderID)...)
	defer span.End()

	result, err := s.inner.GetOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", input.OrderID))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) ListStoreOrders(ctx context.Context, input ordertypes.ListStoreOrdersInput) ([]*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ListStoreOrders",
		attribute.String("store.id", input.StoreID),
		attribute.StringSlice("order.statuses.requested", input.Statuses),
	)
	defer span.End()

	result, err := s.inner.ListStoreOrders(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list store orders", slog.String("store.id", input.StoreID))
	}
	span.SetAttributes(attribute.Int("order.result.count", len(result)))
	s.logInfo(ctx, "listed store orders", slog.String("store.id", input.StoreID), slog.Int("count", len(result)))
	return result, nil
}

func (s *Service) StatusSummary(ctx context.Context, storeID string) (*ordertypes.StatusSummary, error) {
	ctx, span := s.startSpan(ctx, "Service.StatusSummary", attribute.String("store.id", storeID))
	defer span.End()

	result, err := s.inner.StatusSummary(ctx, storeID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to summarise store", slog.String("store.id", storeID))
	}
	span.SetAttributes(attribute.Int("order.result.count", result.Total))
	return result, nil
}

func (s *Service) UpdateItemStatus(ctx context.Context, input ordertypes.UpdateItemStatusInput) (*domain.Order, error) {
	target := "next"
	if input.Target != nil && *input.Target != "" {
		target = *input.Target
	}
	attrs := append(orderAttrs(input.StoreID, input.OrderID),
		attribute.String("item.id", input.ItemID),
		attribute.String("item.status.target", target),
	)
	ctx, span := s.startSpan(ctx, "Service.UpdateItemStatus", attrs...)
	defer span.End()

	s.logInfo(ctx, "updating item status",
		slog.String("order.id", input.OrderID),
		slog.String("item.id", input.ItemID),
		slog.String("target", target),
		slog.String("actor", input.Actor),
	)
	result, err := s.inner.UpdateItemStatus(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update item status",
			slog.String("order.id", input.OrderID), slog.String("item.id", input.ItemID))
	}
	if item, ok := result.Item(input.ItemID); ok {
		s.metrics.recordTransition(ctx, item.Status.Current, 1)
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)), attribute.Int64("order.version", result.Version))
	s.logInfo(ctx, "item status updated", slog.String("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) FulfillOrder(ctx context.Context, input ordertypes.FulfillOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.FulfillOrder", orderAttrs(input.StoreID, input.OrderID)...)
	defer span.End()

	s.logInfo(ctx, "fulfilling order", slog.String("order.id", input.OrderID), slog.String("actor", input.Actor))
	result, err := s.inner.FulfillOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to fulfill order", slog.String("order.id", input.OrderID))
	}
	span.SetAttributes(attribute.String("order.status", string(result.Status)))
	s.logInfo(ctx, "order fulfilled", slog.String("order.id", result.ID), slog.String("order.status", string(result.Status)))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, input ordertypes.CancelOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CancelOrder", orderAttrs(input.StoreID, input.OrderID)...)
	defer span.End()

	s.logInfo(ctx, "canceling order", slog.String("order.id", input.OrderID), slog.String("actor", input.Actor))
	result, err := s.inner.CancelOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordCanceled(ctx, result.StoreID)
	refunded := ""
	if result.Refund != nil {
		refunded = result.Refund.Amount.StringFixed(2)
	}
	s.logInfo(ctx, "order canceled", slog.String("order.id", result.ID), slog.String("refund", refunded))
	return result, nil
}

func (s *Service) ShipOrder(ctx context.Context, input ordertypes.ShipOrderInput) (*ordertypes.ShipOrderResult, error) {
	ctx, span := s.startSpan(ctx, "Service.ShipOrder", orderAttrs(input.StoreID, input.OrderID)...)
	defer span.End()

	result, err := s.inner.ShipOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to ship order", slog.String("order.id", input.OrderID))
	}
	span.SetAttributes(attribute.Int("order.items.shipped", result.ItemsShipped))
	if result.ItemsShipped > 0 {
		s.metrics.recordShipped(ctx, input.StoreID, result.ItemsShipped)
		s.logInfo(ctx, "order shipped", slog.String("order.id", input.OrderID), slog.Int("items", result.ItemsShipped))
	}
	return result, nil
}

func (s *Service) TriggerShipment(ctx context.Context, input ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	ctx, span := s.startSpan(ctx, "Service.TriggerShipment", attribute.String("store.id", input.StoreID))
	defer span.End()

	s.logInfo(ctx, "triggering store shipment", slog.String("store.id", input.StoreID), slog.String("actor", input.Actor))
	result, err := s.inner.TriggerShipment(ctx, input)
	if result != nil {
		span.SetAttributes(
			attribute.Int("shipment.orders.scanned", result.OrdersScanned),
			attribute.Int("shipment.orders.updated", result.OrdersUpdated),
			attribute.Int("shipment.items.shipped", result.ItemsShipped),
		)
		s.metrics.recordShipped(ctx, input.StoreID, result.ItemsShipped)
	}
	if err != nil {
		return result, s.handleError(ctx, span, err, "store shipment finished with errors", slog.String("store.id", input.StoreID))
	}
	s.logInfo(ctx, "store shipment completed",
		slog.String("store.id", input.StoreID),
		slog.Int("orders.updated", result.OrdersUpdated),
		slog.Int("items.shipped", result.ItemsShipped),
	)
	return result, nil
}

func orderAttrs(storeID, orderID string) []attribute.KeyValue {
	return []attribute.KeyValue{attribute.String("store.id", storeID), attribute.String("order.id", orderID)}
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	itemTransitions metric.Int64Counter
	ordersCanceled  metric.Int64Counter
	itemsShipped    metric.Int64Counter
	ordersCreated   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	itemTransitions, _ := m.Int64Counter("orders.service.item_transitions", metric.WithDescription("Number of single item status changes"))
	ordersCanceled, _ := m.Int64Counter("orders.service.orders_canceled", metric.WithDescription("Number of orders canceled"))
	itemsShipped, _ := m.Int64Counter("orders.service.items_shipped", metric.WithDescription("Number of items moved to Shipped"))
	ordersCreated, _ := m.Int64Counter("orders.service.orders_created", metric.WithDescription("Number of orders created"))
	return serviceMetrics{
		itemTransitions: itemTransitions,
		ordersCanceled:  ordersCanceled,
		itemsShipped:    itemsShipped,
		ordersCreated:   ordersCreated,
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.ItemStatus, count int) {
	addCounter(ctx, m.itemTransitions, int64(count), attribute.String("item.status", string(status)))
}

func (m serviceMetrics) recordCanceled(ctx context.Context, storeID string) {
	addCounter(ctx, m.ordersCanceled, 1, attribute.String("store.id", storeID))
}

func (m serviceMetrics) recordShipped(ctx context.Context, storeID string, count int) {
	if count == 0 {
		return
	}
	addCounter(ctx, m.itemsShipped, int64(count), attribute.String("store.id", storeID))
}

func (m serviceMetrics) recordCreated(ctx context.Context, storeID string) {
	addCounter(ctx, m.ordersCreated, 1, attribute.String("store.id", storeID))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
