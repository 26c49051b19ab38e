package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/domain"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
)

type fakeService struct {
	ports.Service
	cancelErr error
	shipment  *ordertypes.ShipmentResult
	shipErr   error
}

func (f *fakeService) CancelOrder(_ context.Context, input ordertypes.CancelOrderInput) (*domain.Order, error) {
	if f.cancelErr != nil {
		return nil, f.cancelErr
	}
	return &domain.Order{
		ID:      input.OrderID,
		StoreID: input.StoreID,
		Status:  domain.OrderCanceled,
		Refund:  &domain.Refund{Amount: decimal.NewFromInt(12), Full: true},
	}, nil
}

func (f *fakeService) TriggerShipment(_ context.Context, _ ordertypes.TriggerShipmentInput) (*ordertypes.ShipmentResult, error) {
	return f.shipment, f.shipErr
}

func newInstrumented(t *testing.T, inner ports.Service) (ports.Service, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})
	svc := New(inner, WithTracer(tp.Tracer("test")), WithMeter(mp.Meter("test")))
	return svc, recorder, reader
}

func counterTotal(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var total int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, point := range sum.DataPoints {
				total += point.Value
			}
		}
	}
	return total
}

func TestService_CancelOrderRecordsSpanAndCounter(t *testing.T) {
	svc, recorder, reader := newInstrumented(t, &fakeService{})

	order, err := svc.CancelOrder(context.Background(), ordertypes.CancelOrderInput{StoreID: "s-1", OrderID: "o-1", Actor: "bob"})
	require.NoError(t, err)
	require.Equal(t, domain.OrderCanceled, order.Status)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, "Service.CancelOrder", spans[0].Name())
	require.Equal(t, int64(1), counterTotal(t, reader, "orders.service.orders_canceled"))
}

func TestService_CancelOrderErrorMarksSpan(t *testing.T) {
	svc, recorder, reader := newInstrumented(t, &fakeService{cancelErr: ports.ErrVersionConflict})

	_, err := svc.CancelOrder(context.Background(), ordertypes.CancelOrderInput{StoreID: "s-1", OrderID: "o-1", Actor: "bob"})
	require.ErrorIs(t, err, ports.ErrVersionConflict)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	require.Equal(t, codes.Error, spans[0].Status().Code)
	require.Zero(t, counterTotal(t, reader, "orders.service.orders_canceled"))
}

func TestService_TriggerShipmentKeepsPartialResult(t *testing.T) {
	partial := &ordertypes.ShipmentResult{
		StoreID:         "s-1",
		OrdersScanned:   3,
		OrdersUpdated:   1,
		ItemsShipped:    2,
		UpdatedOrderIDs: []string{"o-1"},
		FailedOrderIDs:  []string{"o-2"},
	}
	failure := errors.New("o-2: version conflict")
	svc, _, reader := newInstrumented(t, &fakeService{shipment: partial, shipErr: failure})

	result, err := svc.TriggerShipment(context.Background(), ordertypes.TriggerShipmentInput{StoreID: "s-1", Actor: "bob"})
	require.ErrorIs(t, err, failure)
	require.Same(t, partial, result)
	require.Equal(t, int64(2), counterTotal(t, reader, "orders.service.items_shipped"))
}
