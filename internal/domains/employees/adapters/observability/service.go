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

	employeedomain "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/domain"
	employeeports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
)

const tracerName = "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/observability/service"

// Service decorates the employee service with tracing, logging, and metrics.
type Service struct {
	inner   employeeports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core employee service.
func New(inner employeeports.Service, opts ...Option) employeeports.Service {
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

func (s *Service) CreateEmployee(ctx context.Context, employee *employeedomain.Employee) (*employeedomain.Employee, error) {
	username := ""
	if employee != nil {
		username = employee.Username
	}
	ctx, span := s.tracer.Start(ctx, "EmployeeService.CreateEmployee", trace.WithAttributes(attribute.String("employee.username", username)))
	defer span.End()
	s.logInfo(ctx, "creating employee", slog.String("username", username))
	result, err := s.inner.CreateEmployee(ctx, employee)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create employee", slog.String("username", username))
	}
	s.metrics.recordCreated(ctx)
	s.logInfo(ctx, "employee created", slog.String("username", result.Username), slog.String("role", string(result.Role)))
	return result, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*employeedomain.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "EmployeeService.GetByUsername", trace.WithAttributes(attribute.String("employee.username", username)))
	defer span.End()
	return s.inner.GetByUsername(ctx, username)
}

func (s *Service) List(ctx context.Context) ([]*employeedomain.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "EmployeeService.List")
	defer span.End()
	result, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list employees")
	}
	span.SetAttributes(attribute.Int("employee.result.count", len(result)))
	return result, nil
}

func (s *Service) Update(ctx context.Context, username string, updated *employeedomain.Employee) (*employeedomain.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "EmployeeService.Update", trace.WithAttributes(attribute.String("employee.username", username)))
	defer span.End()
	result, err := s.inner.Update(ctx, username, updated)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update employee", slog.String("username", username))
	}
	s.metrics.recordUpdated(ctx)
	return result, nil
}

func (s *Service) Delete(ctx context.Context, username string) error {
	ctx, span := s.tracer.Start(ctx, "EmployeeService.Delete", trace.WithAttributes(attribute.String("employee.username", username)))
	defer span.End()
	if err := s.inner.Delete(ctx, username); err != nil {
		return s.handleError(ctx, span, err, "failed to delete employee", slog.String("username", username))
	}
	s.metrics.recordDeleted(ctx)
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
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

type serviceMetrics struct {
	created metric.Int64Counter
	updated metric.Int64Counter
	deleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("employees.service.created", metric.WithDescription("Number of employees created"))
	updated, _ := m.Int64Counter("employees.service.updated", metric.WithDescription("Number of employees updated"))
	deleted, _ := m.Int64Counter("employees.service.deleted", metric.WithDescription("Number of employees deleted"))
	return serviceMetrics{created: created, updated: updated, deleted: deleted}
}

func (m serviceMetrics) recordCreated(ctx context.Context) {
	if m.created != nil {
		m.created.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordUpdated(ctx context.Context) {
	if m.updated != nil {
		m.updated.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.deleted != nil {
		m.deleted.Add(ctx, 1)
	}
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var _ employeeports.Service = (*Service)(nil)
