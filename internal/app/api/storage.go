package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	employeememory "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/memory"
	employeeobs "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/observability"
	employeepostgres "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/adapters/persistence/postgres"
	employeeapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/application"
	employeeports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/employees/ports"
	orderactors "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/actors"
	ordermemory "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/memory"
	orderobs "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/observability"
	ordermongo "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/persistence/mongo"
	orderpostgres "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/persistence/postgres"
	orderapp "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/migrations"
	platformmongo "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/mongo"
	platformobservability "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/observability"
	platformpostgres "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/postgres"
)

// Storage holds the repositories selected for the process.
type Storage struct {
	// Backend is the backend actually in use, which is memory after a failed connection.
	Backend     string
	Orders      orderports.Repository
	Idempotency orderports.IdempotencyStore
	Employees   employeeports.Repository
}

// ErrStorageUnavailable reports that the configured backend was replaced by memory.
var ErrStorageUnavailable = errors.New("configured storage backend unavailable")

// RequireConfigured fails when BuildStorage fell back to memory. Batch jobs
// and workers call it so they never act on an empty in-memory store.
func (s *Storage) RequireConfigured(cfg Config) error {
	want := cfg.StorageBackend
	if want == "" {
		want = BackendMemory
	}
	if s == nil {
		return fmt.Errorf("%w: %s", ErrStorageUnavailable, want)
	}
	if s.Backend != want {
		return fmt.Errorf("%w: %s requested, %s in use", ErrStorageUnavailable, want, s.Backend)
	}
	return nil
}

// BuildStorage connects the configured backend. Connection failures fall back
// to in-memory repositories with a warning.
func BuildStorage(ctx context.Context, cfg Config, logger *slog.Logger) (*Storage, func()) {
	if logger == nil {
		logger = slog.Default()
	}
	switch cfg.StorageBackend {
	case BackendPostgres:
		db, cleanup := platformpostgres.ConnectDSN(ctx, cfg.PostgresDSN, logger)
		if db == nil {
			return memoryStorage(), cleanup
		}
		if err := migrations.Run(db.WithContext(ctx)); err != nil {
			logger.Warn("failed to migrate postgres schema, falling back to memory", slog.String("error", err.Error()))
			cleanup()
			return memoryStorage(), func() {}
		}
		logger.Info("order and employee repositories configured with postgres")
		return &Storage{
			Backend:     BackendPostgres,
			Orders:      orderpostgres.NewRepository(db),
			Idempotency: orderpostgres.NewIdempotencyStore(db),
			Employees:   employeepostgres.NewRepository(db),
		}, cleanup
	case BackendMongo:
		db, cleanup := platformmongo.ConnectURI(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if db == nil {
			return memoryStorage(), cleanup
		}
		repo := ordermongo.NewRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			logger.Warn("failed to ensure mongo order indexes", slog.String("error", err.Error()))
		}
		logger.Info("order repository configured with mongo; idempotency keys and employees stay in memory",
			slog.String("database", db.Name()))
		return &Storage{
			Backend:     BackendMongo,
			Orders:      repo,
			Idempotency: ordermemory.NewIdempotencyStore(),
			Employees:   employeememory.NewRepository(),
		}, cleanup
	default:
		return memoryStorage(), func() {}
	}
}

func memoryStorage() *Storage {
	return &Storage{
		Backend:     BackendMemory,
		Orders:      ordermemory.NewRepository(),
		Idempotency: ordermemory.NewIdempotencyStore(),
		Employees:   employeememory.NewRepository(),
	}
}

// Services bundles the instrumented application services.
type Services struct {
	Orders    orderports.Service
	Employees employeeports.Service
}

// BuildServices wires the application services over storage and wraps them
// with the observability decorators.
func BuildServices(storage *Storage, cfg Config, instruments *platformobservability.Instruments) Services {
	logger := effectiveLogger(instruments)
	employees := employeeobs.New(
		employeeapp.NewService(storage.Employees),
		employeeobs.WithLogger(logger),
		employeeobs.WithTracer(instruments.Tracer("internal.employees.application")),
		employeeobs.WithMeter(instruments.Meter("internal.employees.application")),
	)
	opts := []orderapp.Option{orderapp.WithIdempotencyStore(storage.Idempotency)}
	if cfg.RequireKnownActors {
		opts = append(opts, orderapp.WithActorDirectory(orderactors.NewEmployeeDirectory(employees)))
	}
	orders := orderobs.New(
		orderapp.NewService(storage.Orders, opts...),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return Services{Orders: orders, Employees: employees}
}
