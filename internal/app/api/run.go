package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	adminserver "github.com/seanhasenstein/macaport-admin-dashboard-sub000/go"
	orderworkflows "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/workflows"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
	platformobservability "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/observability"
)

// ServiceName identifies the API process in traces and metrics.
const ServiceName = "merch-admin-api"

// Run boots the admin HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	storage, cleanupStorage := BuildStorage(ctx, cfg, logger)
	defer cleanupStorage()
	services := BuildServices(storage, cfg, instruments)

	var shipments orderports.ShipmentOrchestrator = orderworkflows.NewInlineShipmentWorkflows(services.Orders)
	if temporalClient, err := ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, running store shipments inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		shipments = orderworkflows.NewTemporalShipmentWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := adminserver.ApiHandleFunctions{
		OrderAPI:    adminserver.NewOrderAPI(services.Orders, shipments),
		EmployeeAPI: adminserver.NewEmployeeAPI(services.Employees),
	}
	router := gin.New()
	router.Use(gin.Logger(), adminserver.Recovery(), otelgin.Middleware(ServiceName))
	router = adminserver.NewRouterWithGinEngine(router, handlers)

	logger.Info("admin API listening",
		slog.String("addr", cfg.Addr()),
		slog.String("storage", storage.Backend),
		slog.Bool("requireKnownActors", cfg.RequireKnownActors),
		slog.String("logLevel", cfg.LogLevel),
	)
	if err := router.Run(cfg.Addr()); err != nil {
		logger.Error("admin API server exited", slog.String("addr", cfg.Addr()), slog.String("error", err.Error()))
		return err
	}
	return nil
}
