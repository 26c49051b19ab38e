package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/app/api"
	platformobservability "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/observability"
	orderactivities "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/temporal/workflows/orders"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()
	const serviceName = "merch-admin-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return 1
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Printf("failed to initialize observability: %v", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	storage, cleanupStorage := api.BuildStorage(ctx, cfg, logger)
	defer cleanupStorage()
	if err := storage.RequireConfigured(cfg); err != nil {
		logger.Error("refusing to run shipments without the configured order store", slog.String("error", err.Error()))
		return 1
	}
	if storage.Backend == api.BackendMemory {
		logger.Warn("worker is shipping against in-memory orders; the API process will not see its changes")
	}
	services := api.BuildServices(storage, cfg, instruments)
	activities := orderactivities.NewActivities(services.Orders)

	temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return 1
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.StoreShipmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.StoreShipmentWorkflow, workflow.RegisterOptions{Name: orderworkflows.StoreShipmentWorkflowName})
	w.RegisterActivityWithOptions(activities.ListStoreOrderIDs, activity.RegisterOptions{Name: orderactivities.ListStoreOrderIDsActivityName})
	w.RegisterActivityWithOptions(activities.ShipOrder, activity.RegisterOptions{Name: orderactivities.ShipOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.StoreShipmentTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return 1
	}
	logger.Info("Temporal worker stopped")
	return 0
}
