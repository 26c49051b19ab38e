// Command ship-store ships every fulfilled item of one store and prints the run summary.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/app/api"
	orderhttpmapper "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/http/mapper"
	orderworkflows "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/adapters/workflows"
	ordertypes "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/application/types"
	orderports "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/domains/orders/ports"
	platformobservability "github.com/seanhasenstein/macaport-admin-dashboard-sub000/internal/platform/observability"
)

const (
	exitOK         = 0
	exitFailed     = 1
	exitIncomplete = 2
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred telemetry and storage shutdown
// complete before the process exits.
func run() int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	storeID := strings.TrimSpace(os.Getenv("STORE_ID"))
	if storeID == "" {
		log.Print("STORE_ID is required")
		return exitFailed
	}
	actor := strings.TrimSpace(os.Getenv("ACTING_USER"))
	if actor == "" {
		actor = "ship-store"
	}
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Printf("invalid configuration: %v", err)
		return exitFailed
	}
	instruments, shutdown, err := platformobservability.Init(ctx, "merch-admin-ship-store")
	if err != nil {
		log.Printf("failed to initialize observability: %v", err)
		return exitFailed
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()
	logger := instruments.Logger

	storage, cleanupStorage := api.BuildStorage(ctx, cfg, logger)
	defer cleanupStorage()
	if err := storage.RequireConfigured(cfg); err != nil {
		logger.Error("refusing to ship without the configured order store", slog.String("error", err.Error()))
		return exitFailed
	}
	services := api.BuildServices(storage, cfg, instruments)

	var shipments orderports.ShipmentOrchestrator = orderworkflows.NewInlineShipmentWorkflows(services.Orders)
	if temporalClient, err := api.ConnectTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal unavailable, shipping inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		shipments = orderworkflows.NewTemporalShipmentWorkflows(temporalClient)
	}

	result, err := shipments.TriggerShipment(ctx, ordertypes.TriggerShipmentInput{StoreID: storeID, Actor: actor})
	code := exitCode(result, err)
	if code == exitFailed {
		logger.Error("store shipment failed", slog.String("store.id", storeID), slog.String("error", err.Error()))
		return code
	}
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if encodeErr := encoder.Encode(orderhttpmapper.FromShipmentResult(result)); encodeErr != nil {
		logger.Error("failed to print shipment result", slog.String("error", encodeErr.Error()))
	}
	if code == exitIncomplete {
		logger.Warn("store shipment left orders unshipped", slog.String("store.id", storeID), slog.String("error", err.Error()))
	}
	return code
}

// exitCode is 2 for a run that shipped some orders and reported the rest as failed.
func exitCode(result *ordertypes.ShipmentResult, err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, orderworkflows.ErrShipmentIncomplete) && result != nil:
		return exitIncomplete
	default:
		return exitFailed
	}
}
