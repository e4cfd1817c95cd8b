// Package main initializes and starts the checkpoint integration server,
// setting up configuration, logging, the database, the blob store, the
// device protocol client, services and HTTP handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"github.com/ardiyansa/checkpointd/internal/blob"
	"github.com/ardiyansa/checkpointd/internal/config"
	"github.com/ardiyansa/checkpointd/internal/db"
	"github.com/ardiyansa/checkpointd/internal/isapi"
	"github.com/ardiyansa/checkpointd/internal/logger"
	"github.com/ardiyansa/checkpointd/internal/repository"
	"github.com/ardiyansa/checkpointd/internal/server/handler/http"
	"github.com/ardiyansa/checkpointd/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()
	addr := options.Port

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init("Info"); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL connection.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Purge soft-deleted employees in the background.
	db.StartSoftDeleteCleaner(context.Background(), postgresDB,
		time.Hour,       // interval
		30*24*time.Hour, // retention: 30 days
		zapLogger,
	)

	// Initialize repositories.
	checkpointRepo := repository.NewPostgresCheckpointRepository(postgresDB)
	employeeRepo := repository.NewPostgresEmployeeRepository(postgresDB)

	// Blob store backing face captures and staged device artifacts.
	blobs := blob.NewDiskStore(options.BlobDir, options.BlobBaseURL)

	// Device protocol client and the synchronization service on top.
	devices := isapi.NewClient(blobs, zapLogger, options.DeviceTimeout)
	checkpointService := service.NewCheckpointService(devices, zapLogger)
	checkpointService.EventCallbackURL = options.EventCallbackURL
	checkpointService.NTPHost = options.NTPHost
	checkpointService.NTPPort = options.NTPPort
	checkpointService.NTPInterval = options.NTPInterval

	// Create HTTP handlers for checkpoints, employees and the event sink.
	checkpointHandler := &http.CheckpointHandler{
		Checkpoints: checkpointRepo,
		Employees:   employeeRepo,
		Service:     checkpointService,
		Devices:     devices,
	}
	employeeHandler := &http.EmployeeHandler{
		Employees: employeeRepo,
		Blobs:     blobs,
	}
	eventHandler := &http.EventHandler{Log: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(checkpointHandler, employeeHandler, eventHandler, options.BlobDir, zapLogger)

	server := &nethttp.Server{
		Addr:    addr,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
