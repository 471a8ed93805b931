// Command dataroom runs the maintenance daemon: it opens the configured
// metadata and blob stores, verifies their health, and keeps the orphaned
// blob collector running until interrupted. With -gc-now it performs a single
// collection pass and exits, which is handy for cron-driven deployments.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marmos91/dataroom/internal/logger"
	"github.com/marmos91/dataroom/pkg/config"
	"github.com/marmos91/dataroom/pkg/gc"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Log level override (DEBUG, INFO, WARN, ERROR)")
	gcNow := flag.Bool("gc-now", false, "Run a single garbage collection pass and exit")
	dryRun := flag.Bool("dry-run", false, "With -gc-now: report orphans without deleting them")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	logger.SetLevel(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ===== Step 1: open the stores
	store, err := config.CreateMetadataStore(ctx, &cfg.Metadata)
	if err != nil {
		log.Fatalf("Failed to create metadata store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("Failed to close metadata store: %v", err)
		}
	}()

	blobs, err := config.CreateBlobStore(ctx, &cfg.Blob)
	if err != nil {
		log.Fatalf("Failed to create blob store: %v", err)
	}
	defer func() {
		if err := blobs.Close(); err != nil {
			logger.Error("Failed to close blob store: %v", err)
		}
	}()

	// ===== Step 2: verify both backends answer before doing anything
	healthCtx, healthCancel := context.WithTimeout(ctx, 10*time.Second)
	defer healthCancel()
	if err := store.Healthcheck(healthCtx); err != nil {
		log.Fatalf("Metadata store healthcheck failed: %v", err)
	}
	if err := blobs.Healthcheck(healthCtx); err != nil {
		log.Fatalf("Blob store healthcheck failed: %v", err)
	}
	logger.Info("Stores healthy: metadata=%s blob=%s", cfg.Metadata.Type, cfg.Blob.Type)

	gcConfig := cfg.GC
	if *dryRun {
		gcConfig.DryRun = true
	}
	collector := gc.NewCollector(store, blobs, gcConfig)

	// ===== Step 3: one-shot mode
	if *gcNow {
		stats, err := collector.RunNow(ctx)
		if err != nil {
			log.Fatalf("Garbage collection failed: %v", err)
		}
		logger.Info("Garbage collection finished: %s", stats.Summary())
		return
	}

	// ===== Step 4: daemon mode
	collector.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Maintenance daemon running. Press Ctrl+C to stop.")
	<-sigChan

	logger.Info("Shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := collector.Stop(shutdownCtx); err != nil {
		logger.Error("Collector shutdown failed: %v", err)
	}
}
