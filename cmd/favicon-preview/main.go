// cmd/favicon-preview/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"favicongen/internal/buildinfo"
	"favicongen/internal/config"
	"favicongen/internal/database"
	"favicongen/internal/favicon"
	"favicongen/internal/logging"
	"favicongen/internal/metrics"
	"favicongen/internal/web"
)

func main() {
	configFile := flag.String("config", "", "Configuration file path")
	port := flag.String("port", "", "Listen address, overrides server.port")
	generate := flag.Bool("generate", false, "Generate the favicon set before serving")
	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("favicon-preview %s\n", buildinfo.Get())
		os.Exit(0)
	}

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Server.Port = *port
	}

	logging.Setup(cfg.Logging, os.Stderr)

	outputDir, err := cfg.ResolvePath(cfg.Output.Dir)
	if err != nil {
		logrus.Fatalf("Failed to resolve output directory: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"config_file": *configFile,
		"port":        cfg.Server.Port,
		"output_dir":  outputDir,
	}).Info("Starting favicon preview")

	// Initialize database
	var store database.Store
	if cfg.Database.Path != "" {
		dbPath, err := cfg.ResolvePath(cfg.Database.Path)
		if err != nil {
			logrus.Fatalf("Failed to resolve database path: %v", err)
		}
		boltStore, err := database.NewBoltStore(dbPath)
		if err != nil {
			logrus.Fatalf("Failed to initialize database: %v", err)
		}
		defer boltStore.Close()
		store = boltStore
	}

	metricsCollector := metrics.NewCollector()

	generator := favicon.NewGenerator(favicon.Options{
		OutputDir:        outputDir,
		FontPath:         cfg.Font.Path,
		Manifest:         cfg.Output.Manifest,
		OGImage:          cfg.Output.OGImage,
		HistoryRetention: cfg.Database.HistoryRetention,
	}, store, metricsCollector)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *generate {
		if _, err := generator.Run(ctx); err != nil {
			logrus.WithError(err).Error("Initial generation failed")
		}
	}

	webServer := web.NewServer(cfg, store, generator, metricsCollector)
	if err := webServer.Start(ctx); err != nil {
		logrus.Fatalf("Failed to start web server: %v", err)
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	logrus.WithField("signal", sig).Info("Received shutdown signal")

	// Graceful shutdown
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := webServer.Stop(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Server shutdown failed")
	}
	logrus.Info("Shutdown complete")
}
