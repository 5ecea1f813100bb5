// cmd/favicongen/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"favicongen/internal/buildinfo"
	"favicongen/internal/config"
	"favicongen/internal/database"
	"favicongen/internal/favicon"
	"favicongen/internal/logging"
	"favicongen/internal/metrics"
)

const failureHint = "check that the output directory exists and is writable"

func main() {
	os.Exit(realMain(os.Args[1:], os.Stdout, os.Stderr))
}

// realMain runs the command and returns its exit code.
func realMain(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("favicongen", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configFile := flags.String("config", "", "Configuration file path (defaults are used when empty)")
	version := flags.Bool("version", false, "Show version information")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *version {
		fmt.Fprintf(stdout, "favicongen %s\n", buildinfo.Get())
		return 0
	}

	logrus.SetOutput(stderr)
	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.WithError(err).Error("Failed to load config")
		return 1
	}

	logging.Setup(cfg.Logging, stderr)

	if err := run(context.Background(), cfg, stdout); err != nil {
		reportFailure(logrus.StandardLogger(), err)
		return 1
	}
	return 0
}

// run generates the full favicon set. Progress lines go to stdout.
func run(ctx context.Context, cfg *config.Config, stdout io.Writer) error {
	outputDir, err := cfg.ResolvePath(cfg.Output.Dir)
	if err != nil {
		return err
	}

	store := openStore(cfg)
	if store != nil {
		defer store.Close()
	}

	collector := metrics.NewCollector()
	generator := favicon.NewGenerator(favicon.Options{
		OutputDir:        outputDir,
		FontPath:         cfg.Font.Path,
		Manifest:         cfg.Output.Manifest,
		OGImage:          cfg.Output.OGImage,
		HistoryRetention: cfg.Database.HistoryRetention,
		Progress:         stdout,
	}, store, collector)

	logrus.WithFields(logrus.Fields{
		"output_dir": outputDir,
		"font":       cfg.Font.Path,
	}).Debug("Generating favicons")

	genRun, err := generator.Run(ctx)
	pushMetrics(ctx, cfg.Prometheus, collector)
	if err != nil {
		return err
	}

	if genRun.FontFallback {
		logrus.WithField("font", cfg.Font.Path).Info("Font not available, used built-in bitmap font")
	}
	fmt.Fprintln(stdout, "\nAll favicon files generated successfully!")
	return nil
}

// openStore returns nil when history is disabled or cannot be opened.
func openStore(cfg *config.Config) database.Store {
	if cfg.Database.Path == "" {
		return nil
	}

	path, err := cfg.ResolvePath(cfg.Database.Path)
	if err != nil {
		logrus.WithError(err).Warn("Run history disabled")
		return nil
	}

	store, err := database.NewBoltStore(path)
	if err != nil {
		logrus.WithField("path", path).WithError(err).Warn("Run history disabled")
		return nil
	}
	return store
}

func pushMetrics(ctx context.Context, cfg config.PrometheusConfig, collector *metrics.Collector) {
	if cfg.PushGateway == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := collector.Push(ctx, cfg.PushGateway, cfg.JobName); err != nil {
		logrus.WithError(err).Warn("Failed to push metrics")
	}
}

// reportFailure logs err as a single entry with a remediation hint.
func reportFailure(logger *logrus.Logger, err error) {
	logger.WithError(err).WithField("hint", failureHint).Error("Error generating favicons")
}
