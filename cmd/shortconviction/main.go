// Command shortconviction computes the ShortConviction monthly predictor
// from the three intermediate input tables and writes the predictor file
// plus its monthly standardization statistics under the predictors
// directory. It runs with no arguments; configuration comes from built-in
// defaults, an optional config.yaml, SIGNAL_* environment variables, and the
// small flag set below.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"signalcli/internal/config"
	"signalcli/internal/conviction"
	"signalcli/internal/dataset"
	pkgerrors "signalcli/internal/errors"
	"signalcli/internal/exporter"
	"signalcli/internal/infrastructure"
)

func main() {
	dataDir := flag.String("data-dir", "", "data directory holding intermediate/ input tables (defaults to ./data)")
	configFile := flag.String("config", "", "path to YAML config file (defaults to ./config.yaml if present)")
	logLevel := flag.String("log-level", "", "log level override: debug, info, warn, error")
	flag.Parse()

	if err := run(*dataDir, *configFile, *logLevel); err != nil {
		slog.Error("pipeline failed",
			"error", err,
			"code", pkgerrors.CodeOf(err),
			"stage", pkgerrors.StageOf(err),
		)
		os.Exit(1)
	}
}

func run(dataDir, configFile, logLevel string) error {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup", err)
	}
	applyOverrides(cfg, dataDir, logLevel)

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup",
			fmt.Errorf("initialize logger: %w", err))
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger.InfoContext(ctx, "starting shortconviction run",
		"version", config.AppVersion,
		"data_dir", paths.DataDir,
	)
	paths.LogPathResolution()

	tracing, err := infrastructure.InitializeTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup", err)
	}
	defer tracing.Shutdown(ctx)

	loader := dataset.NewLoader(paths, infrastructure.WithComponent(logger, "dataset"))
	tables, err := loader.LoadAll(ctx)
	if err != nil {
		return err
	}

	calc := conviction.NewCalculator(conviction.FactorParams{
		ClipLower: cfg.Factor.ClipLower,
		ClipUpper: cfg.Factor.ClipUpper,
	}, infrastructure.WithComponent(logger, "conviction"))
	calc.SetTracer(tracing.Tracer)

	result, err := calc.Calculate(ctx, tables.Master, tables.Shares, tables.ShortInterest)
	if err != nil {
		return err
	}

	// The exporter logs without a context, so hand it a logger that already
	// carries this run's correlation ID.
	writer := exporter.NewCSVWriter(paths, infrastructure.LoggerWithContext(ctx))
	predictorPath, err := writer.SavePredictor(conviction.FactorName, result.Values)
	if err != nil {
		return err
	}
	statsPath, err := writer.SaveMonthlyStats(conviction.FactorName, result.Stats)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "predictor saved",
		"predictor", predictorPath,
		"monthly_stats", statsPath,
		"rows", len(result.Values),
	)
	return nil
}

// applyOverrides applies flag values on top of the loaded configuration.
// Flags outrank both the environment and the YAML overlay.
func applyOverrides(cfg *config.Config, dataDir, logLevel string) {
	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
}
