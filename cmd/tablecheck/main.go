// Command tablecheck validates the three intermediate input tables without
// computing the factor. It exits nonzero when a table is missing, malformed,
// or violates the key uniqueness the pipeline's joins declare; otherwise it
// logs per-table row counts, month ranges, and company-identifier coverage.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"signalcli/internal/config"
	"signalcli/internal/dataset"
	pkgerrors "signalcli/internal/errors"
	"signalcli/internal/infrastructure"
	"signalcli/internal/panel"
	"signalcli/pkg/contracts/domain"
)

func main() {
	dataDir := flag.String("data-dir", "", "data directory holding intermediate/ input tables (defaults to ./data)")
	configFile := flag.String("config", "", "path to YAML config file (defaults to ./config.yaml if present)")
	logLevel := flag.String("log-level", "", "log level override: debug, info, warn, error")
	flag.Parse()

	if err := run(*dataDir, *configFile, *logLevel); err != nil {
		slog.Error("table check failed",
			"error", err,
			"code", pkgerrors.CodeOf(err),
		)
		os.Exit(1)
	}
}

func run(dataDir, configFile, logLevel string) error {
	cfg, err := config.LoadFrom(configFile)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup", err)
	}
	if dataDir != "" {
		cfg.Paths.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeConfigInvalid, "startup",
			fmt.Errorf("initialize logger: %w", err))
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())
	logger.InfoContext(ctx, "checking input tables", "intermediate_dir", paths.IntermediateDir)

	loader := dataset.NewLoader(paths, infrastructure.WithComponent(logger, "dataset"))
	tables, err := loader.LoadAll(ctx)
	if err != nil {
		return err
	}

	if err := checkTables(ctx, logger, tables); err != nil {
		return err
	}

	logger.InfoContext(ctx, "all input tables valid")
	return nil
}

// checkTables validates key uniqueness per table and logs coverage summaries.
func checkTables(ctx context.Context, logger *slog.Logger, tables *dataset.Tables) error {
	masterKeys := make([]panel.Key, 0, len(tables.Master))
	withCompany := 0
	for _, r := range tables.Master {
		masterKeys = append(masterKeys, panel.Key{Entity: r.SecurityID, Month: r.Month})
		if r.HasCompany() {
			withCompany++
		}
	}
	if err := checkUnique("SignalMasterTable", masterKeys); err != nil {
		return err
	}
	logTableSummary(ctx, logger, "SignalMasterTable", masterKeys)
	logger.InfoContext(ctx, "company identifier coverage",
		"table", "SignalMasterTable",
		"with_company", withCompany,
		"without_company", len(tables.Master)-withCompany,
	)

	shareKeys := make([]panel.Key, 0, len(tables.Shares))
	for _, r := range tables.Shares {
		shareKeys = append(shareKeys, panel.Key{Entity: r.SecurityID, Month: r.Month})
	}
	if err := checkUnique("monthlyCRSP", shareKeys); err != nil {
		return err
	}
	logTableSummary(ctx, logger, "monthlyCRSP", shareKeys)

	shortKeys := make([]panel.Key, 0, len(tables.ShortInterest))
	for _, r := range tables.ShortInterest {
		shortKeys = append(shortKeys, panel.Key{Entity: r.CompanyID, Month: r.Month})
	}
	if err := checkUnique("monthlyShortInterest", shortKeys); err != nil {
		return err
	}
	logTableSummary(ctx, logger, "monthlyShortInterest", shortKeys)

	return nil
}

// checkUnique verifies that every (entity, month) key occurs once.
func checkUnique(table string, keys []panel.Key) error {
	seen := make(map[panel.Key]struct{}, len(keys))
	for _, k := range keys {
		if _, dup := seen[k]; dup {
			return pkgerrors.Wrapf(pkgerrors.CodeCardinalityViolation, "check",
				"%s: duplicate key (id=%d, month=%s)", table, k.Entity, k.Month)
		}
		seen[k] = struct{}{}
	}
	return nil
}

// logTableSummary logs row count and month range for one table.
func logTableSummary(ctx context.Context, logger *slog.Logger, table string, keys []panel.Key) {
	if len(keys) == 0 {
		logger.WarnContext(ctx, "table has no data rows", "table", table)
		return
	}

	minMonth, maxMonth := keys[0].Month, keys[0].Month
	entities := make(map[int64]struct{}, len(keys))
	for _, k := range keys {
		if k.Month < minMonth {
			minMonth = k.Month
		}
		if k.Month > maxMonth {
			maxMonth = k.Month
		}
		entities[k.Entity] = struct{}{}
	}

	logger.InfoContext(ctx, "table summary",
		"table", table,
		"rows", len(keys),
		"entities", len(entities),
		"first_month", minMonth.String(),
		"last_month", maxMonth.String(),
		"months_spanned", monthSpan(minMonth, maxMonth),
	)
}

// monthSpan counts the calendar months covered by an inclusive range.
func monthSpan(first, last domain.Month) int {
	return int(last-first) + 1
}
