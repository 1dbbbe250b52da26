package dataset

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"signalcli/internal/config"
	"signalcli/pkg/contracts/domain"
)

// Tables holds the three loaded input tables of one pipeline run.
type Tables struct {
	Master        []domain.MasterRow
	Shares        []domain.ShareRow
	ShortInterest []domain.ShortInterestRow
}

// Loader reads the input tables from the configured intermediate directory.
type Loader struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewLoader creates a loader bound to the resolved path layout.
func NewLoader(paths *config.Paths, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{paths: paths, logger: logger}
}

// LoadAll loads the three input tables concurrently. The tables are
// independent of each other, so the loads run under one errgroup and the
// first error cancels the rest.
func (l *Loader) LoadAll(ctx context.Context) (*Tables, error) {
	tables := &Tables{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tables.Master, err = l.LoadMaster(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tables.Shares, err = l.LoadShares(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tables.ShortInterest, err = l.LoadShortInterest(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "input tables loaded",
		"master_rows", len(tables.Master),
		"share_rows", len(tables.Shares),
		"short_interest_rows", len(tables.ShortInterest),
	)

	return tables, nil
}

// LoadMaster loads the signal master table: one row per security-month with
// the issuing company (possibly missing) and the monthly return.
func (l *Loader) LoadMaster(ctx context.Context) ([]domain.MasterRow, error) {
	path, err := findTableFile(l.paths, config.MasterTableName)
	if err != nil {
		return nil, err
	}

	t, err := readTable(path, []string{"permno", "gvkey", "time_avail_m", "ret"})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.MasterRow, 0, len(t.rows))
	for i, raw := range t.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var row domain.MasterRow
		if row.SecurityID, err = parseID(t.cell(raw, "permno")); err != nil {
			return nil, t.rowError(i, "permno", err)
		}
		if row.CompanyID, err = parseOptionalID(t.cell(raw, "gvkey")); err != nil {
			return nil, t.rowError(i, "gvkey", err)
		}
		if row.Month, err = parseMonthCell(t.cell(raw, "time_avail_m")); err != nil {
			return nil, t.rowError(i, "time_avail_m", err)
		}
		if row.Return, err = parseValue(t.cell(raw, "ret")); err != nil {
			return nil, t.rowError(i, "ret", err)
		}
		rows = append(rows, row)
	}

	l.logger.DebugContext(ctx, "loaded master table", "path", path, "rows", len(rows))
	return rows, nil
}

// LoadShares loads the monthly CRSP table: one row per security-month with
// the share count outstanding.
func (l *Loader) LoadShares(ctx context.Context) ([]domain.ShareRow, error) {
	path, err := findTableFile(l.paths, config.CRSPTableName)
	if err != nil {
		return nil, err
	}

	t, err := readTable(path, []string{"permno", "time_avail_m", "shrout"})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ShareRow, 0, len(t.rows))
	for i, raw := range t.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var row domain.ShareRow
		if row.SecurityID, err = parseID(t.cell(raw, "permno")); err != nil {
			return nil, t.rowError(i, "permno", err)
		}
		if row.Month, err = parseMonthCell(t.cell(raw, "time_avail_m")); err != nil {
			return nil, t.rowError(i, "time_avail_m", err)
		}
		if row.SharesOut, err = parseValue(t.cell(raw, "shrout")); err != nil {
			return nil, t.rowError(i, "shrout", err)
		}
		rows = append(rows, row)
	}

	l.logger.DebugContext(ctx, "loaded share table", "path", path, "rows", len(rows))
	return rows, nil
}

// LoadShortInterest loads the monthly short-interest table: one row per
// company-month with the reported short position.
func (l *Loader) LoadShortInterest(ctx context.Context) ([]domain.ShortInterestRow, error) {
	path, err := findTableFile(l.paths, config.ShortInterestTableName)
	if err != nil {
		return nil, err
	}

	t, err := readTable(path, []string{"gvkey", "time_avail_m", "shortint"})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ShortInterestRow, 0, len(t.rows))
	for i, raw := range t.rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var row domain.ShortInterestRow
		if row.CompanyID, err = parseID(t.cell(raw, "gvkey")); err != nil {
			return nil, t.rowError(i, "gvkey", err)
		}
		if row.Month, err = parseMonthCell(t.cell(raw, "time_avail_m")); err != nil {
			return nil, t.rowError(i, "time_avail_m", err)
		}
		if row.ShortInterest, err = parseValue(t.cell(raw, "shortint")); err != nil {
			return nil, t.rowError(i, "shortint", err)
		}
		rows = append(rows, row)
	}

	l.logger.DebugContext(ctx, "loaded short-interest table", "path", path, "rows", len(rows))
	return rows, nil
}
