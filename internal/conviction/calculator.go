package conviction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	pkgerrors "signalcli/internal/errors"
	"signalcli/pkg/contracts/domain"
)

// Calculator runs the ShortConviction pipeline stages over loaded tables.
type Calculator struct {
	params FactorParams
	logger *slog.Logger
	tracer trace.Tracer
}

// NewCalculator creates a calculator with the given factor parameters.
func NewCalculator(params FactorParams, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{
		params: params,
		logger: logger,
		tracer: noop.NewTracerProvider().Tracer(""),
	}
}

// SetTracer installs a tracer for per-stage spans. The default is a no-op.
func (c *Calculator) SetTracer(tracer trace.Tracer) {
	if tracer != nil {
		c.tracer = tracer
	}
}

// Calculate computes the predictor for every master-table security-month.
// Stages run strictly in sequence; cancellation is honored between stages.
// Any cardinality violation aborts the run before output assembly.
func (c *Calculator) Calculate(
	ctx context.Context,
	master []domain.MasterRow,
	shares []domain.ShareRow,
	short []domain.ShortInterestRow,
) (*Result, error) {
	start := time.Now()

	if !c.params.IsValid() {
		return nil, pkgerrors.Wrapf(pkgerrors.CodeConfigInvalid, "calculate",
			"invalid factor parameters: clip [%v, %v]", c.params.ClipLower, c.params.ClipUpper)
	}

	c.logger.InfoContext(ctx, "starting factor calculation",
		"factor", FactorName,
		"master_rows", len(master),
		"share_rows", len(shares),
		"short_interest_rows", len(short),
	)

	// Stage 2: join master with share counts, then carve out rows lacking a
	// company identifier and left-join short interest onto the rest.
	var withCompany, carveOut []Record
	err := c.stage(ctx, "join", func(ctx context.Context) error {
		records, err := joinMasterShares(master, shares)
		if err != nil {
			return err
		}
		withCompany, carveOut = partitionByCompany(records)
		withCompany, err = joinShortInterest(withCompany, short)
		return err
	})
	if err != nil {
		var ce *CardinalityError
		if errors.As(err, &ce) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeCardinalityViolation, "join", err)
		}
		return nil, err
	}
	c.logger.InfoContext(ctx, "joined input tables",
		"records", len(withCompany)+len(carveOut),
		"carve_out", len(carveOut),
	)

	// Stage 3: ratio first, then exact-month lags of returns and the ratio.
	err = c.stage(ctx, "lag", func(ctx context.Context) error {
		computeRatios(withCompany)
		applyLags(withCompany)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stage 4: derive and clip the raw factor.
	err = c.stage(ctx, "transform", func(ctx context.Context) error {
		deriveFactor(withCompany, c.params)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Stage 5: per-month cross-sectional z-scores.
	var stats []domain.MonthlyStats
	err = c.stage(ctx, "standardize", func(ctx context.Context) error {
		stats = standardize(withCompany)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Output assembly: reattach the carve-out rows and sort by key.
	var values []domain.PredictorValue
	err = c.stage(ctx, "assemble", func(ctx context.Context) error {
		values = assemble(withCompany, carveOut)
		return nil
	})
	if err != nil {
		return nil, err
	}

	valid := 0
	for _, v := range values {
		if !math.IsNaN(v.Value) {
			valid++
		}
	}
	c.logger.InfoContext(ctx, "factor calculation completed",
		"factor", FactorName,
		"duration", time.Since(start),
		"output_rows", len(values),
		"valid_rows", valid,
		"months", len(stats),
	)

	return &Result{Values: values, Stats: stats}, nil
}

// stage runs one pipeline stage under a span, checking for cancellation
// before it starts.
func (c *Calculator) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stage %s canceled: %w", name, err)
	}

	ctx, span := c.tracer.Start(ctx, "pipeline."+name,
		trace.WithAttributes(attribute.String("factor", FactorName)))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		c.logger.ErrorContext(ctx, "pipeline stage failed", "stage", name, "error", err)
		return err
	}

	c.logger.DebugContext(ctx, "pipeline stage completed",
		"stage", name,
		"duration", time.Since(start),
	)
	return nil
}

// assemble restricts the processed records to output columns, reattaches the
// carve-out rows with their null factor, and sorts everything by
// (security_id, month). The output row count always equals the master-table
// row count.
func assemble(withCompany, carveOut []Record) []domain.PredictorValue {
	values := make([]domain.PredictorValue, 0, len(withCompany)+len(carveOut))
	for _, r := range withCompany {
		values = append(values, domain.PredictorValue{
			SecurityID: r.SecurityID,
			Month:      r.Month,
			Value:      r.Standardized,
		})
	}
	for _, r := range carveOut {
		values = append(values, domain.PredictorValue{
			SecurityID: r.SecurityID,
			Month:      r.Month,
			Value:      math.NaN(),
		})
	}

	sort.Slice(values, func(i, j int) bool {
		if values[i].SecurityID != values[j].SecurityID {
			return values[i].SecurityID < values[j].SecurityID
		}
		return values[i].Month < values[j].Month
	})
	return values
}
