package conviction

import (
	"math"

	"signalcli/pkg/contracts/domain"
)

// FactorName is the canonical identifier of the predictor this package
// computes; output files derive their names from it.
const FactorName = "ShortConviction"

// Default clip bounds for the raw factor.
const (
	DefaultClipLower = -3.0
	DefaultClipUpper = 3.0
)

// FactorParams holds the tunable parameters of the factor computation.
type FactorParams struct {
	ClipLower float64
	ClipUpper float64
}

// DefaultFactorParams returns the canonical parameterization.
func DefaultFactorParams() FactorParams {
	return FactorParams{
		ClipLower: DefaultClipLower,
		ClipUpper: DefaultClipUpper,
	}
}

// IsValid checks that the clip interval is well formed.
func (p FactorParams) IsValid() bool {
	return !math.IsNaN(p.ClipLower) && !math.IsNaN(p.ClipUpper) &&
		p.ClipLower < p.ClipUpper
}

// Record is one security-month observation flowing through the pipeline
// stages. Joins populate the input columns, the lag stage the lagged copies,
// and the transform/standardize stages the factor columns. Any float column
// may be NaN, meaning missing.
type Record struct {
	SecurityID int64
	CompanyID  int64
	Month      domain.Month

	Return        float64
	SharesOut     float64
	ShortInterest float64

	SIRatio     float64
	ReturnLag1  float64
	ReturnLag2  float64
	SIRatioLag2 float64

	RawFactor    float64
	Standardized float64
}

// Result is the pipeline output: one predictor value per input
// security-month, plus the per-month standardization statistics.
type Result struct {
	Values []domain.PredictorValue
	Stats  []domain.MonthlyStats
}
