package conviction

import (
	"math"

	"signalcli/internal/panel"
	"signalcli/pkg/contracts/domain"
)

// computeRatios fills the short-interest ratio on every record. The ratio is
// computed before lagging so the lag stage lags the ratio itself, not its
// components independently. A zero or missing share count makes the ratio
// missing, never infinite.
func computeRatios(records []Record) {
	for i := range records {
		records[i].SIRatio = safeDivide(records[i].ShortInterest, records[i].SharesOut)
	}
}

// applyLags fills the lagged columns: return one and two months back, and
// the short-interest ratio two months back, each aligned by exact calendar
// month per security.
func applyLags(records []Record) {
	entityOf := func(r Record) int64 { return r.SecurityID }
	monthOf := func(r Record) domain.Month { return r.Month }

	retLags := panel.Lag(records, entityOf, monthOf,
		func(r Record) float64 { return r.Return }, 1, 2)
	ratioLags := panel.Lag(records, entityOf, monthOf,
		func(r Record) float64 { return r.SIRatio }, 2)

	for i := range records {
		records[i].ReturnLag1 = retLags[1][i]
		records[i].ReturnLag2 = retLags[2][i]
		records[i].SIRatioLag2 = ratioLags[2][i]
	}
}

// deriveFactor computes the clipped raw factor on every record:
//
//	cumret_2m      = (1 + ret_lag1) * (1 + ret_lag2) - 1
//	si_pct_change  = (si_ratio - si_ratio_lag2) / si_ratio_lag2
//	raw            = -si_pct_change * cumret_2m, clipped to the parameter bounds
//
// A positive raw factor means short interest rose while the price rose over
// the prior two months. Missing operands and zero denominators propagate as
// NaN through the clip.
func deriveFactor(records []Record, params FactorParams) {
	for i := range records {
		r := &records[i]

		cumret := (1+r.ReturnLag1)*(1+r.ReturnLag2) - 1
		pctChange := safeDivide(r.SIRatio-r.SIRatioLag2, r.SIRatioLag2)

		r.RawFactor = clip(-pctChange*cumret, params.ClipLower, params.ClipUpper)
	}
}

// safeDivide divides num by den, reporting NaN instead of ±Inf when the
// denominator is zero or either operand is missing.
func safeDivide(num, den float64) float64 {
	if den == 0 || math.IsNaN(den) || math.IsNaN(num) {
		return math.NaN()
	}
	return num / den
}

// clip saturates v into [lower, upper]. NaN passes through unchanged.
func clip(v, lower, upper float64) float64 {
	switch {
	case math.IsNaN(v):
		return v
	case v < lower:
		return lower
	case v > upper:
		return upper
	default:
		return v
	}
}
