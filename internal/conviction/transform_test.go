package conviction

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signalcli/pkg/contracts/domain"
)

// TestComputeRatios tests the short-interest ratio derivation
func TestComputeRatios(t *testing.T) {
	records := []Record{
		{ShortInterest: 100, SharesOut: 1000},
		{ShortInterest: 100, SharesOut: 0},
		{ShortInterest: 100, SharesOut: math.NaN()},
		{ShortInterest: math.NaN(), SharesOut: 1000},
	}

	computeRatios(records)

	assert.Equal(t, 0.1, records[0].SIRatio)
	assert.True(t, math.IsNaN(records[1].SIRatio), "zero share count yields missing ratio, not Inf")
	assert.True(t, math.IsNaN(records[2].SIRatio))
	assert.True(t, math.IsNaN(records[3].SIRatio))
}

// TestApplyLags tests the lag wiring over the record columns
func TestApplyLags(t *testing.T) {
	jan := domain.MonthOf(2024, time.January)
	records := []Record{
		{SecurityID: 1, Month: jan, Return: 0.05, SIRatio: 0.08},
		{SecurityID: 1, Month: jan.Add(1), Return: -0.02, SIRatio: 0.09},
		{SecurityID: 1, Month: jan.Add(2), Return: 0.03, SIRatio: 0.10},
	}

	applyLags(records)

	last := records[2]
	assert.Equal(t, -0.02, last.ReturnLag1)
	assert.Equal(t, 0.05, last.ReturnLag2)
	assert.Equal(t, 0.08, last.SIRatioLag2)

	first := records[0]
	assert.True(t, math.IsNaN(first.ReturnLag1))
	assert.True(t, math.IsNaN(first.ReturnLag2))
	assert.True(t, math.IsNaN(first.SIRatioLag2))
}

// TestDeriveFactor tests the raw factor arithmetic and sign convention
func TestDeriveFactor(t *testing.T) {
	params := DefaultFactorParams()

	t.Run("worked example", func(t *testing.T) {
		// Ratio rose from 0.08 to 0.10 over two months (pct change 0.25)
		// while returns compounded positively: a negative factor.
		records := []Record{{
			ReturnLag1:  -0.02,
			ReturnLag2:  0.05,
			SIRatio:     0.10,
			SIRatioLag2: 0.08,
		}}

		deriveFactor(records, params)

		cumret := (1-0.02)*(1+0.05) - 1
		require.InDelta(t, 0.029, cumret, 1e-9)
		assert.InDelta(t, -0.25*cumret, records[0].RawFactor, 1e-12)
	})

	t.Run("missing operands propagate", func(t *testing.T) {
		records := []Record{
			{ReturnLag1: math.NaN(), ReturnLag2: 0.05, SIRatio: 0.10, SIRatioLag2: 0.08},
			{ReturnLag1: 0.01, ReturnLag2: math.NaN(), SIRatio: 0.10, SIRatioLag2: 0.08},
			{ReturnLag1: 0.01, ReturnLag2: 0.05, SIRatio: math.NaN(), SIRatioLag2: 0.08},
			{ReturnLag1: 0.01, ReturnLag2: 0.05, SIRatio: 0.10, SIRatioLag2: math.NaN()},
		}

		deriveFactor(records, params)

		for i, r := range records {
			assert.True(t, math.IsNaN(r.RawFactor), "record %d", i)
		}
	})

	t.Run("zero ratio two months back is missing not Inf", func(t *testing.T) {
		records := []Record{{
			ReturnLag1:  0.01,
			ReturnLag2:  0.05,
			SIRatio:     0.10,
			SIRatioLag2: 0,
		}}

		deriveFactor(records, params)
		assert.True(t, math.IsNaN(records[0].RawFactor))
	})

	t.Run("clipping saturates extremes", func(t *testing.T) {
		// Ratio grew 100x while returns doubled: far past the upper bound
		// after negation the factor hits the lower bound.
		records := []Record{{
			ReturnLag1:  1.0,
			ReturnLag2:  0.0,
			SIRatio:     1.0,
			SIRatioLag2: 0.01,
		}}

		deriveFactor(records, params)
		assert.Equal(t, -3.0, records[0].RawFactor)
	})
}

// TestClip tests the saturation helper
func TestClip(t *testing.T) {
	assert.Equal(t, -3.0, clip(-7.2, -3, 3))
	assert.Equal(t, 3.0, clip(10, -3, 3))
	assert.Equal(t, 1.5, clip(1.5, -3, 3))
	assert.Equal(t, -3.0, clip(-3, -3, 3))
	assert.True(t, math.IsNaN(clip(math.NaN(), -3, 3)))
}

// TestSafeDivide tests null-propagating division
func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 2.0, safeDivide(4, 2))
	assert.True(t, math.IsNaN(safeDivide(4, 0)))
	assert.True(t, math.IsNaN(safeDivide(math.NaN(), 2)))
	assert.True(t, math.IsNaN(safeDivide(4, math.NaN())))
}

// TestFactorParamsIsValid tests parameter validation
func TestFactorParamsIsValid(t *testing.T) {
	assert.True(t, DefaultFactorParams().IsValid())
	assert.False(t, FactorParams{ClipLower: 3, ClipUpper: -3}.IsValid())
	assert.False(t, FactorParams{ClipLower: 1, ClipUpper: 1}.IsValid())
	assert.False(t, FactorParams{ClipLower: math.NaN(), ClipUpper: 3}.IsValid())
}
