package conviction

import (
	"math"
	"sort"

	"signalcli/pkg/contracts/domain"
)

// standardize rescales the raw factor to a per-month z-score. For each
// calendar month it computes the mean and sample standard deviation of the
// non-missing raw values, then scores each record as (raw - mean) / std.
// A record keeps a missing score when its raw value is missing or when the
// month's standard deviation is not strictly positive (zero variance, or
// fewer than two observations). The per-month statistics are returned
// sorted by month for the side output.
func standardize(records []Record) []domain.MonthlyStats {
	months := make(map[domain.Month]*domain.MonthlyStats)
	cohorts := make(map[domain.Month][]float64)
	for _, r := range records {
		ms, ok := months[r.Month]
		if !ok {
			ms = &domain.MonthlyStats{Month: r.Month, Mean: math.NaN(), Std: math.NaN()}
			months[r.Month] = ms
		}
		ms.Total++
		if !math.IsNaN(r.RawFactor) {
			ms.Valid++
			cohorts[r.Month] = append(cohorts[r.Month], r.RawFactor)
		}
	}

	for month, ms := range months {
		values := cohorts[month]
		ms.Mean = mean(values)
		ms.Std = sampleStd(values, ms.Mean)
	}

	for i := range records {
		r := &records[i]
		ms := months[r.Month]
		if math.IsNaN(r.RawFactor) || math.IsNaN(ms.Std) || ms.Std <= 0 {
			r.Standardized = math.NaN()
			continue
		}
		r.Standardized = (r.RawFactor - ms.Mean) / ms.Std
	}

	stats := make([]domain.MonthlyStats, 0, len(months))
	for _, ms := range months {
		stats = append(stats, *ms)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Month < stats[j].Month })
	return stats
}

// mean computes the arithmetic mean, NaN for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStd computes the sample (n-1 denominator) standard deviation around
// a precomputed mean. Fewer than two values make it undefined.
func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 || math.IsNaN(mean) {
		return math.NaN()
	}
	sumSquares := 0.0
	for _, v := range values {
		d := v - mean
		sumSquares += d * d
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}
