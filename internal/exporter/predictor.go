package exporter

import (
	"math"
	"sort"
	"strconv"

	pkgerrors "signalcli/internal/errors"
	"signalcli/pkg/contracts/domain"
)

// factorPrecision is the number of decimal places for factor and statistic
// values in output files.
const factorPrecision = 6

// SavePredictor persists predictor values as <name>.csv under the predictors
// directory, sorted by (security, month), and returns the written path.
// Missing values are written as empty fields, not dropped.
func (w *CSVWriter) SavePredictor(name string, values []domain.PredictorValue) (string, error) {
	sorted := make([]domain.PredictorValue, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].SecurityID != sorted[j].SecurityID {
			return sorted[i].SecurityID < sorted[j].SecurityID
		}
		return sorted[i].Month < sorted[j].Month
	})

	records := make([][]string, 0, len(sorted))
	for _, v := range sorted {
		records = append(records, []string{
			strconv.FormatInt(v.SecurityID, 10),
			v.Month.YYYYMM(),
			formatValue(v.Value),
		})
	}

	path := w.paths.PredictorPath(name + ".csv")
	err := w.WriteCSV(path, WriteOptions{
		Headers: []string{"permno", "yyyymm", name},
		Records: records,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeOutputWriteFailed, "save", err)
	}
	return path, nil
}

// SaveMonthlyStats persists the per-month standardization statistics as
// <name>_monthly_stats.csv next to the predictor file and returns the
// written path.
func (w *CSVWriter) SaveMonthlyStats(name string, stats []domain.MonthlyStats) (string, error) {
	sorted := make([]domain.MonthlyStats, len(stats))
	copy(sorted, stats)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Month < sorted[j].Month })

	records := make([][]string, 0, len(sorted))
	for _, s := range sorted {
		records = append(records, []string{
			s.Month.YYYYMM(),
			strconv.Itoa(s.Total),
			strconv.Itoa(s.Valid),
			formatValue(s.Mean),
			formatValue(s.Std),
		})
	}

	path := w.paths.PredictorPath(name + "_monthly_stats.csv")
	err := w.WriteCSV(path, WriteOptions{
		Headers: []string{"yyyymm", "total", "valid", "mean", "std"},
		Records: records,
	})
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeOutputWriteFailed, "save", err)
	}
	return path, nil
}

// formatValue formats a float for output files: fixed precision, empty for
// missing.
func formatValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', factorPrecision, 64)
}
