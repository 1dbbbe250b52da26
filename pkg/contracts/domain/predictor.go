package domain

// PredictorValue is one output row of a monthly predictor: a security, a
// month, and the standardized factor. Value is NaN when the factor could not
// be computed for that security-month; such rows are kept, not dropped.
type PredictorValue struct {
	SecurityID int64   `json:"permno"`
	Month      Month   `json:"yyyymm"`
	Value      float64 `json:"value"`
}

// MonthlyStats records the cross-sectional standardization inputs for one
// month: cohort size, the number of rows carrying a usable raw value, and the
// mean and sample standard deviation used for scaling. Mean and Std are NaN
// when fewer than one (respectively two) usable values existed.
type MonthlyStats struct {
	Month Month   `json:"yyyymm"`
	Total int     `json:"total"`
	Valid int     `json:"valid"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}
