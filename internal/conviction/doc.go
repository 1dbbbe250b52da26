// Package conviction computes the ShortConviction monthly predictor from the
// three loaded input tables. The Calculator runs the pipeline stages in
// sequence: join master and share rows (inner, 1:1), carve out rows without a
// company identifier, left-join short-interest positions (1:1), lag returns
// and the short-interest ratio by exact calendar months, derive and clip the
// raw factor, standardize it cross-sectionally per month, and reattach the
// carve-out rows so every input security-month appears in the output.
//
// Missing values are float64 NaN throughout and propagate through the
// arithmetic; only key duplication where a join declared 1:1 is an error.
package conviction
