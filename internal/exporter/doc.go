// Package exporter persists pipeline outputs under the predictors directory:
// the predictor file itself (security, YYYYMM month, standardized factor) and
// the monthly standardization statistics recorded alongside it. Output files
// are written only after the pipeline has fully succeeded; rows are sorted
// and floats formatted with fixed precision so identical inputs produce
// byte-identical files.
package exporter
