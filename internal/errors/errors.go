package errors

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable classification for pipeline failures.
// Codes are part of the tool's contract: log consumers and wrapper scripts
// match on them, so existing values must not change.
type Code string

const (
	// CodeMissingInput marks a source table that is absent or unreadable.
	CodeMissingInput Code = "MISSING_INPUT"
	// CodeMalformedTable marks a table missing required columns or holding
	// an unparseable non-empty cell.
	CodeMalformedTable Code = "MALFORMED_TABLE"
	// CodeCardinalityViolation marks a duplicate key where a join declared 1:1.
	CodeCardinalityViolation Code = "CARDINALITY_VIOLATION"
	// CodeConfigInvalid marks unresolvable or invalid configuration.
	CodeConfigInvalid Code = "CONFIG_INVALID"
	// CodeOutputWriteFailed marks a failure persisting the predictor or its
	// side outputs.
	CodeOutputWriteFailed Code = "OUTPUT_WRITE_FAILED"
	// CodeInternal is the fallback for untagged errors.
	CodeInternal Code = "INTERNAL"
)

// PipelineError tags an underlying error with a stable code and the pipeline
// stage that raised it.
type PipelineError struct {
	Code  Code
	Stage string
	Err   error
}

// Error implements the error interface
func (e *PipelineError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %v [%s]", e.Stage, e.Err, e.Code)
	}
	return fmt.Sprintf("%v [%s]", e.Err, e.Code)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Wrap tags err with a code and the stage that raised it. A nil err returns
// nil so call sites can wrap unconditionally.
func Wrap(code Code, stage string, err error) error {
	if err == nil {
		return nil
	}
	return &PipelineError{Code: code, Stage: stage, Err: err}
}

// Wrapf tags a freshly formatted error with a code and stage.
func Wrapf(code Code, stage, format string, args ...interface{}) error {
	return &PipelineError{Code: code, Stage: stage, Err: fmt.Errorf(format, args...)}
}

// CodeOf returns the code carried by err, walking the wrap chain. Untagged
// errors report CodeInternal.
func CodeOf(err error) Code {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return CodeInternal
}

// StageOf returns the stage recorded on err, or "" for untagged errors.
func StageOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Stage
	}
	return ""
}
