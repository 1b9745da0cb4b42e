package rag

import (
	"errors"
	"fmt"
)

// ErrMalformedOutput marks model output that lacks the structure a stage
// needs (fence block, JSON payload, required keys). It is never retried.
var ErrMalformedOutput = errors.New("malformed generation output")

// Stage names a step of the note pipeline.
type Stage string

const (
	StageClassification Stage = "classification"
	StageRetrieval      Stage = "retrieval"
	StageSynthesis      Stage = "synthesis"
	StageModifyText     Stage = "modify_text"
)

// StageError records which pipeline stage failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Malformed wraps a parse failure so that errors.Is(err, ErrMalformedOutput) holds.
func Malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedOutput, fmt.Sprintf(format, args...))
}

// IsMalformed reports whether err was caused by unusable model output.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedOutput)
}
