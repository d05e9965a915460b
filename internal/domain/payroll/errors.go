package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidJob     = errors.New("invalid payroll job")
	ErrPeriodNotFound = errors.New("period not found")
)

// StageError wraps a failure with the pipeline stage it happened in, so the
// worker can report where a liquidation stopped.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
