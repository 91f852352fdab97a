package outcome

import (
	"errors"
	"fmt"
)

// StageError tags the first failure of a stage with the stage's name.
// The wrapped step error stays inspectable through Unwrap, so errors.As
// still reaches the underlying *StepError and its kind.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Aggregate combines the outcomes of one stage's steps into a single stage
// outcome. It returns nil only when every outcome is nil; otherwise it
// returns the first non-nil error in input order wrapped in a *StageError.
//
// The order is the declared step order, not completion order: callers run
// every scheduled step to completion before aggregating, which keeps the
// reported failure deterministic even for concurrently executed steps.
func Aggregate(stage string, errs []error) error {
	for _, err := range errs {
		if err != nil {
			return &StageError{Stage: stage, Err: err}
		}
	}
	return nil
}

// StageOf returns the stage name an aggregated error was tagged with.
func StageOf(err error) (string, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}
