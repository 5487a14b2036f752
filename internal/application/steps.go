package application

import (
	"context"
	"fmt"
	"strings"
)

// step is one unit of a multi-step mutation. undo may be nil when the
// effect cannot be reversed.
type step struct {
	name string
	do   func(ctx context.Context) error
	undo func(ctx context.Context) error
}

// StepError reports a failed step together with the steps whose effects
// are still in place.
type StepError struct {
	Step      string
	Committed []string
	Err       error
}

func (e *StepError) Error() string {
	if len(e.Committed) == 0 {
		return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
	}
	return fmt.Sprintf("step %q failed after [%s]: %v", e.Step, strings.Join(e.Committed, ", "), e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// runSteps executes steps in order. On failure it undoes the committed steps
// in reverse and returns a *StepError naming those it could not undo.
func runSteps(ctx context.Context, steps ...step) error {
	done := make([]step, 0, len(steps))
	for _, s := range steps {
		if err := s.do(ctx); err != nil {
			committed := make([]string, 0, len(done))
			for i := len(done) - 1; i >= 0; i-- {
				d := done[i]
				if d.undo != nil && d.undo(ctx) == nil {
					continue
				}
				committed = append(committed, d.name)
			}
			// report in execution order
			for l, r := 0, len(committed)-1; l < r; l, r = l+1, r-1 {
				committed[l], committed[r] = committed[r], committed[l]
			}
			return &StepError{Step: s.name, Committed: committed, Err: err}
		}
		done = append(done, s)
	}
	return nil
}
