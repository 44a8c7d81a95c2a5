package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExecutionError is returned when a node fails during a run. It preserves
// the originating node's identity and the underlying cause.
type ExecutionError struct {
	// Node is the name of the node that failed.
	Node string
	// Err is the underlying cause.
	Err error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("error in node %s: %v", e.Node, e.Err)
}

func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// StepRecord records one executed node in a run's history.
type StepRecord struct {
	// Node is the name of the node that ran (or END for the terminal record).
	Node string
	// Duration is the wall-clock time the node took.
	Duration time.Duration
}

// RunResult is the outcome of a completed run.
type RunResult struct {
	// RunID uniquely identifies the run.
	RunID string
	// Output is the value carried by the terminal step.
	Output any
	// History is the ordered, append-only record of every node that
	// executed, ending with the END marker.
	History []StepRecord
}

// Runnable is a compiled graph that can be invoked.
type Runnable struct {
	graph *Graph
}

// Invoke drives a single run from the entry point to termination. The same
// state value is threaded through every step; nodes mutate it in place.
// A node error stops the run and is returned as an *ExecutionError. A node
// transitioning to an undeclared node fails fast with ErrNodeNotFound before
// the undeclared node executes.
func (r *Runnable) Invoke(ctx context.Context, state any) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString()}

	current := r.graph.entryPoint
	steps := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if r.graph.maxSteps > 0 && steps >= r.graph.maxSteps {
			return nil, &ExecutionError{Node: current, Err: ErrMaxStepsExceeded}
		}

		node := r.graph.nodes[current]

		start := time.Now()
		step, err := node.Function(ctx, state)
		if err != nil {
			var execErr *ExecutionError
			if errors.As(err, &execErr) {
				return nil, err
			}
			return nil, &ExecutionError{Node: current, Err: err}
		}

		result.History = append(result.History, StepRecord{
			Node:     current,
			Duration: time.Since(start),
		})
		steps++

		if step.IsDone() {
			result.History = append(result.History, StepRecord{Node: END})
			result.Output = step.Value()
			return result, nil
		}

		next := step.Next()
		if _, ok := r.graph.nodes[next]; !ok {
			return nil, fmt.Errorf("%w: %q (returned by node %s)", ErrNodeNotFound, next, current)
		}
		current = next
	}
}
