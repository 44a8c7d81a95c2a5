package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterState struct {
	Visited []string
}

func visit(name string, next Step) NodeFunc {
	return func(ctx context.Context, state any) (Step, error) {
		s := state.(*counterState)
		s.Visited = append(s.Visited, name)
		return next, nil
	}
}

func TestCompileRequiresEntryPoint(t *testing.T) {
	g := New()
	g.AddNode("a", "", visit("a", Done(nil)))

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrEntryPointNotSet)
}

func TestCompileRejectsUnknownEntryPoint(t *testing.T) {
	g := New()
	g.AddNode("a", "", visit("a", Done(nil)))
	g.SetEntryPoint("missing")

	_, err := g.Compile()
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestInvokeRunsNodesInOrder(t *testing.T) {
	g := New()
	g.AddNode("first", "", visit("first", Continue("second")))
	g.AddNode("second", "", visit("second", Continue("third")))
	g.AddNode("third", "", func(ctx context.Context, state any) (Step, error) {
		s := state.(*counterState)
		s.Visited = append(s.Visited, "third")
		return Done("final value"), nil
	})
	g.SetEntryPoint("first")

	runnable, err := g.Compile()
	require.NoError(t, err)

	state := &counterState{}
	result, err := runnable.Invoke(context.Background(), state)
	require.NoError(t, err)

	assert.Equal(t, "final value", result.Output)
	assert.Equal(t, []string{"first", "second", "third"}, state.Visited)
	assert.NotEmpty(t, result.RunID)

	// History records every node in order, including the terminal marker.
	names := make([]string, len(result.History))
	for i, rec := range result.History {
		names[i] = rec.Node
	}
	assert.Equal(t, []string{"first", "second", "third", END}, names)
}

func TestInvokeThreadsSameState(t *testing.T) {
	g := New()
	g.AddNode("a", "", func(ctx context.Context, state any) (Step, error) {
		state.(*counterState).Visited = append(state.(*counterState).Visited, "a")
		return Continue("b"), nil
	})
	g.AddNode("b", "", func(ctx context.Context, state any) (Step, error) {
		// The state mutated by the previous node must be visible here.
		s := state.(*counterState)
		assert.Equal(t, []string{"a"}, s.Visited)
		return Done(nil), nil
	})
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), &counterState{})
	assert.NoError(t, err)
}

func TestInvokeFailsFastOnUndeclaredNode(t *testing.T) {
	g := New()
	g.AddNode("a", "", visit("a", Continue("phantom")))
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	state := &counterState{}
	_, err = runnable.Invoke(context.Background(), state)
	assert.ErrorIs(t, err, ErrNodeNotFound)
	assert.Contains(t, err.Error(), "phantom")
	// Only the node that misbehaved ran.
	assert.Equal(t, []string{"a"}, state.Visited)
}

func TestInvokeWrapsNodeError(t *testing.T) {
	cause := errors.New("boom")

	g := New()
	g.AddNode("a", "", visit("a", Continue("b")))
	g.AddNode("b", "", func(ctx context.Context, state any) (Step, error) {
		return Step{}, cause
	})
	g.AddNode("c", "", visit("c", Done(nil)))
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	state := &counterState{}
	_, err = runnable.Invoke(context.Background(), state)

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, "b", execErr.Node)
	assert.ErrorIs(t, err, cause)
	// The run stopped at the failing node.
	assert.Equal(t, []string{"a"}, state.Visited)
}

func TestInvokePreservesTypedExecutionError(t *testing.T) {
	inner := &ExecutionError{Node: "inner", Err: errors.New("already wrapped")}

	g := New()
	g.AddNode("a", "", func(ctx context.Context, state any) (Step, error) {
		return Step{}, inner
	})
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	_, err = runnable.Invoke(context.Background(), &counterState{})

	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
	// Not double-wrapped.
	assert.Equal(t, "inner", execErr.Node)
}

func TestInvokeHonorsContextCancellation(t *testing.T) {
	g := New()
	g.AddNode("a", "", visit("a", Continue("a")))
	g.SetEntryPoint("a")

	runnable, err := g.Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runnable.Invoke(ctx, &counterState{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInvokeMaxStepsGuard(t *testing.T) {
	g := New()
	g.AddNode("loop", "", visit("loop", Continue("loop")))
	g.SetEntryPoint("loop")
	g.SetMaxSteps(10)

	runnable, err := g.Compile()
	require.NoError(t, err)

	state := &counterState{}
	_, err = runnable.Invoke(context.Background(), state)
	assert.ErrorIs(t, err, ErrMaxStepsExceeded)
	assert.Len(t, state.Visited, 10)
}

func TestStepAccessors(t *testing.T) {
	cont := Continue("next")
	assert.False(t, cont.IsDone())
	assert.Equal(t, "next", cont.Next())

	done := Done(42)
	assert.True(t, done.IsDone())
	assert.Equal(t, 42, done.Value())
}
