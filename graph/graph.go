package graph

import (
	"context"
	"errors"
	"fmt"
)

// END is the name recorded in the execution history for the terminal step.
const END = "END"

var (
	// ErrEntryPointNotSet is returned when the entry point of the graph is not set.
	ErrEntryPointNotSet = errors.New("entry point not set")

	// ErrNodeNotFound is returned when a node is not found in the graph.
	ErrNodeNotFound = errors.New("node not found")

	// ErrMaxStepsExceeded is returned when a run exceeds the configured step limit.
	ErrMaxStepsExceeded = errors.New("maximum step count exceeded")
)

// Step is the result of a node execution: either a transition to the next
// named node, or a terminal marker carrying the run's final value.
type Step struct {
	next  string
	done  bool
	value any
}

// Continue returns a Step that transitions to the named node.
func Continue(node string) Step {
	return Step{next: node}
}

// Done returns a terminal Step carrying the run's final value.
func Done(value any) Step {
	return Step{done: true, value: value}
}

// IsDone reports whether the step is terminal.
func (s Step) IsDone() bool { return s.done }

// Next returns the name of the next node for a non-terminal step.
func (s Step) Next() string { return s.next }

// Value returns the final value of a terminal step.
func (s Step) Value() any { return s.value }

// NodeFunc is the unit of work executed for a node. State is shared and
// mutated in place across steps; the function returns the next step to take.
type NodeFunc func(ctx context.Context, state any) (Step, error)

// Node represents a node in the graph.
type Node struct {
	// Name is the unique identifier for the node.
	Name string

	// Description describes the functionality of the node.
	Description string

	// Function is the function associated with the node.
	Function NodeFunc
}

// Graph holds the closed set of nodes a run may execute plus the designated
// entry point. A Graph is stateless once compiled and safe to reuse across
// runs; all mutable data lives in the per-run state.
type Graph struct {
	nodes      map[string]Node
	entryPoint string
	maxSteps   int
}

// New creates a new empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
	}
}

// AddNode adds a new node to the graph with the given name, description and function.
func (g *Graph) AddNode(name string, description string, fn NodeFunc) {
	g.nodes[name] = Node{
		Name:        name,
		Description: description,
		Function:    fn,
	}
}

// SetEntryPoint sets the entry point node name for the graph.
func (g *Graph) SetEntryPoint(name string) {
	g.entryPoint = name
}

// SetMaxSteps sets an upper bound on the number of node executions per run.
// Zero (the default) means unbounded; a node that keeps returning a
// non-terminal step then loops forever, which is the caller's responsibility
// to avoid.
func (g *Graph) SetMaxSteps(n int) {
	g.maxSteps = n
}

// Nodes returns the names of the declared nodes.
func (g *Graph) Nodes() []string {
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	return names
}

// Compile validates the graph and returns a Runnable instance.
func (g *Graph) Compile() (*Runnable, error) {
	if g.entryPoint == "" {
		return nil, ErrEntryPointNotSet
	}
	if _, ok := g.nodes[g.entryPoint]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, g.entryPoint)
	}

	return &Runnable{graph: g}, nil
}
