// Package hello is the minimal end-to-end demonstration of the graph
// executor: four nodes that produce a greeting, a noun, combine them and
// print the result. A model is optional; without one the static texts
// "Hello" and "World" are used.
package hello

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/log"
	"github.com/smallnest/researchagent/model"
)

// Node names of the demonstration graph.
const (
	NodeHello   = "hello"
	NodeWorld   = "world"
	NodeCombine = "combine"
	NodePrint   = "print"
)

// State accumulates the texts produced by each node. Pre-set fields are
// kept as-is, which lets callers pin parts of the output.
type State struct {
	HelloText    string
	WorldText    string
	CombinedText string
}

// Result is the outcome of one demonstration run.
type Result struct {
	Message string
	History []graph.StepRecord
}

// Workflow is the hello-world graph. Model may be nil.
type Workflow struct {
	model  model.Model
	logger log.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithModel makes the hello and world nodes generate their texts instead
// of using the static defaults.
func WithModel(m model.Model) Option {
	return func(w *Workflow) { w.model = m }
}

// WithLogger sets the workflow's logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkflow creates the demonstration workflow.
func NewWorkflow(opts ...Option) *Workflow {
	w := &Workflow{
		logger: log.NewDefaultLogger(log.LevelInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Graph builds the four-node demonstration graph.
func (w *Workflow) Graph() *graph.Graph {
	g := graph.New()
	g.AddNode(NodeHello, "produce the greeting word", w.helloNode)
	g.AddNode(NodeWorld, "produce the noun", w.worldNode)
	g.AddNode(NodeCombine, "combine greeting and noun", w.combineNode)
	g.AddNode(NodePrint, "log the combined text and finish", w.printNode)
	g.SetEntryPoint(NodeHello)
	return g
}

func (w *Workflow) helloNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)
	if st.HelloText == "" {
		text, err := w.generate(ctx, "Generate a greeting word like 'Hello'", "Hello")
		if err != nil {
			return graph.Step{}, err
		}
		st.HelloText = text
	}
	w.logger.Info("generated: %s", st.HelloText)
	return graph.Continue(NodeWorld), nil
}

func (w *Workflow) worldNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)
	if st.WorldText == "" {
		text, err := w.generate(ctx, "Generate a noun like 'World'", "World")
		if err != nil {
			return graph.Step{}, err
		}
		st.WorldText = text
	}
	w.logger.Info("generated: %s", st.WorldText)
	return graph.Continue(NodeCombine), nil
}

func (w *Workflow) combineNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)
	st.CombinedText = fmt.Sprintf("%s %s!", st.HelloText, st.WorldText)
	w.logger.Info("combined: %s", st.CombinedText)
	return graph.Continue(NodePrint), nil
}

func (w *Workflow) printNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)
	fmt.Println(st.CombinedText)
	return graph.Done(st.CombinedText), nil
}

// generate asks the model for a single word, falling back to the static
// text when no model is configured.
func (w *Workflow) generate(ctx context.Context, prompt, fallback string) (string, error) {
	if w.model == nil {
		return fallback, nil
	}
	result, err := w.model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}

// Run executes the demonstration graph once.
func Run(ctx context.Context, opts ...Option) (*Result, error) {
	workflow := NewWorkflow(opts...)
	runnable, err := workflow.Graph().Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile workflow: %w", err)
	}

	state := &State{}
	result, err := runnable.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("hello world run failed: %w", err)
	}

	message, ok := result.Output.(string)
	if !ok {
		return nil, fmt.Errorf("workflow produced a %T instead of a message", result.Output)
	}
	return &Result{Message: message, History: result.History}, nil
}
