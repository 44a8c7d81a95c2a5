// Package chat runs a single prompt through the model via a one-node
// graph, with optional streaming output.
package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/log"
	"github.com/smallnest/researchagent/model"
)

// NodeRespond is the single node of the chat workflow.
const NodeRespond = "respond"

// NoPromptMessage is returned without invoking the model when the prompt
// is empty.
const NoPromptMessage = "No prompt provided. Please enter a question or prompt."

// State carries the prompt and accumulates the response.
type State struct {
	Prompt   string
	Response string

	GenerationTime time.Duration
}

// Result is the outcome of one chat run.
type Result struct {
	Response       string
	GenerationTime time.Duration
	History        []graph.StepRecord
}

// Workflow is the one-node chat pipeline.
type Workflow struct {
	model  model.Model
	logger log.Logger
}

// Option configures a Workflow.
type Option func(*Workflow)

// WithLogger sets the workflow's logger.
func WithLogger(logger log.Logger) Option {
	return func(w *Workflow) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewWorkflow creates a chat workflow over the given model.
func NewWorkflow(m model.Model, opts ...Option) *Workflow {
	w := &Workflow{
		model:  m,
		logger: log.NewDefaultLogger(log.LevelInfo),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Graph builds the one-node chat graph.
func (w *Workflow) Graph() *graph.Graph {
	g := graph.New()
	g.AddNode(NodeRespond, "generate a response to the prompt", w.respondNode)
	g.SetEntryPoint(NodeRespond)
	return g
}

func (w *Workflow) respondNode(ctx context.Context, state any) (graph.Step, error) {
	st := state.(*State)

	if st.Prompt == "" {
		st.Response = NoPromptMessage
		return graph.Done(st.Response), nil
	}

	start := time.Now()
	result, err := w.model.Generate(ctx, st.Prompt)
	st.GenerationTime = time.Since(start)
	if err != nil {
		return graph.Step{}, fmt.Errorf("failed to generate response: %w", err)
	}

	st.Response = result.Text
	w.logger.Info("generated response of %d characters in %v", len(st.Response), st.GenerationTime)
	return graph.Done(st.Response), nil
}

// Run sends the prompt through the chat graph and returns the response.
func Run(ctx context.Context, m model.Model, prompt string, opts ...Option) (*Result, error) {
	workflow := NewWorkflow(m, opts...)
	runnable, err := workflow.Graph().Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to compile workflow: %w", err)
	}

	state := &State{Prompt: prompt}
	result, err := runnable.Invoke(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("chat run failed: %w", err)
	}

	response, ok := result.Output.(string)
	if !ok {
		return nil, fmt.Errorf("workflow produced a %T instead of a response", result.Output)
	}
	return &Result{
		Response:       response,
		GenerationTime: state.GenerationTime,
		History:        result.History,
	}, nil
}

// RunWithHistory answers the prompt in the context of the conversation so
// far and records both turns in the history.
func RunWithHistory(ctx context.Context, m model.Model, history *History, prompt string, opts ...Option) (*Result, error) {
	if prompt == "" {
		return Run(ctx, m, "", opts...)
	}

	result, err := Run(ctx, m, history.buildPrompt(prompt), opts...)
	if err != nil {
		return nil, err
	}
	history.Add(RoleUser, prompt)
	history.Add(RoleAssistant, result.Response)
	return result, nil
}

// RunStream sends the prompt to the model, delivering the response through
// fn chunk by chunk. Models without streaming support produce a single
// chunk carrying the whole response.
func RunStream(ctx context.Context, m model.Model, prompt string, fn func(chunk string) error) error {
	if prompt == "" {
		return fn(NoPromptMessage)
	}

	if streamer, ok := m.(model.StreamingModel); ok {
		return streamer.GenerateStream(ctx, prompt, fn)
	}

	result, err := m.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("failed to generate response: %w", err)
	}
	return fn(result.Text)
}
