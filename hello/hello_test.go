package hello

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/model"
)

type scriptedModel struct {
	responses map[string]string
	err       error
}

func (m *scriptedModel) Generate(ctx context.Context, prompt string) (*model.GenerateResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.GenerateResult{Text: m.responses[prompt]}, nil
}

func TestRunWithoutModel(t *testing.T) {
	result, err := Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello World!", result.Message)

	var nodes []string
	for _, rec := range result.History {
		nodes = append(nodes, rec.Node)
	}
	assert.Equal(t, []string{NodeHello, NodeWorld, NodeCombine, NodePrint, graph.END}, nodes)
}

func TestRunWithModel(t *testing.T) {
	m := &scriptedModel{responses: map[string]string{
		"Generate a greeting word like 'Hello'": "Howdy",
		"Generate a noun like 'World'":          "Universe",
	}}

	result, err := Run(context.Background(), WithModel(m))
	require.NoError(t, err)
	assert.Equal(t, "Howdy Universe!", result.Message)
}

func TestRunKeepsPresetTexts(t *testing.T) {
	w := NewWorkflow()
	runnable, err := w.Graph().Compile()
	require.NoError(t, err)

	state := &State{HelloText: "Greetings"}
	result, err := runnable.Invoke(context.Background(), state)
	require.NoError(t, err)
	assert.Equal(t, "Greetings World!", result.Output)
}

func TestRunModelFailurePropagates(t *testing.T) {
	m := &scriptedModel{err: errors.New("backend down")}

	_, err := Run(context.Background(), WithModel(m))
	require.Error(t, err)

	var execErr *graph.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, NodeHello, execErr.Node)
}
