package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/researchagent/graph"
	"github.com/smallnest/researchagent/model"
)

type fakeModel struct {
	response  string
	err       error
	calls     int
	gotPrompt string
}

func (m *fakeModel) Generate(ctx context.Context, prompt string) (*model.GenerateResult, error) {
	m.calls++
	m.gotPrompt = prompt
	if m.err != nil {
		return nil, m.err
	}
	return &model.GenerateResult{Text: m.response}, nil
}

type fakeStreamingModel struct {
	fakeModel
	chunks []string
}

func (m *fakeStreamingModel) GenerateStream(ctx context.Context, prompt string, fn func(chunk string) error) error {
	for _, c := range m.chunks {
		if err := fn(c); err != nil {
			return err
		}
	}
	return nil
}

func TestRunGeneratesResponse(t *testing.T) {
	m := &fakeModel{response: "hi there"}

	result, err := Run(context.Background(), m, "say hi")
	require.NoError(t, err)
	assert.Equal(t, "hi there", result.Response)
	assert.Equal(t, "say hi", m.gotPrompt)

	var nodes []string
	for _, rec := range result.History {
		nodes = append(nodes, rec.Node)
	}
	assert.Equal(t, []string{NodeRespond, graph.END}, nodes)
}

func TestRunEmptyPromptSkipsModel(t *testing.T) {
	m := &fakeModel{response: "unused"}

	result, err := Run(context.Background(), m, "")
	require.NoError(t, err)
	assert.Equal(t, NoPromptMessage, result.Response)
	assert.Zero(t, m.calls)
}

func TestRunModelFailure(t *testing.T) {
	m := &fakeModel{err: errors.New("permission denied")}

	_, err := Run(context.Background(), m, "anything")
	require.Error(t, err)

	var execErr *graph.ExecutionError
	require.ErrorAs(t, err, &execErr)
	assert.Equal(t, NodeRespond, execErr.Node)
}

func TestRunStreamUsesStreamingModel(t *testing.T) {
	m := &fakeStreamingModel{chunks: []string{"hel", "lo"}}

	var got strings.Builder
	err := RunStream(context.Background(), m, "greet", func(chunk string) error {
		got.WriteString(chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.String())
	assert.Zero(t, m.calls, "streaming path must not call Generate")
}

func TestRunStreamFallsBackToGenerate(t *testing.T) {
	m := &fakeModel{response: "whole answer"}

	var chunks []string
	err := RunStream(context.Background(), m, "greet", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"whole answer"}, chunks)
}
