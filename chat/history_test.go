package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryEvictsOldestBeyondLimit(t *testing.T) {
	h := NewHistory(3)
	for i := 0; i < 5; i++ {
		h.Add(RoleUser, fmt.Sprintf("message %d", i))
	}

	messages := h.Messages()
	require.Len(t, messages, 3)
	assert.Equal(t, "message 2", messages[0].Content)
	assert.Equal(t, "message 4", messages[2].Content)
}

func TestHistoryClear(t *testing.T) {
	h := NewHistory(10)
	h.Add(RoleUser, "hi")
	h.Add(RoleAssistant, "hello")
	require.Equal(t, 2, h.Len())

	h.Clear()
	assert.Zero(t, h.Len())
}

func TestHistoryBuildPrompt(t *testing.T) {
	h := NewHistory(10)

	assert.Equal(t, "just this", h.buildPrompt("just this"), "no history means the raw prompt")

	h.Add(RoleUser, "What is Go?")
	h.Add(RoleAssistant, "A programming language.")

	prompt := h.buildPrompt("Who made it?")
	assert.Contains(t, prompt, "user: What is Go?")
	assert.Contains(t, prompt, "assistant: A programming language.")
	assert.Contains(t, prompt, "user: Who made it?")
	assert.Less(t,
		strings.Index(prompt, "What is Go?"),
		strings.Index(prompt, "Who made it?"),
		"turns appear in order")
}

func TestRunWithHistoryRecordsTurns(t *testing.T) {
	m := &fakeModel{response: "second answer"}
	h := NewHistory(10)
	h.Add(RoleUser, "first question")
	h.Add(RoleAssistant, "first answer")

	result, err := RunWithHistory(context.Background(), m, h, "second question")
	require.NoError(t, err)
	assert.Equal(t, "second answer", result.Response)

	assert.Contains(t, m.gotPrompt, "first question")
	assert.Contains(t, m.gotPrompt, "first answer")
	assert.Contains(t, m.gotPrompt, "second question")

	messages := h.Messages()
	require.Len(t, messages, 4)
	assert.Equal(t, "second question", messages[2].Content)
	assert.Equal(t, "second answer", messages[3].Content)
}

func TestRunWithHistoryEmptyPrompt(t *testing.T) {
	m := &fakeModel{response: "unused"}
	h := NewHistory(10)

	result, err := RunWithHistory(context.Background(), m, h, "")
	require.NoError(t, err)
	assert.Equal(t, NoPromptMessage, result.Response)
	assert.Zero(t, h.Len(), "empty prompts leave the history untouched")
}
