package model

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
)

// LangChainModel adapts a langchaingo llms.Model. Any provider with a
// langchaingo binding can serve as the answer model through this wrapper.
type LangChainModel struct {
	llm llms.Model
}

var _ Model = (*LangChainModel)(nil)

// NewLangChainModel wraps an existing langchaingo model.
func NewLangChainModel(llm llms.Model) *LangChainModel {
	return &LangChainModel{llm: llm}
}

// Generate runs the prompt through the wrapped model.
func (m *LangChainModel) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	text, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt)
	if err != nil {
		return nil, fmt.Errorf("langchain generation failed: %w", err)
	}
	return &GenerateResult{Text: text}, nil
}
