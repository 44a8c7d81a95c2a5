package model

import "context"

// GenerateResult holds the output of a single completion.
type GenerateResult struct {
	// Text is the model's answer.
	Text string
	// TokensUsed is the total token count reported by the provider,
	// zero when the provider does not report usage.
	TokensUsed int
}

// Model generates a completion for a single prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (*GenerateResult, error)
}

// StreamingModel generates a completion incrementally, invoking fn for
// each chunk of text as it arrives. fn returning an error aborts the stream.
type StreamingModel interface {
	Model
	GenerateStream(ctx context.Context, prompt string, fn func(chunk string) error) error
}
