package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// ErrEmptyResponse is returned when the provider answers with no choices.
var ErrEmptyResponse = errors.New("model returned no choices")

// DefaultOpenAIModel is used when no model name is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIModel calls an OpenAI-compatible chat completions endpoint.
type OpenAIModel struct {
	client      *openai.Client
	model       string
	temperature float32
}

var (
	_ Model          = (*OpenAIModel)(nil)
	_ StreamingModel = (*OpenAIModel)(nil)
)

type openAIOptions struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float32
}

// OpenAIOption configures an OpenAIModel.
type OpenAIOption func(*openAIOptions)

// WithAPIKey sets the API key. Defaults to the OPENAI_API_KEY
// environment variable.
func WithAPIKey(apiKey string) OpenAIOption {
	return func(o *openAIOptions) { o.apiKey = apiKey }
}

// WithBaseURL points the client at a different OpenAI-compatible endpoint.
func WithBaseURL(baseURL string) OpenAIOption {
	return func(o *openAIOptions) { o.baseURL = baseURL }
}

// WithModel sets the model name.
func WithModel(model string) OpenAIOption {
	return func(o *openAIOptions) { o.model = model }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float32) OpenAIOption {
	return func(o *openAIOptions) { o.temperature = temperature }
}

// NewOpenAIModel creates a chat-completion model client.
func NewOpenAIModel(opts ...OpenAIOption) (*OpenAIModel, error) {
	options := &openAIOptions{
		apiKey: os.Getenv("OPENAI_API_KEY"),
		model:  DefaultOpenAIModel,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.apiKey == "" {
		return nil, errors.New("missing API key: pass WithAPIKey or set OPENAI_API_KEY")
	}

	config := openai.DefaultConfig(options.apiKey)
	if options.baseURL != "" {
		config.BaseURL = options.baseURL
	}

	return &OpenAIModel{
		client:      openai.NewClientWithConfig(config),
		model:       options.model,
		temperature: options.temperature,
	}, nil
}

// Generate sends the prompt as a single user message and returns the
// first choice.
func (m *OpenAIModel) Generate(ctx context.Context, prompt string) (*GenerateResult, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: m.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	return &GenerateResult{
		Text:       resp.Choices[0].Message.Content,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

// GenerateStream streams the completion, calling fn once per content delta.
func (m *OpenAIModel) GenerateStream(ctx context.Context, prompt string, fn func(chunk string) error) error {
	stream, err := m.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: m.temperature,
		Stream:      true,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return fmt.Errorf("chat completion stream failed: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("stream receive failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if chunk := resp.Choices[0].Delta.Content; chunk != "" {
			if err := fn(chunk); err != nil {
				return err
			}
		}
	}
}
