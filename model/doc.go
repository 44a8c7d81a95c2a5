// Package model wraps chat-completion providers behind a single-prompt
// Model interface. OpenAIModel talks to OpenAI-compatible endpoints
// directly; LangChainModel adapts any langchaingo llms.Model.
package model
