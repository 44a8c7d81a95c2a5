package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a conversation.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// History is a bounded conversation buffer. When the limit is reached the
// oldest messages fall off. Safe for concurrent use.
type History struct {
	mu       sync.RWMutex
	messages []Message
	limit    int
}

// DefaultHistoryLimit bounds a conversation to its most recent turns.
const DefaultHistoryLimit = 50

// NewHistory creates a conversation buffer keeping at most limit messages.
// Non-positive limits fall back to DefaultHistoryLimit.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &History{limit: limit}
}

// Add appends a message, evicting the oldest when over the limit.
func (h *History) Add(role, content string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.messages = append(h.messages, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
	if len(h.messages) > h.limit {
		h.messages = h.messages[len(h.messages)-h.limit:]
	}
}

// Messages returns a copy of the buffered messages, oldest first.
func (h *History) Messages() []Message {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Message, len(h.messages))
	copy(out, h.messages)
	return out
}

// Len returns the number of buffered messages.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.messages)
}

// Clear drops the whole conversation.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.messages = nil
}

// buildPrompt renders the conversation followed by the new prompt, so a
// single-prompt model sees the preceding turns.
func (h *History) buildPrompt(prompt string) string {
	messages := h.Messages()
	if len(messages) == 0 {
		return prompt
	}

	var b strings.Builder
	b.WriteString("The following is a conversation so far:\n\n")
	for _, msg := range messages {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	b.WriteString("\nuser: ")
	b.WriteString(prompt)
	b.WriteString("\nassistant:")
	return b.String()
}
