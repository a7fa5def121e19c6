// pkg/ai/mock_client.go

package ai

import (
	"context"
	"sync"
)

// Mock is an in-memory Client returning a canned reply. It records every call.
type Mock struct {
	Reply string
	Err   error
	// Fn, when set, replaces Reply/Err.
	Fn func(ctx context.Context, p Prompt) (string, error)

	mu      sync.Mutex
	calls   int
	prompts []Prompt
}

func NewMock(reply string) *Mock { return &Mock{Reply: reply} }

func (m *Mock) GenerateJSON(ctx context.Context, p Prompt) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, p)
	fn, reply, err := m.Fn, m.Reply, m.Err
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, p)
	}
	return reply, err
}

func (m *Mock) Model() string { return "mock" }

func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// LastPrompt returns the most recent prompt, or the zero Prompt.
func (m *Mock) LastPrompt() Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return Prompt{}
	}
	return m.prompts[len(m.prompts)-1]
}
