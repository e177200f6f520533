// Package mock provides in-memory fakes of the llm interfaces for tests.
package mock

import (
	"context"
	"sync"

	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
)

// Provider returns canned responses in order, or a fixed error.
type Provider struct {
	mu        sync.Mutex
	Responses []llm.Message
	Err       error

	// Calls records every message list passed to Chat.
	Calls [][]llm.Message

	next int
}

var _ llm.Provider = (*Provider)(nil)

// NewProvider returns a provider whose Chat calls yield the given text
// responses in sequence, repeating the last one when exhausted.
func NewProvider(responses ...string) *Provider {
	p := &Provider{}
	for _, r := range responses {
		p.Responses = append(p.Responses, llm.Message{Role: llm.RoleAssistant, Content: r})
	}
	return p
}

func (p *Provider) Complete(ctx context.Context, system, user string, opts llm.CompletionOptions) (string, error) {
	out, err := p.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: system},
		{Role: llm.RoleUser, Content: user},
	}, nil, opts)
	if err != nil {
		return "", err
	}
	return out.Content, nil
}

func (p *Provider) Chat(ctx context.Context, messages []llm.Message, tools []llm.Tool, opts llm.CompletionOptions) (*llm.Message, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Calls = append(p.Calls, messages)

	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.Responses) == 0 {
		return &llm.Message{Role: llm.RoleAssistant}, nil
	}

	i := p.next
	if i >= len(p.Responses) {
		i = len(p.Responses) - 1
	}
	p.next++

	msg := p.Responses[i]
	return &msg, nil
}

func (p *Provider) Close() error { return nil }

// Embedder returns a fixed vector for every text.
type Embedder struct {
	Vector []float32
	Err    error

	mu    sync.Mutex
	Texts []string
}

var _ llm.Embedder = (*Embedder)(nil)

func NewEmbedder(vector ...float32) *Embedder {
	if len(vector) == 0 {
		vector = []float32{0.1, 0.2, 0.3}
	}
	return &Embedder{Vector: vector}
}

func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	e.Texts = append(e.Texts, text)
	e.mu.Unlock()

	if e.Err != nil {
		return nil, e.Err
	}
	out := make([]float32, len(e.Vector))
	copy(out, e.Vector)
	return out, nil
}
