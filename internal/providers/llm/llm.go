package llm

import "context"

// Roles used in chat histories.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// CompletionOptions tune a single completion call.
type CompletionOptions struct {
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// Tool describes a function the model may call during Chat.
type Tool struct {
	Name        string
	Description string
	// Parameters is a JSON-schema object describing the arguments.
	Parameters map[string]any
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// Message is one turn of a chat exchange.
type Message struct {
	Role      string
	Content   string
	ToolCalls []ToolCall // set on assistant turns that request tools
	ToolID    string     // set on tool turns: the call being answered
	ToolName  string
}

// Provider is a chat-completion backend.
type Provider interface {
	// Complete runs a single system+user exchange and returns the text answer.
	Complete(ctx context.Context, system, user string, opts CompletionOptions) (string, error)

	// Chat runs a multi-turn exchange, optionally offering tools the model may
	// call. The returned message carries either text content or tool calls.
	Chat(ctx context.Context, messages []Message, tools []Tool, opts CompletionOptions) (*Message, error)

	Close() error
}

// Embedder produces fixed-dimension vectors for text.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}
