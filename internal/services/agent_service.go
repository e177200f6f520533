package services

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
)

// searchDatabaseTool is the single tool offered to the agent model.
var searchDatabaseTool = llm.Tool{
	Name:        "search_database",
	Description: "Search the sales transcript database for past conversations, client requirements, and analyses relevant to a query.",
	Parameters: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"query": map[string]any{
				"type":        "string",
				"description": "Natural-language search query.",
			},
		},
		"required": []string{"query"},
	},
}

// AgentChatService answers chat messages with a bounded tool-calling loop:
// the model decides per turn whether to query the vector database before
// producing its final answer.
type AgentChatService struct {
	provider llm.Provider
	store    VectorStoreService
	prompts  *config.PromptStore
	log      *logrus.Entry

	topK          int
	maxIterations int
	sessions      *sessionStore
}

func NewAgentChatService(provider llm.Provider, store VectorStoreService, prompts *config.PromptStore, l *logrus.Logger, topK, maxIterations int) *AgentChatService {
	if topK <= 0 {
		topK = 3
	}
	if maxIterations <= 0 {
		maxIterations = 3
	}
	return &AgentChatService{
		provider:      provider,
		store:         store,
		prompts:       prompts,
		log:           l.WithField("component", "agent_service"),
		topK:          topK,
		maxIterations: maxIterations,
		sessions:      newSessionStore(),
	}
}

func (s *AgentChatService) Chat(ctx context.Context, sessionID, message string) *ChatResult {
	if message == "" {
		return &ChatResult{Success: false, Error: "message is required", SessionID: sessionID}
	}

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: s.prompts.Get("agent_system_prompt")},
	}
	msgs = append(msgs, s.sessions.history(sessionID)...)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: message})

	var tools []llm.Tool
	if s.store.Enabled() {
		tools = []llm.Tool{searchDatabaseTool}
	}

	relevant := 0
	var final *llm.Message
	for i := 0; i < s.maxIterations; i++ {
		out, err := s.provider.Chat(ctx, msgs, tools, llm.CompletionOptions{Temperature: 0.7, MaxTokens: 1000})
		if err != nil {
			s.log.WithError(err).Error("agent completion failed")
			return &ChatResult{
				Success:   false,
				Answer:    "I apologize, but I encountered an error processing your message.",
				Error:     err.Error(),
				SessionID: sessionID,
			}
		}

		if len(out.ToolCalls) == 0 {
			final = out
			break
		}

		msgs = append(msgs, *out)
		for _, call := range out.ToolCalls {
			result, hits := s.runTool(ctx, call)
			relevant += hits
			msgs = append(msgs, llm.Message{
				Role:     llm.RoleTool,
				Content:  result,
				ToolID:   call.ID,
				ToolName: call.Name,
			})
		}
	}

	if final == nil {
		// Iteration cap reached with the model still asking for tools; force a
		// final text answer without offering them again.
		out, err := s.provider.Chat(ctx, msgs, nil, llm.CompletionOptions{Temperature: 0.7, MaxTokens: 1000})
		if err != nil {
			s.log.WithError(err).Error("agent completion failed")
			return &ChatResult{
				Success:   false,
				Answer:    "I apologize, but I encountered an error processing your message.",
				Error:     err.Error(),
				SessionID: sessionID,
			}
		}
		final = out
	}

	s.sessions.append(sessionID,
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: final.Content},
	)

	return &ChatResult{
		Success:           true,
		Answer:            final.Content,
		RelevantDocuments: relevant,
		SessionID:         sessionID,
	}
}

func (s *AgentChatService) ClearSession(sessionID string) {
	s.sessions.clear(sessionID)
	s.log.WithField("session_id", sessionID).Info("chat session cleared")
}

// runTool executes one tool call and returns the tool message content plus
// the number of documents retrieved.
func (s *AgentChatService) runTool(ctx context.Context, call llm.ToolCall) (string, int) {
	if call.Name != searchDatabaseTool.Name {
		return "Unknown tool: " + call.Name, 0
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil || args.Query == "" {
		return "Invalid search arguments.", 0
	}

	hits, err := s.store.SearchSimilar(ctx, args.Query, s.topK)
	if err != nil {
		s.log.WithError(err).Warn("tool search failed")
		return "The database search failed.", 0
	}

	s.log.WithFields(logrus.Fields{"query": args.Query, "hits": len(hits)}).Debug("agent tool search")
	return formatHits(hits), len(hits)
}
