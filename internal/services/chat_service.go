package services

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
)

// ChatResult is the chat endpoints' response envelope.
type ChatResult struct {
	Success           bool   `json:"success"`
	Answer            string `json:"answer"`
	RelevantDocuments int    `json:"relevant_documents"`
	SessionID         string `json:"session_id,omitempty"`
	Error             string `json:"error,omitempty"`
}

// ChatAgent is implemented by both chat designs (simple retrieval chain and
// the tool-calling loop).
type ChatAgent interface {
	Chat(ctx context.Context, sessionID, message string) *ChatResult
	ClearSession(sessionID string)
}

// Session histories live in process memory only and are lost on restart.
const maxHistoryTurns = 20

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string][]llm.Message
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: map[string][]llm.Message{}}
}

func (s *sessionStore) history(sessionID string) []llm.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.sessions[sessionID]
	out := make([]llm.Message, len(h))
	copy(out, h)
	return out
}

func (s *sessionStore) append(sessionID string, msgs ...llm.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := append(s.sessions[sessionID], msgs...)
	if len(h) > maxHistoryTurns {
		h = h[len(h)-maxHistoryTurns:]
	}
	s.sessions[sessionID] = h
}

func (s *sessionStore) clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// ChatService is the simple retrieval-then-prompt chain: embed the question,
// fetch the nearest transcripts, build a context block and complete.
type ChatService struct {
	provider llm.Provider
	store    VectorStoreService
	prompts  *config.PromptStore
	log      *logrus.Entry

	topK     int
	sessions *sessionStore
}

func NewChatService(provider llm.Provider, store VectorStoreService, prompts *config.PromptStore, l *logrus.Logger, topK int) *ChatService {
	if topK <= 0 {
		topK = 3
	}
	return &ChatService{
		provider: provider,
		store:    store,
		prompts:  prompts,
		log:      l.WithField("component", "chat_service"),
		topK:     topK,
		sessions: newSessionStore(),
	}
}

func (s *ChatService) Chat(ctx context.Context, sessionID, message string) *ChatResult {
	if message == "" {
		return &ChatResult{Success: false, Error: "message is required", SessionID: sessionID}
	}

	contextBlock := "No relevant documents found in the database."
	relevant := 0
	if s.store.Enabled() {
		hits, err := s.store.SearchSimilar(ctx, message, s.topK)
		if err != nil {
			// Chat still answers from general knowledge when retrieval fails.
			s.log.WithError(err).Warn("retrieval failed, answering without context")
		} else {
			contextBlock = formatHits(hits)
			relevant = len(hits)
		}
	}

	msgs := []llm.Message{
		{Role: llm.RoleSystem, Content: s.prompts.Get("chat_system_prompt")},
	}
	msgs = append(msgs, s.sessions.history(sessionID)...)
	msgs = append(msgs, llm.Message{
		Role: llm.RoleUser,
		Content: s.prompts.Render("chat_context_prompt", map[string]string{
			"context":  contextBlock,
			"question": message,
		}),
	})

	out, err := s.provider.Chat(ctx, msgs, nil, llm.CompletionOptions{Temperature: 0.7, MaxTokens: 1000})
	if err != nil {
		s.log.WithError(err).Error("chat completion failed")
		return &ChatResult{
			Success:   false,
			Answer:    "I apologize, but I encountered an error processing your message.",
			Error:     err.Error(),
			SessionID: sessionID,
		}
	}

	s.sessions.append(sessionID,
		llm.Message{Role: llm.RoleUser, Content: message},
		llm.Message{Role: llm.RoleAssistant, Content: out.Content},
	)

	return &ChatResult{
		Success:           true,
		Answer:            out.Content,
		RelevantDocuments: relevant,
		SessionID:         sessionID,
	}
}

func (s *ChatService) ClearSession(sessionID string) {
	s.sessions.clear(sessionID)
	s.log.WithField("session_id", sessionID).Info("chat session cleared")
}
