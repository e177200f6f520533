package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/analyzer"
	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
)

// HelperRequirement is one structured requirement pulled from salesperson notes.
type HelperRequirement struct {
	Requirement string `json:"requirement"`
	Priority    string `json:"priority"`
	Category    string `json:"category,omitempty"`
}

// HelperRecommendation is one product recommendation grounded in past cases.
type HelperRecommendation struct {
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
	Priority       string `json:"priority"`
}

// SalesHelperResult is the /sales-helper response envelope.
type SalesHelperResult struct {
	Success         bool                   `json:"success"`
	Requirements    []HelperRequirement    `json:"requirements"`
	SearchResults   []models.TranscriptHit `json:"search_results"`
	Recommendations []HelperRecommendation `json:"recommendations"`
	ConversationID  int                    `json:"conversation_id"`
	Error           string                 `json:"error,omitempty"`
}

type helperTurn struct {
	Input  string
	Result *SalesHelperResult
	At     time.Time
}

// SalesHelperService turns free-form salesperson notes into structured
// requirements and recommendations, grounded in similar stored cases.
type SalesHelperService struct {
	provider llm.Provider
	store    VectorStoreService
	prompts  *config.PromptStore
	log      *logrus.Entry

	topK int

	mu      sync.Mutex
	history []helperTurn
}

func NewSalesHelperService(provider llm.Provider, store VectorStoreService, prompts *config.PromptStore, l *logrus.Logger, topK int) *SalesHelperService {
	if topK <= 0 {
		topK = 3
	}
	return &SalesHelperService{
		provider: provider,
		store:    store,
		prompts:  prompts,
		log:      l.WithField("component", "sales_helper"),
		topK:     topK,
	}
}

func (s *SalesHelperService) Help(ctx context.Context, input string) *SalesHelperResult {
	if input == "" {
		return &SalesHelperResult{
			Success:         false,
			Requirements:    []HelperRequirement{},
			SearchResults:   []models.TranscriptHit{},
			Recommendations: []HelperRecommendation{},
			Error:           "salesperson_input is required",
		}
	}

	result := s.process(ctx, input)

	s.mu.Lock()
	s.history = append(s.history, helperTurn{Input: input, Result: result, At: time.Now().UTC()})
	result.ConversationID = len(s.history)
	s.mu.Unlock()

	return result
}

func (s *SalesHelperService) process(ctx context.Context, input string) *SalesHelperResult {
	requirements, err := s.extractRequirements(ctx, input)
	if err != nil {
		s.log.WithError(err).Error("requirement extraction failed")
		return &SalesHelperResult{
			Success:         false,
			Requirements:    []HelperRequirement{},
			SearchResults:   []models.TranscriptHit{},
			Recommendations: []HelperRecommendation{},
			Error:           "failed to extract requirements: " + err.Error(),
		}
	}

	cases := s.findSimilarCases(ctx, requirements)

	recommendations, err := s.recommend(ctx, input, requirements, cases)
	if err != nil {
		s.log.WithError(err).Error("recommendation generation failed")
		return &SalesHelperResult{
			Success:         false,
			Requirements:    requirements,
			SearchResults:   cases,
			Recommendations: []HelperRecommendation{},
			Error:           "failed to generate recommendations: " + err.Error(),
		}
	}

	return &SalesHelperResult{
		Success:         true,
		Requirements:    requirements,
		SearchResults:   cases,
		Recommendations: recommendations,
	}
}

func (s *SalesHelperService) extractRequirements(ctx context.Context, input string) ([]HelperRequirement, error) {
	raw, err := s.provider.Complete(ctx,
		s.prompts.Get("sales_helper_system_prompt"),
		s.prompts.Render("requirement_extraction_prompt", map[string]string{"input": input}),
		llm.CompletionOptions{Temperature: 0.3, MaxTokens: 1500, JSONMode: true},
	)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Requirements []HelperRequirement `json:"requirements"`
	}
	if err := json.Unmarshal([]byte(analyzer.CleanModelJSON(raw)), &parsed); err != nil {
		return nil, err
	}
	if parsed.Requirements == nil {
		parsed.Requirements = []HelperRequirement{}
	}
	return parsed.Requirements, nil
}

// findSimilarCases queries the vector store with the extracted requirements
// joined into one search string. Best-effort: recommendations degrade
// gracefully when the store is disabled or the search fails.
func (s *SalesHelperService) findSimilarCases(ctx context.Context, requirements []HelperRequirement) []models.TranscriptHit {
	if !s.store.Enabled() || len(requirements) == 0 {
		return []models.TranscriptHit{}
	}

	parts := make([]string, 0, len(requirements))
	for _, r := range requirements {
		if r.Requirement != "" {
			parts = append(parts, r.Requirement)
		}
	}
	query := strings.Join(parts, " ")
	if query == "" {
		return []models.TranscriptHit{}
	}

	hits, err := s.store.SearchSimilar(ctx, query, s.topK)
	if err != nil {
		s.log.WithError(err).Warn("similar case search failed")
		return []models.TranscriptHit{}
	}
	if hits == nil {
		hits = []models.TranscriptHit{}
	}
	return hits
}

func (s *SalesHelperService) recommend(ctx context.Context, input string, requirements []HelperRequirement, cases []models.TranscriptHit) ([]HelperRecommendation, error) {
	reqJSON, err := json.Marshal(requirements)
	if err != nil {
		return nil, err
	}

	casesBlock := "No similar past cases available."
	if len(cases) > 0 {
		casesBlock = formatHits(cases)
	}

	raw, err := s.provider.Complete(ctx,
		s.prompts.Get("sales_helper_system_prompt"),
		s.prompts.Render("sales_recommendations_prompt", map[string]string{
			"input":        input,
			"requirements": string(reqJSON),
			"cases":        casesBlock,
		}),
		llm.CompletionOptions{Temperature: 0.7, MaxTokens: 1500, JSONMode: true},
	)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Recommendations []HelperRecommendation `json:"recommendations"`
	}
	if err := json.Unmarshal([]byte(analyzer.CleanModelJSON(raw)), &parsed); err != nil {
		return nil, err
	}
	if parsed.Recommendations == nil {
		parsed.Recommendations = []HelperRecommendation{}
	}
	return parsed.Recommendations, nil
}
