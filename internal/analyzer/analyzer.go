// Package analyzer turns raw sales transcripts into structured analysis
// records via a JSON-mode completion call.
package analyzer

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
)

type TranscriptAnalyzer struct {
	provider llm.Provider
	prompts  *config.PromptStore
	log      *logrus.Entry

	temperature float64
	maxTokens   int
}

func New(provider llm.Provider, prompts *config.PromptStore, l *logrus.Logger, temperature float64, maxTokens int) *TranscriptAnalyzer {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 2000
	}
	return &TranscriptAnalyzer{
		provider:    provider,
		prompts:     prompts,
		log:         l.WithField("component", "analyzer"),
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Analyze runs the full analysis over a transcript. Failures never surface as
// Go errors: the caller always receives an AnalysisResult, which on the error
// path is the fixed envelope with every list key present and empty.
func (a *TranscriptAnalyzer) Analyze(ctx context.Context, transcript string) *models.AnalysisResult {
	a.log.WithField("transcript_chars", len(transcript)).Info("starting transcript analysis")

	system := a.prompts.Get("system_prompt")
	user := a.prompts.Render("analysis_prompt", map[string]string{"transcript": transcript})

	raw, err := a.provider.Complete(ctx, system, user, llm.CompletionOptions{
		Temperature: a.temperature,
		MaxTokens:   a.maxTokens,
		JSONMode:    true,
	})
	if err != nil {
		a.log.WithError(err).Error("completion call failed")
		return models.ErrorAnalysis(err.Error())
	}

	cleaned := CleanModelJSON(raw)

	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		a.log.WithError(err).Error("failed to parse analysis response as JSON")
		return models.ErrorAnalysis("Failed to parse analysis results")
	}

	// The wire contract promises all five keys even when the model omits
	// empty collections.
	if result.Requirements == nil {
		result.Requirements = []models.Requirement{}
	}
	if result.Recommendations == nil {
		result.Recommendations = []models.Recommendation{}
	}
	if result.KeyPoints == nil {
		result.KeyPoints = []string{}
	}
	if result.ActionItems == nil {
		result.ActionItems = []models.ActionItem{}
	}

	a.log.Info("transcript analysis completed")
	return &result
}

// ExtractRequirements runs the requirements-only prompt, returning free text.
func (a *TranscriptAnalyzer) ExtractRequirements(ctx context.Context, transcript string) (string, error) {
	return a.facet(ctx, "requirements_extraction_prompt", transcript, 0.5, 1500)
}

// GenerateRecommendations runs the recommendations-only prompt.
func (a *TranscriptAnalyzer) GenerateRecommendations(ctx context.Context, transcript string) (string, error) {
	return a.facet(ctx, "recommendations_prompt", transcript, 0.7, 1500)
}

// GenerateSummary runs the summary-only prompt.
func (a *TranscriptAnalyzer) GenerateSummary(ctx context.Context, transcript string) (string, error) {
	return a.facet(ctx, "summary_prompt", transcript, 0.5, 1000)
}

func (a *TranscriptAnalyzer) facet(ctx context.Context, prompt, transcript string, temperature float64, maxTokens int) (string, error) {
	system := a.prompts.Get("system_prompt")
	user := a.prompts.Render(prompt, map[string]string{"transcript": transcript})

	out, err := a.provider.Complete(ctx, system, user, llm.CompletionOptions{
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		a.log.WithError(err).WithField("prompt", prompt).Error("facet completion failed")
		return "", err
	}
	return out, nil
}
