package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/logger"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm/mock"
)

func helperPrompts() *config.PromptStore {
	return config.NewPromptStore(map[string]string{
		"sales_helper_system_prompt":    "You are a sales assistant.",
		"requirement_extraction_prompt": "Extract from: {input}",
		"sales_recommendations_prompt":  "Notes: {input}\nReqs: {requirements}\nCases: {cases}",
	})
}

func TestSalesHelperHappyPath(t *testing.T) {
	provider := mock.NewProvider(
		`{"requirements": [{"requirement": "needs reporting dashboards", "priority": "High", "category": "analytics"}]}`,
		`{"recommendations": [{"recommendation": "Analytics Suite", "rationale": "matches reporting need", "priority": "High"}]}`,
	)
	svc := NewSalesHelperService(provider, storeWithEntries(t, 2), helperPrompts(), logger.New(), 3)

	res := svc.Help(context.Background(), "client wants better reporting")

	require.True(t, res.Success)
	require.Len(t, res.Requirements, 1)
	assert.Equal(t, "needs reporting dashboards", res.Requirements[0].Requirement)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "Analytics Suite", res.Recommendations[0].Recommendation)
	assert.Len(t, res.SearchResults, 2)
	assert.Equal(t, 1, res.ConversationID)
}

func TestSalesHelperConversationIDIncrements(t *testing.T) {
	provider := mock.NewProvider(
		`{"requirements": []}`,
		`{"recommendations": []}`,
	)
	svc := NewSalesHelperService(provider, storeWithEntries(t, 0), helperPrompts(), logger.New(), 3)

	first := svc.Help(context.Background(), "first note")
	second := svc.Help(context.Background(), "second note")

	assert.Equal(t, 1, first.ConversationID)
	assert.Equal(t, 2, second.ConversationID)
}

func TestSalesHelperEmptyInput(t *testing.T) {
	svc := NewSalesHelperService(mock.NewProvider(), storeWithEntries(t, 0), helperPrompts(), logger.New(), 3)

	res := svc.Help(context.Background(), "")

	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
	assert.NotNil(t, res.Requirements)
	assert.NotNil(t, res.Recommendations)
}

func TestSalesHelperExtractionFailure(t *testing.T) {
	provider := mock.NewProvider()
	provider.Err = errors.New("backend down")
	svc := NewSalesHelperService(provider, storeWithEntries(t, 0), helperPrompts(), logger.New(), 3)

	res := svc.Help(context.Background(), "some notes")

	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "backend down")
}

func TestSalesHelperWorksWithDisabledStore(t *testing.T) {
	provider := mock.NewProvider(
		`{"requirements": [{"requirement": "r1", "priority": "Low"}]}`,
		`{"recommendations": [{"recommendation": "x", "rationale": "y", "priority": "Low"}]}`,
	)
	disabled := NewVectorStoreService(nil, mock.NewEmbedder(), nil, logger.New())
	svc := NewSalesHelperService(provider, disabled, helperPrompts(), logger.New(), 3)

	res := svc.Help(context.Background(), "notes")

	require.True(t, res.Success)
	assert.Empty(t, res.SearchResults)
}

func TestSalesHelperFencedJSON(t *testing.T) {
	provider := mock.NewProvider(
		"```json\n{\"requirements\": [{\"requirement\": \"r1\", \"priority\": \"High\"}]}\n```",
		"```json\n{\"recommendations\": []}\n```",
	)
	svc := NewSalesHelperService(provider, storeWithEntries(t, 0), helperPrompts(), logger.New(), 3)

	res := svc.Help(context.Background(), "notes")

	require.True(t, res.Success)
	assert.Len(t, res.Requirements, 1)
}
