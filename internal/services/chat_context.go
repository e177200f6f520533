package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
)

// Per-document truncation applied when building the retrieval context block.
const maxContextChars = 2000

// formatHits renders retrieved transcripts into the context block both chat
// designs feed the model.
func formatHits(hits []models.TranscriptHit) string {
	if len(hits) == 0 {
		return "No relevant documents found in the database."
	}

	var parts []string
	for i, hit := range hits {
		parts = append(parts, fmt.Sprintf("Document %d:", i+1))

		text := hit.TranscriptText
		if len(text) > maxContextChars {
			parts = append(parts, "Transcript: "+text[:maxContextChars]+"...")
		} else {
			parts = append(parts, "Transcript: "+text)
		}

		var analysis models.AnalysisResult
		if err := json.Unmarshal(hit.AnalysisResult, &analysis); err == nil {
			if analysis.Summary.Overview != "" {
				parts = append(parts, "Summary: "+analysis.Summary.Overview)
			}
			if analysis.Summary.Sentiment != "" {
				parts = append(parts, "Sentiment: "+analysis.Summary.Sentiment)
			}
			if len(analysis.Requirements) > 0 {
				parts = append(parts, "Requirements: "+marshalHead(analysis.Requirements, 3))
			}
			if len(analysis.KeyPoints) > 0 {
				parts = append(parts, "Key Points: "+marshalHead(analysis.KeyPoints, 5))
			}
			if len(analysis.ActionItems) > 0 {
				parts = append(parts, "Action Items: "+marshalHead(analysis.ActionItems, 3))
			}
			if len(analysis.Recommendations) > 0 {
				parts = append(parts, "Recommendations: "+marshalHead(analysis.Recommendations, 2))
			}
		}

		parts = append(parts, "")
	}
	return strings.Join(parts, "\n")
}

// marshalHead serializes at most n leading elements of a slice.
func marshalHead[T any](items []T, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}
