package cache

import (
	"context"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
)

// TranscriptCache is a best-effort read cache in front of the vector store's
// by-id lookup. Misses and backend errors are equivalent.
type TranscriptCache interface {
	Get(ctx context.Context, transcriptID string) (*models.TranscriptEntry, bool)
	Set(ctx context.Context, entry *models.TranscriptEntry)
}
