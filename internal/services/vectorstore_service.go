package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/Sindhurirompikuntla/Capstone/internal/cache"
	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm"
	pgrepo "github.com/Sindhurirompikuntla/Capstone/internal/repositories/postgres"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

// Embedding input is cut at a safe character limit to stay under the
// provider's 8192-token cap.
const maxEmbedChars = 20000

// VectorStoreService embeds transcripts and fronts the vector database.
// When the database was unreachable at startup the service is constructed
// disabled and every call returns UNAVAILABLE.
type VectorStoreService interface {
	Enabled() bool
	StoreTranscript(ctx context.Context, transcriptID, transcriptText string, analysis *models.AnalysisResult, sourceType string) error
	SearchSimilar(ctx context.Context, query string, topK int) ([]models.TranscriptHit, error)
	GetTranscriptByID(ctx context.Context, transcriptID string) (*models.TranscriptEntry, error)
}

type vectorStoreService struct {
	repo     pgrepo.TranscriptRepository
	embedder llm.Embedder
	cache    cache.TranscriptCache // optional
	log      *logrus.Entry
}

// NewVectorStoreService builds the service. repo may be nil (disabled mode);
// transcripts cache is optional.
func NewVectorStoreService(repo pgrepo.TranscriptRepository, embedder llm.Embedder, c cache.TranscriptCache, l *logrus.Logger) VectorStoreService {
	return &vectorStoreService{
		repo:     repo,
		embedder: embedder,
		cache:    c,
		log:      l.WithField("component", "vector_store"),
	}
}

func (s *vectorStoreService) Enabled() bool { return s.repo != nil }

func (s *vectorStoreService) embed(ctx context.Context, text string) ([]float32, error) {
	if len(text) > maxEmbedChars {
		s.log.WithFields(logrus.Fields{
			"chars": len(text),
			"limit": maxEmbedChars,
		}).Warn("text too long, truncating for embedding")
		text = text[:maxEmbedChars]
	}
	return s.embedder.EmbedText(ctx, text)
}

func (s *vectorStoreService) StoreTranscript(ctx context.Context, transcriptID, transcriptText string, analysis *models.AnalysisResult, sourceType string) error {
	const op = "VectorStoreService.StoreTranscript"

	if !s.Enabled() {
		return utils.E(utils.CodeUnavailable, op, "vector store is disabled", nil)
	}
	if transcriptID == "" || transcriptText == "" {
		return utils.E(utils.CodeInvalidArgument, op, "transcript_id and transcript_text are required", nil)
	}

	embedding, err := s.embed(ctx, transcriptText)
	if err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to generate embedding", err)
	}

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to serialize analysis", err)
	}

	entry := &models.TranscriptEntry{
		ID:             uuid.NewString(),
		TranscriptID:   transcriptID,
		Embedding:      pgvector.NewVector(embedding),
		TranscriptText: transcriptText,
		AnalysisResult: datatypes.JSON(analysisJSON),
		SourceType:     sourceType,
		Timestamp:      time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return utils.E(utils.CodeInternal, op, "failed to store transcript", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, entry)
	}

	s.log.WithField("transcript_id", transcriptID).Info("stored transcript")
	return nil
}

func (s *vectorStoreService) SearchSimilar(ctx context.Context, query string, topK int) ([]models.TranscriptHit, error) {
	const op = "VectorStoreService.SearchSimilar"

	if !s.Enabled() {
		return nil, utils.E(utils.CodeUnavailable, op, "vector store is disabled", nil)
	}
	if query == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "query is required", nil)
	}

	embedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to embed query", err)
	}

	hits, err := s.repo.SearchNearest(ctx, embedding, topK)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "similarity search failed", err)
	}

	s.log.WithFields(logrus.Fields{"query_chars": len(query), "hits": len(hits)}).Info("similarity search")
	return hits, nil
}

func (s *vectorStoreService) GetTranscriptByID(ctx context.Context, transcriptID string) (*models.TranscriptEntry, error) {
	const op = "VectorStoreService.GetTranscriptByID"

	if !s.Enabled() {
		return nil, utils.E(utils.CodeUnavailable, op, "vector store is disabled", nil)
	}
	if transcriptID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "transcript_id is required", nil)
	}

	if s.cache != nil {
		if entry, ok := s.cache.Get(ctx, transcriptID); ok {
			return entry, nil
		}
	}

	entry, err := s.repo.GetByTranscriptID(ctx, transcriptID)
	if err == utils.ErrNotFound {
		return nil, utils.E(utils.CodeNotFound, op, "transcript not found", err)
	}
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to retrieve transcript", err)
	}

	if s.cache != nil {
		s.cache.Set(ctx, entry)
	}
	return entry, nil
}
