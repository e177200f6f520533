package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

// TranscriptRepository is the vector store adapter. Inserts are append-only;
// nothing upserts or deletes.
type TranscriptRepository interface {
	Insert(ctx context.Context, entry *models.TranscriptEntry) error
	SearchNearest(ctx context.Context, embedding []float32, topK int) ([]models.TranscriptHit, error)
	GetByTranscriptID(ctx context.Context, transcriptID string) (*models.TranscriptEntry, error)
}

// DistanceOperator maps a metric name to its pgvector operator.
func DistanceOperator(metric string) (string, error) {
	switch metric {
	case "l2":
		return "<->", nil
	case "cosine":
		return "<=>", nil
	case "ip":
		return "<#>", nil
	default:
		return "", fmt.Errorf("postgres: unknown distance metric %q", metric)
	}
}

type transcriptRepo struct {
	db       *gorm.DB
	operator string
}

func NewTranscriptRepo(db *gorm.DB, metric string) (TranscriptRepository, error) {
	op, err := DistanceOperator(metric)
	if err != nil {
		return nil, err
	}
	return &transcriptRepo{db: db, operator: op}, nil
}

func (r *transcriptRepo) Insert(ctx context.Context, entry *models.TranscriptEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

type hitRow struct {
	TranscriptID   string
	TranscriptText string
	AnalysisResult datatypes.JSON
	SourceType     string
	Timestamp      time.Time
	Distance       float64
}

func (r *transcriptRepo) SearchNearest(ctx context.Context, embedding []float32, topK int) ([]models.TranscriptHit, error) {
	if topK <= 0 {
		topK = 5
	}

	vec := pgvector.NewVector(embedding)
	query := fmt.Sprintf(
		`SELECT transcript_id, transcript_text, analysis_result, source_type, "timestamp",
		        embedding %s ? AS distance
		 FROM sales_transcripts
		 ORDER BY distance ASC
		 LIMIT ?`, r.operator)

	var rows []hitRow
	if err := r.db.WithContext(ctx).Raw(query, vec, topK).Scan(&rows).Error; err != nil {
		return nil, err
	}

	hits := make([]models.TranscriptHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, models.TranscriptHit{
			TranscriptID:   row.TranscriptID,
			TranscriptText: row.TranscriptText,
			AnalysisResult: row.AnalysisResult,
			SourceType:     row.SourceType,
			Timestamp:      row.Timestamp.Unix(),
			Distance:       row.Distance,
		})
	}
	return hits, nil
}

func (r *transcriptRepo) GetByTranscriptID(ctx context.Context, transcriptID string) (*models.TranscriptEntry, error) {
	var row models.TranscriptEntry
	err := r.db.WithContext(ctx).
		Where("transcript_id = ?", transcriptID).
		Order(`"timestamp" ASC`).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}
