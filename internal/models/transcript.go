package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Source types accepted by the analysis endpoints.
const (
	SourceText     = "text"
	SourceAudio    = "audio"
	SourceDocument = "document"
)

// TranscriptEntry is one stored transcript with its embedding and analysis.
// Rows are insert-only; storing the same transcript_id again adds a row.
type TranscriptEntry struct {
	ID             string          `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	TranscriptID   string          `gorm:"column:transcript_id;type:varchar(100);index" json:"transcript_id"`
	Embedding      pgvector.Vector `gorm:"column:embedding;type:vector(1536)" json:"-"`
	TranscriptText string          `gorm:"column:transcript_text;type:text" json:"transcript_text"`
	AnalysisResult datatypes.JSON  `gorm:"column:analysis_result;type:jsonb" json:"analysis_result"`
	SourceType     string          `gorm:"column:source_type;type:varchar(50)" json:"source_type"`
	Timestamp      time.Time       `gorm:"column:timestamp;type:timestamptz;index" json:"timestamp"`
}

func (TranscriptEntry) TableName() string { return "sales_transcripts" }

// TranscriptHit is a search result row annotated with its vector distance.
type TranscriptHit struct {
	TranscriptID   string         `json:"transcript_id"`
	TranscriptText string         `json:"transcript_text"`
	AnalysisResult datatypes.JSON `json:"analysis_result"`
	SourceType     string         `json:"source_type"`
	Timestamp      int64          `json:"timestamp"`
	Distance       float64        `json:"distance"`
}
