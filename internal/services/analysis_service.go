package services

import (
	"bytes"
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Sindhurirompikuntla/Capstone/internal/analyzer"
	"github.com/Sindhurirompikuntla/Capstone/internal/chunker"
	"github.com/Sindhurirompikuntla/Capstone/internal/extract"
	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/stt"
	"github.com/Sindhurirompikuntla/Capstone/internal/storage"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

// AnalysisOutcome is what the analyze endpoints return to the handler layer.
// Analysis is never nil; its error envelope marks failed analyses.
type AnalysisOutcome struct {
	TranscriptID string
	Transcript   string
	SourceType   string
	Analysis     *models.AnalysisResult
}

type AnalysisService interface {
	AnalyzeText(ctx context.Context, transcript, transcriptID string, store bool) (*AnalysisOutcome, error)
	AnalyzeAudio(ctx context.Context, filename string, audio []byte, transcriptID string, store bool) (*AnalysisOutcome, error)
	AnalyzeDocument(ctx context.Context, filename string, content []byte, transcriptID string, store bool) (*AnalysisOutcome, error)
}

type analysisService struct {
	analyzer *analyzer.TranscriptAnalyzer
	chunks   *chunker.Chunker
	store    VectorStoreService
	stt      stt.Provider      // nil when no transcription backend configured
	archive  storage.Uploader  // optional audio archival
	log      *logrus.Entry
}

func NewAnalysisService(a *analyzer.TranscriptAnalyzer, ch *chunker.Chunker, store VectorStoreService, sttProvider stt.Provider, archive storage.Uploader, l *logrus.Logger) AnalysisService {
	return &analysisService{
		analyzer: a,
		chunks:   ch,
		store:    store,
		stt:      sttProvider,
		archive:  archive,
		log:      l.WithField("component", "analysis_service"),
	}
}

func (s *analysisService) AnalyzeText(ctx context.Context, transcript, transcriptID string, store bool) (*AnalysisOutcome, error) {
	const op = "AnalysisService.AnalyzeText"

	if transcript == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "transcript is required", nil)
	}

	return s.analyze(ctx, transcript, transcriptID, models.SourceText, store), nil
}

func (s *analysisService) AnalyzeAudio(ctx context.Context, filename string, audio []byte, transcriptID string, store bool) (*AnalysisOutcome, error) {
	const op = "AnalysisService.AnalyzeAudio"

	if s.stt == nil {
		return nil, utils.E(utils.CodeUnavailable, op, "no transcription backend configured", nil)
	}
	if len(audio) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "audio file is empty", nil)
	}

	transcript, err := s.stt.Transcribe(ctx, audio, filename)
	if err != nil {
		code := utils.CodeUnavailable
		if errors.Is(err, stt.ErrUnsupportedFormat) || errors.Is(err, stt.ErrFileTooLarge) {
			code = utils.CodeInvalidArgument
		}
		return nil, utils.E(code, op, "failed to transcribe audio file", err)
	}
	if transcript == "" {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to transcribe audio file", nil)
	}

	s.archiveAudio(ctx, transcriptID, filename, audio)

	return s.analyze(ctx, transcript, transcriptID, models.SourceAudio, store), nil
}

func (s *analysisService) AnalyzeDocument(ctx context.Context, filename string, content []byte, transcriptID string, store bool) (*AnalysisOutcome, error) {
	const op = "AnalysisService.AnalyzeDocument"

	if len(content) == 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "file is empty", nil)
	}

	text, err := extract.Text(filename, content)
	if err != nil {
		code := utils.CodeInternal
		if errors.Is(err, extract.ErrUnsupportedFormat) {
			code = utils.CodeInvalidArgument
		}
		return nil, utils.E(code, op, err.Error(), err)
	}
	if text == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "no text could be extracted from the file", nil)
	}

	return s.analyze(ctx, text, transcriptID, models.SourceDocument, store), nil
}

func (s *analysisService) analyze(ctx context.Context, transcript, transcriptID, sourceType string, store bool) *AnalysisOutcome {
	// Chunking feeds statistics only; the stored embedding covers the whole
	// transcript, truncated by the vector store service.
	stats := chunker.ChunkStats(s.chunks.SplitRecursive(transcript))
	s.log.WithFields(logrus.Fields{
		"transcript_id": transcriptID,
		"source_type":   sourceType,
		"chunks":        stats.TotalChunks,
		"avg_chunk":     stats.AvgChunkSize,
	}).Debug("chunk statistics")

	result := s.analyzer.Analyze(ctx, transcript)

	if store && !result.IsError() {
		if err := s.store.StoreTranscript(ctx, transcriptID, transcript, result, sourceType); err != nil {
			// Store failures do not fail the analysis response.
			s.log.WithError(err).WithField("transcript_id", transcriptID).Error("failed to store transcript")
		}
	}

	return &AnalysisOutcome{
		TranscriptID: transcriptID,
		Transcript:   transcript,
		SourceType:   sourceType,
		Analysis:     result,
	}
}

func (s *analysisService) archiveAudio(ctx context.Context, transcriptID, filename string, audio []byte) {
	if s.archive == nil {
		return
	}
	objectName := "audio/" + transcriptID + "/" + filename
	if _, err := s.archive.Upload(ctx, objectName, "application/octet-stream", bytes.NewReader(audio)); err != nil {
		s.log.WithError(err).WithField("object", objectName).Warn("audio archival failed")
	}
}
