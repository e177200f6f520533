package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sindhurirompikuntla/Capstone/config"
	"github.com/Sindhurirompikuntla/Capstone/internal/analyzer"
	"github.com/Sindhurirompikuntla/Capstone/internal/chunker"
	"github.com/Sindhurirompikuntla/Capstone/internal/logger"
	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/llm/mock"
	"github.com/Sindhurirompikuntla/Capstone/internal/providers/stt"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

const validAnalysisJSON = `{
	"requirements": [],
	"recommendations": [],
	"summary": {"overview": "Discovery call", "sentiment": "Positive"},
	"key_points": ["budget approved"],
	"action_items": []
}`

func analyzerPrompts() *config.PromptStore {
	return config.NewPromptStore(map[string]string{
		"system_prompt":   "You are an analyst.",
		"analysis_prompt": "Analyze: {transcript}",
	})
}

type fakeSTT struct {
	transcript string
	err        error
}

func (f *fakeSTT) Transcribe(_ context.Context, _ []byte, _ string) (string, error) {
	return f.transcript, f.err
}

func (f *fakeSTT) Close() error { return nil }

func newTestAnalysisService(t *testing.T, responses []string, sttProvider stt.Provider) (AnalysisService, *fakeRepo) {
	t.Helper()
	log := logger.New()
	repo := &fakeRepo{}
	store := NewVectorStoreService(repo, mock.NewEmbedder(), nil, log)
	a := analyzer.New(mock.NewProvider(responses...), analyzerPrompts(), log, 0, 0)
	return NewAnalysisService(a, chunker.New(log), store, sttProvider, nil, log), repo
}

func TestAnalyzeTextStoresResult(t *testing.T) {
	svc, repo := newTestAnalysisService(t, []string{validAnalysisJSON}, nil)

	out, err := svc.AnalyzeText(context.Background(), "client: hello", "call-1", true)
	require.NoError(t, err)

	assert.False(t, out.Analysis.IsError())
	assert.Equal(t, "call-1", out.TranscriptID)
	assert.Equal(t, models.SourceText, out.SourceType)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, "call-1", repo.entries[0].TranscriptID)
}

func TestAnalyzeTextSkipsStoreWhenDisabledByCaller(t *testing.T) {
	svc, repo := newTestAnalysisService(t, []string{validAnalysisJSON}, nil)

	_, err := svc.AnalyzeText(context.Background(), "client: hello", "call-1", false)
	require.NoError(t, err)
	assert.Empty(t, repo.entries)
}

func TestAnalyzeTextDoesNotStoreFailedAnalysis(t *testing.T) {
	svc, repo := newTestAnalysisService(t, []string{"not json at all"}, nil)

	out, err := svc.AnalyzeText(context.Background(), "client: hello", "call-1", true)
	require.NoError(t, err)

	assert.True(t, out.Analysis.IsError())
	assert.Empty(t, repo.entries)
}

func TestAnalyzeTextEmptyTranscript(t *testing.T) {
	svc, _ := newTestAnalysisService(t, []string{validAnalysisJSON}, nil)

	_, err := svc.AnalyzeText(context.Background(), "", "call-1", true)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestAnalyzeAudioWithoutBackend(t *testing.T) {
	svc, _ := newTestAnalysisService(t, []string{validAnalysisJSON}, nil)

	_, err := svc.AnalyzeAudio(context.Background(), "call.mp3", []byte{1, 2, 3}, "call-1", true)
	assert.True(t, utils.IsCode(err, utils.CodeUnavailable))
}

func TestAnalyzeAudioTranscribesThenAnalyzes(t *testing.T) {
	svc, repo := newTestAnalysisService(t, []string{validAnalysisJSON}, &fakeSTT{transcript: "client: audio hello"})

	out, err := svc.AnalyzeAudio(context.Background(), "call.mp3", []byte{1, 2, 3}, "call-1", true)
	require.NoError(t, err)

	assert.Equal(t, "client: audio hello", out.Transcript)
	assert.Equal(t, models.SourceAudio, out.SourceType)
	require.Len(t, repo.entries, 1)
	assert.Equal(t, models.SourceAudio, repo.entries[0].SourceType)
}

func TestAnalyzeAudioUnsupportedFormat(t *testing.T) {
	svc, _ := newTestAnalysisService(t, []string{validAnalysisJSON}, &fakeSTT{err: stt.ErrUnsupportedFormat})

	_, err := svc.AnalyzeAudio(context.Background(), "call.flac", []byte{1}, "call-1", true)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestAnalyzeDocumentTxt(t *testing.T) {
	svc, _ := newTestAnalysisService(t, []string{validAnalysisJSON}, nil)

	out, err := svc.AnalyzeDocument(context.Background(), "notes.txt", []byte("client notes"), "call-1", false)
	require.NoError(t, err)

	assert.Equal(t, "client notes", out.Transcript)
	assert.Equal(t, models.SourceDocument, out.SourceType)
}

func TestAnalyzeDocumentUnsupportedFormat(t *testing.T) {
	svc, _ := newTestAnalysisService(t, []string{validAnalysisJSON}, nil)

	_, err := svc.AnalyzeDocument(context.Background(), "image.png", []byte{1, 2}, "call-1", false)
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}
