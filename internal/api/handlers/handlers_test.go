package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/services"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeAnalysisService returns canned outcomes.
type fakeAnalysisService struct {
	outcome *services.AnalysisOutcome
	err     error

	lastTranscript string
	lastStore      bool
}

func (f *fakeAnalysisService) AnalyzeText(_ context.Context, transcript, transcriptID string, store bool) (*services.AnalysisOutcome, error) {
	f.lastTranscript = transcript
	f.lastStore = store
	if f.err != nil {
		return nil, f.err
	}
	out := *f.outcome
	out.TranscriptID = transcriptID
	return &out, nil
}

func (f *fakeAnalysisService) AnalyzeAudio(_ context.Context, _ string, _ []byte, transcriptID string, store bool) (*services.AnalysisOutcome, error) {
	f.lastStore = store
	if f.err != nil {
		return nil, f.err
	}
	out := *f.outcome
	out.TranscriptID = transcriptID
	return &out, nil
}

func (f *fakeAnalysisService) AnalyzeDocument(_ context.Context, _ string, _ []byte, transcriptID string, store bool) (*services.AnalysisOutcome, error) {
	f.lastStore = store
	if f.err != nil {
		return nil, f.err
	}
	out := *f.outcome
	out.TranscriptID = transcriptID
	return &out, nil
}

// fakeStore implements services.VectorStoreService.
type fakeStore struct {
	enabled bool
	hits    []models.TranscriptHit
	entry   *models.TranscriptEntry
	err     error
}

func (f *fakeStore) Enabled() bool { return f.enabled }

func (f *fakeStore) StoreTranscript(_ context.Context, _, _ string, _ *models.AnalysisResult, _ string) error {
	return f.err
}

func (f *fakeStore) SearchSimilar(_ context.Context, _ string, _ int) ([]models.TranscriptHit, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

func (f *fakeStore) GetTranscriptByID(_ context.Context, transcriptID string) (*models.TranscriptEntry, error) {
	if f.entry != nil && f.entry.TranscriptID == transcriptID {
		return f.entry, nil
	}
	return nil, utils.E(utils.CodeNotFound, "fake", "transcript not found", nil)
}

// fakeChat implements services.ChatAgent.
type fakeChat struct {
	result  *services.ChatResult
	cleared []string
}

func (f *fakeChat) Chat(_ context.Context, sessionID, _ string) *services.ChatResult {
	out := *f.result
	out.SessionID = sessionID
	return &out
}

func (f *fakeChat) ClearSession(sessionID string) {
	f.cleared = append(f.cleared, sessionID)
}

func goodOutcome() *services.AnalysisOutcome {
	return &services.AnalysisOutcome{
		Transcript: "client: hello",
		SourceType: models.SourceText,
		Analysis: &models.AnalysisResult{
			Requirements:    []models.Requirement{},
			Recommendations: []models.Recommendation{},
			Summary:         models.Summary{Overview: "Discovery call"},
			KeyPoints:       []string{},
			ActionItems:     []models.ActionItem{},
		},
	}
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	h := NewHealthHandler("1.0.0", "azure", "whisper", "simple", func() bool { return false })
	r.GET("/health", h.Check)

	w := doJSON(r, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "1.0.0", body["version"])

	svcs := body["services"].(map[string]any)
	assert.Equal(t, "azure", svcs["llm"])
	assert.Equal(t, false, svcs["vector_store"])
}

func TestAnalyzeTextSuccess(t *testing.T) {
	svc := &fakeAnalysisService{outcome: goodOutcome()}
	r := gin.New()
	r.POST("/analyze/text", NewAnalysisHandler(svc).AnalyzeText)

	w := doJSON(r, http.MethodPost, "/analyze/text", `{"transcript": "client: hello", "transcript_id": "call-1"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "call-1", resp.TranscriptID)
	assert.Equal(t, "Discovery call", resp.Analysis.Summary.Overview)
	assert.True(t, svc.lastStore)
}

func TestAnalyzeTextGeneratesTranscriptID(t *testing.T) {
	svc := &fakeAnalysisService{outcome: goodOutcome()}
	r := gin.New()
	r.POST("/analyze/text", NewAnalysisHandler(svc).AnalyzeText)

	w := doJSON(r, http.MethodPost, "/analyze/text", `{"transcript": "hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TranscriptID)
}

func TestAnalyzeTextMissingTranscript(t *testing.T) {
	r := gin.New()
	r.POST("/analyze/text", NewAnalysisHandler(&fakeAnalysisService{outcome: goodOutcome()}).AnalyzeText)

	w := doJSON(r, http.MethodPost, "/analyze/text", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeTextFailureEnvelope(t *testing.T) {
	// Analyzer failures ride inside a 200 response.
	out := goodOutcome()
	out.Analysis = models.ErrorAnalysis("model unavailable")
	r := gin.New()
	r.POST("/analyze/text", NewAnalysisHandler(&fakeAnalysisService{outcome: out}).AnalyzeText)

	w := doJSON(r, http.MethodPost, "/analyze/text", `{"transcript": "hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "model unavailable", resp.Error)
	assert.Equal(t, "Analysis failed", resp.Analysis.Summary.Overview)
}

func TestAnalyzeTextStoreOptOut(t *testing.T) {
	svc := &fakeAnalysisService{outcome: goodOutcome()}
	r := gin.New()
	r.POST("/analyze/text", NewAnalysisHandler(svc).AnalyzeText)

	w := doJSON(r, http.MethodPost, "/analyze/text", `{"transcript": "hello", "store_in_db": false}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, svc.lastStore)
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAnalyzeAudioUpload(t *testing.T) {
	out := goodOutcome()
	out.SourceType = models.SourceAudio
	svc := &fakeAnalysisService{outcome: out}
	r := gin.New()
	r.POST("/analyze/audio", NewAnalysisHandler(svc).AnalyzeAudio)

	body, ct := multipartBody(t, "call.mp3", []byte("audio-bytes"), map[string]string{"transcript_id": "call-9"})
	req := httptest.NewRequest(http.MethodPost, "/analyze/audio", body)
	req.Header.Set("Content-Type", ct)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp analyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "call-9", resp.TranscriptID)
	// Audio responses echo the transcription text.
	assert.Equal(t, "client: hello", resp.Transcript)
}

func TestAnalyzeFileMissingUpload(t *testing.T) {
	r := gin.New()
	r.POST("/analyze/file", NewAnalysisHandler(&fakeAnalysisService{outcome: goodOutcome()}).AnalyzeFile)

	req := httptest.NewRequest(http.MethodPost, "/analyze/file", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchSuccess(t *testing.T) {
	store := &fakeStore{enabled: true, hits: []models.TranscriptHit{
		{TranscriptID: "a", TranscriptText: "transcript a"},
		{TranscriptID: "b", TranscriptText: "transcript b"},
	}}
	r := gin.New()
	r.POST("/search", NewSearchHandler(store).Search)

	w := doJSON(r, http.MethodPost, "/search", `{"query": "pricing"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Count)
	assert.Len(t, resp.Results, 2)
}

func TestSearchMissingQuery(t *testing.T) {
	r := gin.New()
	r.POST("/search", NewSearchHandler(&fakeStore{enabled: true}).Search)

	w := doJSON(r, http.MethodPost, "/search", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchOperationalFailureEnvelope(t *testing.T) {
	store := &fakeStore{enabled: false, err: utils.E(utils.CodeUnavailable, "fake", "vector store is disabled", nil)}
	r := gin.New()
	r.POST("/search", NewSearchHandler(store).Search)

	w := doJSON(r, http.MethodPost, "/search", `{"query": "pricing"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp searchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotNil(t, resp.Results)
	assert.Zero(t, resp.Count)
	assert.NotEmpty(t, resp.Error)
}

func TestGetTranscriptFound(t *testing.T) {
	store := &fakeStore{entry: &models.TranscriptEntry{TranscriptID: "call-1", TranscriptText: "hello"}}
	r := gin.New()
	r.GET("/transcript/:transcript_id", NewSearchHandler(store).GetTranscript)

	w := doJSON(r, http.MethodGet, "/transcript/call-1", "")

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
}

func TestGetTranscriptNotFound(t *testing.T) {
	r := gin.New()
	r.GET("/transcript/:transcript_id", NewSearchHandler(&fakeStore{}).GetTranscript)

	w := doJSON(r, http.MethodGet, "/transcript/missing", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatEndpoint(t *testing.T) {
	chat := &fakeChat{result: &services.ChatResult{Success: true, Answer: "CRM came up twice.", RelevantDocuments: 2}}
	r := gin.New()
	r.POST("/chat", NewChatHandler(chat, nil).Chat)

	w := doJSON(r, http.MethodPost, "/chat", `{"message": "what did clients ask?"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp services.ChatResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "CRM came up twice.", resp.Answer)
	// Missing session_id falls back to the shared default session.
	assert.Equal(t, "default", resp.SessionID)
}

func TestChatMissingMessage(t *testing.T) {
	r := gin.New()
	r.POST("/chat", NewChatHandler(&fakeChat{result: &services.ChatResult{}}, nil).Chat)

	w := doJSON(r, http.MethodPost, "/chat", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatClear(t *testing.T) {
	chat := &fakeChat{result: &services.ChatResult{}}
	r := gin.New()
	r.POST("/chat/clear", NewChatHandler(chat, nil).ClearSession)

	w := doJSON(r, http.MethodPost, "/chat/clear", `{"session_id": "s42"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"s42"}, chat.cleared)
}
