package handlers

import (
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/services"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

// Upload ceiling for audio and document endpoints.
const maxUploadBytes = 25 << 20

type AnalysisHandler struct {
	svc services.AnalysisService
}

func NewAnalysisHandler(svc services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{svc: svc}
}

type analyzeTextRequest struct {
	Transcript   string `json:"transcript" binding:"required"`
	TranscriptID string `json:"transcript_id"`
	StoreInDB    *bool  `json:"store_in_db"`
}

type analyzeResponse struct {
	Success      bool                   `json:"success"`
	TranscriptID string                 `json:"transcript_id"`
	SourceType   string                 `json:"source_type"`
	Transcript   string                 `json:"transcript"`
	Analysis     *models.AnalysisResult `json:"analysis"`
	Error        string                 `json:"error,omitempty"`
}

// Analysis failures travel inside the envelope with HTTP 200; only request
// validation and transcription problems map to error statuses.
func toResponse(out *services.AnalysisOutcome) analyzeResponse {
	resp := analyzeResponse{
		Success:      !out.Analysis.IsError(),
		TranscriptID: out.TranscriptID,
		SourceType:   out.SourceType,
		Transcript:   out.Transcript,
		Analysis:     out.Analysis,
	}
	if out.Analysis.IsError() {
		resp.Error = out.Analysis.Summary.Error
	}
	return resp
}

func (h *AnalysisHandler) AnalyzeText(c *gin.Context) {
	const op = "AnalysisHandler.AnalyzeText"

	var req analyzeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "transcript is required", err))
		return
	}

	transcriptID := req.TranscriptID
	if transcriptID == "" {
		transcriptID = uuid.NewString()
	}
	store := req.StoreInDB == nil || *req.StoreInDB

	out, err := h.svc.AnalyzeText(c.Request.Context(), req.Transcript, transcriptID, store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out))
}

func (h *AnalysisHandler) AnalyzeAudio(c *gin.Context) {
	const op = "AnalysisHandler.AnalyzeAudio"

	filename, content, transcriptID, store, err := readUpload(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := h.svc.AnalyzeAudio(c.Request.Context(), filename, content, transcriptID, store)
	if err != nil {
		writeError(c, err)
		return
	}
	// The response echoes the transcription so the caller can review it.
	c.JSON(http.StatusOK, toResponse(out))
}

func (h *AnalysisHandler) AnalyzeFile(c *gin.Context) {
	const op = "AnalysisHandler.AnalyzeFile"

	filename, content, transcriptID, store, err := readUpload(c, op)
	if err != nil {
		writeError(c, err)
		return
	}

	out, err := h.svc.AnalyzeDocument(c.Request.Context(), filename, content, transcriptID, store)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(out))
}

// readUpload pulls the multipart file plus the shared form fields used by
// both upload endpoints.
func readUpload(c *gin.Context, op string) (filename string, content []byte, transcriptID string, store bool, err error) {
	fh, ferr := c.FormFile("file")
	if ferr != nil {
		return "", nil, "", false, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'file'", ferr)
	}
	if fh.Size <= 0 || fh.Size > maxUploadBytes {
		return "", nil, "", false, utils.E(utils.CodeInvalidArgument, op, "file is empty or too large (max 25MB)", nil)
	}

	content, ferr = readAll(fh)
	if ferr != nil {
		return "", nil, "", false, utils.E(utils.CodeInternal, op, "failed to read upload", ferr)
	}

	transcriptID = c.PostForm("transcript_id")
	if transcriptID == "" {
		transcriptID = uuid.NewString()
	}

	store = true
	if v := c.PostForm("store_in_db"); v != "" {
		parsed, perr := strconv.ParseBool(v)
		if perr != nil {
			return "", nil, "", false, utils.E(utils.CodeInvalidArgument, op, "store_in_db must be a boolean", perr)
		}
		store = parsed
	}

	return fh.Filename, content, transcriptID, store, nil
}

func readAll(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
