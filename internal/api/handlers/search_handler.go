package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sindhurirompikuntla/Capstone/internal/models"
	"github.com/Sindhurirompikuntla/Capstone/internal/services"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

type SearchHandler struct {
	store services.VectorStoreService
}

func NewSearchHandler(store services.VectorStoreService) *SearchHandler {
	return &SearchHandler{store: store}
}

type searchRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"top_k"`
}

type searchResponse struct {
	Success bool                   `json:"success"`
	Results []models.TranscriptHit `json:"results"`
	Count   int                    `json:"count"`
	Error   string                 `json:"error,omitempty"`
}

func (h *SearchHandler) Search(c *gin.Context) {
	const op = "SearchHandler.Search"

	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "query is required", err))
		return
	}

	topK := req.TopK
	if topK <= 0 {
		topK = 5
	}
	if topK > 20 {
		topK = 20
	}

	hits, err := h.store.SearchSimilar(c.Request.Context(), req.Query, topK)
	if err != nil {
		if utils.IsCode(err, utils.CodeInvalidArgument) {
			writeError(c, err)
			return
		}
		// Operational failures keep the envelope shape so clients always get
		// a results array.
		c.JSON(http.StatusOK, searchResponse{
			Success: false,
			Results: []models.TranscriptHit{},
			Error:   err.Error(),
		})
		return
	}

	if hits == nil {
		hits = []models.TranscriptHit{}
	}
	c.JSON(http.StatusOK, searchResponse{
		Success: true,
		Results: hits,
		Count:   len(hits),
	})
}

func (h *SearchHandler) GetTranscript(c *gin.Context) {
	const op = "SearchHandler.GetTranscript"

	transcriptID := c.Param("transcript_id")
	if transcriptID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "transcript_id is required", nil))
		return
	}

	entry, err := h.store.GetTranscriptByID(c.Request.Context(), transcriptID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    entry,
	})
}
