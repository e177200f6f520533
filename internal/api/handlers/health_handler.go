package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	version  string
	llm      string
	stt      string
	chatMode string
	vectorOK func() bool
}

func NewHealthHandler(version, llmProvider, sttProvider, chatMode string, vectorOK func() bool) *HealthHandler {
	return &HealthHandler{
		version:  version,
		llm:      llmProvider,
		stt:      sttProvider,
		chatMode: chatMode,
		vectorOK: vectorOK,
	}
}

// Check reports liveness. The API stays healthy with the vector store down;
// the services map tells the caller which features are degraded.
func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": h.version,
		"services": gin.H{
			"llm":          h.llm,
			"stt":          h.stt,
			"chat_mode":    h.chatMode,
			"vector_store": h.vectorOK(),
		},
	})
}
