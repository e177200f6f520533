package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Sindhurirompikuntla/Capstone/internal/services"
	"github.com/Sindhurirompikuntla/Capstone/internal/utils"
)

const defaultSessionID = "default"

type ChatHandler struct {
	chat   services.ChatAgent
	helper *services.SalesHelperService
}

func NewChatHandler(chat services.ChatAgent, helper *services.SalesHelperService) *ChatHandler {
	return &ChatHandler{chat: chat, helper: helper}
}

type chatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

func (h *ChatHandler) Chat(c *gin.Context) {
	const op = "ChatHandler.Chat"

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "message is required", err))
		return
	}
	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}

	// Chat failures ride inside the envelope; the endpoint itself returns 200.
	c.JSON(http.StatusOK, h.chat.Chat(c.Request.Context(), req.SessionID, req.Message))
}

type clearRequest struct {
	SessionID string `json:"session_id"`
}

func (h *ChatHandler) ClearSession(c *gin.Context) {
	var req clearRequest
	_ = c.ShouldBindJSON(&req)
	if req.SessionID == "" {
		req.SessionID = defaultSessionID
	}

	h.chat.ClearSession(req.SessionID)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "conversation history cleared",
		"session_id": req.SessionID,
	})
}

type salesHelperRequest struct {
	SalespersonInput string `json:"salesperson_input" binding:"required"`
}

func (h *ChatHandler) SalesHelper(c *gin.Context) {
	const op = "ChatHandler.SalesHelper"

	var req salesHelperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "salesperson_input is required", err))
		return
	}

	c.JSON(http.StatusOK, h.helper.Help(c.Request.Context(), req.SalespersonInput))
}
