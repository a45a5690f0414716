package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hearthline/hearthline/internal/models"
	"github.com/hearthline/hearthline/internal/services"
	"github.com/hearthline/hearthline/internal/utils"
)

type CallHandler struct {
	svc         services.CallService
	transcripts services.TranscriptService
}

func NewCallHandler(svc services.CallService, transcripts services.TranscriptService) *CallHandler {
	return &CallHandler{svc: svc, transcripts: transcripts}
}

type StartCallRequest struct {
	ResidentID string              `json:"resident_id" binding:"required"`
	Channel    string              `json:"channel" binding:"required"` // phone|chat
	Context    *models.CallContext `json:"context"`
}

type StartCallResponse struct {
	CallID    string `json:"call_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func (h *CallHandler) Start(c *gin.Context) {
	var req StartCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CallHandler.Start", "invalid request body", err))
		return
	}

	call, err := h.svc.Start(c.Request.Context(), req.ResidentID, req.Channel, req.Context)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, StartCallResponse{
		CallID:    call.CallID,
		Status:    call.Status,
		CreatedAt: call.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *CallHandler) Get(c *gin.Context) {
	call, err := h.svc.Get(c.Request.Context(), c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, call)
}

func (h *CallHandler) End(c *gin.Context) {
	report, err := h.svc.End(c.Request.Context(), c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *CallHandler) Transcript(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.transcripts.ListByCall(c.Request.Context(), c.Param("call_id"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
