package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hearthline/hearthline/internal/models"
	pgrepo "github.com/hearthline/hearthline/internal/repositories/postgres"
	"github.com/hearthline/hearthline/internal/services"
	"github.com/hearthline/hearthline/internal/utils"
)

type ReportHandler struct {
	reports    services.ReportService
	caregivers pgrepo.CaregiverRepo
}

func NewReportHandler(reports services.ReportService, caregivers pgrepo.CaregiverRepo) *ReportHandler {
	return &ReportHandler{reports: reports, caregivers: caregivers}
}

func (h *ReportHandler) caller(c *gin.Context, ctx context.Context) (*models.Caregiver, bool) {
	caregiverID, ok := requireCaregiverID(c)
	if !ok {
		return nil, false
	}
	cg, err := h.caregivers.GetByID(ctx, caregiverID)
	if err != nil {
		writeError(c, utils.E(utils.CodeUnauthorized, "ReportHandler", "unknown caregiver", err))
		return nil, false
	}
	return cg, true
}

// GetByCall returns one call's full report: summary, insights and, when
// available, the LLM second opinion.
func (h *ReportHandler) GetByCall(c *gin.Context) {
	ctx := c.Request.Context()
	cg, ok := h.caller(c, ctx)
	if !ok {
		return
	}

	report, err := h.reports.GetByCallID(ctx, c.Param("call_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	if !caregiverCanSee(c, cg, report.ResidentID) {
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ListByResident(c *gin.Context) {
	ctx := c.Request.Context()
	cg, ok := h.caller(c, ctx)
	if !ok {
		return
	}

	residentID := c.Param("resident_id")
	if !caregiverCanSee(c, cg, residentID) {
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := h.reports.ListByResident(ctx, residentID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ListCritical is the admin triage view: critical-risk reports from the
// trailing window.
func (h *ReportHandler) ListCritical(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))
	if hours <= 0 {
		hours = 24
	}
	limit, _ := strconv.Atoi(c.Query("limit"))

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	rows, err := h.reports.ListCritical(c.Request.Context(), since, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
