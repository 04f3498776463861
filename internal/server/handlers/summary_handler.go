package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
	"github.com/entdash/backoffice/internal/service/export"
	"github.com/entdash/backoffice/internal/service/summary"
)

// SummaryHandler serves the team-cycle summary endpoints.
type SummaryHandler struct {
	svc    summary.Summarizer
	cfg    config.SummaryConfig
	logger *zap.Logger
}

// NewSummaryHandler constructs the HTTP handler adapter.
func NewSummaryHandler(svc summary.Summarizer, cfg config.SummaryConfig, logger *zap.Logger) *SummaryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryHandler{svc: svc, cfg: cfg, logger: logger}
}

// summaryRequest mirrors the filters clients send, via JSON body or query
// string. team_codes tolerates both array and comma-joined encodings.
type summaryRequest struct {
	StartDate string            `json:"start_date"`
	EndDate   string            `json:"end_date"`
	TeamCodes models.StringList `json:"team_codes"`
	TeamCode  models.StringList `json:"team_code"`
	Ent       string            `json:"ent"`
}

// TeamCycleSummary returns `{ data, daily }` for the requested window.
func (h *SummaryHandler) TeamCycleSummary(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		h.logger.Warn("invalid summary request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	result, err := h.svc.TeamCycleSummary(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed building cycle summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportTeamCycleSummary streams the same summary as an XLSX workbook.
func (h *SummaryHandler) ExportTeamCycleSummary(c *gin.Context) {
	filter, err := h.parseFilter(c)
	if err != nil {
		h.logger.Warn("invalid summary export request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	result, err := h.svc.TeamCycleSummary(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("failed building cycle summary export", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		return
	}

	filename := exportFilename(filter)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := export.WriteWorkbook(result, c.Writer); err != nil {
		h.logger.Error("failed streaming summary workbook", zap.Error(err))
	}
}

// parseFilter merges body and query parameters, then applies the configured
// defaults when no explicit date or team filter was supplied.
func (h *SummaryHandler) parseFilter(c *gin.Context) (models.SummaryFilter, error) {
	var body summaryRequest
	if c.Request.Method == http.MethodPost {
		// An empty or non-JSON body falls back to query parameters.
		if err := c.ShouldBindJSON(&body); err != nil && c.Request.ContentLength > 0 {
			return models.SummaryFilter{}, err
		}
	}

	startDate := firstNonEmpty(body.StartDate, c.Query("start_date"))
	endDate := firstNonEmpty(body.EndDate, c.Query("end_date"))
	ent := firstNonEmpty(body.Ent, c.Query("ent"))

	queryTeamCodes := models.ParseTeamCodes(firstNonEmpty(c.Query("team_codes"), c.Query("team_code")))

	noTeamFilter := ent == "" && len(body.TeamCodes) == 0 && len(body.TeamCode) == 0 && len(queryTeamCodes) == 0
	if startDate == "" && endDate == "" {
		startDate = h.cfg.DefaultDate
		endDate = h.cfg.DefaultDate
	}
	if noTeamFilter {
		ent = h.cfg.DefaultEnt
	}

	for _, date := range []string{startDate, endDate} {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return models.SummaryFilter{}, err
		}
	}

	teamCodes := body.TeamCodes
	if len(teamCodes) == 0 {
		teamCodes = body.TeamCode
	}
	if len(teamCodes) == 0 {
		teamCodes = queryTeamCodes
	}
	if len(teamCodes) == 0 && ent != "" && strings.ToLower(ent) != "all" {
		teamCodes = []string{ent}
	}

	return models.SummaryFilter{
		StartDate: startDate,
		EndDate:   endDate,
		TeamCodes: teamCodes,
	}, nil
}

func exportFilename(filter models.SummaryFilter) string {
	if filter.StartDate == "" && filter.EndDate == "" {
		return "team-cycle-summary.xlsx"
	}
	return "team-cycle-summary_" + filter.StartDate + "_" + filter.EndDate + ".xlsx"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
