package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/domain/models"
	"github.com/entdash/backoffice/internal/service/stats"
)

// StatsHandler serves the dashboard card endpoints.
type StatsHandler struct {
	svc    stats.Provider
	logger *zap.Logger
}

// NewStatsHandler constructs the HTTP handler adapter.
func NewStatsHandler(svc stats.Provider, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{svc: svc, logger: logger}
}

// RechargeTotal returns the windowed recharge sum.
func (h *StatsHandler) RechargeTotal(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}
	result, err := h.svc.RechargeTotal(c.Request.Context(), rng, c.Query("ent"))
	h.respond(c, result, err)
}

// RedeemTotal returns the windowed redeem sum.
func (h *StatsHandler) RedeemTotal(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}
	result, err := h.svc.RedeemTotal(c.Request.Context(), rng, c.Query("ent"))
	h.respond(c, result, err)
}

// BonusTotal returns the windowed bonus sum.
func (h *StatsHandler) BonusTotal(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}
	result, err := h.svc.BonusTotal(c.Request.Context(), rng, c.Query("ent"))
	h.respond(c, result, err)
}

// UniqueUsers returns the windowed distinct-account count.
func (h *StatsHandler) UniqueUsers(c *gin.Context) {
	rng, ok := h.parseRange(c)
	if !ok {
		return
	}
	result, err := h.svc.UniqueUsers(c.Request.Context(), rng, c.Query("ent"))
	h.respond(c, result, err)
}

// PendingCount returns the open-request count for one activity queue.
func (h *StatsHandler) PendingCount(c *gin.Context) {
	activity := models.ActivityType(c.Query("activity"))
	if !activity.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": "activity must be one of recharge, redeem, transfer, reset_password, new_account"})
		return
	}
	result, err := h.svc.PendingCount(c.Request.Context(), activity, c.Query("ent"))
	h.respond(c, result, err)
}

// Teams returns the team directory.
func (h *StatsHandler) Teams(c *gin.Context) {
	teams, err := h.svc.Teams(c.Request.Context())
	if err != nil {
		h.logger.Error("failed listing teams", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		return
	}
	if teams == nil {
		teams = []models.Team{}
	}
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (h *StatsHandler) parseRange(c *gin.Context) (models.RangeKind, bool) {
	rng := models.RangeKind(c.DefaultQuery("range", string(models.RangeDay)))
	if !rng.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": "range must be one of day, week, month"})
		return "", false
	}
	return rng, true
}

func (h *StatsHandler) respond(c *gin.Context, result any, err error) {
	if err != nil {
		h.logger.Error("failed computing dashboard stat", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
