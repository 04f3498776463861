package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/entdash/backoffice/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(summaryHandler *handlers.SummaryHandler, statsHandler *handlers.StatsHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	// Same permissive policy the dashboard clients already rely on.
	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"POST", "GET", "OPTIONS"},
		AllowHeaders: []string{"authorization", "x-client-info", "apikey", "content-type"},
	}))

	api := r.Group("/api/v1")
	{
		api.POST("/summary/team-cycle", summaryHandler.TeamCycleSummary)
		api.GET("/summary/team-cycle", summaryHandler.TeamCycleSummary)
		api.GET("/summary/team-cycle/export", summaryHandler.ExportTeamCycleSummary)

		api.GET("/stats/recharge-total", statsHandler.RechargeTotal)
		api.GET("/stats/redeem-total", statsHandler.RedeemTotal)
		api.GET("/stats/bonus-total", statsHandler.BonusTotal)
		api.GET("/stats/unique-users", statsHandler.UniqueUsers)
		api.GET("/stats/pending-count", statsHandler.PendingCount)

		api.GET("/teams", statsHandler.Teams)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
