package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maxviazov/match-tracker-service/internal/service"
)

// Register mounts all public routes on the given engine.
// Accepts service layer dependencies for API endpoints.
func Register(r *gin.Engine, repo Pinger, playerSvc service.PlayerService, matchSvc service.MatchService, statsSvc service.StatsService) {
	h := NewHealthHandler(repo)

	// Health probes
	r.GET("/live", h.Liveness)
	r.GET("/ready", h.Readiness)

	// Docs endpoints (root-level)
	RegisterDocs(r)

	api := r.Group(APIV1Prefix) // Versioning added via single source of truth
	{
		health := api.Group("/health")
		{
			health.GET("/live", h.Liveness)
			health.GET("/ready", h.Readiness)
		}
		NewPlayerHandler(playerSvc).Register(api)
		NewMatchHandler(matchSvc).Register(api)
		NewStatsHandler(statsSvc).Register(api)
	}
}
