package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/service"
	"github.com/maxviazov/match-tracker-service/pkg/response"
)

type StatsHandler struct {
	svc service.StatsService
}

func NewStatsHandler(svc service.StatsService) *StatsHandler { return &StatsHandler{svc: svc} }

func (h *StatsHandler) Register(r *gin.RouterGroup) {
	// Upsert endpoint
	r.Group("/stats").POST("", h.upsert)
	// Listings hang off their owning resource:
	//   /api/v1/matches/:id/stats and /api/v1/players/:id/stats
	r.Group("/matches").GET("/:id/stats", h.listByMatch)
	r.Group("/players").GET("/:id/stats", h.listByPlayer)
}

type upsertStatsRequest struct {
	MatchID    int64 `json:"match_id"`
	PlayerID   int64 `json:"player_id"`
	Goals      int   `json:"goals"`
	CleanSheet bool  `json:"clean_sheet"`
	Points     int   `json:"points"`
}

func (h *StatsHandler) upsert(c *gin.Context) {
	var req upsertStatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	line, err := h.svc.UpsertMatchStats(c.Request.Context(), model.MatchStats{
		MatchID:    req.MatchID,
		PlayerID:   req.PlayerID,
		Goals:      req.Goals,
		CleanSheet: req.CleanSheet,
		Points:     req.Points,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, line)
}

func (h *StatsHandler) listByMatch(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	lines, err := h.svc.ListStatsByMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, lines)
}

func (h *StatsHandler) listByPlayer(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	lines, err := h.svc.ListStatsByPlayer(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, lines)
}
