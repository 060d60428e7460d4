package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/maxviazov/match-tracker-service/internal/service"
	"github.com/maxviazov/match-tracker-service/pkg/response"
)

type MatchHandler struct {
	svc service.MatchService
}

func NewMatchHandler(svc service.MatchService) *MatchHandler { return &MatchHandler{svc: svc} }

func (h *MatchHandler) Register(r *gin.RouterGroup) {
	g := r.Group("/matches")
	{
		g.POST("", h.create)
		g.GET("/:id", h.getByID)
		g.GET("", h.list)
		g.PUT("/:id/score", h.updateScore)
		g.POST("/:id/cancel", h.cancel)
	}
}

// createMatchRequest is the raw client payload. Unknown JSON fields are
// ignored at decode time, and there is deliberately no status field: status
// is derived from goal-count presence, never accepted from the client.
type createMatchRequest struct {
	Round          string  `json:"round"`
	MatchType      string  `json:"match_type"`
	Team1Player1ID int64   `json:"team1_player1_id"`
	Team1Player2ID *int64  `json:"team1_player2_id"`
	Team2Player1ID int64   `json:"team2_player1_id"`
	Team2Player2ID *int64  `json:"team2_player2_id"`
	MatchDate      string  `json:"match_date"` // RFC3339
	ScheduledDate  *string `json:"scheduled_date"`
	Team1Goals     *int    `json:"team1_goals"`
	Team2Goals     *int    `json:"team2_goals"`
}

func (h *MatchHandler) create(c *gin.Context) {
	var req createMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	matchDate, err := time.Parse(time.RFC3339, req.MatchDate)
	if err != nil {
		response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "match_date", Message: "must be a valid RFC3339 timestamp"}}))
		return
	}
	var scheduled *time.Time
	if req.ScheduledDate != nil {
		t, err := time.Parse(time.RFC3339, *req.ScheduledDate)
		if err != nil {
			response.WriteError(c, service.NewInvalidInputError([]service.FieldError{{Field: "scheduled_date", Message: "must be a valid RFC3339 timestamp"}}))
			return
		}
		scheduled = &t
	}
	match, err := h.svc.CreateMatch(c.Request.Context(), model.MatchCreate{
		Round:          req.Round,
		MatchType:      model.MatchType(req.MatchType),
		Team1Player1ID: req.Team1Player1ID,
		Team1Player2ID: req.Team1Player2ID,
		Team2Player1ID: req.Team2Player1ID,
		Team2Player2ID: req.Team2Player2ID,
		MatchDate:      matchDate,
		ScheduledDate:  scheduled,
		Team1Goals:     req.Team1Goals,
		Team2Goals:     req.Team2Goals,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusCreated, match)
}

type updateScoreRequest struct {
	Team1Goals *int `json:"team1_goals"`
	Team2Goals *int `json:"team2_goals"`
}

func (h *MatchHandler) updateScore(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req updateScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.WriteError(c, service.ErrInvalidInput)
		return
	}
	// Both counts are required; pointers distinguish "absent" from zero.
	var ferrs []service.FieldError
	if req.Team1Goals == nil {
		ferrs = append(ferrs, service.FieldError{Field: "team1_goals", Message: "is required"})
	}
	if req.Team2Goals == nil {
		ferrs = append(ferrs, service.FieldError{Field: "team2_goals", Message: "is required"})
	}
	if err := service.NewInvalidInputError(ferrs); err != nil {
		response.WriteError(c, err)
		return
	}
	match, err := h.svc.UpdateScore(c.Request.Context(), id, model.ScoreUpdate{
		Team1Goals: *req.Team1Goals,
		Team2Goals: *req.Team2Goals,
	})
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

func (h *MatchHandler) cancel(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	match, err := h.svc.CancelMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

func (h *MatchHandler) getByID(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	match, err := h.svc.GetMatch(c.Request.Context(), id)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, match)
}

func (h *MatchHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	page := repository.Page{Limit: limit, Offset: offset}
	res, err := h.svc.ListMatches(c.Request.Context(), page)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, res)
}
