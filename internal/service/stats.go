package service

import (
	"context"
	"errors"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/rs/zerolog"
)

type statsService struct {
	stats   repository.StatsRepository
	matches repository.MatchRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	log     zerolog.Logger
}

func NewStatsService(stats repository.StatsRepository, matches repository.MatchRepository, players repository.PlayerRepository, tx repository.TxManager, logger zerolog.Logger) StatsService {
	l := logger.With().Str("module", "service").Str("component", "stats").Logger()
	return &statsService{stats: stats, matches: matches, players: players, tx: tx, log: l}
}

func (s *statsService) UpsertMatchStats(ctx context.Context, line model.MatchStats) (model.MatchStats, error) {
	var ferrs []FieldError
	if line.MatchID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "match_id", Message: "must be > 0"})
	}
	if line.PlayerID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "player_id", Message: "must be > 0"})
	}
	if line.Goals < 0 {
		ferrs = append(ferrs, FieldError{Field: "goals", Message: "must be >= 0"})
	}
	if line.Points < 0 {
		ferrs = append(ferrs, FieldError{Field: "points", Message: "must be >= 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		return model.MatchStats{}, err
	}

	var existenceErrs []FieldError
	if err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.matches.GetByID(ctx, line.MatchID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				existenceErrs = append(existenceErrs, FieldError{Field: "match_id", Message: "match does not exist"})
				return nil // continue checks
			}
			return err
		}
		ok, err := s.players.Exists(ctx, line.PlayerID)
		if err != nil {
			return err
		}
		if !ok {
			existenceErrs = append(existenceErrs, FieldError{Field: "player_id", Message: "player does not exist"})
		}
		return nil
	}); err != nil {
		return model.MatchStats{}, err
	}
	if err := NewInvalidInputError(existenceErrs); err != nil {
		return model.MatchStats{}, err
	}

	return s.stats.Upsert(ctx, line)
}

func (s *statsService) ListStatsByMatch(ctx context.Context, matchID int64) ([]model.MatchStats, error) {
	if matchID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "match_id", Message: "must be > 0"}})
	}
	return s.stats.ListByMatch(ctx, matchID)
}

func (s *statsService) ListStatsByPlayer(ctx context.Context, playerID int64) ([]model.MatchStats, error) {
	if playerID <= 0 {
		return nil, NewInvalidInputError([]FieldError{{Field: "player_id", Message: "must be > 0"}})
	}
	return s.stats.ListByPlayer(ctx, playerID)
}
