package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/rs/zerolog"
)

type matchService struct {
	matches repository.MatchRepository
	players repository.PlayerRepository
	tx      repository.TxManager
	clock   clockwork.Clock
	log     zerolog.Logger
}

// NewMatchService wires the match use cases. The clock is injected so the
// "match date must not be in the past" rule stays testable.
func NewMatchService(matches repository.MatchRepository, players repository.PlayerRepository, tx repository.TxManager, clock clockwork.Clock, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{matches: matches, players: players, tx: tx, clock: clock, log: l}
}

// CreateMatch validates and normalizes a raw match-creation payload, then
// persists the typed record. One whole-record pass collects every field
// violation instead of stopping at the first, so clients see the full list.
func (s *matchService) CreateMatch(ctx context.Context, in model.MatchCreate) (model.Match, error) {
	in.Round = strings.TrimSpace(in.Round)
	in.MatchType = normalizeMatchType(string(in.MatchType))

	var ferrs []FieldError
	if in.Round == "" {
		ferrs = append(ferrs, FieldError{Field: "round", Message: "must not be empty"})
	}
	if !in.MatchType.IsValid() {
		ferrs = append(ferrs, FieldError{Field: "match_type", Message: "must be one of 1v1|2v2"})
	}
	if in.Team1Player1ID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team1_player1_id", Message: "must be > 0"})
	}
	if in.Team2Player1ID <= 0 {
		ferrs = append(ferrs, FieldError{Field: "team2_player1_id", Message: "must be > 0"})
	}
	if in.MatchDate.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "match_date", Message: "must be set"})
	} else if in.MatchDate.Before(s.clock.Now()) {
		ferrs = append(ferrs, FieldError{Field: "match_date", Message: "must not be in the past"})
	}

	// Teammate slots are conditional on match type, so only check them once
	// the type itself is one of the known values.
	switch in.MatchType {
	case model.MatchTypeTwoVTwo:
		ferrs = append(ferrs, checkRequiredSlot("team1_player2_id", in.Team1Player2ID)...)
		ferrs = append(ferrs, checkRequiredSlot("team2_player2_id", in.Team2Player2ID)...)
	case model.MatchTypeOneVOne:
		if in.Team1Player2ID != nil {
			ferrs = append(ferrs, FieldError{Field: "team1_player2_id", Message: "1v1 matches should not have second players"})
		}
		if in.Team2Player2ID != nil {
			ferrs = append(ferrs, FieldError{Field: "team2_player2_id", Message: "1v1 matches should not have second players"})
		}
	}

	if in.Team1Goals != nil && *in.Team1Goals < 0 {
		ferrs = append(ferrs, FieldError{Field: "team1_goals", Message: "must be >= 0"})
	}
	if in.Team2Goals != nil && *in.Team2Goals < 0 {
		ferrs = append(ferrs, FieldError{Field: "team2_goals", Message: "must be >= 0"})
	}

	// Early exit if basic structure is invalid – do not touch the database.
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed (structure)")
		return model.Match{}, err
	}

	// Normalize before the cross-slot and existence checks so they see the
	// final record shape.
	scheduled := in.MatchDate
	if in.ScheduledDate != nil {
		scheduled = *in.ScheduledDate
	}
	status := model.DeriveStatus(in.Team1Goals, in.Team2Goals)
	var result *model.MatchResult
	if status == model.MatchStatusCompleted {
		r := model.DeriveResult(*in.Team1Goals, *in.Team2Goals)
		result = &r
	}

	m := model.Match{
		Round:          in.Round,
		MatchType:      in.MatchType,
		Team1Player1ID: in.Team1Player1ID,
		Team1Player2ID: in.Team1Player2ID,
		Team2Player1ID: in.Team2Player1ID,
		Team2Player2ID: in.Team2Player2ID,
		MatchDate:      in.MatchDate,
		ScheduledDate:  scheduled,
		Team1Goals:     in.Team1Goals,
		Team2Goals:     in.Team2Goals,
		Status:         status,
		Result:         result,
	}

	ids := participantIDs(m)
	if hasDuplicateIDs(ids) {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "players", Message: "a player can only fill one slot per match"}})
	}

	// Existence checks improve client UX vs deferring to FK violations.
	var existenceErrs []FieldError
	for _, id := range ids {
		ok, err := s.players.Exists(ctx, id)
		if err != nil {
			return model.Match{}, err
		}
		if !ok {
			existenceErrs = append(existenceErrs, FieldError{Field: "players", Message: fmt.Sprintf("player %d does not exist", id)})
		}
	}
	if err := NewInvalidInputError(existenceErrs); err != nil {
		s.log.Debug().Interface("field_errors", existenceErrs).Msg("match validation failed (existence)")
		return model.Match{}, err
	}

	var out model.Match
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.matches.Create(ctx, m)
		if err != nil {
			return err
		}
		// A match created with a full score is already COMPLETED and counts
		// toward the standings immediately.
		if created.Status == model.MatchStatusCompleted {
			if err := s.players.RefreshAggregates(ctx, ids); err != nil {
				return err
			}
		}
		out = created
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Str("round", in.Round).Msg("create match failed")
		return model.Match{}, err
	}
	s.log.Info().Int64("match_id", out.ID).Str("status", string(out.Status)).Msg("match created")
	return out, nil
}

// UpdateScore validates a score-update payload and records the final score.
// Status derivation happens in persistence (the match becomes COMPLETED with
// a result); the validator itself only guards the counts.
func (s *matchService) UpdateScore(ctx context.Context, id int64, upd model.ScoreUpdate) (model.Match, error) {
	var ferrs []FieldError
	if id <= 0 {
		ferrs = append(ferrs, FieldError{Field: "id", Message: "must be > 0"})
	}
	if upd.Team1Goals < 0 {
		ferrs = append(ferrs, FieldError{Field: "team1_goals", Message: "must be >= 0"})
	}
	if upd.Team2Goals < 0 {
		ferrs = append(ferrs, FieldError{Field: "team2_goals", Message: "must be >= 0"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("score update validation failed")
		return model.Match{}, err
	}

	current, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if current.Status == model.MatchStatusCancelled {
		return model.Match{}, repository.ErrConflict
	}

	result := model.DeriveResult(upd.Team1Goals, upd.Team2Goals)

	var out model.Match
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		updated, err := s.matches.UpdateScore(ctx, id, upd.Team1Goals, upd.Team2Goals, result)
		if err != nil {
			return err
		}
		if err := s.players.RefreshAggregates(ctx, participantIDs(updated)); err != nil {
			return err
		}
		out = updated
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", id).Msg("update score failed")
		return model.Match{}, err
	}
	s.log.Info().Int64("match_id", id).Int("team1_goals", upd.Team1Goals).Int("team2_goals", upd.Team2Goals).Msg("score recorded")
	return out, nil
}

// CancelMatch transitions a scheduled match to CANCELLED. Completed and
// already-cancelled matches conflict.
func (s *matchService) CancelMatch(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	current, err := s.matches.GetByID(ctx, id)
	if err != nil {
		return model.Match{}, err
	}
	if current.Status != model.MatchStatusScheduled {
		return model.Match{}, repository.ErrConflict
	}
	out, err := s.matches.UpdateStatus(ctx, id, model.MatchStatusCancelled)
	if err != nil {
		s.log.Error().Err(err).Int64("match_id", id).Msg("cancel match failed")
		return model.Match{}, err
	}
	s.log.Info().Int64("match_id", id).Msg("match cancelled")
	return out, nil
}

func (s *matchService) GetMatch(ctx context.Context, id int64) (model.Match, error) {
	if id <= 0 {
		return model.Match{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.matches.GetByID(ctx, id)
}

func (s *matchService) ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error) {
	p := normalizePage(page)
	res, err := s.matches.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list matches failed")
		return repository.PageResult[model.Match]{}, err
	}
	return res, nil
}

// checkRequiredSlot validates a teammate slot that 2v2 matches must fill.
func checkRequiredSlot(field string, id *int64) []FieldError {
	if id == nil {
		return []FieldError{{Field: field, Message: "2v2 matches require both players for each team"}}
	}
	if *id <= 0 {
		return []FieldError{{Field: field, Message: "must be > 0"}}
	}
	return nil
}
