// Package service holds business logic orchestration across repositories and handlers.
// Kept intentionally lean: only use-case coordination, validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 422).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// PlayerService defines player-oriented use cases.
type PlayerService interface {
	CreatePlayer(ctx context.Context, name string) (model.Player, error)
	GetPlayer(ctx context.Context, id int64) (model.Player, error)
	// ListPlayers returns players in standings order.
	ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error)
}

// MatchService defines match-oriented use cases. CreateMatch and UpdateScore
// validate and normalize raw input before anything reaches persistence; they
// are the only two write paths that accept client-shaped payloads.
type MatchService interface {
	CreateMatch(ctx context.Context, in model.MatchCreate) (model.Match, error)
	GetMatch(ctx context.Context, id int64) (model.Match, error)
	ListMatches(ctx context.Context, page repository.Page) (repository.PageResult[model.Match], error)
	UpdateScore(ctx context.Context, id int64, upd model.ScoreUpdate) (model.Match, error)
	CancelMatch(ctx context.Context, id int64) (model.Match, error)
}

// StatsService defines per-match stat line use cases.
type StatsService interface {
	UpsertMatchStats(ctx context.Context, line model.MatchStats) (model.MatchStats, error)
	ListStatsByMatch(ctx context.Context, matchID int64) ([]model.MatchStats, error)
	ListStatsByPlayer(ctx context.Context, playerID int64) ([]model.MatchStats, error)
}
