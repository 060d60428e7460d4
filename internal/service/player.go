package service

import (
	"context"
	"strings"
	"time"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/rs/zerolog"
)

// playerService holds player use-case logic: validation + orchestration,
// no transport / SQL details. Aggregate counters are read-only here.
type playerService struct {
	repo repository.PlayerRepository
	log  zerolog.Logger
}

func NewPlayerService(repo repository.PlayerRepository, logger zerolog.Logger) PlayerService {
	l := logger.With().Str("module", "service").Str("component", "player").Logger()
	return &playerService{repo: repo, log: l}
}

func (s *playerService) CreatePlayer(ctx context.Context, name string) (model.Player, error) {
	start := time.Now()
	original := name
	name = strings.TrimSpace(name)

	var ferrs []FieldError
	if name == "" {
		ferrs = append(ferrs, FieldError{Field: "player_name", Message: "must not be empty"})
	} else if ln := len([]rune(name)); ln > 50 {
		ferrs = append(ferrs, FieldError{Field: "player_name", Message: "length must be <= 50"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Str("name_raw", original).Interface("field_errors", ferrs).Msg("player validation failed")
		return model.Player{}, err
	}

	out, err := s.repo.Create(ctx, model.Player{Name: name})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("name", name).Msg("create player failed")
		return model.Player{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("player_id", out.ID).Msg("player created")
	return out, nil
}

func (s *playerService) GetPlayer(ctx context.Context, id int64) (model.Player, error) {
	if id <= 0 {
		return model.Player{}, NewInvalidInputError([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *playerService) ListPlayers(ctx context.Context, page repository.Page) (repository.PageResult[model.Player], error) {
	p := normalizePage(page)
	res, err := s.repo.List(ctx, p)
	if err != nil {
		s.log.Error().Err(err).Int("limit", p.Limit).Int("offset", p.Offset).Msg("list players failed")
		return repository.PageResult[model.Player]{}, err
	}
	return res, nil
}
