package repository

import (
	"context"

	"github.com/maxviazov/match-tracker-service/internal/model"
)

// Pinger represents a minimal readiness probe capability.
// I use it to decouple health checks from storage implementation details.
type Pinger interface {
	Ping(ctx context.Context) error
}

// TxFunc is the unit of work executed within a transaction boundary.
// I pass context through so nested calls can honor cancellations and deadlines.
type TxFunc func(ctx context.Context) error

// TxManager abstracts transactional execution for repositories that support it.
// Score updates touch matches and player aggregates together, so the boundary
// has to be explicit.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// PlayerRepository declares persistence operations for players.
// List returns players in standings order (wins, then goal difference).
type PlayerRepository interface {
	Create(ctx context.Context, p model.Player) (model.Player, error)
	GetByID(ctx context.Context, id int64) (model.Player, error)
	List(ctx context.Context, p Page) (PageResult[model.Player], error)
	Exists(ctx context.Context, id int64) (bool, error)
	// RefreshAggregates recomputes the cumulative counters of the given
	// players from completed matches. Callers run it inside the same
	// transaction as the match write that invalidated the counters.
	RefreshAggregates(ctx context.Context, playerIDs []int64) error
}

// MatchRepository declares persistence operations for matches.
// Implementations surface domain errors from errors.go rather than PG codes.
type MatchRepository interface {
	Create(ctx context.Context, m model.Match) (model.Match, error)
	GetByID(ctx context.Context, id int64) (model.Match, error)
	List(ctx context.Context, p Page) (PageResult[model.Match], error)
	// UpdateScore records a final score and transitions the match to
	// COMPLETED with the given result.
	UpdateScore(ctx context.Context, id int64, team1Goals, team2Goals int, result model.MatchResult) (model.Match, error)
	// UpdateStatus transitions a match without touching the score.
	UpdateStatus(ctx context.Context, id int64, status model.MatchStatus) (model.Match, error)
}

// StatsRepository declares operations for per-player stat lines per match.
type StatsRepository interface {
	Upsert(ctx context.Context, s model.MatchStats) (model.MatchStats, error)
	ListByMatch(ctx context.Context, matchID int64) ([]model.MatchStats, error)
	ListByPlayer(ctx context.Context, playerID int64) ([]model.MatchStats, error)
}
