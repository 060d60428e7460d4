package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
)

type statsRepository struct{ pool *pgxpool.Pool }

func NewStatsRepository(pool *pgxpool.Pool) repository.StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Upsert(ctx context.Context, s model.MatchStats) (model.MatchStats, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.MatchStats{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO match_stats (match_id, player_id, goals, clean_sheet, points)
		 VALUES ($1,$2,$3,$4,$5)
		 ON CONFLICT (match_id, player_id)
		 DO UPDATE SET
			goals = EXCLUDED.goals,
			clean_sheet = EXCLUDED.clean_sheet,
			points = EXCLUDED.points
		 RETURNING id, match_id, player_id, goals, clean_sheet, points, created_at`,
		s.MatchID, s.PlayerID, s.Goals, s.CleanSheet, s.Points,
	)
	var out model.MatchStats
	if err := row.Scan(&out.ID, &out.MatchID, &out.PlayerID, &out.Goals, &out.CleanSheet, &out.Points, &out.CreatedAt); err != nil {
		return model.MatchStats{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *statsRepository) ListByMatch(ctx context.Context, matchID int64) ([]model.MatchStats, error) {
	return r.list(ctx, `SELECT id, match_id, player_id, goals, clean_sheet, points, created_at
		FROM match_stats WHERE match_id = $1 ORDER BY player_id`, matchID)
}

func (r *statsRepository) ListByPlayer(ctx context.Context, playerID int64) ([]model.MatchStats, error) {
	return r.list(ctx, `SELECT id, match_id, player_id, goals, clean_sheet, points, created_at
		FROM match_stats WHERE player_id = $1 ORDER BY match_id`, playerID)
}

func (r *statsRepository) list(ctx context.Context, query string, arg any) ([]model.MatchStats, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, query, arg)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()
	out := make([]model.MatchStats, 0)
	for rows.Next() {
		var it model.MatchStats
		if err := rows.Scan(&it.ID, &it.MatchID, &it.PlayerID, &it.Goals, &it.CleanSheet, &it.Points, &it.CreatedAt); err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, it)
	}
	return out, nil
}

var _ repository.StatsRepository = (*statsRepository)(nil)
