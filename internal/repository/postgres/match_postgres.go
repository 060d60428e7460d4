package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
)

type matchRepository struct{ pool *pgxpool.Pool }

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool}
}

const matchColumns = `id, round, match_type, team1_player1_id, team1_player2_id,
	team2_player1_id, team2_player2_id, match_date, scheduled_date,
	team1_goals, team2_goals, status, result, created_at, updated_at`

func scanMatch(row pgx.Row) (model.Match, error) {
	var out model.Match
	err := row.Scan(
		&out.ID, &out.Round, &out.MatchType, &out.Team1Player1ID, &out.Team1Player2ID,
		&out.Team2Player1ID, &out.Team2Player2ID, &out.MatchDate, &out.ScheduledDate,
		&out.Team1Goals, &out.Team2Goals, &out.Status, &out.Result, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *matchRepository) Create(ctx context.Context, m model.Match) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO matches (
			round, match_type, team1_player1_id, team1_player2_id,
			team2_player1_id, team2_player2_id, match_date, scheduled_date,
			team1_goals, team2_goals, status, result
		 ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		 RETURNING `+matchColumns,
		m.Round, m.MatchType, m.Team1Player1ID, m.Team1Player2ID,
		m.Team2Player1ID, m.Team2Player2ID, m.MatchDate, m.ScheduledDate,
		m.Team1Goals, m.Team2Goals, m.Status, m.Result,
	)
	out, err := scanMatch(row)
	if err != nil {
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id int64) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Match], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Match]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+matchColumns+`, COUNT(*) OVER() AS total
		 FROM matches
		 ORDER BY match_date DESC, id DESC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Match]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Match]{Items: make([]model.Match, 0, limit)}
	for rows.Next() {
		var it model.Match
		var total int
		if err := rows.Scan(
			&it.ID, &it.Round, &it.MatchType, &it.Team1Player1ID, &it.Team1Player2ID,
			&it.Team2Player1ID, &it.Team2Player2ID, &it.MatchDate, &it.ScheduledDate,
			&it.Team1Goals, &it.Team2Goals, &it.Status, &it.Result, &it.CreatedAt, &it.UpdatedAt,
			&total,
		); err != nil {
			return repository.PageResult[model.Match]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	return res, nil
}

func (r *matchRepository) UpdateScore(ctx context.Context, id int64, team1Goals, team2Goals int, result model.MatchResult) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE matches
		 SET team1_goals = $2, team2_goals = $3, status = $4, result = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+matchColumns,
		id, team1Goals, team2Goals, model.MatchStatusCompleted, result,
	)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, id int64, status model.MatchStatus) (model.Match, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Match{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`UPDATE matches SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+matchColumns,
		id, status,
	)
	out, err := scanMatch(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Match{}, repository.ErrNotFound
		}
		return model.Match{}, repository.MapPgError(err)
	}
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
