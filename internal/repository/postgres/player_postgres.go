package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
)

type playerRepository struct{ pool *pgxpool.Pool }

func NewPlayerRepository(pool *pgxpool.Pool) repository.PlayerRepository {
	return &playerRepository{pool: pool}
}

const playerColumns = `player_id, player_name, matches_played, wins, draws, losses,
	goals_scored, goals_against, goal_difference, clean_sheets, created_at, updated_at`

func scanPlayer(row pgx.Row) (model.Player, error) {
	var out model.Player
	err := row.Scan(
		&out.ID, &out.Name, &out.MatchesPlayed, &out.Wins, &out.Draws, &out.Losses,
		&out.GoalsScored, &out.GoalsAgainst, &out.GoalDifference, &out.CleanSheets,
		&out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *playerRepository) Create(ctx context.Context, p model.Player) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`INSERT INTO players (player_name) VALUES ($1) RETURNING `+playerColumns,
		p.Name,
	)
	out, err := scanPlayer(row)
	if err != nil {
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *playerRepository) GetByID(ctx context.Context, id int64) (model.Player, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Player{}, err
	}
	exec := getQ(ctx, r.pool)
	row := exec.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE player_id = $1`, id)
	out, err := scanPlayer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Player{}, repository.ErrNotFound
		}
		return model.Player{}, repository.MapPgError(err)
	}
	return out, nil
}

// List returns players in standings order: wins first, goal difference as
// tie-breaker, then goals scored, then id for stability.
func (r *playerRepository) List(ctx context.Context, p repository.Page) (repository.PageResult[model.Player], error) {
	if err := ensurePool(r.pool); err != nil {
		return repository.PageResult[model.Player]{}, err
	}
	limit, offset := sanitizeLimitOffset(p.Limit, p.Offset)
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+playerColumns+`, COUNT(*) OVER() AS total
		 FROM players
		 ORDER BY wins DESC, goal_difference DESC, goals_scored DESC, player_id ASC
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return repository.PageResult[model.Player]{}, repository.MapPgError(err)
	}
	defer rows.Close()
	res := repository.PageResult[model.Player]{Items: make([]model.Player, 0, limit)}
	for rows.Next() {
		var it model.Player
		var total int
		if err := rows.Scan(
			&it.ID, &it.Name, &it.MatchesPlayed, &it.Wins, &it.Draws, &it.Losses,
			&it.GoalsScored, &it.GoalsAgainst, &it.GoalDifference, &it.CleanSheets,
			&it.CreatedAt, &it.UpdatedAt, &total,
		); err != nil {
			return repository.PageResult[model.Player]{}, repository.MapPgError(err)
		}
		res.Items = append(res.Items, it)
		res.Total = total
	}
	return res, nil
}

func (r *playerRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if err := ensurePool(r.pool); err != nil {
		return false, err
	}
	exec := getQ(ctx, r.pool)
	var ok bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM players WHERE player_id = $1)`, id).Scan(&ok); err != nil {
		return false, repository.MapPgError(err)
	}
	return ok, nil
}

// RefreshAggregates recomputes the counters of the given players from scratch
// off completed matches. Two statements: zero first so players who lost their
// only completed match (e.g. after a cancellation) don't keep stale counters.
func (r *playerRepository) RefreshAggregates(ctx context.Context, playerIDs []int64) error {
	if err := ensurePool(r.pool); err != nil {
		return err
	}
	if len(playerIDs) == 0 {
		return nil
	}
	exec := getQ(ctx, r.pool)

	if _, err := exec.Exec(ctx,
		`UPDATE players SET
			matches_played = 0, wins = 0, draws = 0, losses = 0,
			goals_scored = 0, goals_against = 0, goal_difference = 0,
			clean_sheets = 0, updated_at = NOW()
		 WHERE player_id = ANY($1)`,
		playerIDs,
	); err != nil {
		return repository.MapPgError(err)
	}

	_, err := exec.Exec(ctx,
		`UPDATE players p SET
			matches_played = s.played,
			wins = s.wins,
			draws = s.draws,
			losses = s.losses,
			goals_scored = s.goals_for,
			goals_against = s.goals_conceded,
			goal_difference = s.goals_for - s.goals_conceded,
			clean_sheets = s.clean_sheets,
			updated_at = NOW()
		 FROM (
			SELECT x.player_id,
				COUNT(*) AS played,
				COUNT(*) FILTER (WHERE x.gf > x.ga) AS wins,
				COUNT(*) FILTER (WHERE x.gf = x.ga) AS draws,
				COUNT(*) FILTER (WHERE x.gf < x.ga) AS losses,
				COALESCE(SUM(x.gf), 0) AS goals_for,
				COALESCE(SUM(x.ga), 0) AS goals_conceded,
				COUNT(*) FILTER (WHERE x.ga = 0) AS clean_sheets
			FROM (
				SELECT m.team1_player1_id AS player_id, m.team1_goals AS gf, m.team2_goals AS ga
				FROM matches m WHERE m.status = 'COMPLETED'
				UNION ALL
				SELECT m.team1_player2_id, m.team1_goals, m.team2_goals
				FROM matches m WHERE m.status = 'COMPLETED' AND m.team1_player2_id IS NOT NULL
				UNION ALL
				SELECT m.team2_player1_id, m.team2_goals, m.team1_goals
				FROM matches m WHERE m.status = 'COMPLETED'
				UNION ALL
				SELECT m.team2_player2_id, m.team2_goals, m.team1_goals
				FROM matches m WHERE m.status = 'COMPLETED' AND m.team2_player2_id IS NOT NULL
			) x
			WHERE x.player_id = ANY($1)
			GROUP BY x.player_id
		 ) s
		 WHERE p.player_id = s.player_id`,
		playerIDs,
	)
	if err != nil {
		return repository.MapPgError(err)
	}
	return nil
}

var _ repository.PlayerRepository = (*playerRepository)(nil)
