// Package contract defines repository test suites that any implementation
// must satisfy. Suites are wired to concrete storage via small factories so
// the same assertions run against Postgres today and anything else tomorrow.
package contract

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
)

type PlayerFactory func(t *testing.T) (repository.PlayerRepository, func())

type MatchFactory func(t *testing.T) (repo repository.MatchRepository, mkPlayer func(ctx context.Context, name string) (int64, error), cleanup func())

type StatsFactory func(t *testing.T) (repo repository.StatsRepository, mkPlayer func(ctx context.Context) (int64, error), mkMatch func(ctx context.Context) (int64, error), cleanup func())

type AggregatesFactory func(t *testing.T) (players repository.PlayerRepository, matches repository.MatchRepository, mkPlayer func(ctx context.Context, name string) (int64, error), cleanup func())

type TxFactory func(t *testing.T) (tx repository.TxManager, players repository.PlayerRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func futureDate() time.Time { return time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second) }

func scheduled1v1(p1, p2 int64) model.Match {
	d := futureDate()
	return model.Match{
		Round:          "R1",
		MatchType:      model.MatchTypeOneVOne,
		Team1Player1ID: p1,
		Team2Player1ID: p2,
		MatchDate:      d,
		ScheduledDate:  d,
		Status:         model.MatchStatusScheduled,
	}
}

func RunPlayerRepositoryContract(t *testing.T, makeRepo PlayerFactory) {
	t.Helper()

	t.Run("create_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Player{Name: "Alice"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Name != "Alice" {
			t.Fatalf("mismatch: %+v", got)
		}
		if got.MatchesPlayed != 0 || got.Wins != 0 {
			t.Fatalf("fresh player should have zero counters: %+v", got)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("exists", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Create(ctx, model.Player{Name: "Bob"})
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		ok, err := repo.Exists(ctx, created.ID)
		if err != nil || !ok {
			t.Fatalf("expected player to exist: ok=%v err=%v", ok, err)
		}
		ok, err = repo.Exists(ctx, 999999)
		if err != nil || ok {
			t.Fatalf("expected player to not exist: ok=%v err=%v", ok, err)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 7; i++ {
			if _, err := repo.Create(ctx, model.Player{Name: fmt.Sprintf("P-%d", i)}); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 || res.Total != 7 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
		res2, err := repo.List(ctx, repository.Page{Limit: 3, Offset: 6})
		if err != nil {
			t.Fatalf("list2: %v", err)
		}
		if len(res2.Items) != 1 || res2.Total != 7 {
			t.Fatalf("unexpected page2: len=%d total=%d", len(res2.Items), res2.Total)
		}
	})
}

func RunMatchRepositoryContract(t *testing.T, makeRepo MatchFactory) {
	t.Helper()

	t.Run("create_and_get_1v1", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		created, err := repo.Create(ctx, scheduled1v1(p1, p2))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.Status != model.MatchStatusScheduled || got.Team1Goals != nil || got.Result != nil {
			t.Fatalf("unexpected scheduled match: %+v", got)
		}
		if got.Team1Player2ID != nil || got.Team2Player2ID != nil {
			t.Fatalf("1v1 must not persist teammate slots: %+v", got)
		}
	})

	t.Run("create_2v2_keeps_slots", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		p3, _ := mkPlayer(ctx, "C")
		p4, _ := mkPlayer(ctx, "D")
		m := scheduled1v1(p1, p3)
		m.MatchType = model.MatchTypeTwoVTwo
		m.Team1Player2ID = &p2
		m.Team2Player2ID = &p4
		created, err := repo.Create(ctx, m)
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.Team1Player2ID == nil || *created.Team1Player2ID != p2 {
			t.Fatalf("team1 slot lost: %+v", created)
		}
		if created.Team2Player2ID == nil || *created.Team2Player2ID != p4 {
			t.Fatalf("team2 slot lost: %+v", created)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, _, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if err != repository.ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("update_score_completes_match", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		created, err := repo.Create(ctx, scheduled1v1(p1, p2))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		updated, err := repo.UpdateScore(ctx, created.ID, 3, 1, model.MatchResultTeam1)
		if err != nil {
			t.Fatalf("update score failed: %v", err)
		}
		if updated.Status != model.MatchStatusCompleted {
			t.Fatalf("expected COMPLETED, got %s", updated.Status)
		}
		if updated.Team1Goals == nil || *updated.Team1Goals != 3 || updated.Team2Goals == nil || *updated.Team2Goals != 1 {
			t.Fatalf("score not persisted: %+v", updated)
		}
		if updated.Result == nil || *updated.Result != model.MatchResultTeam1 {
			t.Fatalf("result not persisted: %+v", updated)
		}
	})

	t.Run("update_status_cancel", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		created, err := repo.Create(ctx, scheduled1v1(p1, p2))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		updated, err := repo.UpdateStatus(ctx, created.ID, model.MatchStatusCancelled)
		if err != nil {
			t.Fatalf("update status failed: %v", err)
		}
		if updated.Status != model.MatchStatusCancelled {
			t.Fatalf("expected CANCELLED, got %s", updated.Status)
		}
	})

	t.Run("list_pagination_total", func(t *testing.T) {
		repo, mkPlayer, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		for i := 0; i < 5; i++ {
			m := scheduled1v1(p1, p2)
			m.Round = fmt.Sprintf("R%d", i+1)
			if _, err := repo.Create(ctx, m); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		res, err := repo.List(ctx, repository.Page{Limit: 2, Offset: 0})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 2 || res.Total != 5 {
			t.Fatalf("unexpected page: len=%d total=%d", len(res.Items), res.Total)
		}
	})
}

func RunAggregatesContract(t *testing.T, makeRepos AggregatesFactory) {
	t.Helper()

	t.Run("refresh_after_completed_match", func(t *testing.T) {
		players, matches, mkPlayer, cleanup := makeRepos(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		created, err := matches.Create(ctx, scheduled1v1(p1, p2))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if _, err := matches.UpdateScore(ctx, created.ID, 2, 0, model.MatchResultTeam1); err != nil {
			t.Fatalf("update score failed: %v", err)
		}
		if err := players.RefreshAggregates(ctx, []int64{p1, p2}); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		winner, err := players.GetByID(ctx, p1)
		if err != nil {
			t.Fatalf("get winner: %v", err)
		}
		if winner.MatchesPlayed != 1 || winner.Wins != 1 || winner.GoalsScored != 2 || winner.GoalDifference != 2 || winner.CleanSheets != 1 {
			t.Fatalf("winner counters wrong: %+v", winner)
		}
		loser, err := players.GetByID(ctx, p2)
		if err != nil {
			t.Fatalf("get loser: %v", err)
		}
		if loser.MatchesPlayed != 1 || loser.Losses != 1 || loser.GoalsAgainst != 2 || loser.GoalDifference != -2 || loser.CleanSheets != 0 {
			t.Fatalf("loser counters wrong: %+v", loser)
		}
	})

	t.Run("refresh_zeroes_without_completed_matches", func(t *testing.T) {
		players, matches, mkPlayer, cleanup := makeRepos(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		p1, _ := mkPlayer(ctx, "A")
		p2, _ := mkPlayer(ctx, "B")
		if _, err := matches.Create(ctx, scheduled1v1(p1, p2)); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		// Only a scheduled match exists; counters must stay at zero.
		if err := players.RefreshAggregates(ctx, []int64{p1, p2}); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}
		got, err := players.GetByID(ctx, p1)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.MatchesPlayed != 0 || got.Wins != 0 || got.GoalsScored != 0 {
			t.Fatalf("expected zero counters: %+v", got)
		}
	})
}

func RunStatsRepositoryContract(t *testing.T, makeRepo StatsFactory) {
	t.Helper()

	t.Run("upsert_insert_then_update", func(t *testing.T) {
		repo, mkPlayer, mkMatch, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		playerID, err := mkPlayer(ctx)
		if err != nil {
			t.Fatalf("mkPlayer: %v", err)
		}
		matchID, err := mkMatch(ctx)
		if err != nil {
			t.Fatalf("mkMatch: %v", err)
		}
		first, err := repo.Upsert(ctx, model.MatchStats{MatchID: matchID, PlayerID: playerID, Goals: 1, CleanSheet: true, Points: 3})
		if err != nil {
			t.Fatalf("upsert insert failed: %v", err)
		}
		second, err := repo.Upsert(ctx, model.MatchStats{MatchID: matchID, PlayerID: playerID, Goals: 2, CleanSheet: false, Points: 3})
		if err != nil {
			t.Fatalf("upsert update failed: %v", err)
		}
		if first.ID != second.ID {
			t.Fatalf("upsert must not create a second row: %d vs %d", first.ID, second.ID)
		}
		if second.Goals != 2 || second.CleanSheet {
			t.Fatalf("upsert did not update fields: %+v", second)
		}
	})

	t.Run("list_by_match_and_player", func(t *testing.T) {
		repo, mkPlayer, mkMatch, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		playerID, _ := mkPlayer(ctx)
		matchID, _ := mkMatch(ctx)
		if _, err := repo.Upsert(ctx, model.MatchStats{MatchID: matchID, PlayerID: playerID, Goals: 1, Points: 3}); err != nil {
			t.Fatalf("seed: %v", err)
		}
		byMatch, err := repo.ListByMatch(ctx, matchID)
		if err != nil || len(byMatch) != 1 {
			t.Fatalf("list by match: len=%d err=%v", len(byMatch), err)
		}
		byPlayer, err := repo.ListByPlayer(ctx, playerID)
		if err != nil || len(byPlayer) != 1 {
			t.Fatalf("list by player: len=%d err=%v", len(byPlayer), err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_persists", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var id int64
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			p, err := players.Create(ctx, model.Player{Name: "Committed"})
			if err != nil {
				return err
			}
			id = p.ID
			return nil
		})
		if err != nil {
			t.Fatalf("tx failed: %v", err)
		}
		if _, err := players.GetByID(ctx, id); err != nil {
			t.Fatalf("committed row missing: %v", err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, players, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var id int64
		boom := fmt.Errorf("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			p, err := players.Create(ctx, model.Player{Name: "RolledBack"})
			if err != nil {
				return err
			}
			id = p.ID
			return boom
		})
		if err == nil {
			t.Fatalf("expected error from tx")
		}
		if _, err := players.GetByID(ctx, id); err != repository.ErrNotFound {
			t.Fatalf("expected rollback, got %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("ping failed: %v", err)
		}
	})
}
