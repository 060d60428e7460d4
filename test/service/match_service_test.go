package service_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/maxviazov/match-tracker-service/internal/service"
)

// fakeMatchRepo is an in-memory MatchRepository.
type fakeMatchRepo struct {
	nextID  int64
	matches map[int64]model.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: map[int64]model.Match{}}
}

func (f *fakeMatchRepo) Create(_ context.Context, m model.Match) (model.Match, error) {
	m.ID = f.nextID
	f.nextID++
	f.matches[m.ID] = m
	return m, nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id int64) (model.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	return m, nil
}

func (f *fakeMatchRepo) List(_ context.Context, _ repository.Page) (repository.PageResult[model.Match], error) {
	var res repository.PageResult[model.Match]
	for _, m := range f.matches {
		res.Items = append(res.Items, m)
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakeMatchRepo) UpdateScore(_ context.Context, id int64, t1, t2 int, result model.MatchResult) (model.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	m.Team1Goals = &t1
	m.Team2Goals = &t2
	m.Status = model.MatchStatusCompleted
	m.Result = &result
	f.matches[id] = m
	return m, nil
}

func (f *fakeMatchRepo) UpdateStatus(_ context.Context, id int64, status model.MatchStatus) (model.Match, error) {
	m, ok := f.matches[id]
	if !ok {
		return model.Match{}, repository.ErrNotFound
	}
	m.Status = status
	f.matches[id] = m
	return m, nil
}

var _ repository.MatchRepository = (*fakeMatchRepo)(nil)

// fakePlayerRepo tracks existence and RefreshAggregates calls.
type fakePlayerRepo struct {
	exist     map[int64]bool
	refreshed [][]int64
}

func (f *fakePlayerRepo) Create(context.Context, model.Player) (model.Player, error) {
	return model.Player{}, nil
}

func (f *fakePlayerRepo) GetByID(_ context.Context, id int64) (model.Player, error) {
	if f.exist[id] {
		return model.Player{ID: id, Name: "P"}, nil
	}
	return model.Player{}, repository.ErrNotFound
}

func (f *fakePlayerRepo) List(context.Context, repository.Page) (repository.PageResult[model.Player], error) {
	return repository.PageResult[model.Player]{}, nil
}

func (f *fakePlayerRepo) Exists(_ context.Context, id int64) (bool, error) {
	return f.exist[id], nil
}

func (f *fakePlayerRepo) RefreshAggregates(_ context.Context, ids []int64) error {
	f.refreshed = append(f.refreshed, ids)
	return nil
}

var _ repository.PlayerRepository = (*fakePlayerRepo)(nil)

type fakeTx struct{}

func (f *fakeTx) WithinTx(ctx context.Context, fn repository.TxFunc) error { return fn(ctx) }

var _ repository.TxManager = (*fakeTx)(nil)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newMatchService(players *fakePlayerRepo) (service.MatchService, *fakeMatchRepo, *fakePlayerRepo) {
	if players == nil {
		players = &fakePlayerRepo{exist: map[int64]bool{1: true, 2: true, 3: true, 4: true}}
	}
	repo := newFakeMatchRepo()
	svc := service.NewMatchService(repo, players, &fakeTx{}, clockwork.NewFakeClockAt(testNow), zerolog.New(io.Discard))
	return svc, repo, players
}

func ptrI64(v int64) *int64 { return &v }
func ptrInt(v int) *int     { return &v }

func baseCreate(matchType model.MatchType) model.MatchCreate {
	in := model.MatchCreate{
		Round:          "R1",
		MatchType:      matchType,
		Team1Player1ID: 1,
		Team2Player1ID: 2,
		MatchDate:      testNow.Add(24 * time.Hour),
	}
	if matchType == model.MatchTypeTwoVTwo {
		in.Team1Player2ID = ptrI64(3)
		in.Team2Player2ID = ptrI64(4)
	}
	return in
}

func fieldIn(err error, field string) bool {
	for _, fe := range service.FieldErrors(err) {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func TestMatchService_CreateMatch_Validation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(in *model.MatchCreate)
		field   string
		wantErr bool
	}{
		{"valid 1v1", func(in *model.MatchCreate) {}, "", false},
		{"empty round", func(in *model.MatchCreate) { in.Round = "   " }, "round", true},
		{"unknown match type", func(in *model.MatchCreate) { in.MatchType = "3v3" }, "match_type", true},
		{"missing team1 player", func(in *model.MatchCreate) { in.Team1Player1ID = 0 }, "team1_player1_id", true},
		{"missing team2 player", func(in *model.MatchCreate) { in.Team2Player1ID = 0 }, "team2_player1_id", true},
		{"zero match date", func(in *model.MatchCreate) { in.MatchDate = time.Time{} }, "match_date", true},
		{"past match date", func(in *model.MatchCreate) { in.MatchDate = testNow.Add(-time.Minute) }, "match_date", true},
		{"1v1 with team1 teammate", func(in *model.MatchCreate) { in.Team1Player2ID = ptrI64(3) }, "team1_player2_id", true},
		{"1v1 with team2 teammate", func(in *model.MatchCreate) { in.Team2Player2ID = ptrI64(4) }, "team2_player2_id", true},
		{"negative team1 goals", func(in *model.MatchCreate) { in.Team1Goals = ptrInt(-1) }, "team1_goals", true},
		{"negative team2 goals", func(in *model.MatchCreate) { in.Team2Goals = ptrInt(-3) }, "team2_goals", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _ := newMatchService(nil)
			in := baseCreate(model.MatchTypeOneVOne)
			tc.mutate(&in)
			_, err := svc.CreateMatch(context.Background(), in)
			if tc.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				if !fieldIn(err, tc.field) {
					t.Fatalf("expected field %q in %v", tc.field, service.FieldErrors(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestMatchService_CreateMatch_TwoVTwoSlots(t *testing.T) {
	t.Run("missing both teammates", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeTwoVTwo)
		in.Team1Player2ID = nil
		in.Team2Player2ID = nil
		_, err := svc.CreateMatch(context.Background(), in)
		if !errors.Is(err, service.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
		if !fieldIn(err, "team1_player2_id") || !fieldIn(err, "team2_player2_id") {
			t.Fatalf("expected both teammate slot errors, got %v", service.FieldErrors(err))
		}
	})

	t.Run("missing one teammate", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeTwoVTwo)
		in.Team2Player2ID = nil
		_, err := svc.CreateMatch(context.Background(), in)
		if !fieldIn(err, "team2_player2_id") {
			t.Fatalf("expected team2_player2_id error, got %v", err)
		}
	})

	t.Run("valid 2v2", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		out, err := svc.CreateMatch(context.Background(), baseCreate(model.MatchTypeTwoVTwo))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Team1Player2ID == nil || out.Team2Player2ID == nil {
			t.Fatalf("teammate slots lost: %+v", out)
		}
	})

	t.Run("case insensitive match type", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeTwoVTwo)
		in.MatchType = " 2V2 "
		if _, err := svc.CreateMatch(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestMatchService_CreateMatch_StatusDerivation(t *testing.T) {
	t.Run("both goals present completes the match", func(t *testing.T) {
		svc, _, players := newMatchService(nil)
		in := baseCreate(model.MatchTypeOneVOne)
		in.Team1Goals = ptrInt(3)
		in.Team2Goals = ptrInt(1)
		out, err := svc.CreateMatch(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != model.MatchStatusCompleted {
			t.Fatalf("expected COMPLETED, got %s", out.Status)
		}
		if out.Result == nil || *out.Result != model.MatchResultTeam1 {
			t.Fatalf("expected Team1 result, got %+v", out.Result)
		}
		if len(players.refreshed) != 1 {
			t.Fatalf("expected aggregates refresh, got %d calls", len(players.refreshed))
		}
	})

	t.Run("one goal count keeps the match scheduled", func(t *testing.T) {
		svc, _, players := newMatchService(nil)
		in := baseCreate(model.MatchTypeOneVOne)
		in.Team1Goals = ptrInt(2)
		out, err := svc.CreateMatch(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != model.MatchStatusScheduled {
			t.Fatalf("expected SCHEDULED, got %s", out.Status)
		}
		if out.Result != nil {
			t.Fatalf("scheduled match must not have a result: %+v", out.Result)
		}
		if len(players.refreshed) != 0 {
			t.Fatalf("no refresh expected for scheduled match")
		}
	})

	t.Run("no goals keeps the match scheduled", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		out, err := svc.CreateMatch(context.Background(), baseCreate(model.MatchTypeOneVOne))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != model.MatchStatusScheduled {
			t.Fatalf("expected SCHEDULED, got %s", out.Status)
		}
	})
}

func TestMatchService_CreateMatch_ScheduledDateDefault(t *testing.T) {
	t.Run("defaults to match date", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeOneVOne)
		out, err := svc.CreateMatch(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.ScheduledDate.Equal(in.MatchDate) {
			t.Fatalf("scheduled_date not defaulted: %v vs %v", out.ScheduledDate, in.MatchDate)
		}
	})

	t.Run("explicit value preserved", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeOneVOne)
		explicit := testNow.Add(48 * time.Hour)
		in.ScheduledDate = &explicit
		out, err := svc.CreateMatch(context.Background(), in)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !out.ScheduledDate.Equal(explicit) {
			t.Fatalf("explicit scheduled_date lost: %v", out.ScheduledDate)
		}
	})
}

func TestMatchService_CreateMatch_PlayerChecks(t *testing.T) {
	t.Run("unknown player rejected", func(t *testing.T) {
		players := &fakePlayerRepo{exist: map[int64]bool{1: true}}
		svc, _, _ := newMatchService(players)
		_, err := svc.CreateMatch(context.Background(), baseCreate(model.MatchTypeOneVOne))
		if !errors.Is(err, service.ErrInvalidInput) || !fieldIn(err, "players") {
			t.Fatalf("expected players field error, got %v", err)
		}
	})

	t.Run("duplicate player rejected", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeOneVOne)
		in.Team2Player1ID = in.Team1Player1ID
		_, err := svc.CreateMatch(context.Background(), in)
		if !errors.Is(err, service.ErrInvalidInput) || !fieldIn(err, "players") {
			t.Fatalf("expected players field error, got %v", err)
		}
	})
}

func TestMatchService_UpdateScore(t *testing.T) {
	seed := func(t *testing.T, svc service.MatchService) model.Match {
		t.Helper()
		m, err := svc.CreateMatch(context.Background(), baseCreate(model.MatchTypeOneVOne))
		if err != nil {
			t.Fatalf("seed match: %v", err)
		}
		return m
	}

	t.Run("negative goals rejected", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		m := seed(t, svc)
		_, err := svc.UpdateScore(context.Background(), m.ID, model.ScoreUpdate{Team1Goals: -1, Team2Goals: 0})
		if !errors.Is(err, service.ErrInvalidInput) || !fieldIn(err, "team1_goals") {
			t.Fatalf("expected team1_goals error, got %v", err)
		}
	})

	t.Run("missing match", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		_, err := svc.UpdateScore(context.Background(), 42, model.ScoreUpdate{Team1Goals: 1, Team2Goals: 1})
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("cancelled match conflicts", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		m := seed(t, svc)
		if _, err := svc.CancelMatch(context.Background(), m.ID); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		_, err := svc.UpdateScore(context.Background(), m.ID, model.ScoreUpdate{Team1Goals: 1, Team2Goals: 0})
		if !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("score recorded and aggregates refreshed", func(t *testing.T) {
		svc, _, players := newMatchService(nil)
		m := seed(t, svc)
		out, err := svc.UpdateScore(context.Background(), m.ID, model.ScoreUpdate{Team1Goals: 2, Team2Goals: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != model.MatchStatusCompleted {
			t.Fatalf("expected COMPLETED, got %s", out.Status)
		}
		if out.Result == nil || *out.Result != model.MatchResultDraw {
			t.Fatalf("expected Draw, got %+v", out.Result)
		}
		if len(players.refreshed) != 1 {
			t.Fatalf("expected one refresh call, got %d", len(players.refreshed))
		}
	})
}

func TestMatchService_CancelMatch(t *testing.T) {
	t.Run("scheduled match cancels", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		m, err := svc.CreateMatch(context.Background(), baseCreate(model.MatchTypeOneVOne))
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out, err := svc.CancelMatch(context.Background(), m.ID)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.Status != model.MatchStatusCancelled {
			t.Fatalf("expected CANCELLED, got %s", out.Status)
		}
	})

	t.Run("completed match conflicts", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		in := baseCreate(model.MatchTypeOneVOne)
		in.Team1Goals = ptrInt(1)
		in.Team2Goals = ptrInt(0)
		m, err := svc.CreateMatch(context.Background(), in)
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		if _, err := svc.CancelMatch(context.Background(), m.ID); !errors.Is(err, repository.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		svc, _, _ := newMatchService(nil)
		if _, err := svc.CancelMatch(context.Background(), 0); !errors.Is(err, service.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})
}
