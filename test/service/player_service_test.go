package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
	"github.com/maxviazov/match-tracker-service/internal/service"
)

// fakePlayerStore is a minimal in-memory PlayerRepository for player use cases.
type fakePlayerStore struct {
	nextID  int64
	players map[int64]model.Player
}

func newFakePlayerStore() *fakePlayerStore {
	return &fakePlayerStore{nextID: 1, players: map[int64]model.Player{}}
}

func (f *fakePlayerStore) Create(_ context.Context, p model.Player) (model.Player, error) {
	p.ID = f.nextID
	f.nextID++
	f.players[p.ID] = p
	return p, nil
}

func (f *fakePlayerStore) GetByID(_ context.Context, id int64) (model.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return model.Player{}, repository.ErrNotFound
	}
	return p, nil
}

func (f *fakePlayerStore) List(_ context.Context, _ repository.Page) (repository.PageResult[model.Player], error) {
	var res repository.PageResult[model.Player]
	for _, p := range f.players {
		res.Items = append(res.Items, p)
	}
	res.Total = len(res.Items)
	return res, nil
}

func (f *fakePlayerStore) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.players[id]
	return ok, nil
}

func (f *fakePlayerStore) RefreshAggregates(context.Context, []int64) error { return nil }

var _ repository.PlayerRepository = (*fakePlayerStore)(nil)

func newPlayerService() (service.PlayerService, *fakePlayerStore) {
	store := newFakePlayerStore()
	return service.NewPlayerService(store, zerolog.New(io.Discard)), store
}

func TestPlayerService_CreatePlayer(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Alice", false},
		{"trims whitespace", "  Bob  ", false},
		{"empty", "", true},
		{"only spaces", "   ", true},
		{"too long", strings.Repeat("x", 51), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newPlayerService()
			out, err := svc.CreatePlayer(context.Background(), tc.input)
			if tc.wantErr {
				if !errors.Is(err, service.ErrInvalidInput) {
					t.Fatalf("expected invalid input, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Name != strings.TrimSpace(tc.input) {
				t.Fatalf("name not normalized: %q", out.Name)
			}
		})
	}
}

func TestPlayerService_GetPlayer(t *testing.T) {
	svc, store := newPlayerService()
	created, _ := store.Create(context.Background(), model.Player{Name: "Alice"})

	t.Run("found", func(t *testing.T) {
		got, err := svc.GetPlayer(context.Background(), created.ID)
		if err != nil || got.ID != created.ID {
			t.Fatalf("unexpected result: %+v, %v", got, err)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		if _, err := svc.GetPlayer(context.Background(), 0); !errors.Is(err, service.ErrInvalidInput) {
			t.Fatalf("expected invalid input, got %v", err)
		}
	})

	t.Run("not found", func(t *testing.T) {
		if _, err := svc.GetPlayer(context.Background(), 999); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestPlayerService_ListPlayers(t *testing.T) {
	svc, store := newPlayerService()
	for _, n := range []string{"A", "B", "C"} {
		_, _ = store.Create(context.Background(), model.Player{Name: n})
	}
	res, err := svc.ListPlayers(context.Background(), repository.Page{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Fatalf("expected total 3, got %d", res.Total)
	}
}
