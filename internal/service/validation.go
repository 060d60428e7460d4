package service

import (
	"strings"

	"github.com/maxviazov/match-tracker-service/internal/model"
	"github.com/maxviazov/match-tracker-service/internal/repository"
)

func normalizePage(p repository.Page) repository.Page {
	limit := p.Limit
	offset := p.Offset
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return repository.Page{Limit: limit, Offset: offset}
}

// normalizeMatchType canonicalizes case and whitespace so "1V1 " parses.
// Validity is still the caller's check; this only normalizes.
func normalizeMatchType(raw string) model.MatchType {
	return model.MatchType(strings.ToLower(strings.TrimSpace(raw)))
}

// participantIDs collects the present player slots of a match in slot order.
func participantIDs(m model.Match) []int64 {
	ids := []int64{m.Team1Player1ID, m.Team2Player1ID}
	if m.Team1Player2ID != nil {
		ids = append(ids, *m.Team1Player2ID)
	}
	if m.Team2Player2ID != nil {
		ids = append(ids, *m.Team2Player2ID)
	}
	return ids
}

func hasDuplicateIDs(ids []int64) bool {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
