// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior beyond
// enum checks and the two goal-count derivations every layer needs.
package model

import "time"

// MatchType discriminates between one-on-one and two-on-two matches.
type MatchType string

const (
	MatchTypeOneVOne MatchType = "1v1"
	MatchTypeTwoVTwo MatchType = "2v2"
)

// IsValid reports whether the value is one of the two known match types.
func (t MatchType) IsValid() bool {
	return t == MatchTypeOneVOne || t == MatchTypeTwoVTwo
}

// MatchStatus is the lifecycle state of a match.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "SCHEDULED"
	MatchStatusCompleted MatchStatus = "COMPLETED"
	MatchStatusCancelled MatchStatus = "CANCELLED"
)

func (s MatchStatus) IsValid() bool {
	switch s {
	case MatchStatusScheduled, MatchStatusCompleted, MatchStatusCancelled:
		return true
	default:
		return false
	}
}

// MatchResult is the outcome of a completed match.
type MatchResult string

const (
	MatchResultTeam1 MatchResult = "Team1"
	MatchResultTeam2 MatchResult = "Team2"
	MatchResultDraw  MatchResult = "Draw"
)

// DeriveStatus computes a match's effective status from goal-count presence.
// A match is COMPLETED iff both counts are recorded; any caller-supplied
// status is irrelevant on creation, so the create path never accepts one.
func DeriveStatus(team1Goals, team2Goals *int) MatchStatus {
	if team1Goals != nil && team2Goals != nil {
		return MatchStatusCompleted
	}
	return MatchStatusScheduled
}

// DeriveResult maps a final score onto the winning side (or a draw).
func DeriveResult(team1Goals, team2Goals int) MatchResult {
	switch {
	case team1Goals > team2Goals:
		return MatchResultTeam1
	case team2Goals > team1Goals:
		return MatchResultTeam2
	default:
		return MatchResultDraw
	}
}

// Player represents a participant with cumulative aggregate counters.
// Counters are recomputed by the persistence layer from completed matches;
// nothing in the service layer writes them directly.
type Player struct {
	ID             int64     `json:"player_id"`
	Name           string    `json:"player_name"`
	MatchesPlayed  int       `json:"matches_played"`
	Wins           int       `json:"wins"`
	Draws          int       `json:"draws"`
	Losses         int       `json:"losses"`
	GoalsScored    int       `json:"goals_scored"`
	GoalsAgainst   int       `json:"goals_against"`
	GoalDifference int       `json:"goal_difference"`
	CleanSheets    int       `json:"clean_sheets"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Match represents a scheduled, completed or cancelled fixture.
// Second-player slots and goal counts are pointers: absence is meaningful
// (1v1 matches have no second players; scheduled matches have no score).
type Match struct {
	ID             int64        `json:"id"`
	Round          string       `json:"round"`
	MatchType      MatchType    `json:"match_type"`
	Team1Player1ID int64        `json:"team1_player1_id"`
	Team1Player2ID *int64       `json:"team1_player2_id,omitempty"`
	Team2Player1ID int64        `json:"team2_player1_id"`
	Team2Player2ID *int64       `json:"team2_player2_id,omitempty"`
	MatchDate      time.Time    `json:"match_date"`
	ScheduledDate  time.Time    `json:"scheduled_date"`
	Team1Goals     *int         `json:"team1_goals,omitempty"`
	Team2Goals     *int         `json:"team2_goals,omitempty"`
	Status         MatchStatus  `json:"status"`
	Result         *MatchResult `json:"result,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// MatchCreate is the normalized input for creating a match.
// It deliberately has no status field: status is always derived from
// goal-count presence, never taken from the caller.
type MatchCreate struct {
	Round          string
	MatchType      MatchType
	Team1Player1ID int64
	Team1Player2ID *int64
	Team2Player1ID int64
	Team2Player2ID *int64
	MatchDate      time.Time
	ScheduledDate  *time.Time
	Team1Goals     *int
	Team2Goals     *int
}

// ScoreUpdate carries a final score for an existing match.
type ScoreUpdate struct {
	Team1Goals int
	Team2Goals int
}

// MatchStats represents a per-player stat line attributed to one match.
type MatchStats struct {
	ID         int64     `json:"id"`
	MatchID    int64     `json:"match_id"`
	PlayerID   int64     `json:"player_id"`
	Goals      int       `json:"goals"`
	CleanSheet bool      `json:"clean_sheet"`
	Points     int       `json:"points"`
	CreatedAt  time.Time `json:"created_at"`
}
