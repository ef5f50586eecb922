// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

// PlayerPosition enumerates the two roster roles the tool distinguishes.
type PlayerPosition string

const (
	PositionGoalkeeper  PlayerPosition = "goalkeeper"
	PositionFieldPlayer PlayerPosition = "field_player"
)

// Player is one roster entry. Score is the running per-session tally; it is
// zeroed when a session starts and carried into the record snapshot as-is.
type Player struct {
	Name     string         `json:"name" validate:"required"`
	Position PlayerPosition `json:"position" validate:"oneof=goalkeeper field_player"`
	Score    int            `json:"score"`
}

// Team is a configured team with its ordered roster.
type Team struct {
	Name    string   `json:"name" validate:"required"`
	Players []Player `json:"players" validate:"dive"`
}

// ScoringTable maps an action key (e.g. "goals", "accurate_passes") to the
// points it is worth. Point values are bounded to -3..3 at save time.
type ScoringTable map[string]int

// MatchConfiguration is the validated pre-match setup. Immutable once a
// session starts; the session works on its own deep copy.
type MatchConfiguration struct {
	TeamCount       int          `json:"team_count" validate:"min=2"`
	RosterSize      int          `json:"roster_size" validate:"min=1"`
	DurationSeconds int          `json:"duration_seconds" validate:"min=1"`
	AllowExtraTime  bool         `json:"allow_extra_time"`
	Scoring         ScoringTable `json:"scoring" validate:"dive,min=-3,max=3"`
	Teams           []Team       `json:"teams" validate:"dive"`
}

// Clone returns a deep copy so session-time score mutation never leaks back
// into the persisted configuration.
func (c MatchConfiguration) Clone() MatchConfiguration {
	out := c
	if c.Scoring != nil {
		out.Scoring = make(ScoringTable, len(c.Scoring))
		for k, v := range c.Scoring {
			out.Scoring[k] = v
		}
	}
	out.Teams = make([]Team, len(c.Teams))
	for i, t := range c.Teams {
		nt := t
		nt.Players = make([]Player, len(t.Players))
		copy(nt.Players, t.Players)
		out.Teams[i] = nt
	}
	return out
}

// TeamSnapshot freezes one side of a finished match. Index is the team's
// position in the configuration's Teams slice, not the session slot.
type TeamSnapshot struct {
	Index   int      `json:"index"`
	Name    string   `json:"name"`
	Score   int      `json:"score"`
	Players []Player `json:"players"`
}

// MatchRecord is the immutable result of one completed match, the unit
// appended to the history log. Timestamps are epoch milliseconds.
type MatchRecord struct {
	GameID          string       `json:"game_id"`
	StartTime       int64        `json:"start_time"`
	EndTime         int64        `json:"end_time"`
	Team1           TeamSnapshot `json:"team1"`
	Team2           TeamSnapshot `json:"team2"`
	WinnerTeamIndex *int         `json:"winner_team_index"`
	ExtraTimePlayed bool         `json:"extra_time_played"`
}

// DefaultScoring returns the full action table the original tool ships with,
// every action at its neutral weight so a fresh install is usable.
func DefaultScoring() ScoringTable {
	return ScoringTable{
		"goals": 1,
		"own_goals": -1,
		"head_goals": 1,
		"goal_after_dribble": 2,
		"hard_goal": 2,
		"easy_goal": 1,
		"far_shooting_goal": 2,
		"passes": 0,
		"accurate_passes": 1,
		"pass_leading_to_goal": 1,
		"ball_loss": -1,
		"ball_loss_dangerous": -2,
		"ball_loss_causing_goal": -3,
		"goal_received": -1,
		"goal_received_bad_pass": -2,
		"goal_received_own_loss": -2,
		"foul_tackle": -1,
		"foul_handball": -1,
		"foul_stopping_goal_hand": -2,
		"foul_stopping_goal_tackle": -2,
		"penalty_scored": 1,
		"penalty_missed": -1,
		"penalty_saved": 2,
	}
}
