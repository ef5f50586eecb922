package session

import "github.com/iscout/scorekeeper/internal/model"

// Snapshot is a read-only view of the live session for the HTTP surface.
// Slot and selection fields use -1 for "unset".
type Snapshot struct {
	Phase              Phase        `json:"phase"`
	RemainingSeconds   int          `json:"remaining_seconds"`
	MaxSeconds         int          `json:"max_seconds"`
	ExtraTimeSeconds   int          `json:"extra_time_seconds"`
	ExtraTimeRequested bool         `json:"extra_time_requested"`
	Slots              [2]int       `json:"slots"`
	TeamScores         [2]int       `json:"team_scores"`
	SelectedSlot       int          `json:"selected_slot"`
	SelectedPlayer     int          `json:"selected_player"`
	WinnerSlot         int          `json:"winner_slot"`
	Teams              []model.Team `json:"teams"`
}

// Snapshot captures the current state, including the session's working copy
// of the rosters with live player scores.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	teams := make([]model.Team, len(s.cfg.Teams))
	for i, t := range s.cfg.Teams {
		nt := t
		nt.Players = make([]model.Player, len(t.Players))
		copy(nt.Players, t.Players)
		teams[i] = nt
	}
	return Snapshot{
		Phase:              s.phaseLocked(),
		RemainingSeconds:   s.remaining,
		MaxSeconds:         s.maxSeconds,
		ExtraTimeSeconds:   s.extraSeconds,
		ExtraTimeRequested: s.extraTimeRequested,
		Slots:              s.slots,
		TeamScores:         s.teamScores,
		SelectedSlot:       s.selSlot,
		SelectedPlayer:     s.selPlayer,
		WinnerSlot:         s.winnerSlot,
		Teams:              teams,
	}
}

// Phase reports the current lifecycle state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phaseLocked()
}

func (s *Session) phaseLocked() Phase {
	switch {
	case s.finalDeclared:
		return PhaseFinalResultDeclared
	case s.timedPlayOver:
		return PhaseTimedPlayOver
	case s.extraTimeRequested:
		return PhaseExtraTimeRequested
	case s.running && s.extraTimeActive:
		return PhaseExtraTimeRunning
	case s.running:
		return PhaseRunning
	case s.remaining == s.maxSeconds && !s.extraTimeActive:
		return PhaseIdle
	default:
		return PhasePaused
	}
}
