// Package session implements the live match session: the clock and extra-time
// state machine, participant slots, scoreboards, per-player scoring and the
// final record emission. Exactly one session is alive at a time; all mutation
// happens under the session mutex, including the recurring clock tick.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iscout/scorekeeper/internal/model"
)

// Phase is the externally visible clock/lifecycle state.
type Phase string

const (
	PhaseIdle                Phase = "idle"
	PhaseRunning             Phase = "running"
	PhasePaused              Phase = "paused"
	PhaseExtraTimeRequested  Phase = "extra_time_requested"
	PhaseExtraTimeRunning    Phase = "extra_time_running"
	PhaseTimedPlayOver       Phase = "timed_play_over"
	PhaseFinalResultDeclared Phase = "final_result_declared"
)

// ErrInvalidState marks transitions rejected without mutation, e.g. declaring
// a winner before play is over or twice. The UI is expected to disable the
// triggering control, so hitting this is a defensive guard, not a user flow.
var ErrInvalidState = errors.New("invalid state")

// DefaultExtraTimeSeconds matches the original tool's fixed two minutes.
const DefaultExtraTimeSeconds = 120

// noSelection is the sentinel for unassigned slots and selections.
const noSelection = -1

// Options tune a session. Zero values fall back to production defaults; tests
// shrink TickInterval and pin Now.
type Options struct {
	ExtraTimeSeconds int
	TickInterval     time.Duration
	Now              func() time.Time
}

// Session owns one live match. Create with New, drive through the transition
// methods, and always Close when tearing it down so no timer outlives it.
type Session struct {
	mu           sync.Mutex
	cfg          model.MatchConfiguration
	maxSeconds   int
	remaining    int
	extraSeconds int
	tickInterval time.Duration
	now          func() time.Time
	log          zerolog.Logger

	running bool
	stop    chan struct{}

	extraTimeRequested bool
	extraTimeActive    bool
	extraTimeGranted   bool
	extraTimeDeclined  bool
	timedPlayOver      bool
	finalDeclared      bool

	slots      [2]int
	teamScores [2]int
	selSlot    int
	selPlayer  int
	winnerSlot int
	record     *model.MatchRecord
}

// New builds a session over its own copy of the configuration. A zero
// DurationSeconds yields a degraded session with an empty clock; every
// operation still behaves, the operator just cannot meaningfully play.
func New(cfg model.MatchConfiguration, opts Options, logger zerolog.Logger) *Session {
	if opts.ExtraTimeSeconds <= 0 {
		opts.ExtraTimeSeconds = DefaultExtraTimeSeconds
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	s := &Session{
		cfg:          cfg.Clone(),
		maxSeconds:   cfg.DurationSeconds,
		extraSeconds: opts.ExtraTimeSeconds,
		tickInterval: opts.TickInterval,
		now:          opts.Now,
		log:          logger.With().Str("module", "session").Logger(),
	}
	s.resetLocked()
	return s
}

// Start begins the one-second countdown. No-op while already running, after
// timed play is over, or with nothing left on the clock; only one timer
// handle ever exists.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running || s.remaining <= 0 || s.timedPlayOver || s.finalDeclared {
		return
	}
	s.startClockLocked()
}

// Pause stops the countdown without touching the remaining time. No-op unless
// the clock is running.
func (s *Session) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.log.Warn().Msg("pause ignored: clock is not running")
		return
	}
	s.stopClockLocked()
}

// GrantExtraTime answers a pending extra-time request: the clock restarts at
// the extra-time duration. No-op once timed play is over or extra time is
// already active.
func (s *Session) GrantExtraTime() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timedPlayOver || s.extraTimeActive || s.finalDeclared {
		return
	}
	s.remaining = s.extraSeconds
	s.extraTimeActive = true
	s.extraTimeGranted = true
	s.extraTimeRequested = false
	s.startClockLocked()
	s.log.Info().Int("extra_seconds", s.extraSeconds).Msg("extra time granted")
}

// DeclineExtraTime answers a pending extra-time request by ending timed play.
func (s *Session) DeclineExtraTime() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalDeclared {
		return
	}
	s.extraTimeRequested = false
	s.extraTimeDeclined = true
	s.timedPlayOver = true
	s.log.Info().Msg("extra time declined, timed play over")
}

// EndManually force-stops a running clock and ends timed play, whatever time
// remains. No-op unless the clock is running.
func (s *Session) EndManually() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		s.log.Warn().Msg("manual end ignored: clock is not running")
		return
	}
	s.stopClockLocked()
	s.timedPlayOver = true
	s.extraTimeActive = false
	s.extraTimeRequested = false
	s.log.Info().Int("remaining_seconds", s.remaining).Msg("timed play ended manually")
}

// Reset returns the session to its initial state for the configured duration:
// clock, flags, winner, scoreboards, selections and every player's in-session
// score.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClockLocked()
	s.resetLocked()
	s.log.Info().Msg("session reset")
}

// Close tears the session down. The only hard requirement is that the clock
// goroutine never outlives the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopClockLocked()
}

// SelectParticipant assigns a configured team to a match slot and resets both
// scoreboards; switching participants invalidates any in-progress comparison.
// Passing a negative team index clears the slot.
func (s *Session) SelectParticipant(slot, teamIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalDeclared {
		s.log.Warn().Msg("participant selection ignored: final result declared")
		return
	}
	if slot < 0 || slot > 1 {
		return
	}
	if teamIndex < 0 {
		s.slots[slot] = noSelection
		return
	}
	if teamIndex >= len(s.cfg.Teams) {
		s.log.Warn().Int("team_index", teamIndex).Msg("participant selection ignored: no such team")
		return
	}
	s.slots[slot] = teamIndex
	s.teamScores = [2]int{}
	s.log.Debug().Int("slot", slot).Int("team_index", teamIndex).Msg("participant selected, scoreboards reset")
}

// SelectPlayer records the target of the next scoring action as a slot plus a
// roster index. Unresolvable selections are no-ops; the UI never offers them.
func (s *Session) SelectPlayer(slot, playerIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalDeclared {
		s.log.Warn().Msg("player selection ignored: final result declared")
		return
	}
	if slot < 0 || slot > 1 || s.slots[slot] == noSelection {
		return
	}
	team := s.cfg.Teams[s.slots[slot]]
	if playerIndex < 0 || playerIndex >= len(team.Players) {
		return
	}
	s.selSlot = slot
	s.selPlayer = playerIndex
}

// ApplyScoringAction adds points to the currently selected player's running
// score. Logged no-op when nothing is selected or the selection no longer
// resolves.
func (s *Session) ApplyScoringAction(action string, points int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalDeclared {
		s.log.Warn().Str("action", action).Msg("scoring action ignored: final result declared")
		return
	}
	if s.selSlot == noSelection || s.selPlayer == noSelection {
		s.log.Warn().Str("action", action).Msg("scoring action ignored: no player selected")
		return
	}
	teamIndex := s.slots[s.selSlot]
	if teamIndex == noSelection || teamIndex >= len(s.cfg.Teams) {
		s.log.Warn().Str("action", action).Msg("scoring action ignored: selection no longer resolves")
		return
	}
	team := &s.cfg.Teams[teamIndex]
	if s.selPlayer >= len(team.Players) {
		s.log.Warn().Str("action", action).Msg("scoring action ignored: selection no longer resolves")
		return
	}
	player := &team.Players[s.selPlayer]
	player.Score += points
	s.log.Debug().
		Str("action", action).
		Int("points", points).
		Str("player", player.Name).
		Int("score", player.Score).
		Msg("scoring action applied")
}

// IncrementTeamScore bumps the slot's scoreboard. Requires an assigned team.
func (s *Session) IncrementTeamScore(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalDeclared {
		s.log.Warn().Msg("team score change ignored: final result declared")
		return
	}
	if slot < 0 || slot > 1 || s.slots[slot] == noSelection {
		return
	}
	s.teamScores[slot]++
}

// DecrementTeamScore lowers the slot's scoreboard, flooring at zero.
func (s *Session) DecrementTeamScore(slot int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalDeclared {
		s.log.Warn().Msg("team score change ignored: final result declared")
		return
	}
	if slot < 0 || slot > 1 || s.slots[slot] == noSelection {
		return
	}
	if s.teamScores[slot] > 0 {
		s.teamScores[slot]--
	}
}

// DeclareWinner records the winning slot, flips to the terminal state and
// emits the match record. It fails with ErrInvalidState, mutating nothing,
// unless timed play is over, no result was declared yet and both slots carry
// a team.
func (s *Session) DeclareWinner(slot int) (model.MatchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slot < 0 || slot > 1 {
		return model.MatchRecord{}, fmt.Errorf("%w: slot %d out of range", ErrInvalidState, slot)
	}
	if !s.timedPlayOver {
		return model.MatchRecord{}, fmt.Errorf("%w: timed play is not over", ErrInvalidState)
	}
	if s.finalDeclared {
		return model.MatchRecord{}, fmt.Errorf("%w: final result already declared", ErrInvalidState)
	}
	if s.slots[0] == noSelection || s.slots[1] == noSelection {
		return model.MatchRecord{}, fmt.Errorf("%w: both slots need an assigned team", ErrInvalidState)
	}
	s.winnerSlot = slot
	s.finalDeclared = true
	s.stopClockLocked()
	rec := s.buildRecordLocked()
	s.record = &rec
	s.log.Info().Str("game_id", rec.GameID).Int("winner_slot", slot).Msg("final result declared")
	return rec, nil
}

// Record returns the emitted match record, if a winner has been declared.
func (s *Session) Record() (model.MatchRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.record == nil {
		return model.MatchRecord{}, false
	}
	return *s.record, true
}

// ScoringPoints resolves an action key against the session's scoring table.
func (s *Session) ScoringPoints(action string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points, ok := s.cfg.Scoring[action]
	return points, ok
}

// tick is the recurring clock callback: decrement, then evaluate expiry. The
// expiry transition fires once because it stops the clock before flagging.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	if s.remaining > 0 {
		s.remaining--
	}
	if s.remaining <= 0 {
		s.expireLocked()
	}
}

func (s *Session) expireLocked() {
	s.stopClockLocked()
	switch {
	case s.extraTimeActive:
		s.extraTimeActive = false
		s.timedPlayOver = true
		s.log.Info().Msg("extra time exhausted, timed play over")
	case !s.timedPlayOver && !s.extraTimeRequested:
		if s.cfg.AllowExtraTime && !s.extraTimeGranted && !s.extraTimeDeclined {
			s.extraTimeRequested = true
			s.log.Info().Msg("main time expired, extra time requested")
		} else {
			s.timedPlayOver = true
			s.log.Info().Msg("main time expired, timed play over")
		}
	}
}

func (s *Session) startClockLocked() {
	if s.stop != nil {
		return
	}
	stop := make(chan struct{})
	s.stop = stop
	s.running = true
	interval := s.tickInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.tick()
			}
		}
	}()
}

func (s *Session) stopClockLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	s.running = false
}

func (s *Session) resetLocked() {
	s.remaining = s.maxSeconds
	s.extraTimeRequested = false
	s.extraTimeActive = false
	s.extraTimeGranted = false
	s.extraTimeDeclined = false
	s.timedPlayOver = false
	s.finalDeclared = false
	s.winnerSlot = noSelection
	s.slots = [2]int{noSelection, noSelection}
	s.teamScores = [2]int{}
	s.selSlot = noSelection
	s.selPlayer = noSelection
	s.record = nil
	for ti := range s.cfg.Teams {
		for pi := range s.cfg.Teams[ti].Players {
			s.cfg.Teams[ti].Players[pi].Score = 0
		}
	}
}

func (s *Session) buildRecordLocked() model.MatchRecord {
	now := s.now()
	extra := 0
	if s.extraTimeGranted {
		extra = s.extraSeconds
	}
	// Best-effort estimate, not a wall-clock log of pauses.
	elapsed := (s.maxSeconds + extra) - s.remaining
	winnerIndex := s.slots[s.winnerSlot]
	return model.MatchRecord{
		GameID:          fmt.Sprintf("game_%d", now.UnixMilli()),
		StartTime:       now.UnixMilli() - int64(elapsed)*1000,
		EndTime:         now.UnixMilli(),
		Team1:           s.snapshotTeamLocked(0),
		Team2:           s.snapshotTeamLocked(1),
		WinnerTeamIndex: &winnerIndex,
		ExtraTimePlayed: s.extraTimeGranted || !s.extraTimeDeclined,
	}
}

func (s *Session) snapshotTeamLocked(slot int) model.TeamSnapshot {
	teamIndex := s.slots[slot]
	snap := model.TeamSnapshot{
		Index: teamIndex,
		Name:  fmt.Sprintf("Team %d", teamIndex+1),
		Score: s.teamScores[slot],
	}
	if teamIndex >= 0 && teamIndex < len(s.cfg.Teams) {
		team := s.cfg.Teams[teamIndex]
		if team.Name != "" {
			snap.Name = team.Name
		}
		snap.Players = make([]model.Player, len(team.Players))
		copy(snap.Players, team.Players)
	}
	return snap
}
