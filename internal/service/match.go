package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/session"
	"github.com/iscout/scorekeeper/internal/storage"
)

type matchService struct {
	mu     sync.Mutex
	sess   *session.Session
	keeper *storage.Keeper
	opts   session.Options
	log    zerolog.Logger
}

func NewMatchService(keeper *storage.Keeper, opts session.Options, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{keeper: keeper, opts: opts, log: l}
}

// CreateSession loads the persisted configuration and replaces any existing
// session with a fresh one. Missing or malformed settings degrade to an empty
// configuration and a zero-duration clock instead of failing: the operator
// can still navigate, just not meaningfully play.
func (s *matchService) CreateSession(ctx context.Context) (session.Snapshot, error) {
	cfg, err := s.keeper.LoadConfiguration(ctx)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return session.Snapshot{}, err
		}
		s.log.Warn().Msg("no usable configuration, starting degraded session")
		cfg = model.MatchConfiguration{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess != nil {
		s.sess.Close()
	}
	s.sess = session.New(cfg, s.opts, s.log)
	s.log.Info().Int("duration_seconds", cfg.DurationSeconds).Msg("session created")
	return s.sess.Snapshot(), nil
}

// CloseSession tears down the live session, stopping its clock.
func (s *matchService) CloseSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return ErrNoSession
	}
	s.sess.Close()
	s.sess = nil
	s.log.Info().Msg("session closed")
	return nil
}

func (s *matchService) Snapshot() (session.Snapshot, error) {
	sess, err := s.current()
	if err != nil {
		return session.Snapshot{}, err
	}
	return sess.Snapshot(), nil
}

func (s *matchService) StartClock() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.Start()
	return nil
}

func (s *matchService) PauseClock() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.Pause()
	return nil
}

func (s *matchService) EndTimedPlay() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.EndManually()
	return nil
}

func (s *matchService) ResetSession() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.Reset()
	return nil
}

func (s *matchService) GrantExtraTime() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.GrantExtraTime()
	return nil
}

func (s *matchService) DeclineExtraTime() error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.DeclineExtraTime()
	return nil
}

func (s *matchService) SelectParticipant(slot, teamIndex int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.SelectParticipant(slot, teamIndex)
	return nil
}

func (s *matchService) SelectPlayer(slot, playerIndex int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.SelectPlayer(slot, playerIndex)
	return nil
}

// ApplyScoringAction resolves the action key against the session's own
// scoring table; callers never supply point values.
func (s *matchService) ApplyScoringAction(action string) error {
	sess, err := s.current()
	if err != nil {
		return err
	}
	points, ok := sess.ScoringPoints(action)
	if !ok {
		return NewInvalidInputError([]FieldError{{Field: "action", Message: "unknown scoring action"}})
	}
	sess.ApplyScoringAction(action, points)
	return nil
}

func (s *matchService) IncrementTeamScore(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.IncrementTeamScore(slot)
	return nil
}

func (s *matchService) DecrementTeamScore(slot int) error {
	if err := validSlot(slot); err != nil {
		return err
	}
	sess, err := s.current()
	if err != nil {
		return err
	}
	sess.DecrementTeamScore(slot)
	return nil
}

// DeclareWinner flips the session to its terminal state and appends the
// emitted record to the history log.
func (s *matchService) DeclareWinner(ctx context.Context, slot int) (model.MatchRecord, error) {
	if err := validSlot(slot); err != nil {
		return model.MatchRecord{}, err
	}
	sess, err := s.current()
	if err != nil {
		return model.MatchRecord{}, err
	}
	rec, err := sess.DeclareWinner(slot)
	if err != nil {
		return model.MatchRecord{}, err
	}
	if err := s.keeper.AppendRecord(ctx, rec); err != nil {
		s.log.Error().Err(err).Str("game_id", rec.GameID).Msg("append match record failed")
		return model.MatchRecord{}, err
	}
	return rec, nil
}

func (s *matchService) current() (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sess == nil {
		return nil, ErrNoSession
	}
	return s.sess, nil
}

func validSlot(slot int) error {
	if slot < 0 || slot > 1 {
		return NewInvalidInputError([]FieldError{{Field: "slot", Message: "must be 0 or 1"}})
	}
	return nil
}
