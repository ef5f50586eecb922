// Package service holds business logic orchestration across storage, the live
// session and handlers. Kept intentionally lean: only use-case coordination,
// validation and domain error shaping.
package service

import (
	"context"
	"errors"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/session"
	"github.com/iscout/scorekeeper/internal/stats"
)

// ErrInvalidInput is the marker error for aggregated validation failures
// (maps to HTTP 400). Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// ErrNoSession is returned by session-bound operations before a session has
// been created (maps to HTTP 404).
var ErrNoSession = errors.New("no active session")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to
// ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field
// errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 { // protective case
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	type feIface interface{ Fields() []FieldError }
	if v, ok := err.(feIface); ok && errors.Is(err, ErrInvalidInput) {
		return v.Fields()
	}
	return nil
}

// SettingsService persists and serves the validated match configuration.
type SettingsService interface {
	SaveConfiguration(ctx context.Context, cfg model.MatchConfiguration) (model.MatchConfiguration, error)
	GetConfiguration(ctx context.Context) (model.MatchConfiguration, error)
}

// MatchService owns the single live match session and its lifecycle. The
// session-mutating operations mirror the session's own guard semantics:
// illegal calls degrade to logged no-ops, only DeclareWinner can fail with
// session.ErrInvalidState.
type MatchService interface {
	CreateSession(ctx context.Context) (session.Snapshot, error)
	CloseSession() error
	Snapshot() (session.Snapshot, error)

	StartClock() error
	PauseClock() error
	EndTimedPlay() error
	ResetSession() error
	GrantExtraTime() error
	DeclineExtraTime() error

	SelectParticipant(slot, teamIndex int) error
	SelectPlayer(slot, playerIndex int) error
	ApplyScoringAction(action string) error
	IncrementTeamScore(slot int) error
	DecrementTeamScore(slot int) error

	DeclareWinner(ctx context.Context, slot int) (model.MatchRecord, error)
}

// HistoryService reads the history log and derives statistics from it.
type HistoryService interface {
	History(ctx context.Context) ([]model.MatchRecord, error)
	Statistics(ctx context.Context) (stats.Result, error)
}
