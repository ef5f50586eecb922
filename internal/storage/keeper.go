package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/iscout/scorekeeper/internal/model"
)

// Keeper is the typed persistence layer over the raw Store. It owns the JSON
// encoding of the two well-known keys and the defensive read semantics:
// malformed history is logged and treated as empty, a missing or malformed
// configuration surfaces ErrNotFound so callers can degrade instead of crash.
type Keeper struct {
	store Store
	log   zerolog.Logger
}

func NewKeeper(store Store, logger zerolog.Logger) *Keeper {
	l := logger.With().Str("module", "storage").Str("component", "keeper").Logger()
	return &Keeper{store: store, log: l}
}

// LoadConfiguration reads the persisted match configuration. Malformed data
// is reported as ErrNotFound after logging; it never panics or propagates a
// parse error the caller cannot act on.
func (k *Keeper) LoadConfiguration(ctx context.Context) (model.MatchConfiguration, error) {
	raw, err := k.store.Get(ctx, KeyConfiguration)
	if err != nil {
		return model.MatchConfiguration{}, err
	}
	var cfg model.MatchConfiguration
	if err := json.Unmarshal(raw, &cfg); err != nil {
		k.log.Warn().Err(err).Msg("stored configuration is malformed, ignoring it")
		return model.MatchConfiguration{}, ErrNotFound
	}
	return cfg, nil
}

// SaveConfiguration persists the match configuration.
func (k *Keeper) SaveConfiguration(ctx context.Context, cfg model.MatchConfiguration) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	return k.store.Set(ctx, KeyConfiguration, raw)
}

// LoadHistory reads the full history log. Absent or malformed history is an
// empty slice, never an error: operator data already entered must survive a
// corrupted log, and the aggregator treats empty input fine.
func (k *Keeper) LoadHistory(ctx context.Context) ([]model.MatchRecord, error) {
	raw, err := k.store.Get(ctx, KeyHistory)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var history []model.MatchRecord
	if err := json.Unmarshal(raw, &history); err != nil {
		k.log.Warn().Err(err).Msg("stored history is malformed, treating it as empty")
		return nil, nil
	}
	return history, nil
}

// AppendRecord performs the read-modify-write append of one completed match.
// No partial-write protection: single operator, single device.
func (k *Keeper) AppendRecord(ctx context.Context, rec model.MatchRecord) error {
	history, err := k.LoadHistory(ctx)
	if err != nil {
		return err
	}
	history = append(history, rec)
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := k.store.Set(ctx, KeyHistory, raw); err != nil {
		return err
	}
	k.log.Info().Str("game_id", rec.GameID).Int("total_games", len(history)).Msg("match record appended")
	return nil
}
