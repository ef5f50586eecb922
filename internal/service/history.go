package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/stats"
	"github.com/iscout/scorekeeper/internal/storage"
)

type historyService struct {
	keeper *storage.Keeper
	loc    *time.Location
	log    zerolog.Logger
}

// NewHistoryService builds the read side over the history log. Days are
// bucketed in loc; nil means the process-local time zone.
func NewHistoryService(keeper *storage.Keeper, loc *time.Location, logger zerolog.Logger) HistoryService {
	if loc == nil {
		loc = time.Local
	}
	l := logger.With().Str("module", "service").Str("component", "history").Logger()
	return &historyService{keeper: keeper, loc: loc, log: l}
}

func (s *historyService) History(ctx context.Context) ([]model.MatchRecord, error) {
	return s.keeper.LoadHistory(ctx)
}

// Statistics recomputes the derived views from the full log on every call;
// nothing here is cached or persisted.
func (s *historyService) Statistics(ctx context.Context) (stats.Result, error) {
	history, err := s.keeper.LoadHistory(ctx)
	if err != nil {
		return stats.Result{}, err
	}
	return stats.Aggregate(history, s.loc), nil
}
