package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/storage"
)

type settingsService struct {
	keeper   *storage.Keeper
	validate *validator.Validate
	log      zerolog.Logger
}

func NewSettingsService(keeper *storage.Keeper, logger zerolog.Logger) SettingsService {
	l := logger.With().Str("module", "service").Str("component", "settings").Logger()
	return &settingsService{keeper: keeper, validate: validator.New(), log: l}
}

// SaveConfiguration validates the structural invariants and persists the
// configuration. A missing scoring table is filled with the defaults so a
// minimal settings payload still produces a playable setup.
func (s *settingsService) SaveConfiguration(ctx context.Context, cfg model.MatchConfiguration) (model.MatchConfiguration, error) {
	for i := range cfg.Teams {
		cfg.Teams[i].Name = strings.TrimSpace(cfg.Teams[i].Name)
	}
	if cfg.Scoring == nil {
		cfg.Scoring = model.DefaultScoring()
	}

	var ferrs []FieldError
	if err := s.validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return model.MatchConfiguration{}, err
		}
		for _, ve := range verrs {
			ferrs = append(ferrs, FieldError{Field: ve.Namespace(), Message: "failed " + ve.Tag() + " validation"})
		}
	}
	if len(cfg.Teams) != cfg.TeamCount {
		ferrs = append(ferrs, FieldError{Field: "teams", Message: fmt.Sprintf("must contain exactly %d teams", cfg.TeamCount)})
	}
	for i, team := range cfg.Teams {
		if len(team.Players) != cfg.RosterSize {
			ferrs = append(ferrs, FieldError{
				Field:   fmt.Sprintf("teams[%d].players", i),
				Message: fmt.Sprintf("must contain exactly %d players", cfg.RosterSize),
			})
		}
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("configuration validation failed")
		return model.MatchConfiguration{}, err
	}

	if err := s.keeper.SaveConfiguration(ctx, cfg); err != nil {
		s.log.Error().Err(err).Msg("save configuration failed")
		return model.MatchConfiguration{}, err
	}
	s.log.Info().Int("teams", cfg.TeamCount).Int("roster_size", cfg.RosterSize).Msg("configuration saved")
	return cfg, nil
}

func (s *settingsService) GetConfiguration(ctx context.Context) (model.MatchConfiguration, error) {
	return s.keeper.LoadConfiguration(ctx)
}
