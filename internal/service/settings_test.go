package service_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/service"
	"github.com/iscout/scorekeeper/internal/storage"
)

func validConfig() model.MatchConfiguration {
	return model.MatchConfiguration{
		TeamCount:       2,
		RosterSize:      1,
		DurationSeconds: 600,
		Scoring:         model.ScoringTable{"goals": 1},
		Teams: []model.Team{
			{Name: "Red", Players: []model.Player{{Name: "Ann", Position: model.PositionGoalkeeper}}},
			{Name: "Blue", Players: []model.Player{{Name: "Bo", Position: model.PositionFieldPlayer}}},
		},
	}
}

func TestSaveConfigurationValidation(t *testing.T) {
	keeper := storage.NewKeeper(storage.NewMemory(), zerolog.Nop())
	svc := service.NewSettingsService(keeper, zerolog.Nop())
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*model.MatchConfiguration)
	}{
		{"team count mismatch", func(c *model.MatchConfiguration) { c.TeamCount = 3 }},
		{"roster size mismatch", func(c *model.MatchConfiguration) { c.RosterSize = 4 }},
		{"zero duration", func(c *model.MatchConfiguration) { c.DurationSeconds = 0 }},
		{"bad position", func(c *model.MatchConfiguration) { c.Teams[0].Players[0].Position = "striker" }},
		{"scoring out of range", func(c *model.MatchConfiguration) { c.Scoring["goals"] = 5 }},
		{"unnamed team", func(c *model.MatchConfiguration) { c.Teams[1].Name = "  " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			_, err := svc.SaveConfiguration(ctx, cfg)
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.NotEmpty(t, service.FieldErrors(err))
		})
	}
}

func TestSaveConfigurationPersists(t *testing.T) {
	keeper := storage.NewKeeper(storage.NewMemory(), zerolog.Nop())
	svc := service.NewSettingsService(keeper, zerolog.Nop())
	ctx := context.Background()

	saved, err := svc.SaveConfiguration(ctx, validConfig())
	require.NoError(t, err)

	loaded, err := svc.GetConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestSaveConfigurationFillsDefaultScoring(t *testing.T) {
	keeper := storage.NewKeeper(storage.NewMemory(), zerolog.Nop())
	svc := service.NewSettingsService(keeper, zerolog.Nop())

	cfg := validConfig()
	cfg.Scoring = nil
	saved, err := svc.SaveConfiguration(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultScoring(), saved.Scoring)
}

func TestGetConfigurationMissing(t *testing.T) {
	keeper := storage.NewKeeper(storage.NewMemory(), zerolog.Nop())
	svc := service.NewSettingsService(keeper, zerolog.Nop())

	_, err := svc.GetConfiguration(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
