package storage_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/storage"
)

func newKeeper(t *testing.T) (*storage.Keeper, *storage.Memory) {
	t.Helper()
	store := storage.NewMemory()
	return storage.NewKeeper(store, zerolog.Nop()), store
}

func TestConfigurationRoundTrip(t *testing.T) {
	keeper, _ := newKeeper(t)
	ctx := context.Background()

	_, err := keeper.LoadConfiguration(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	cfg := model.MatchConfiguration{
		TeamCount:       2,
		RosterSize:      1,
		DurationSeconds: 300,
		AllowExtraTime:  true,
		Scoring:         model.ScoringTable{"goals": 1},
		Teams: []model.Team{
			{Name: "Red", Players: []model.Player{{Name: "Ann", Position: model.PositionGoalkeeper}}},
			{Name: "Blue", Players: []model.Player{{Name: "Bo", Position: model.PositionFieldPlayer}}},
		},
	}
	require.NoError(t, keeper.SaveConfiguration(ctx, cfg))

	loaded, err := keeper.LoadConfiguration(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMalformedConfigurationIsNotFound(t *testing.T) {
	keeper, store := newKeeper(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyConfiguration, []byte("{not json")))

	_, err := keeper.LoadConfiguration(ctx)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestHistoryAppendAndLoad(t *testing.T) {
	keeper, _ := newKeeper(t)
	ctx := context.Background()

	history, err := keeper.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "absent history reads as empty")

	rec1 := model.MatchRecord{GameID: "game_1", EndTime: 1000}
	rec2 := model.MatchRecord{GameID: "game_2", EndTime: 2000}
	require.NoError(t, keeper.AppendRecord(ctx, rec1))
	require.NoError(t, keeper.AppendRecord(ctx, rec2))

	history, err = keeper.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "game_1", history[0].GameID, "append preserves order")
	assert.Equal(t, "game_2", history[1].GameID)
}

func TestMalformedHistoryTreatedAsEmpty(t *testing.T) {
	keeper, store := newKeeper(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, storage.KeyHistory, []byte("not an array")))

	history, err := keeper.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)

	// Appending over a corrupted log starts a fresh one instead of failing.
	require.NoError(t, keeper.AppendRecord(ctx, model.MatchRecord{GameID: "game_3"}))
	history, err = keeper.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "game_3", history[0].GameID)
}
