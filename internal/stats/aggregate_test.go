package stats_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iscout/scorekeeper/internal/model"
	"github.com/iscout/scorekeeper/internal/stats"
)

func intPtr(v int) *int { return &v }

func endOfDay(t *testing.T, date string) int64 {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04", date+" 20:30", time.UTC)
	require.NoError(t, err)
	return ts.UnixMilli()
}

func record(t *testing.T, date string, team1, team2 model.TeamSnapshot, winner *int) model.MatchRecord {
	t.Helper()
	end := endOfDay(t, date)
	return model.MatchRecord{
		GameID:          "game_" + date,
		StartTime:       end - 3600_000,
		EndTime:         end,
		Team1:           team1,
		Team2:           team2,
		WinnerTeamIndex: winner,
	}
}

func TestAggregateSingleRecord(t *testing.T) {
	history := []model.MatchRecord{
		record(t, "2025-03-10",
			model.TeamSnapshot{Index: 0, Name: "Red", Score: 3, Players: []model.Player{{Name: "Ann", Score: 2}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Score: 1, Players: []model.Player{{Name: "Bo", Score: 1}}},
			intPtr(0)),
	}

	res := stats.Aggregate(history, time.UTC)

	require.Len(t, res.AllTime, 1)
	assert.Equal(t, stats.TeamWins{Name: "Red", Wins: 1}, res.AllTime[0])

	require.Len(t, res.Daily, 1)
	day := res.Daily[0]
	assert.Equal(t, "2025-03-10", day.Date)
	assert.Equal(t, 1, day.TotalGames)
	assert.Equal(t, map[string]int{"Red": 1}, day.TeamWins)
	require.NotNil(t, day.MostSuccessfulTeam)
	assert.Equal(t, stats.TeamWins{Name: "Red", Wins: 1}, *day.MostSuccessfulTeam)

	require.Len(t, day.Players, 2)
	ann, bo := day.Players[0], day.Players[1]
	assert.Equal(t, "Ann", ann.Name)
	assert.Equal(t, 1, ann.Wins)
	assert.Equal(t, 0, ann.Losses)
	assert.Equal(t, 10, ann.PerformanceScore, "max score plus win bonus clamps to 10")
	assert.Equal(t, "Bo", bo.Name)
	assert.Equal(t, 0, bo.Wins)
	assert.Equal(t, 1, bo.Losses)
	assert.Equal(t, 1, bo.PerformanceScore, "min score without bonus floors at 1")
}

func TestAggregateTieConcatenatesTeamNames(t *testing.T) {
	teamA := func(score int) model.TeamSnapshot {
		return model.TeamSnapshot{Index: 0, Name: "TeamA", Score: score}
	}
	teamB := func(score int) model.TeamSnapshot {
		return model.TeamSnapshot{Index: 1, Name: "TeamB", Score: score}
	}
	history := []model.MatchRecord{
		record(t, "2025-03-10", teamA(2), teamB(1), intPtr(0)),
		record(t, "2025-03-10", teamA(0), teamB(4), intPtr(1)),
	}

	res := stats.Aggregate(history, time.UTC)

	require.Len(t, res.AllTime, 2)
	assert.Equal(t, stats.TeamWins{Name: "TeamA", Wins: 1}, res.AllTime[0])
	assert.Equal(t, stats.TeamWins{Name: "TeamB", Wins: 1}, res.AllTime[1])

	require.Len(t, res.Daily, 1)
	require.NotNil(t, res.Daily[0].MostSuccessfulTeam)
	assert.Equal(t, "TeamA & TeamB", res.Daily[0].MostSuccessfulTeam.Name)
	assert.Equal(t, 1, res.Daily[0].MostSuccessfulTeam.Wins)
}

func TestAggregateNoSpreadDefaultsToMidpoint(t *testing.T) {
	history := []model.MatchRecord{
		record(t, "2025-03-11",
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "Ann", Score: 3}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Players: []model.Player{{Name: "Bo", Score: 3}}},
			intPtr(0)),
	}

	res := stats.Aggregate(history, time.UTC)

	require.Len(t, res.Daily, 1)
	require.Len(t, res.Daily[0].Players, 2)
	// Base 4.5 for everyone; Ann adds the win bonus.
	assert.Equal(t, 7, res.Daily[0].Players[0].PerformanceScore)
	assert.Equal(t, "Ann", res.Daily[0].Players[0].Name)
	assert.Equal(t, 5, res.Daily[0].Players[1].PerformanceScore)
	assert.Equal(t, "Bo", res.Daily[0].Players[1].Name)
}

func TestAggregateDrawnRecordCountsNoWin(t *testing.T) {
	history := []model.MatchRecord{
		record(t, "2025-03-12",
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "Ann", Score: 1}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Players: []model.Player{{Name: "Bo", Score: 2}}},
			nil),
	}

	res := stats.Aggregate(history, time.UTC)

	assert.Empty(t, res.AllTime)
	require.Len(t, res.Daily, 1)
	assert.Nil(t, res.Daily[0].MostSuccessfulTeam)
	assert.Empty(t, res.Daily[0].TeamWins)
	for _, p := range res.Daily[0].Players {
		assert.Zero(t, p.Wins)
		assert.Equal(t, 1, p.Losses, "games without a recorded win all count as losses")
	}
}

func TestAggregateDaysSortedDescending(t *testing.T) {
	win := intPtr(0)
	mk := func(date string) model.MatchRecord {
		return record(t, date,
			model.TeamSnapshot{Index: 0, Name: "Red"},
			model.TeamSnapshot{Index: 1, Name: "Blue"},
			win)
	}
	history := []model.MatchRecord{mk("2025-03-09"), mk("2025-03-11"), mk("2025-03-10")}

	res := stats.Aggregate(history, time.UTC)

	require.Len(t, res.Daily, 3)
	assert.Equal(t, "2025-03-11", res.Daily[0].Date)
	assert.Equal(t, "2025-03-10", res.Daily[1].Date)
	assert.Equal(t, "2025-03-09", res.Daily[2].Date)
}

func TestAggregateSameNamePlayersShareOneBucket(t *testing.T) {
	history := []model.MatchRecord{
		record(t, "2025-03-13",
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "Sam", Score: 2}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Players: []model.Player{{Name: "Sam", Score: 1}}},
			intPtr(0)),
	}

	res := stats.Aggregate(history, time.UTC)

	require.Len(t, res.Daily[0].Players, 1)
	sam := res.Daily[0].Players[0]
	assert.Equal(t, 3, sam.Score, "same-named players aggregate by name")
	assert.Equal(t, 2, sam.GamesPlayed)
	assert.Equal(t, 1, sam.Wins)
	assert.Equal(t, 1, sam.Losses)
}

func TestAggregateIsDeterministic(t *testing.T) {
	history := []model.MatchRecord{
		record(t, "2025-03-10",
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "Ann", Score: 2}, {Name: "Ada", Score: 0}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Players: []model.Player{{Name: "Bo", Score: 1}, {Name: "Ben", Score: 2}}},
			intPtr(1)),
		record(t, "2025-03-10",
			model.TeamSnapshot{Index: 2, Name: "Green", Players: []model.Player{{Name: "Gus", Score: 4}}},
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "Ann", Score: 1}}},
			intPtr(2)),
		record(t, "2025-03-12",
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "Ann", Score: -1}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Players: []model.Player{{Name: "Bo", Score: 0}}},
			nil),
	}

	first := stats.Aggregate(history, time.UTC)
	second := stats.Aggregate(history, time.UTC)
	assert.Equal(t, first, second)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON, "identical input must yield byte-identical output")
}

func TestAggregateStableSortKeepsEncounterOrder(t *testing.T) {
	// Three players with identical scores and no winner: identical
	// performance scores, so encounter order must survive the sort.
	history := []model.MatchRecord{
		record(t, "2025-03-14",
			model.TeamSnapshot{Index: 0, Name: "Red", Players: []model.Player{{Name: "P1", Score: 1}, {Name: "P2", Score: 1}}},
			model.TeamSnapshot{Index: 1, Name: "Blue", Players: []model.Player{{Name: "P3", Score: 1}}},
			nil),
	}

	res := stats.Aggregate(history, time.UTC)

	require.Len(t, res.Daily[0].Players, 3)
	assert.Equal(t, "P1", res.Daily[0].Players[0].Name)
	assert.Equal(t, "P2", res.Daily[0].Players[1].Name)
	assert.Equal(t, "P3", res.Daily[0].Players[2].Name)
}

func TestAggregateEmptyHistory(t *testing.T) {
	res := stats.Aggregate(nil, time.UTC)
	assert.Empty(t, res.Daily)
	assert.Empty(t, res.AllTime)
}
