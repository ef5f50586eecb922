// Package stats turns the flat history log into daily and all-time
// leaderboards. Everything here is a pure reduction: identical input yields
// byte-identical output, with no I/O and no clock reads beyond the records'
// own timestamps.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/iscout/scorekeeper/internal/model"
)

// TeamWins is one leaderboard row: a team display name and its win count.
// Teams are identified by name only, so two teams sharing a display name
// accumulate into one bucket. That is a property of the system, not a bug.
type TeamWins struct {
	Name string `json:"name"`
	Wins int    `json:"wins"`
}

// PlayerTotals is the per-day raw aggregate for one player name.
type PlayerTotals struct {
	Score       int `json:"score"`
	GamesPlayed int `json:"games_played"`
}

// PlayerPerformanceEntry is one row of a day's player leaderboard.
type PlayerPerformanceEntry struct {
	Name             string `json:"name"`
	Score            int    `json:"score"`
	GamesPlayed      int    `json:"games_played"`
	Wins             int    `json:"wins"`
	Losses           int    `json:"losses"`
	PerformanceScore int    `json:"performance_score"`
}

// DailyStatistics is the derived view of one calendar day of matches.
type DailyStatistics struct {
	Date               string                   `json:"date"` // YYYY-MM-DD
	Games              []model.MatchRecord      `json:"games"`
	TotalGames         int                      `json:"total_games"`
	TeamWins           map[string]int           `json:"team_wins"`
	MostSuccessfulTeam *TeamWins                `json:"most_successful_team"`
	PlayerScores       map[string]PlayerTotals  `json:"player_scores"`
	Players            []PlayerPerformanceEntry `json:"players"`
}

// Result bundles the two outputs of one aggregation pass.
type Result struct {
	Daily   []DailyStatistics `json:"daily_statistics"`
	AllTime []TeamWins        `json:"all_time_win_table"`
}

// Win bonus and normalization constants for the 1-10 performance score.
const (
	perfFloor    = 1.0
	perfCeiling  = 10.0
	perfSpread   = 7.0
	perfMidpoint = 4.5
	winBonus     = 2.0
)

// tally counts by name while remembering first-appearance order, standing in
// for the insertion-ordered objects the original relied on.
type tally struct {
	names []string
	count map[string]int
}

func newTally() *tally {
	return &tally{count: make(map[string]int)}
}

func (t *tally) add(name string, n int) {
	if _, ok := t.count[name]; !ok {
		t.names = append(t.names, name)
	}
	t.count[name] += n
}

// winner resolves which snapshot the record's winner index points at, or nil
// for drawn/unresolvable records.
func winner(rec model.MatchRecord) *model.TeamSnapshot {
	if rec.WinnerTeamIndex == nil {
		return nil
	}
	switch *rec.WinnerTeamIndex {
	case rec.Team1.Index:
		return &rec.Team1
	case rec.Team2.Index:
		return &rec.Team2
	}
	return nil
}

// Aggregate reduces the full history into daily statistics (sorted by date
// descending) and the all-time win table (sorted by wins descending). Days
// are keyed by each record's end time in loc; nil means the local time zone.
func Aggregate(history []model.MatchRecord, loc *time.Location) Result {
	if loc == nil {
		loc = time.Local
	}

	allTime := newTally()
	for _, rec := range history {
		if w := winner(rec); w != nil {
			allTime.add(w.Name, 1)
		}
	}
	allTimeTable := make([]TeamWins, 0, len(allTime.names))
	for _, name := range allTime.names {
		allTimeTable = append(allTimeTable, TeamWins{Name: name, Wins: allTime.count[name]})
	}
	sort.SliceStable(allTimeTable, func(i, j int) bool {
		return allTimeTable[i].Wins > allTimeTable[j].Wins
	})

	var dates []string
	byDate := make(map[string][]model.MatchRecord)
	for _, rec := range history {
		date := time.UnixMilli(rec.EndTime).In(loc).Format("2006-01-02")
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], rec)
	}

	daily := make([]DailyStatistics, 0, len(dates))
	for _, date := range dates {
		daily = append(daily, reduceDay(date, byDate[date]))
	}
	// Lexicographic descending == chronological descending for YYYY-MM-DD.
	sort.Slice(daily, func(i, j int) bool { return daily[i].Date > daily[j].Date })

	return Result{Daily: daily, AllTime: allTimeTable}
}

func reduceDay(date string, games []model.MatchRecord) DailyStatistics {
	teamWins := newTally()
	playerWins := newTally()
	playerTotals := newTally() // raw scores
	playerGames := make(map[string]int)

	for _, rec := range games {
		if w := winner(rec); w != nil {
			teamWins.add(w.Name, 1)
			for _, p := range w.Players {
				playerWins.add(p.Name, 1)
			}
		}
		for _, snap := range []model.TeamSnapshot{rec.Team1, rec.Team2} {
			for _, p := range snap.Players {
				playerTotals.add(p.Name, p.Score)
				playerGames[p.Name]++
			}
		}
	}

	mostSuccessful := mostSuccessfulTeam(teamWins)

	minScore, maxScore := 0, 0
	for i, name := range playerTotals.names {
		score := playerTotals.count[name]
		if i == 0 || score < minScore {
			minScore = score
		}
		if i == 0 || score > maxScore {
			maxScore = score
		}
	}

	players := make([]PlayerPerformanceEntry, 0, len(playerTotals.names))
	scores := make(map[string]PlayerTotals, len(playerTotals.names))
	for _, name := range playerTotals.names {
		raw := playerTotals.count[name]
		wins := playerWins.count[name]
		gamesPlayed := playerGames[name]
		scores[name] = PlayerTotals{Score: raw, GamesPlayed: gamesPlayed}
		players = append(players, PlayerPerformanceEntry{
			Name:             name,
			Score:            raw,
			GamesPlayed:      gamesPlayed,
			Wins:             wins,
			Losses:           gamesPlayed - wins,
			PerformanceScore: performanceScore(raw, minScore, maxScore, wins),
		})
	}
	// Stable sort: ties keep encounter order.
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].PerformanceScore > players[j].PerformanceScore
	})

	return DailyStatistics{
		Date:               date,
		Games:              games,
		TotalGames:         len(games),
		TeamWins:           teamWins.count,
		MostSuccessfulTeam: mostSuccessful,
		PlayerScores:       scores,
		Players:            players,
	}
}

// mostSuccessfulTeam replicates the original selection loop exactly: a team
// with strictly more wins replaces the label built so far, a team tying the
// current maximum is concatenated onto it with " & ", in first-appearance
// order.
func mostSuccessfulTeam(teamWins *tally) *TeamWins {
	var most *TeamWins
	maxWins := 0
	for _, name := range teamWins.names {
		wins := teamWins.count[name]
		if wins > maxWins {
			maxWins = wins
			most = &TeamWins{Name: name, Wins: wins}
		} else if wins == maxWins && most != nil {
			most.Name += " & " + name
		}
	}
	return most
}

// performanceScore normalizes a raw day score into 1-10: base 1-8 across the
// day's min/max spread (midpoint 4.5 when there is no spread), +2 for any win
// that day, rounded and clamped.
func performanceScore(raw, minScore, maxScore, wins int) int {
	base := perfMidpoint
	if maxScore > minScore {
		base = perfFloor + perfSpread*float64(raw-minScore)/float64(maxScore-minScore)
	}
	bonus := 0.0
	if wins > 0 {
		bonus = winBonus
	}
	return int(math.Round(math.Min(perfCeiling, math.Max(perfFloor, base+bonus))))
}
