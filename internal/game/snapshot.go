package game

import (
	"sort"
)

// Snapshot represents all games known for a source at a point in time
type Snapshot struct {
	Games     map[string]*Game `json:"games"`      // keyed by Game.ID
	UpdatedAt string           `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Games: make(map[string]*Game),
	}
}

// CreateSnapshot creates a snapshot from a list of games
func CreateSnapshot(games []*Game, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.UpdatedAt = updatedAt

	for _, g := range games {
		snap.Games[g.ID] = g
	}

	return snap
}

// DiffResult contains the results of comparing a scrape against a snapshot
type DiffResult struct {
	NewGames []*Game
	Leagues  map[string][]*Game // new games grouped by league label
}

// Diff compares current games against a previous snapshot and returns games
// not seen before. Used to report only newly posted results across runs.
func Diff(previous *Snapshot, current []*Game) *DiffResult {
	result := &DiffResult{
		NewGames: make([]*Game, 0),
		Leagues:  make(map[string][]*Game),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	for _, g := range current {
		if _, exists := previous.Games[g.ID]; !exists {
			result.NewGames = append(result.NewGames, g)

			if result.Leagues[g.League] == nil {
				result.Leagues[g.League] = make([]*Game, 0)
			}
			result.Leagues[g.League] = append(result.Leagues[g.League], g)
		}
	}

	// Sort new games for consistent output
	sort.Slice(result.NewGames, func(i, j int) bool {
		if result.NewGames[i].League != result.NewGames[j].League {
			return result.NewGames[i].League < result.NewGames[j].League
		}
		return result.NewGames[i].ID < result.NewGames[j].ID
	})

	for league := range result.Leagues {
		sort.Slice(result.Leagues[league], func(i, j int) bool {
			return result.Leagues[league][i].ID < result.Leagues[league][j].ID
		})
	}

	return result
}
