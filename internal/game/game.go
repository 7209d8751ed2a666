package game

import (
	"fmt"
	"strings"
	"time"
)

// Status indicates the completion state of a game.
type Status string

const (
	// StatusFinal marks a completed game. Bracket pages only render
	// finished results, so every game emitted by the bracket parser is final.
	StatusFinal Status = "final"
)

// Type classifies how a game fits into a season.
type Type string

const (
	// TypePlayoff marks a tournament elimination game.
	TypePlayoff Type = "playoff"
)

// Quality grades how much we trust a scraped data point.
type Quality string

const (
	QualityVerified   Quality = "verified"
	QualityUnreviewed Quality = "unreviewed"
	QualitySuspect    Quality = "suspect"
)

// Provenance records where a game came from.
type Provenance struct {
	SourceURL string    `json:"source_url"`
	Quality   Quality   `json:"quality"`
	Notes     string    `json:"notes,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ProvenanceBuilder stamps standard provenance metadata onto emitted games.
// Source adapters supply an implementation; the bracket parser only ever
// calls this one method.
type ProvenanceBuilder interface {
	BuildProvenance(url string, quality Quality, notes string) Provenance
}

// Game is one completed tournament result in the common schema.
type Game struct {
	ID       string `json:"id"`
	DedupKey string `json:"dedup_key"`

	HomeTeamID   string `json:"home_team_id"`
	AwayTeamID   string `json:"away_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	HomeSeed     int    `json:"home_seed,omitempty"`
	AwaySeed     int    `json:"away_seed,omitempty"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	Overtime     string `json:"overtime,omitempty"` // "OT", "2OT", ...

	Status   Status `json:"status"`
	GameType Type   `json:"game_type"`

	League     string `json:"league"` // e.g. "WIAA Division 3"
	Season     string `json:"season"` // e.g. "2023-24"
	Sectional  int    `json:"sectional"`
	Round      string `json:"round"`
	RoundOrder int    `json:"round_order"`

	Provenance Provenance `json:"provenance"`
}

// GenerateID synthesizes the external game identifier from the tournament
// year, division, sectional, and both canonical team IDs. Canonical IDs are
// namespaced ("wiaa:elcho"), so the source is already embedded.
func GenerateID(year, division, sectional int, homeID, awayID string) string {
	return fmt.Sprintf("%d-d%d-s%d-%s-%s",
		year, division, sectional, stripNamespace(homeID), stripNamespace(awayID))
}

// DedupKey builds the composite key used to detect a game rendered twice on
// the same page (e.g. once in a results list and once in the bracket tree).
func DedupKey(division, sectional, roundOrder int, homeID, awayID string, homeScore, awayScore int) string {
	return fmt.Sprintf("%d|%d|%d|%s|%s|%d|%d",
		division, sectional, roundOrder, homeID, awayID, homeScore, awayScore)
}

// Season derives the season label from the tournament year. State playoffs
// run in late winter, so a 2024 tournament belongs to the 2023-24 season.
func Season(year int) string {
	return fmt.Sprintf("%d-%02d", year-1, year%100)
}

func stripNamespace(canonicalID string) string {
	if i := strings.IndexByte(canonicalID, ':'); i >= 0 {
		return canonicalID[i+1:]
	}
	return canonicalID
}
