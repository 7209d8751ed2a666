package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/kmaier/prephoops/internal/game"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt time.Time               `json:"checked_at"`
	Sources   []string                `json:"sources"`
	NewGames  []*game.Game            `json:"new_games"`
	GameCount int                     `json:"game_count"`
	ByLeague  map[string][]*game.Game `json:"by_league,omitempty"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.GameCount == 0 {
		fmt.Fprintln(w, "No new games found.")
		return nil
	}

	// Get sorted league labels
	leagues := make([]string, 0, len(result.ByLeague))
	for league := range result.ByLeague {
		leagues = append(leagues, league)
	}
	sort.Strings(leagues)

	for _, league := range leagues {
		games := result.ByLeague[league]
		if len(games) == 0 {
			continue
		}

		fmt.Fprintf(w, "\n%s (%d new):\n", league, len(games))
		for _, g := range games {
			fmt.Fprintf(w, "  NEW: %s\n", formatGameLine(g))
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", g.ID)
				fmt.Fprintf(w, "       Round: %s (sectional %d)\n", g.Round, g.Sectional)
				if g.Provenance.Notes != "" {
					fmt.Fprintf(w, "       Notes: %s\n", g.Provenance.Notes)
				}
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d new games across %d leagues\n", result.GameCount, len(result.ByLeague))

	return nil
}

// formatGameLine renders one game as a result line, e.g.
// "Almond-Bancroft 64, Elcho 52 (OT)".
func formatGameLine(g *game.Game) string {
	line := fmt.Sprintf("%s %d, %s %d", g.HomeTeamName, g.HomeScore, g.AwayTeamName, g.AwayScore)
	if g.Overtime != "" {
		line += fmt.Sprintf(" (%s)", g.Overtime)
	}
	return line
}
