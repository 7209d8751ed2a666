package bracket

import (
	"fmt"
	"regexp"
)

const (
	// DefaultMaxScore bounds legitimate basketball results. Scores above this
	// are treated as extraction noise, not blowouts.
	DefaultMaxScore = 150

	// UnknownRound labels games emitted before any round header was seen.
	UnknownRound = "Unknown Round"
)

// RoundPattern matches one round header line. Patterns are tried in slice
// order; the slice position (1-based) becomes the round's progression rank.
type RoundPattern struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRounds returns the standard state-tournament round set, ordered by
// tournament progression.
func DefaultRounds() []RoundPattern {
	return []RoundPattern{
		{"Regional Quarterfinal", regexp.MustCompile(`(?i)^Regional\s+Quarterfinals?$`)},
		{"Regional Semifinal", regexp.MustCompile(`(?i)^Regional\s+Semifinals?$`)},
		{"Regional Final", regexp.MustCompile(`(?i)^Regional\s+Finals?$`)},
		{"Sectional Semifinal", regexp.MustCompile(`(?i)^Sectional\s+Semifinals?$`)},
		{"Sectional Final", regexp.MustCompile(`(?i)^Sectional\s+Finals?$`)},
		{"State Quarterfinal", regexp.MustCompile(`(?i)^State\s+Quarterfinals?$`)},
		{"State Semifinal", regexp.MustCompile(`(?i)^State\s+Semifinals?$`)},
		{"State Championship", regexp.MustCompile(`(?i)^State\s+(Championship|Finals?)$`)},
	}
}

// Config parameterizes one parse run. A single parser implementation serves
// every source; per-source variation (round names, namespace, score bounds)
// lives here instead of in per-state code.
type Config struct {
	// Source is the canonicalization namespace, e.g. "wiaa".
	Source string

	// League labels emitted games, e.g. "WIAA Division 3".
	League string

	Year     int
	Gender   string // "boys" or "girls"
	Division int

	// Sectionals lists the sectional numbers this bracket covers. The first
	// entry is the default sectional until a sectional header is seen.
	Sectionals []int

	// SourceURL is stamped into each game's provenance.
	SourceURL string

	// Rounds overrides DefaultRounds for sources with different terminology.
	Rounds []RoundPattern

	// MinScore and MaxScore bound accepted scores, inclusive. A zero MaxScore
	// means DefaultMaxScore.
	MinScore int
	MaxScore int
}

func (c *Config) validate() error {
	if c.Source == "" {
		return fmt.Errorf("source namespace is required")
	}
	if c.Year == 0 {
		return fmt.Errorf("tournament year is required")
	}
	if c.MaxScore != 0 && c.MaxScore < c.MinScore {
		return fmt.Errorf("max score %d below min score %d", c.MaxScore, c.MinScore)
	}
	return nil
}

// withDefaults returns a copy with zero-value fields filled in.
func (c Config) withDefaults() Config {
	if c.Rounds == nil {
		c.Rounds = DefaultRounds()
	}
	if c.MaxScore == 0 {
		c.MaxScore = DefaultMaxScore
	}
	return c
}

// defaultSectional returns the sectional assumed before any header is seen.
func (c *Config) defaultSectional() int {
	if len(c.Sectionals) > 0 {
		return c.Sectionals[0]
	}
	return 0
}
