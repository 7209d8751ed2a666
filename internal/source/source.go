package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kmaier/prephoops/internal/bracket"
	"github.com/kmaier/prephoops/internal/game"
	"github.com/kmaier/prephoops/internal/logger"
	"github.com/kmaier/prephoops/internal/scraper"
)

// Fetcher retrieves raw bytes for a URL. *scraper.Fetcher satisfies this;
// tests substitute a stub.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Source is one site we aggregate games from.
type Source interface {
	Name() string
	FetchGames(ctx context.Context, f Fetcher) ([]*game.Game, error)
}

// BracketSource scrapes tournament brackets from a state association site.
// A single implementation serves every bracket-publishing source; everything
// source-specific (URLs, divisions, round names, namespace) comes from the
// Definition.
type BracketSource struct {
	def Definition
	log *logger.Logger
}

// NewBracketSource builds a source from its definition. Round patterns are
// compiled here so a bad registry entry fails at load time, not mid-scrape.
func NewBracketSource(def Definition, log *logger.Logger) (*BracketSource, error) {
	if err := def.validate(); err != nil {
		return nil, fmt.Errorf("source %q: %w", def.Name, err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &BracketSource{def: def, log: log}, nil
}

// Name returns the registry name of this source.
func (s *BracketSource) Name() string {
	return s.def.Name
}

// FetchGames fetches and parses every configured division's bracket page.
// A division that fails to fetch or faults mid-parse does not abort the
// others; its games-so-far are kept and the problem is logged.
func (s *BracketSource) FetchGames(ctx context.Context, f Fetcher) ([]*game.Game, error) {
	rounds, err := s.def.compileRounds()
	if err != nil {
		return nil, err
	}

	games := make([]*game.Game, 0)
	var fetchErrs []string

	for _, div := range s.def.Divisions {
		url := s.divisionURL(div)

		body, err := f.Fetch(ctx, url)
		if err != nil {
			s.log.Error("division fetch failed", logger.Fields{
				"source":   s.def.Name,
				"division": div.Number,
				"url":      url,
			}, err)
			fetchErrs = append(fetchErrs, fmt.Sprintf("division %d: %v", div.Number, err))
			continue
		}

		lines, err := scraper.ExtractLines(strings.NewReader(string(body)))
		if err != nil {
			s.log.Error("division text extraction failed", logger.Fields{
				"source":   s.def.Name,
				"division": div.Number,
				"url":      url,
			}, err)
			fetchErrs = append(fetchErrs, fmt.Sprintf("division %d: %v", div.Number, err))
			continue
		}

		cfg := bracket.Config{
			Source:     s.def.Namespace,
			League:     fmt.Sprintf("%s Division %d", s.def.League, div.Number),
			Year:       s.def.Year,
			Gender:     s.def.Gender,
			Division:   div.Number,
			Sectionals: div.Sectionals,
			SourceURL:  url,
			Rounds:     rounds,
			MinScore:   s.def.MinScore,
			MaxScore:   s.def.MaxScore,
		}

		parser, err := bracket.New(cfg, s, s.log)
		if err != nil {
			return nil, fmt.Errorf("building parser for division %d: %w", div.Number, err)
		}

		result := parser.Parse(lines)
		if result.Fault != nil {
			// Partial results are kept; the fault only costs the rest of the page.
			s.log.Warn("division parsed partially", logger.Fields{
				"source":   s.def.Name,
				"division": div.Number,
				"line":     result.Fault.Line,
				"message":  result.Fault.Message,
			})
		}
		games = append(games, result.Games...)
	}

	if len(games) == 0 && len(fetchErrs) > 0 {
		return nil, fmt.Errorf("all divisions failed: %s", strings.Join(fetchErrs, "; "))
	}
	return games, nil
}

// BuildProvenance implements game.ProvenanceBuilder for games this source emits.
func (s *BracketSource) BuildProvenance(url string, quality game.Quality, notes string) game.Provenance {
	return game.Provenance{
		SourceURL: url,
		Quality:   quality,
		Notes:     notes,
		FetchedAt: time.Now().UTC(),
	}
}

func (s *BracketSource) divisionURL(div Division) string {
	if div.URL != "" {
		return div.URL
	}
	return fmt.Sprintf(s.def.URLTemplate, div.Number)
}
