package bracket

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kmaier/prephoops/internal/game"
	"github.com/kmaier/prephoops/internal/logger"
	"github.com/kmaier/prephoops/internal/team"
)

var (
	// Line patterns, tested in priority order. The first match wins and the
	// scanner moves to the next line, so a line is never both a header and a
	// team entry.
	sectionalPattern = regexp.MustCompile(`^Sectional\s+#(\d+)$`)
	datePattern      = regexp.MustCompile(`^[A-Za-z]+day,\s+[A-Za-z]{3,9}\.?\s+\d{1,2}$`)
	timePattern      = regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(AM|PM)$`)
	locationPattern  = regexp.MustCompile(`^@\s*(.+)$`)
	seedTeamPattern  = regexp.MustCompile(`^#(\d+)\s+(.+)$`)
	scorePattern     = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)(?:\s*\((\d?OT)\))?$`)
)

// Counters tallies lines skipped for data-quality reasons during one parse.
// They are diagnostics, not errors: a skip never affects other games.
type Counters struct {
	SelfGames     int `json:"self_games"`
	InvalidScores int `json:"invalid_scores"`
	Duplicates    int `json:"duplicates"`
}

// Fault records where a scan stopped early. Games emitted before the fault
// line are preserved in the result.
type Fault struct {
	Line    int    `json:"line"` // zero-based index into the input
	Text    string `json:"text"`
	Message string `json:"message"`
}

// Result is the outcome of one parse run. Games appear in emission order.
// Fault is nil on a clean scan; when set, Games holds everything emitted
// before the faulting line.
type Result struct {
	Games    []*game.Game
	Counters Counters
	Fault    *Fault
}

// pendingTeam is one seed+team line awaiting a score line.
type pendingTeam struct {
	seed int
	name string
}

// context is the mutable scan state. One is created per Parse call; nothing
// survives across calls.
type context struct {
	sectional    int
	round        string
	roundOrder   int
	date         string
	timeOfDay    string
	location     string
	pendingTeams []pendingTeam
	seenKeys     map[string]bool
}

// Parser converts flattened bracket-page text into game records. A single
// Parser is safe for concurrent Parse calls: configuration is immutable and
// all scan state is function-local.
type Parser struct {
	cfg  Config
	prov game.ProvenanceBuilder
	log  *logger.Logger
}

// New creates a parser for one source/division configuration. The provenance
// builder stamps source metadata onto each emitted game; the logger receives
// per-line transitions at debug level and aggregate counts at the end of each
// scan.
func New(cfg Config, prov game.ProvenanceBuilder, log *logger.Logger) (*Parser, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid bracket config: %w", err)
	}
	if prov == nil {
		return nil, fmt.Errorf("provenance builder is required")
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Parser{
		cfg:  cfg.withDefaults(),
		prov: prov,
		log:  log,
	}, nil
}

// Parse scans pre-extracted text lines in order and returns the completed
// games found, attributing each to the sectional/round context inferred from
// interleaved header lines. Lines must already be trimmed and non-empty; the
// scraper package's extraction helpers produce exactly this shape.
//
// Parse never panics and never discards work: if a line cannot be processed,
// the result carries the games emitted so far plus a Fault naming the line.
func (p *Parser) Parse(lines []string) *Result {
	result := &Result{Games: make([]*game.Game, 0)}

	if len(lines) == 0 {
		p.log.Warn("no bracket lines to parse", logger.Fields{
			"source":   p.cfg.Source,
			"division": p.cfg.Division,
			"url":      p.cfg.SourceURL,
		})
		return result
	}

	ctx := &context{
		sectional: p.cfg.defaultSectional(),
		round:     UnknownRound,
		seenKeys:  make(map[string]bool),
	}

	for i, line := range lines {
		if fault := p.scanLine(ctx, line, result); fault != nil {
			fault.Line = i
			fault.Text = line
			result.Fault = fault
			p.log.Error("bracket scan stopped early", logger.Fields{
				"source":        p.cfg.Source,
				"url":           p.cfg.SourceURL,
				"line":          i,
				"games_emitted": len(result.Games),
			}, fmt.Errorf("%s", fault.Message))
			break
		}
	}

	p.logSummary(result)
	return result
}

// scanLine classifies one line and updates context or emits a game.
// Returns a Fault (without position info) when the line defeats processing.
func (p *Parser) scanLine(ctx *context, line string, result *Result) *Fault {
	// 1. Sectional header. A sectional boundary invalidates any partially
	// accumulated matchup.
	if m := sectionalPattern.FindStringSubmatch(line); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return &Fault{Message: fmt.Sprintf("sectional number out of range: %v", err)}
		}
		ctx.sectional = n
		ctx.pendingTeams = nil
		p.log.Debug("sectional transition", logger.Fields{"sectional": n})
		return nil
	}

	// 2. Round header.
	for order, rp := range p.cfg.Rounds {
		if rp.Pattern.MatchString(line) {
			ctx.round = rp.Name
			ctx.roundOrder = order + 1
			ctx.pendingTeams = nil
			p.log.Debug("round transition", logger.Fields{
				"round": rp.Name,
				"order": order + 1,
			})
			return nil
		}
	}

	// 3-5. Date, time, and location carry forward as descriptive metadata
	// until overwritten; they never gate game emission.
	if datePattern.MatchString(line) {
		ctx.date = line
		return nil
	}
	if timePattern.MatchString(line) {
		ctx.timeOfDay = line
		return nil
	}
	if m := locationPattern.FindStringSubmatch(line); m != nil {
		ctx.location = strings.TrimSpace(m[1])
		return nil
	}

	// 6. Seed + team line.
	if m := seedTeamPattern.FindStringSubmatch(line); m != nil {
		seed, err := strconv.Atoi(m[1])
		if err != nil {
			return &Fault{Message: fmt.Sprintf("seed number out of range: %v", err)}
		}
		ctx.pendingTeams = append(ctx.pendingTeams, pendingTeam{
			seed: seed,
			name: strings.TrimSpace(m[2]),
		})
		return nil
	}

	// 7. Score line. Only actionable with at least two accumulated teams;
	// otherwise the line is inert.
	if m := scorePattern.FindStringSubmatch(line); m != nil {
		if len(ctx.pendingTeams) < 2 {
			return nil
		}

		homeScore, err := strconv.Atoi(m[1])
		if err != nil {
			return &Fault{Message: fmt.Sprintf("score out of range: %v", err)}
		}
		awayScore, err := strconv.Atoi(m[2])
		if err != nil {
			return &Fault{Message: fmt.Sprintf("score out of range: %v", err)}
		}

		p.emit(ctx, result, homeScore, awayScore, m[3])
		return nil
	}

	// Anything else is bracket-page chrome; ignore it.
	return nil
}

// emit pairs a score line with the two most recently seen team lines and
// appends a game record, unless a quality guard rejects the matchup.
// pendingTeams is cleared on every outcome so stale entries never leak into
// the next matchup.
func (p *Parser) emit(ctx *context, result *Result, homeScore, awayScore int, overtime string) {
	defer func() { ctx.pendingTeams = nil }()

	// A score always consumes the last two team lines. Earlier accumulated
	// entries are discarded with them.
	home := ctx.pendingTeams[len(ctx.pendingTeams)-2]
	away := ctx.pendingTeams[len(ctx.pendingTeams)-1]

	// Bracket renderings sometimes duplicate a bye or placeholder into a
	// team-vs-itself matchup.
	if home.name == away.name {
		result.Counters.SelfGames++
		p.log.Debug("skipped self-game", logger.Fields{"team": home.name})
		return
	}

	if p.invalidScore(homeScore) || p.invalidScore(awayScore) {
		result.Counters.InvalidScores++
		p.log.Debug("skipped invalid score", logger.Fields{
			"home_score": homeScore,
			"away_score": awayScore,
		})
		return
	}

	homeID := team.CanonicalID(p.cfg.Source, home.name)
	awayID := team.CanonicalID(p.cfg.Source, away.name)

	key := game.DedupKey(p.cfg.Division, ctx.sectional, ctx.roundOrder,
		homeID, awayID, homeScore, awayScore)
	if ctx.seenKeys[key] {
		// Pages often render a completed game twice, once in a recent-results
		// list and once in the bracket tree.
		result.Counters.Duplicates++
		p.log.Debug("skipped duplicate game", logger.Fields{"key": key})
		return
	}
	ctx.seenKeys[key] = true

	notes := p.buildNotes(ctx, home, away, overtime)

	g := &game.Game{
		ID:           game.GenerateID(p.cfg.Year, p.cfg.Division, ctx.sectional, homeID, awayID),
		DedupKey:     key,
		HomeTeamID:   homeID,
		AwayTeamID:   awayID,
		HomeTeamName: home.name,
		AwayTeamName: away.name,
		HomeSeed:     home.seed,
		AwaySeed:     away.seed,
		HomeScore:    homeScore,
		AwayScore:    awayScore,
		Overtime:     overtime,
		Status:       game.StatusFinal,
		GameType:     game.TypePlayoff,
		League:       p.cfg.League,
		Season:       game.Season(p.cfg.Year),
		Sectional:    ctx.sectional,
		Round:        ctx.round,
		RoundOrder:   ctx.roundOrder,
		Provenance:   p.prov.BuildProvenance(p.cfg.SourceURL, game.QualityVerified, notes),
	}

	result.Games = append(result.Games, g)
	p.log.Debug("emitted game", logger.Fields{
		"id":    g.ID,
		"home":  home.name,
		"away":  away.name,
		"score": fmt.Sprintf("%d-%d", homeScore, awayScore),
	})
}

func (p *Parser) invalidScore(score int) bool {
	return score < p.cfg.MinScore || score > p.cfg.MaxScore
}

// buildNotes assembles the free-text provenance notes from seeds, round,
// overtime, and whatever date/time/location headers are in effect.
func (p *Parser) buildNotes(ctx *context, home, away pendingTeam, overtime string) string {
	parts := []string{
		fmt.Sprintf("#%d %s vs #%d %s", home.seed, home.name, away.seed, away.name),
		ctx.round,
	}
	if overtime != "" {
		parts = append(parts, overtime)
	}
	if ctx.date != "" {
		parts = append(parts, ctx.date)
	}
	if ctx.timeOfDay != "" {
		parts = append(parts, ctx.timeOfDay)
	}
	if ctx.location != "" {
		parts = append(parts, "@"+ctx.location)
	}
	return strings.Join(parts, " | ")
}

func (p *Parser) logSummary(result *Result) {
	fields := logger.Fields{
		"source":         p.cfg.Source,
		"division":       p.cfg.Division,
		"games":          len(result.Games),
		"self_games":     result.Counters.SelfGames,
		"invalid_scores": result.Counters.InvalidScores,
		"duplicates":     result.Counters.Duplicates,
	}

	skipped := result.Counters.SelfGames + result.Counters.InvalidScores + result.Counters.Duplicates
	if skipped > 0 {
		p.log.Warn("bracket parse skipped suspect lines", fields)
	} else {
		p.log.Info("bracket parse complete", fields)
	}
}

// FetchedNow is a convenience ProvenanceBuilder for sources with no extra
// metadata of their own.
type FetchedNow struct{}

// BuildProvenance stamps the URL, quality flag, and notes with the current time.
func (FetchedNow) BuildProvenance(url string, quality game.Quality, notes string) game.Provenance {
	return game.Provenance{
		SourceURL: url,
		Quality:   quality,
		Notes:     notes,
		FetchedAt: time.Now().UTC(),
	}
}
