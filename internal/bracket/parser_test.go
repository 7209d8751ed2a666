package bracket

import (
	"strings"
	"testing"

	"github.com/kmaier/prephoops/internal/game"
	"github.com/kmaier/prephoops/internal/logger"
)

func testConfig() Config {
	return Config{
		Source:     "wiaa",
		League:     "WIAA Division 3",
		Year:       2024,
		Gender:     "boys",
		Division:   3,
		Sectionals: []int{1, 2, 3, 4},
		SourceURL:  "https://www.wiaawi.org/brackets/d3",
	}
}

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := New(testConfig(), FetchedNow{}, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return p
}

func TestParse_SingleGame(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"Sectional #1",
		"#1 Almond-Bancroft",
		"#16 Elcho",
		"64-52",
	}

	result := p.Parse(lines)
	if result.Fault != nil {
		t.Fatalf("unexpected fault: %+v", result.Fault)
	}
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(result.Games))
	}

	g := result.Games[0]
	if g.HomeTeamName != "Almond-Bancroft" || g.AwayTeamName != "Elcho" {
		t.Errorf("teams = %q vs %q, expected Almond-Bancroft vs Elcho", g.HomeTeamName, g.AwayTeamName)
	}
	if g.HomeSeed != 1 || g.AwaySeed != 16 {
		t.Errorf("seeds = %d/%d, expected 1/16", g.HomeSeed, g.AwaySeed)
	}
	if g.HomeScore != 64 || g.AwayScore != 52 {
		t.Errorf("scores = %d-%d, expected 64-52", g.HomeScore, g.AwayScore)
	}
	if g.Sectional != 1 {
		t.Errorf("sectional = %d, expected 1", g.Sectional)
	}
	if g.Status != game.StatusFinal {
		t.Errorf("status = %q, expected final", g.Status)
	}
	if g.GameType != game.TypePlayoff {
		t.Errorf("game type = %q, expected playoff", g.GameType)
	}
	if g.Season != "2023-24" {
		t.Errorf("season = %q, expected 2023-24", g.Season)
	}
	if g.HomeTeamID != "wiaa:almond-bancroft" {
		t.Errorf("home team ID = %q, expected wiaa:almond-bancroft", g.HomeTeamID)
	}
	if g.Provenance.SourceURL != "https://www.wiaawi.org/brackets/d3" {
		t.Errorf("provenance URL = %q", g.Provenance.SourceURL)
	}
	if g.Provenance.Quality != game.QualityVerified {
		t.Errorf("provenance quality = %q, expected verified", g.Provenance.Quality)
	}
}

func TestParse_DuplicateGameSkipped(t *testing.T) {
	p := newTestParser(t)

	once := []string{
		"Sectional #1",
		"#1 Almond-Bancroft",
		"#16 Elcho",
		"64-52",
	}
	twice := append(append([]string{}, once...), once...)

	result := p.Parse(twice)
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game after duplicate pass, got %d", len(result.Games))
	}
	if result.Counters.Duplicates != 1 {
		t.Errorf("duplicate counter = %d, expected 1", result.Counters.Duplicates)
	}
}

func TestParse_SelfGameSkipped(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#2 Lincoln High",
		"#2 Lincoln High",
		"70-70",
	}

	result := p.Parse(lines)
	if len(result.Games) != 0 {
		t.Fatalf("expected no games for self-matchup, got %d", len(result.Games))
	}
	if result.Counters.SelfGames != 1 {
		t.Errorf("self-game counter = %d, expected 1", result.Counters.SelfGames)
	}
}

func TestParse_InvalidScoreSkipped(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"200-190",
	}

	result := p.Parse(lines)
	if len(result.Games) != 0 {
		t.Fatalf("expected no games for invalid score, got %d", len(result.Games))
	}
	if result.Counters.InvalidScores != 1 {
		t.Errorf("invalid-score counter = %d, expected 1", result.Counters.InvalidScores)
	}
}

func TestParse_ScoreBoundsInclusive(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"150-0",
	}

	result := p.Parse(lines)
	if len(result.Games) != 1 {
		t.Fatalf("expected boundary scores 150 and 0 to be accepted, got %d games", len(result.Games))
	}
	if result.Counters.InvalidScores != 0 {
		t.Errorf("invalid-score counter = %d, expected 0", result.Counters.InvalidScores)
	}
}

func TestParse_HeaderClearsPendingTeams(t *testing.T) {
	p := newTestParser(t)

	tests := []struct {
		name   string
		header string
	}{
		{"sectional header", "Sectional #2"},
		{"round header", "Sectional Final"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{
				"#1 Team A",
				"#2 Team B",
				tt.header,
				"64-52", // fewer than two teams since the header: inert
			}

			result := p.Parse(lines)
			if len(result.Games) != 0 {
				t.Errorf("expected header to clear pending teams, got %d games", len(result.Games))
			}
		})
	}
}

func TestParse_ScoreConsumesLastTwoTeams(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"#3 Team C",
		"55-48",
	}

	result := p.Parse(lines)
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(result.Games))
	}

	g := result.Games[0]
	if g.HomeTeamName != "Team B" || g.AwayTeamName != "Team C" {
		t.Errorf("paired %q vs %q, expected the last two teams (Team B vs Team C)",
			g.HomeTeamName, g.AwayTeamName)
	}
}

func TestParse_ScoreLineInertWithoutTwoTeams(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"64-52",
		"#1 Team A",
		"61-60",
	}

	result := p.Parse(lines)
	if len(result.Games) != 0 {
		t.Errorf("expected inert score lines, got %d games", len(result.Games))
	}
	if result.Counters != (Counters{}) {
		t.Errorf("counters = %+v, expected all zero", result.Counters)
	}
}

func TestParse_PendingTeamsClearedAfterRejection(t *testing.T) {
	p := newTestParser(t)

	// The rejected self-matchup must not leak Lincoln into the next pairing.
	lines := []string{
		"#2 Lincoln High",
		"#2 Lincoln High",
		"70-70",
		"#4 Team D",
		"58-51", // only one team accumulated since the clear: inert
	}

	result := p.Parse(lines)
	if len(result.Games) != 0 {
		t.Errorf("expected stale teams to be cleared, got %d games", len(result.Games))
	}
}

func TestParse_RoundAndSectionalContext(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"Sectional #2",
		"Regional Semifinal",
		"#4 Crandon",
		"#5 Laona",
		"71-64",
		"Regional Final",
		"#1 Wabeno",
		"#4 Crandon",
		"66-59",
	}

	result := p.Parse(lines)
	if len(result.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(result.Games))
	}

	first, second := result.Games[0], result.Games[1]
	if first.Round != "Regional Semifinal" || first.RoundOrder != 2 {
		t.Errorf("first game round = %q (order %d), expected Regional Semifinal (2)",
			first.Round, first.RoundOrder)
	}
	if second.Round != "Regional Final" || second.RoundOrder != 3 {
		t.Errorf("second game round = %q (order %d), expected Regional Final (3)",
			second.Round, second.RoundOrder)
	}
	if first.Sectional != 2 || second.Sectional != 2 {
		t.Errorf("sectionals = %d/%d, expected 2/2", first.Sectional, second.Sectional)
	}
}

func TestParse_UnknownRoundDefault(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"64-52",
	}

	result := p.Parse(lines)
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(result.Games))
	}
	if result.Games[0].Round != UnknownRound {
		t.Errorf("round = %q, expected %q", result.Games[0].Round, UnknownRound)
	}
}

func TestParse_DefaultSectionalBeforeHeader(t *testing.T) {
	cfg := testConfig()
	cfg.Sectionals = []int{7}
	p, err := New(cfg, FetchedNow{}, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"64-52",
	}

	result := p.Parse(lines)
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(result.Games))
	}
	if result.Games[0].Sectional != 7 {
		t.Errorf("sectional = %d, expected default 7", result.Games[0].Sectional)
	}
}

func TestParse_OvertimeMarker(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"72-70 (OT)",
		"#3 Team C",
		"#4 Team D",
		"81-78 (2OT)",
	}

	result := p.Parse(lines)
	if len(result.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(result.Games))
	}
	if result.Games[0].Overtime != "OT" {
		t.Errorf("overtime = %q, expected OT", result.Games[0].Overtime)
	}
	if result.Games[1].Overtime != "2OT" {
		t.Errorf("overtime = %q, expected 2OT", result.Games[1].Overtime)
	}
}

func TestParse_DateTimeLocationInNotes(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"Sectional Final",
		"Saturday, Mar 2",
		"7:00 PM",
		"@Wausau East Fieldhouse",
		"#1 Almond-Bancroft",
		"#2 Wabeno",
		"64-52",
	}

	result := p.Parse(lines)
	if len(result.Games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(result.Games))
	}

	notes := result.Games[0].Provenance.Notes
	for _, want := range []string{
		"#1 Almond-Bancroft",
		"#2 Wabeno",
		"Sectional Final",
		"Saturday, Mar 2",
		"7:00 PM",
		"@Wausau East Fieldhouse",
	} {
		if !strings.Contains(notes, want) {
			t.Errorf("notes %q missing %q", notes, want)
		}
	}
}

func TestParse_SameMatchupDifferentRoundsNotDuplicate(t *testing.T) {
	p := newTestParser(t)

	// Same teams and score in different rounds are legitimately two games
	// (the dedup key includes round order).
	lines := []string{
		"Regional Semifinal",
		"#1 Team A",
		"#2 Team B",
		"64-52",
		"Regional Final",
		"#1 Team A",
		"#2 Team B",
		"64-52",
	}

	result := p.Parse(lines)
	if len(result.Games) != 2 {
		t.Fatalf("expected 2 games across rounds, got %d", len(result.Games))
	}
	if result.Counters.Duplicates != 0 {
		t.Errorf("duplicate counter = %d, expected 0", result.Counters.Duplicates)
	}
}

func TestParse_EmptyInput(t *testing.T) {
	p := newTestParser(t)

	result := p.Parse(nil)
	if result == nil {
		t.Fatal("expected non-nil result for empty input")
	}
	if len(result.Games) != 0 || result.Fault != nil {
		t.Errorf("expected empty clean result, got %d games, fault %+v", len(result.Games), result.Fault)
	}
}

func TestParse_FaultPreservesPartialResults(t *testing.T) {
	p := newTestParser(t)

	// The oversized seed number overflows int and faults the scan; the game
	// emitted before it must survive.
	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"64-52",
		"#99999999999999999999999999 Team C",
		"#4 Team D",
		"51-49",
	}

	result := p.Parse(lines)
	if result.Fault == nil {
		t.Fatal("expected a fault for the overflowing seed")
	}
	if result.Fault.Line != 3 {
		t.Errorf("fault line = %d, expected 3", result.Fault.Line)
	}
	if len(result.Games) != 1 {
		t.Errorf("expected 1 preserved game before the fault, got %d", len(result.Games))
	}
}

func TestParse_EmissionOrderPreserved(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"#1 Zebra",
		"#2 Yak",
		"60-50",
		"#3 Apple",
		"#4 Bear",
		"55-45",
	}

	result := p.Parse(lines)
	if len(result.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(result.Games))
	}
	if result.Games[0].HomeTeamName != "Zebra" || result.Games[1].HomeTeamName != "Apple" {
		t.Errorf("games out of scan order: %q then %q",
			result.Games[0].HomeTeamName, result.Games[1].HomeTeamName)
	}
}

func TestParse_ChromeLinesIgnored(t *testing.T) {
	p := newTestParser(t)

	lines := []string{
		"2024 Boys Basketball Tournament",
		"Printable Bracket (PDF)",
		"#1 Team A",
		"Advertisement",
		"#2 Team B",
		"64-52",
		"Back to top",
	}

	result := p.Parse(lines)
	if len(result.Games) != 1 {
		t.Fatalf("expected chrome lines to be ignored, got %d games", len(result.Games))
	}
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing source", func(c *Config) { c.Source = "" }, true},
		{"missing year", func(c *Config) { c.Year = 0 }, true},
		{"inverted bounds", func(c *Config) { c.MinScore = 50; c.MaxScore = 10 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, FetchedNow{}, logger.Discard())
			if (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_RequiresProvenanceBuilder(t *testing.T) {
	if _, err := New(testConfig(), nil, logger.Discard()); err == nil {
		t.Error("expected error for nil provenance builder")
	}
}

func TestParse_CustomScoreBounds(t *testing.T) {
	cfg := testConfig()
	cfg.MaxScore = 100
	p, err := New(cfg, FetchedNow{}, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	lines := []string{
		"#1 Team A",
		"#2 Team B",
		"120-90",
	}

	result := p.Parse(lines)
	if len(result.Games) != 0 {
		t.Errorf("expected 120 to exceed the configured bound, got %d games", len(result.Games))
	}
	if result.Counters.InvalidScores != 1 {
		t.Errorf("invalid-score counter = %d, expected 1", result.Counters.InvalidScores)
	}
}
