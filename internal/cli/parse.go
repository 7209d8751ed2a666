package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/kmaier/prephoops/internal/bracket"
	"github.com/kmaier/prephoops/internal/game"
	"github.com/kmaier/prephoops/internal/scraper"
	"github.com/spf13/cobra"
)

// parseOutput is the JSON shape of the offline parse command
type parseOutput struct {
	Games    []*game.Game     `json:"games"`
	Counters bracket.Counters `json:"counters"`
	Fault    *bracket.Fault   `json:"fault,omitempty"`
}

// runParse parses a local bracket file without fetching. Useful for
// inspecting what a saved page yields before adding a source definition.
func runParse(cmd *cobra.Command, args []string) error {
	if (flagParseFile == "") == (flagParsePDF == "") {
		return fmt.Errorf("exactly one of --file or --pdf is required")
	}

	lines, path, err := loadLines()
	if err != nil {
		return err
	}

	cfg := bracket.Config{
		Source:    flagSource,
		League:    fmt.Sprintf("%s Division %d", strings.ToUpper(flagSource), flagDivision),
		Year:      flagYear,
		Division:  flagDivision,
		SourceURL: "file://" + path,
	}

	parser, err := bracket.New(cfg, bracket.FetchedNow{}, newLogger())
	if err != nil {
		return fmt.Errorf("building parser: %w", err)
	}

	result := parser.Parse(lines)

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(parseOutput{
		Games:    result.Games,
		Counters: result.Counters,
		Fault:    result.Fault,
	}); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if result.Fault != nil {
		return fmt.Errorf("parse stopped at line %d: %s", result.Fault.Line, result.Fault.Message)
	}
	return nil
}

// loadLines extracts parser input from the requested file. HTML goes through
// block-level extraction; PDFs through the text layer; anything else is
// treated as a pre-extracted text dump.
func loadLines() (lines []string, path string, err error) {
	if flagParsePDF != "" {
		lines, err = scraper.ExtractPDFFileLines(flagParsePDF)
		if err != nil {
			return nil, "", fmt.Errorf("extracting PDF: %w", err)
		}
		return lines, flagParsePDF, nil
	}

	path = flagParseFile
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading file: %w", err)
	}

	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm") {
		lines, err = scraper.ExtractLines(strings.NewReader(string(data)))
		if err != nil {
			return nil, "", fmt.Errorf("extracting HTML: %w", err)
		}
		return lines, path, nil
	}

	return scraper.SplitLines(string(data)), path, nil
}
