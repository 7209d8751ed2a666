package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kmaier/prephoops/internal/api"
	"github.com/kmaier/prephoops/internal/game"
	"github.com/kmaier/prephoops/internal/logger"
	"github.com/kmaier/prephoops/internal/scraper"
	"github.com/kmaier/prephoops/internal/source"
	"github.com/kmaier/prephoops/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess  = 0
	ExitError    = 1
	ExitNewGames = 2
)

var (
	flagSource   string
	flagYear     int
	flagRegistry string
	flagDataDir  string
	flagFormat   string
	flagRefresh  bool
	flagVerbose  bool

	flagAddr string

	flagParseFile string
	flagParsePDF  string
	flagDivision  int
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prephoops",
		Short: "Aggregate high-school basketball tournament results",
		Long: `prephoops scrapes state-association bracket pages into a common game
schema, tracks results across runs, and reports only newly posted games.`,
	}

	root.PersistentFlags().StringVar(&flagDataDir, "data-dir", "~/.local/share/prephoops", "Data directory for snapshots")
	root.PersistentFlags().StringVar(&flagRegistry, "registry", "", "YAML file with additional source definitions")
	root.PersistentFlags().IntVar(&flagYear, "year", defaultYear(), "Tournament year")
	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	root.AddCommand(newCheckCmd(), newServeCmd(), newParseCmd())
	return root
}

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Scrape sources and report newly posted games",
		RunE:  runCheck,
	}

	cmd.Flags().StringVar(&flagSource, "source", "", "Source name (e.g. wiaa) or 'all' (required)")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "Refresh snapshots without reporting new games")

	cmd.MarkFlagRequired("source") // nolint:errcheck

	return cmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored games over HTTP",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagAddr, "addr", ":8080", "Listen address")

	return cmd
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse",
		Short: "Parse a saved bracket page or PDF without fetching",
		RunE:  runParse,
	}

	cmd.Flags().StringVar(&flagParseFile, "file", "", "HTML file or pre-extracted text dump to parse")
	cmd.Flags().StringVar(&flagParsePDF, "pdf", "", "PDF bracket to parse")
	cmd.Flags().StringVar(&flagSource, "source", "manual", "Canonicalization namespace")
	cmd.Flags().IntVar(&flagDivision, "division", 1, "Division number")

	return cmd
}

// newLogger builds the logger for one invocation. Verbose runs log per-line
// parser transitions; normal runs log at info and above.
func newLogger() *logger.Logger {
	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	return logger.New(level, os.Stderr)
}

func loadRegistry() (*source.Registry, error) {
	if flagRegistry != "" {
		return source.LoadRegistry(flagRegistry, flagYear)
	}
	return source.DefaultRegistry(flagYear), nil
}

// runCheck is the main aggregation flow: fetch, parse, diff, persist, report.
func runCheck(cmd *cobra.Command, args []string) error {
	name := strings.ToLower(strings.TrimSpace(flagSource))
	if name == "" {
		return fmt.Errorf("--source is required")
	}

	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	log := newLogger()

	registry, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	var names []string
	if name == "all" {
		names = registry.Names()
	} else {
		if _, ok := registry.Get(name); !ok {
			return fmt.Errorf("unknown source: %s (known: %s)", name, strings.Join(registry.Names(), ", "))
		}
		names = []string{name}
	}

	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	fetcher := scraper.NewFetcher()

	result := &OutputResult{
		CheckedAt: time.Now().UTC(),
		Sources:   names,
		ByLeague:  make(map[string][]*game.Game),
	}

	for _, srcName := range names {
		def, _ := registry.Get(srcName)
		src, err := source.NewBracketSource(def, log)
		if err != nil {
			return fmt.Errorf("building source %s: %w", srcName, err)
		}

		start := time.Now()
		games, err := src.FetchGames(cmd.Context(), fetcher)
		if err != nil {
			return fmt.Errorf("fetching %s: %w", srcName, err)
		}
		log.Info("source scraped", logger.Fields{
			"source":   srcName,
			"games":    len(games),
			"duration": time.Since(start).String(),
		})

		var previous *game.Snapshot
		if !flagRefresh {
			previous, err = store.LoadSnapshot(srcName)
			if err != nil {
				return fmt.Errorf("loading snapshot: %w", err)
			}
		}

		diff := game.Diff(previous, games)

		if err := store.CreateSnapshotFromGames(games, srcName); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}

		result.NewGames = append(result.NewGames, diff.NewGames...)
		for league, leagueGames := range diff.Leagues {
			result.ByLeague[league] = append(result.ByLeague[league], leagueGames...)
		}
	}
	result.GameCount = len(result.NewGames)

	// In refresh mode, don't report new games
	if flagRefresh {
		if format == FormatText {
			fmt.Println("Snapshots refreshed successfully.")
		} else {
			result.NewGames = nil
			result.GameCount = 0
			result.ByLeague = nil
			WriteOutput(os.Stdout, result, format, flagVerbose) // nolint:errcheck
		}
		return nil
	}

	if err := WriteOutput(os.Stdout, result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if len(result.NewGames) > 0 {
		os.Exit(ExitNewGames)
	}
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	registry, err := loadRegistry()
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}

	store, err := storage.New(flagDataDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	srv := api.NewServer(store, registry.Names(), log)
	log.Info("serving games", logger.Fields{"addr": flagAddr})
	return http.ListenAndServe(flagAddr, srv.Router())
}

// defaultYear returns the tournament year the current date falls in. State
// playoffs run February-March; from August on, the upcoming tournament is
// next calendar year.
func defaultYear() int {
	now := time.Now()
	if now.Month() >= time.August {
		return now.Year() + 1
	}
	return now.Year()
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
