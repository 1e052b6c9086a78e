package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/config"
	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/output"
)

// Version is the application version reported by --version and the serve API.
const Version = "1.0.0"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gamerules",
		Usage:   "Association rules between game themes, genres and review scores",
		Version: Version,
		Commands: []*cli.Command{
			MineCmd(),
			FilterCmd(),
			TagsCmd(),
			PairsCmd(),
			ServeCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (trace, debug, info, warn, error, disabled)",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "Log format (console, json)",
			},
		},
	}
}

// Flags for commands that read the game catalog
func catalogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "catalog",
			Usage: "Glob patterns of catalog JSON files (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns to exclude (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Read catalog files from this Git repository",
		},
		&cli.StringFlag{
			Name:  "revision",
			Usage: "Git revision to read the catalog at (with --repo)",
		},
		&cli.StringFlag{
			Name:  "vocabulary",
			Usage: "YAML file with genre and theme lists (default: built-in)",
		},
		&cli.IntFlag{
			Name:  "min-reviews",
			Usage: "Minimum total reviews for a game to be included",
		},
	}
}

// Flags for commands that read a persisted rule table
func ruleSourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "rules",
			Usage: "Rule CSV file or snapshot directory (default: configured output dir)",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "Read rules from this SQLite snapshot instead of CSV",
		},
		&cli.StringFlag{
			Name:  "run",
			Usage: "Snapshot run ID (with --db, default: latest)",
		},
	}
}

// Flags for commands that write a report
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ci)",
			Value:   "console",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of top results to show (0 for all)",
			Value:   50,
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	}
}

// getOutputFormat parses the output format flag.
func getOutputFormat(s string) output.OutputFormat {
	switch s {
	case "json":
		return output.FormatJSON
	case "csv":
		return output.FormatCSV
	case "markdown", "md":
		return output.FormatMarkdown
	case "ci", "ndjson":
		return output.FormatCI
	default:
		return output.FormatConsole
	}
}

// loadConfig loads configuration from file or defaults, applies CLI overrides,
// validates the result and configures logging.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyOverrides(c, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}

// applyOverrides copies explicitly set flags into the configuration.
// Flags a command does not define are never set, so every command can share it.
func applyOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}

	// Catalog
	if patterns := c.StringSlice("catalog"); len(patterns) > 0 {
		cfg.Catalog.Patterns = patterns
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Catalog.Exclude = excludes
	}
	if c.IsSet("repo") {
		cfg.Catalog.RepoPath = c.String("repo")
	}
	if c.IsSet("revision") {
		cfg.Catalog.Revision = c.String("revision")
	}
	if c.IsSet("vocabulary") {
		cfg.Vocabulary = c.String("vocabulary")
	}
	if c.IsSet("min-reviews") {
		cfg.Features.MinReviews = c.Int("min-reviews")
	}

	// Mining
	if c.IsSet("min-occurrences") {
		cfg.Mining.MinOccurrences = c.Int("min-occurrences")
	}
	if c.IsSet("min-support") {
		cfg.Mining.MinSupport = c.Float64("min-support")
	}
	if c.IsSet("min-confidence") {
		cfg.Mining.MinConfidence = c.Float64("min-confidence")
	}
	if c.IsSet("max-len") {
		cfg.Mining.MaxLen = c.Int("max-len")
	}
	if c.IsSet("exact-occurrences") {
		cfg.Mining.ExactOccurrences = c.Bool("exact-occurrences")
	}
	if c.IsSet("out-dir") {
		cfg.Output.Dir = c.String("out-dir")
	}
	if c.IsSet("db") {
		cfg.Output.Database = c.String("db")
	}

	// Pairs
	if c.IsSet("min-pair-games") {
		cfg.Pairs.MinOccurrences = c.Int("min-pair-games")
	}

	// Server
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	if origins := c.StringSlice("allow-origin"); len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}
	if c.IsSet("rate-limit") {
		cfg.Server.RateLimit = c.Int("rate-limit")
	}
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
