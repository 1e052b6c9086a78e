package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/config"
	"github.com/masmgr/gamerules/internal/catalog"
	"github.com/masmgr/gamerules/internal/features"
	"github.com/masmgr/gamerules/internal/metrics"
	"github.com/masmgr/gamerules/internal/output"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/snapshot"
	"github.com/masmgr/gamerules/internal/tags"
)

// CommandContext holds common state for commands that start from the catalog.
// It encapsulates configuration loading, catalog reading and feature encoding.
type CommandContext struct {
	Config  *config.Config
	Source  string // human-readable catalog location
	Catalog *catalog.Catalog
	Encoded *features.Encoded
}

// NewCommandContext creates a context from CLI flags.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	classifier, err := newClassifier(cfg.Vocabulary)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	cat, err := catalog.Load(c.Context, catalog.NewSource(catalog.ReadOptions{
		Patterns: cfg.Catalog.Patterns,
		Exclude:  cfg.Catalog.Exclude,
		RepoPath: cfg.Catalog.RepoPath,
		Revision: cfg.Catalog.Revision,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	metrics.RecordStage("load", time.Since(start))

	start = time.Now()
	encoder := features.NewEncoder(classifier, features.Options{
		MinReviews:   cfg.Features.MinReviews,
		NeutralScore: cfg.Features.NeutralScore,
	})
	encoded, err := encoder.Encode(cat.Games)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	metrics.RecordStage("encode", time.Since(start))

	return &CommandContext{
		Config:  cfg,
		Source:  catalogLabel(cfg.Catalog),
		Catalog: cat,
		Encoded: encoded,
	}, nil
}

// HasGames returns true if any game survived the review-count filter.
func (ctx *CommandContext) HasGames() bool {
	return len(ctx.Encoded.Records) > 0
}

// PrintNoGamesMessage prints a message when no game is left to mine.
func (ctx *CommandContext) PrintNoGamesMessage() {
	fmt.Printf("No games with at least %d reviews found in %s.\n", ctx.Config.Features.MinReviews, ctx.Source)
}

// executeWithContext builds the command context and runs fn, or prints a notice
// when the catalog has no usable games.
func executeWithContext(c *cli.Context, fn func(ctx *CommandContext, c *cli.Context) error) error {
	ctx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	if !ctx.HasGames() {
		ctx.PrintNoGamesMessage()
		return nil
	}
	return fn(ctx, c)
}

func newClassifier(vocabularyPath string) (*tags.Classifier, error) {
	if vocabularyPath == "" {
		return tags.NewClassifier(tags.DefaultVocabulary()), nil
	}
	vocab, err := tags.LoadVocabulary(vocabularyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabulary: %w", err)
	}
	return tags.NewClassifier(vocab), nil
}

func catalogLabel(cfg config.CatalogConfig) string {
	patterns := strings.Join(cfg.Patterns, ", ")
	if cfg.RepoPath == "" {
		return patterns
	}
	return fmt.Sprintf("%s@%s: %s", cfg.RepoPath, cfg.Revision, patterns)
}

// loadRuleTable reads a persisted rule table from SQLite when a database is
// configured, otherwise from the rule CSV.
func loadRuleTable(ctx context.Context, c *cli.Context, cfg *config.Config) (*rules.Table, string, error) {
	if db := cfg.Output.Database; db != "" {
		store, err := snapshot.OpenSQLite(db)
		if err != nil {
			return nil, "", err
		}
		defer store.Close()

		table, err := store.LoadRules(ctx, c.String("run"))
		if err != nil {
			return nil, "", fmt.Errorf("failed to load rules from %s: %w", db, err)
		}
		return table, db, nil
	}

	path := c.String("rules")
	if path == "" {
		path = cfg.Output.Dir
	}
	table, err := snapshot.ReadRules(path)
	if err != nil {
		return nil, "", err
	}
	return table, path, nil
}

// OutputOptions creates OutputOptions from CLI flags.
func OutputOptions(c *cli.Context) output.OutputOptions {
	return output.OutputOptions{
		Format:     getOutputFormat(c.String("format")),
		Top:        c.Int("top"),
		OutputPath: c.String("output"),
	}
}
