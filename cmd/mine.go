package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/metrics"
	"github.com/masmgr/gamerules/internal/mining"
	"github.com/masmgr/gamerules/internal/output"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/snapshot"
)

// MineCmd returns the mine command.
func MineCmd() *cli.Command {
	flags := append(catalogFlags(), reportFlags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:  "min-occurrences",
			Usage: "Minimum number of games an itemset must appear in",
			Value: mining.DefaultMinOccurrences,
		},
		&cli.Float64Flag{
			Name:  "min-support",
			Usage: "Minimum relative support (overrides --min-occurrences)",
		},
		&cli.Float64Flag{
			Name:  "min-confidence",
			Usage: "Minimum rule confidence",
			Value: 0.5,
		},
		&cli.IntFlag{
			Name:  "max-len",
			Usage: "Maximum itemset size (0 for unlimited)",
		},
		&cli.BoolFlag{
			Name:  "exact-occurrences",
			Usage: "Report occurrences as round(support*N) instead of round(support*N)-1",
		},
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "Directory for the rule and one-hot CSV tables",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "Also store the run in this SQLite snapshot",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Order the report by lift, confidence, occurrences or support",
		},
	)

	return &cli.Command{
		Name:    "mine",
		Aliases: []string{"m"},
		Usage:   "Mine association rules from the game catalog",
		Flags:   flags,
		Action:  mineAction,
	}
}

func mineAction(c *cli.Context) error {
	sortKey, err := rules.ParseSortKey(c.String("sort"))
	if err != nil {
		return err
	}

	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		cfg := ctx.Config
		enc := ctx.Encoded
		rows := enc.Transactions.Len()

		minSupport := cfg.Mining.MinSupport
		if minSupport <= 0 {
			minSupport = mining.MinSupportFor(cfg.Mining.MinOccurrences, rows)
		}

		// Mine
		start := time.Now()
		miner := mining.NewMiner(mining.Options{
			MinSupport:    minSupport,
			MinConfidence: cfg.Mining.MinConfidence,
			MaxLen:        cfg.Mining.MaxLen,
		})
		result := miner.Mine(enc.Transactions.Transactions())
		metrics.RecordStage("mine", time.Since(start))

		// Post-process
		start = time.Now()
		processor := rules.NewProcessor(enc.Transactions.Columns, rules.Options{
			ExactOccurrences: cfg.Mining.ExactOccurrences,
		})
		table := processor.Process(result)
		metrics.RecordStage("process", time.Since(start))

		// Persist
		start = time.Now()
		if err := snapshot.WriteCSV(cfg.Output.Dir, table, enc); err != nil {
			return err
		}
		if cfg.Output.Database != "" {
			store, err := snapshot.OpenSQLite(cfg.Output.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.SaveRun(c.Context, snapshot.RunParams{
				MinSupport:    minSupport,
				MinConfidence: cfg.Mining.MinConfidence,
			}, table, enc.Records)
			if err != nil {
				return fmt.Errorf("failed to store run: %w", err)
			}
			logging.Info().Str("run", run.ID).Str("database", cfg.Output.Database).Msg("run stored")
		}
		metrics.RecordStage("persist", time.Since(start))

		printMineSummary(ctx, minSupport, len(result.Itemsets), len(result.Rules), table)

		report := &output.RuleReport{
			Source:       ctx.Source,
			GeneratedAt:  time.Now(),
			Transactions: table.Transactions,
			TotalRules:   table.Len(),
			Rules:        rules.Sorted(table.Rules, sortKey),
		}
		return writeRuleReport(c, report)
	})
}

// printMineSummary writes a short colored summary to stderr so it never mixes
// with a report written to stdout.
func printMineSummary(ctx *CommandContext, minSupport float64, itemsets, mined int, table *rules.Table) {
	color.New(color.FgGreen).Fprintf(os.Stderr, "Mined %s\n", ctx.Source)
	fmt.Fprintf(os.Stderr, "  games: %d (dropped %d below %d reviews)\n",
		len(ctx.Encoded.Records), ctx.Encoded.Dropped, ctx.Config.Features.MinReviews)
	fmt.Fprintf(os.Stderr, "  min support: %.6f, min confidence: %.2f\n", minSupport, ctx.Config.Mining.MinConfidence)
	fmt.Fprintf(os.Stderr, "  itemsets: %d, rules: %d, kept with review antecedent: %d\n", itemsets, mined, table.Len())
	color.New(color.FgCyan).Fprintf(os.Stderr, "  tables written to %s\n", ctx.Config.Output.Dir)
}
