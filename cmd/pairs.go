package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/internal/output"
	"github.com/masmgr/gamerules/internal/pairs"
)

// PairsCmd returns the pairs command.
func PairsCmd() *cli.Command {
	flags := append(catalogFlags(), reportFlags()...)
	flags = append(flags,
		&cli.IntFlag{
			Name:  "min-pair-games",
			Usage: "Report only pairs carried by more than this many games",
			Value: pairs.DefaultMinOccurrences,
		},
	)

	return &cli.Command{
		Name:   "pairs",
		Usage:  "Average review score of every theme x genre pair",
		Flags:  flags,
		Action: pairsAction,
	}
}

func pairsAction(c *cli.Context) error {
	return executeWithContext(c, func(ctx *CommandContext, c *cli.Context) error {
		minOccurrences := ctx.Config.Pairs.MinOccurrences
		result := pairs.NewAggregator(minOccurrences).Aggregate(ctx.Encoded.Records)

		report := &output.PairReport{
			Source:         ctx.Source,
			GeneratedAt:    time.Now(),
			Games:          len(ctx.Encoded.Records),
			MinOccurrences: minOccurrences,
			Result:         result,
		}
		return writePairReport(c, report)
	})
}
