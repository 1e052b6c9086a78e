package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/internal/output"
)

func writeRuleReport(c *cli.Context, report *output.RuleReport) error {
	opts := OutputOptions(c)
	writer := output.NewRuleReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writePairReport(c *cli.Context, report *output.PairReport) error {
	opts := OutputOptions(c)
	writer := output.NewPairReportWriter(opts.Format)
	return writer.Write(report, opts)
}

func writeTagReport(c *cli.Context, report *output.TagReport) error {
	opts := OutputOptions(c)
	writer := output.NewTagReportWriter(opts.Format)
	return writer.Write(report, opts)
}
