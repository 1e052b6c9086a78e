package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/internal/output"
)

// TagsCmd returns the tags command.
func TagsCmd() *cli.Command {
	flags := append(ruleSourceFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	)

	return &cli.Command{
		Name:   "tags",
		Usage:  "List the themes and genres that occur in a rule table",
		Flags:  flags,
		Action: tagsAction,
	}
}

func tagsAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	table, source, err := loadRuleTable(c.Context, c, cfg)
	if err != nil {
		return err
	}

	return writeTagReport(c, &output.TagReport{
		Source: source,
		Themes: table.AvailableThemes(),
		Genres: table.AvailableGenres(),
	})
}
