package cmd

import (
	"fmt"
	"math"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gamerules/internal/filter"
	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/metrics"
	"github.com/masmgr/gamerules/internal/output"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

// FilterCmd returns the filter command.
func FilterCmd() *cli.Command {
	flags := append(ruleSourceFlags(), reportFlags()...)
	flags = append(flags, rangeFlags("occurrences", "rule occurrences")...)
	flags = append(flags, rangeFlags("confidence", "rule confidence")...)
	flags = append(flags, rangeFlags("lift", "rule lift")...)
	flags = append(flags, rangeFlags("score", "review score (lower bound of the antecedent's bin)")...)
	flags = append(flags,
		&cli.StringSliceFlag{
			Name:  "theme",
			Usage: "Selected theme (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "genre",
			Usage: "Selected genre (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "direction",
			Aliases: []string{"d"},
			Usage:   "Rule direction (all, themes>genres, genres>themes)",
			Value:   "all",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "Order by lift, confidence, occurrences or support",
		},
	)

	return &cli.Command{
		Name:    "filter",
		Aliases: []string{"f"},
		Usage:   "Filter a mined rule table",
		Flags:   flags,
		Action:  filterAction,
	}
}

func rangeFlags(name, what string) []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "min-" + name,
			Usage: "Minimum " + what,
		},
		&cli.Float64Flag{
			Name:  "max-" + name,
			Usage: "Maximum " + what,
		},
	}
}

// rangeFlag reads a min/max flag pair; unset bounds stay open.
func rangeFlag(c *cli.Context, name string) (filter.Range, error) {
	r := filter.Unbounded()
	if c.IsSet("min-" + name) {
		r.Min = c.Float64("min-" + name)
	}
	if c.IsSet("max-" + name) {
		r.Max = c.Float64("max-" + name)
	}
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
		return r, fmt.Errorf("invalid %s range %s", name, r)
	}
	return r, nil
}

// predicatesFromFlags builds filter predicates from CLI flags.
func predicatesFromFlags(c *cli.Context) (filter.Predicates, error) {
	p := filter.DefaultPredicates()

	var err error
	if p.Occurrences, err = rangeFlag(c, "occurrences"); err != nil {
		return p, err
	}
	if p.Confidence, err = rangeFlag(c, "confidence"); err != nil {
		return p, err
	}
	if p.Lift, err = rangeFlag(c, "lift"); err != nil {
		return p, err
	}
	if p.ReviewScore, err = rangeFlag(c, "score"); err != nil {
		return p, err
	}
	if p.Direction, err = filter.ParseDirection(c.String("direction")); err != nil {
		return p, err
	}

	for _, th := range c.StringSlice("theme") {
		p.Themes = append(p.Themes, tags.Theme(th))
	}
	for _, g := range c.StringSlice("genre") {
		p.Genres = append(p.Genres, tags.Genre(g))
	}
	return p, nil
}

func filterAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	predicates, err := predicatesFromFlags(c)
	if err != nil {
		return err
	}
	sortKey, err := rules.ParseSortKey(c.String("sort"))
	if err != nil {
		return err
	}

	table, source, err := loadRuleTable(c.Context, c, cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	matched := filter.Apply(table.Rules, predicates)
	metrics.RecordFilter(time.Since(start), len(matched))
	logging.Debug().
		Str("filter", predicates.Describe()).
		Int("rules", table.Len()).
		Int("matched", len(matched)).
		Msg("rules filtered")

	report := &output.RuleReport{
		Source:       source,
		GeneratedAt:  time.Now(),
		Transactions: table.Transactions,
		TotalRules:   table.Len(),
		Rules:        rules.Sorted(matched, sortKey),
	}
	if !predicates.IsPermissive() {
		report.Filter = predicates.Describe()
	}
	return writeRuleReport(c, report)
}
