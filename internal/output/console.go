package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

var headerColor = color.New(color.FgGreen)

// ConsoleRuleWriter writes rule reports to the console.
type ConsoleRuleWriter struct{}

// Write outputs the rule report to the console.
func (w *ConsoleRuleWriter) Write(report *RuleReport, options OutputOptions) error {
	items := limitTop(report.Rules, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headerColor.Fprintln(out, "Association Rule Results")
	fmt.Fprintf(out, "Source: %s\n", report.Source)
	fmt.Fprintf(out, "Filter: %s\n", filterLabel(report.Filter))
	fmt.Fprintf(out, "Transactions: %d, Rules: %d of %d\n\n", report.Transactions, len(report.Rules), report.TotalRules)

	if len(items) == 0 {
		fmt.Fprintln(out, "No rules match.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	// Write header
	fmt.Fprintln(tw, "#\tAntecedents\tConsequents\tOccurrences\tConfidence\tLift")

	// Write rows
	for i, r := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%.3f\t%s\n",
			i+1,
			truncateLabel(r.AntecedentsLabel, 60),
			truncateLabel(r.ConsequentsLabel, 40),
			r.Occurrences,
			r.Confidence,
			liftColor(r.Lift)("%.2f", r.Lift),
		)
	}

	return tw.Flush()
}

// ConsolePairWriter writes pair reports to the console.
type ConsolePairWriter struct{}

// Write outputs the pair report to the console.
func (w *ConsolePairWriter) Write(report *PairReport, options OutputOptions) error {
	items := limitTop(report.Result.Pairs, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headerColor.Fprintln(out, "Theme x Genre Review Averages")
	fmt.Fprintf(out, "Source: %s\n", report.Source)
	fmt.Fprintf(out, "Games: %d, Pairs with more than %d games: %d\n\n", report.Games, report.MinOccurrences, len(report.Result.Pairs))

	if len(items) == 0 {
		fmt.Fprintln(out, "No pairs reach the occurrence threshold.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tGenre\tTheme\tAverage\tGames")
	for i, p := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.2f\t%d\n", i+1, p.Genre, p.Theme, p.Average, p.Occurrences)
	}
	return tw.Flush()
}

// ConsoleTagWriter writes tag reports to the console.
type ConsoleTagWriter struct{}

// Write outputs the tag report to the console.
func (w *ConsoleTagWriter) Write(report *TagReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	headerColor.Fprintln(out, "Selectable Tags")
	fmt.Fprintf(out, "Source: %s\n\n", report.Source)

	themes := make([]string, len(report.Themes))
	for i, t := range report.Themes {
		themes[i] = string(t)
	}
	genres := make([]string, len(report.Genres))
	for i, g := range report.Genres {
		genres[i] = string(g)
	}

	writeTagList(out, "Themes", themes)
	fmt.Fprintln(out)
	writeTagList(out, "Genres", genres)
	return nil
}

func writeTagList(out io.Writer, title string, labels []string) {
	fmt.Fprintf(out, "%s (%d):\n", title, len(labels))
	if len(labels) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	fmt.Fprintf(out, "  %s\n", strings.Join(labels, ", "))
}

// Helper functions

func truncateLabel(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func liftColor(lift float64) func(string, ...interface{}) string {
	switch {
	case lift >= 2:
		return color.RedString
	case lift >= 1:
		return color.YellowString
	default:
		return color.CyanString
	}
}
