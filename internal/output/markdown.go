package output

import (
	"fmt"
	"strings"
)

// MarkdownRuleWriter writes rule reports as Markdown.
type MarkdownRuleWriter struct{}

// Write outputs the rule report as Markdown.
func (w *MarkdownRuleWriter) Write(report *RuleReport, options OutputOptions) error {
	items := limitTop(report.Rules, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	// Header
	fmt.Fprintln(out, "# Association Rule Results")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Source:** %s\n\n", escapeMarkdown(report.Source))
	fmt.Fprintf(out, "**Filter:** %s\n\n", escapeMarkdown(filterLabel(report.Filter)))
	fmt.Fprintf(out, "**Generated:** %s\n\n", report.GeneratedAt.Format(reportDateTimeLayout))
	fmt.Fprintf(out, "**Transactions:** %d | **Rules:** %d of %d\n\n", report.Transactions, len(report.Rules), report.TotalRules)

	if len(items) == 0 {
		fmt.Fprintln(out, "_No rules match._")
		return nil
	}

	// Table header
	fmt.Fprintln(out, "## Rules")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Antecedents | Consequents | Occurrences | Confidence | Lift |")
	fmt.Fprintln(out, "|---|-------------|-------------|-------------|------------|------|")

	// Table rows
	for i, r := range items {
		fmt.Fprintf(out, "| %d | %s | %s | %d | %.3f | %.2f |\n",
			i+1, escapeMarkdown(r.AntecedentsLabel), escapeMarkdown(r.ConsequentsLabel),
			r.Occurrences, r.Confidence, r.Lift)
	}

	return nil
}

// MarkdownPairWriter writes pair reports as Markdown.
type MarkdownPairWriter struct{}

// Write outputs the pair report as Markdown.
func (w *MarkdownPairWriter) Write(report *PairReport, options OutputOptions) error {
	items := limitTop(report.Result.Pairs, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Theme x Genre Review Averages")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Source:** %s\n\n", escapeMarkdown(report.Source))
	fmt.Fprintf(out, "**Games:** %d | **Minimum games per pair:** more than %d\n\n", report.Games, report.MinOccurrences)

	fmt.Fprintln(out, "| # | Genre | Theme | Average | Games |")
	fmt.Fprintln(out, "|---|-------|-------|---------|-------|")
	for i, p := range items {
		fmt.Fprintf(out, "| %d | %s | %s | %.2f | %d |\n",
			i+1, escapeMarkdown(string(p.Genre)), escapeMarkdown(string(p.Theme)), p.Average, p.Occurrences)
	}

	return nil
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
