package output

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
)

// CIRuleWriter writes rule reports as NDJSON (one JSON object per line) for pipelines.
type CIRuleWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type          string  `json:"type"`
	Transactions  int     `json:"transactions"`
	TotalRules    int     `json:"totalRules"`
	MatchedRules  int     `json:"matchedRules"`
	MaxLift       float64 `json:"maxLift"`
	MaxConfidence float64 `json:"maxConfidence"`
}

// CIRuleEntry represents a single rule in CI output.
type CIRuleEntry struct {
	Type        string  `json:"type"`
	Antecedents string  `json:"antecedents"`
	Consequents string  `json:"consequents"`
	Occurrences int     `json:"occurrences"`
	Confidence  float64 `json:"confidence"`
	Lift        float64 `json:"lift"`
}

// Write outputs the rule report as NDJSON.
func (w *CIRuleWriter) Write(report *RuleReport, options OutputOptions) error {
	items := limitTop(report.Rules, options.Top)

	out, file, err := openOutputWriter(options.OutputPath)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	summary := CISummary{
		Type:         "summary",
		Transactions: report.Transactions,
		TotalRules:   report.TotalRules,
		MatchedRules: len(report.Rules),
	}
	for _, r := range report.Rules {
		if r.Lift > summary.MaxLift {
			summary.MaxLift = r.Lift
		}
		if r.Confidence > summary.MaxConfidence {
			summary.MaxConfidence = r.Confidence
		}
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, r := range items {
		entry := CIRuleEntry{
			Type:        "rule",
			Antecedents: r.AntecedentsLabel,
			Consequents: r.ConsequentsLabel,
			Occurrences: r.Occurrences,
			Confidence:  r.Confidence,
			Lift:        r.Lift,
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
