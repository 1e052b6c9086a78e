package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

// JSONItem is the JSON output structure for one rule item.
type JSONItem struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
}

// JSONReviewBin is the JSON output structure for a review bin.
type JSONReviewBin struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// JSONRule is the JSON output structure for a single rule.
type JSONRule struct {
	Antecedents      []JSONItem     `json:"antecedents"`
	Consequents      []JSONItem     `json:"consequents"`
	AntecedentsLabel string         `json:"antecedentsLabel"`
	ConsequentsLabel string         `json:"consequentsLabel"`
	Support          float64        `json:"support"`
	Confidence       float64        `json:"confidence"`
	Lift             float64        `json:"lift"`
	Count            int            `json:"count"`
	Occurrences      int            `json:"occurrences"`
	ReviewBin        *JSONReviewBin `json:"reviewBin,omitempty"`
}

// NewJSONRule converts a rule to its JSON form.
func NewJSONRule(r rules.Rule) JSONRule {
	jr := JSONRule{
		Antecedents:      jsonItems(r.Antecedents),
		Consequents:      jsonItems(r.Consequents),
		AntecedentsLabel: r.AntecedentsLabel,
		ConsequentsLabel: r.ConsequentsLabel,
		Support:          r.Support,
		Confidence:       r.Confidence,
		Lift:             r.Lift,
		Count:            r.Count,
		Occurrences:      r.Occurrences,
	}
	if r.ReviewBin != nil {
		jr.ReviewBin = &JSONReviewBin{Low: r.ReviewBin.Low, High: r.ReviewBin.High}
	}
	return jr
}

// NewJSONRules converts rules to their JSON form. The result is never nil.
func NewJSONRules(rs []rules.Rule) []JSONRule {
	out := make([]JSONRule, len(rs))
	for i, r := range rs {
		out[i] = NewJSONRule(r)
	}
	return out
}

func jsonItems(s tags.ItemSet) []JSONItem {
	items := make([]JSONItem, len(s))
	for i, item := range s {
		items[i] = JSONItem{Kind: item.Kind.String(), Label: item.Label}
	}
	return items
}

// JSONRuleWriter writes rule reports as JSON.
type JSONRuleWriter struct{}

// JSONRuleReport is the JSON output structure for a rule report.
type JSONRuleReport struct {
	Source       string     `json:"source"`
	Filter       string     `json:"filter,omitempty"`
	GeneratedAt  string     `json:"generatedAt"`
	Transactions int        `json:"transactions"`
	TotalRules   int        `json:"totalRules"`
	MatchedRules int        `json:"matchedRules"`
	Items        []JSONRule `json:"items"`
}

// Write outputs the rule report as JSON.
func (w *JSONRuleWriter) Write(report *RuleReport, options OutputOptions) error {
	items := limitTop(report.Rules, options.Top)

	jsonReport := JSONRuleReport{
		Source:       report.Source,
		Filter:       report.Filter,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		Transactions: report.Transactions,
		TotalRules:   report.TotalRules,
		MatchedRules: len(report.Rules),
		Items:        NewJSONRules(items),
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONPairWriter writes pair reports as JSON.
type JSONPairWriter struct{}

// JSONPairReport is the JSON output structure for a pair report.
type JSONPairReport struct {
	Source         string            `json:"source"`
	GeneratedAt    string            `json:"generatedAt"`
	Games          int               `json:"games"`
	MinOccurrences int               `json:"minOccurrences"`
	Genres         []JSONGenreMean   `json:"genres"`
	Items          []JSONPairAverage `json:"items"`
}

// JSONGenreMean is the JSON output structure for a genre's mean average.
type JSONGenreMean struct {
	Genre string  `json:"genre"`
	Mean  float64 `json:"mean"`
	Pairs int     `json:"pairs"`
}

// JSONPairAverage is the JSON output structure for a single pair.
type JSONPairAverage struct {
	Theme       string  `json:"theme"`
	Genre       string  `json:"genre"`
	Average     float64 `json:"average"`
	Occurrences int     `json:"occurrences"`
}

// Write outputs the pair report as JSON.
func (w *JSONPairWriter) Write(report *PairReport, options OutputOptions) error {
	items := limitTop(report.Result.Pairs, options.Top)

	jsonItems := make([]JSONPairAverage, len(items))
	for i, p := range items {
		jsonItems[i] = JSONPairAverage{
			Theme:       string(p.Theme),
			Genre:       string(p.Genre),
			Average:     p.Average,
			Occurrences: p.Occurrences,
		}
	}
	genres := make([]JSONGenreMean, len(report.Result.Genres))
	for i, g := range report.Result.Genres {
		genres[i] = JSONGenreMean{Genre: string(g.Genre), Mean: g.Mean, Pairs: g.Pairs}
	}

	jsonReport := JSONPairReport{
		Source:         report.Source,
		GeneratedAt:    report.GeneratedAt.Format(time.RFC3339),
		Games:          report.Games,
		MinOccurrences: report.MinOccurrences,
		Genres:         genres,
		Items:          jsonItems,
	}

	return writeJSON(jsonReport, options.OutputPath)
}

// JSONTagWriter writes tag reports as JSON.
type JSONTagWriter struct{}

// JSONTagReport is the JSON output structure for a tag report.
type JSONTagReport struct {
	Source string   `json:"source"`
	Themes []string `json:"themes"`
	Genres []string `json:"genres"`
}

// Write outputs the tag report as JSON.
func (w *JSONTagWriter) Write(report *TagReport, options OutputOptions) error {
	jsonReport := JSONTagReport{
		Source: report.Source,
		Themes: make([]string, len(report.Themes)),
		Genres: make([]string, len(report.Genres)),
	}
	for i, t := range report.Themes {
		jsonReport.Themes[i] = string(t)
	}
	for i, g := range report.Genres {
		jsonReport.Genres[i] = string(g)
	}

	return writeJSON(jsonReport, options.OutputPath)
}

func writeJSON(data interface{}, outputPath string) error {
	var out io.Writer = os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
