package output

import (
	"time"

	"github.com/masmgr/gamerules/internal/pairs"
	"github.com/masmgr/gamerules/internal/rules"
	"github.com/masmgr/gamerules/internal/tags"
)

// Compile-time interface conformance checks.
// These ensure that all writer types correctly implement their respective interfaces.
var (
	// RuleReportWriter implementations
	_ RuleReportWriter = (*ConsoleRuleWriter)(nil)
	_ RuleReportWriter = (*JSONRuleWriter)(nil)
	_ RuleReportWriter = (*CSVRuleWriter)(nil)
	_ RuleReportWriter = (*MarkdownRuleWriter)(nil)
	_ RuleReportWriter = (*CIRuleWriter)(nil)

	// PairReportWriter implementations
	_ PairReportWriter = (*ConsolePairWriter)(nil)
	_ PairReportWriter = (*JSONPairWriter)(nil)
	_ PairReportWriter = (*CSVPairWriter)(nil)
	_ PairReportWriter = (*MarkdownPairWriter)(nil)

	// TagReportWriter implementations
	_ TagReportWriter = (*ConsoleTagWriter)(nil)
	_ TagReportWriter = (*JSONTagWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
)

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
}

// RuleReport holds a rule table, filtered or not, for display.
type RuleReport struct {
	Source       string // catalog pattern, snapshot path or database
	Filter       string // predicate summary, empty when unfiltered
	GeneratedAt  time.Time
	Transactions int
	TotalRules   int // rules before filtering
	Rules        []rules.Rule
}

// PairReport holds theme x genre review averages.
type PairReport struct {
	Source         string
	GeneratedAt    time.Time
	Games          int
	MinOccurrences int
	Result         pairs.Result
}

// TagReport lists the themes and genres present in a rule table.
type TagReport struct {
	Source string
	Themes []tags.Theme
	Genres []tags.Genre
}

// RuleReportWriter writes rule reports.
type RuleReportWriter interface {
	Write(report *RuleReport, options OutputOptions) error
}

// PairReportWriter writes pair reports.
type PairReportWriter interface {
	Write(report *PairReport, options OutputOptions) error
}

// TagReportWriter writes tag reports.
type TagReportWriter interface {
	Write(report *TagReport, options OutputOptions) error
}

// NewRuleReportWriter creates a rule report writer for the specified format.
func NewRuleReportWriter(format OutputFormat) RuleReportWriter {
	switch format {
	case FormatJSON:
		return &JSONRuleWriter{}
	case FormatCSV:
		return &CSVRuleWriter{}
	case FormatMarkdown:
		return &MarkdownRuleWriter{}
	case FormatCI:
		return &CIRuleWriter{}
	default:
		return &ConsoleRuleWriter{}
	}
}

// NewPairReportWriter creates a pair report writer for the specified format.
func NewPairReportWriter(format OutputFormat) PairReportWriter {
	switch format {
	case FormatJSON:
		return &JSONPairWriter{}
	case FormatCSV:
		return &CSVPairWriter{}
	case FormatMarkdown:
		return &MarkdownPairWriter{}
	default:
		return &ConsolePairWriter{}
	}
}

// NewTagReportWriter creates a tag report writer for the specified format.
func NewTagReportWriter(format OutputFormat) TagReportWriter {
	switch format {
	case FormatJSON:
		return &JSONTagWriter{}
	default:
		return &ConsoleTagWriter{}
	}
}
