package rules

import (
	"github.com/masmgr/gamerules/internal/logging"
	"github.com/masmgr/gamerules/internal/mining"
	"github.com/masmgr/gamerules/internal/tags"
)

// Options configures post-processing.
type Options struct {
	// ExactOccurrences drops the -1 from the occurrence formula.
	ExactOccurrences bool
}

// Processor turns raw mined rules into a rule table.
type Processor struct {
	columns []tags.Item
	options Options
}

// NewProcessor creates a processor. columns maps the miner's item indices to items.
func NewProcessor(columns []tags.Item, options Options) *Processor {
	return &Processor{columns: columns, options: options}
}

// Process converts the mined rules, keeping only those whose antecedent holds a
// review bin. Miner order is preserved.
func (p *Processor) Process(result mining.Result) *Table {
	table := &Table{Transactions: result.Transactions}

	discarded := 0
	for _, mr := range result.Rules {
		antecedents := p.itemSet(mr.Antecedent)
		if antecedents.Count(tags.KindReviewBin) == 0 {
			discarded++
			continue
		}
		consequents := p.itemSet(mr.Consequent)

		table.Rules = append(table.Rules, Restore(
			antecedents,
			consequents,
			mr.Support,
			mr.Confidence,
			mr.Lift,
			mr.Count,
			Occurrences(mr.Support, result.Transactions, p.options.ExactOccurrences),
		))
	}

	logging.Info().
		Int("rules", len(table.Rules)).
		Int("discarded", discarded).
		Msg("rules post-processed")
	return table
}

func (p *Processor) itemSet(indices []int) tags.ItemSet {
	items := make([]tags.Item, len(indices))
	for i, idx := range indices {
		items[i] = p.columns[idx]
	}
	return tags.NewItemSet(items...)
}
