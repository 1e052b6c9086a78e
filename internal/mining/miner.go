package mining

import (
	"time"

	"github.com/masmgr/gamerules/internal/logging"
)

// Options configures a mining run.
type Options struct {
	MinSupport    float64 // fraction of transactions, inclusive
	MinConfidence float64 // inclusive
	MaxLen        int     // largest itemset size, 0 for unlimited
}

// DefaultMinOccurrences is the support threshold expressed as a transaction count.
const DefaultMinOccurrences = 25

// MinSupportFor converts an occurrence threshold into a relative support for a
// table with the given number of rows.
func MinSupportFor(minOccurrences, rows int) float64 {
	if rows <= 0 {
		return 0
	}
	return float64(minOccurrences) / float64(rows)
}

// Result holds the frequent itemsets and rules of one mining run.
type Result struct {
	Itemsets     []Itemset
	Rules        []Rule
	Transactions int
}

// Miner runs frequent-itemset mining followed by rule generation.
type Miner struct {
	options Options
}

// NewMiner creates a new miner.
func NewMiner(options Options) *Miner {
	return &Miner{options: options}
}

// Mine mines the transactions. An empty input, or one where nothing reaches the
// support threshold, yields an empty result.
func (m *Miner) Mine(transactions [][]int) Result {
	start := time.Now()
	total := len(transactions)
	result := Result{Transactions: total}
	if total == 0 {
		return result
	}

	minCount := MinCount(m.options.MinSupport, total)
	result.Itemsets = FrequentItemsets(transactions, minCount, m.options.MaxLen)
	result.Rules = GenerateRules(result.Itemsets, total, m.options.MinConfidence)

	logging.Debug().
		Int("transactions", total).
		Int("min_count", minCount).
		Int("itemsets", len(result.Itemsets)).
		Int("rules", len(result.Rules)).
		Dur("elapsed", time.Since(start)).
		Msg("mining finished")
	return result
}
