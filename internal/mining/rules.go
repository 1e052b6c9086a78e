package mining

import (
	"strconv"
	"strings"
)

// Rule is an association rule between two disjoint itemsets.
type Rule struct {
	Antecedent []int
	Consequent []int
	Count      int     // transactions containing antecedent and consequent
	Support    float64 // P(A ∪ C)
	Confidence float64 // P(C|A) = support(A ∪ C) / support(A)
	Lift       float64 // confidence / support(C)
}

// GenerateRules derives every rule A -> C from the frequent itemsets, where A and
// C partition a frequent itemset and both are non-empty, keeping rules whose
// confidence reaches minConfidence. Every subset of a frequent itemset must also be
// present in itemsets, which FrequentItemsets guarantees.
func GenerateRules(itemsets []Itemset, total int, minConfidence float64) []Rule {
	if total == 0 {
		return nil
	}

	counts := make(map[string]int, len(itemsets))
	for _, is := range itemsets {
		counts[itemsKey(is.Items)] = is.Count
	}

	var rules []Rule
	for _, is := range itemsets {
		n := len(is.Items)
		if n < 2 {
			continue
		}

		for mask := 1; mask < 1<<n-1; mask++ {
			antecedent := make([]int, 0, n)
			consequent := make([]int, 0, n)
			for k, item := range is.Items {
				if mask&(1<<k) != 0 {
					antecedent = append(antecedent, item)
				} else {
					consequent = append(consequent, item)
				}
			}

			antecedentCount, ok := counts[itemsKey(antecedent)]
			if !ok || antecedentCount == 0 {
				continue
			}
			consequentCount, ok := counts[itemsKey(consequent)]
			if !ok || consequentCount == 0 {
				continue
			}

			confidence := float64(is.Count) / float64(antecedentCount)
			if confidence < minConfidence {
				continue
			}

			support := float64(is.Count) / float64(total)
			consequentSupport := float64(consequentCount) / float64(total)

			rules = append(rules, Rule{
				Antecedent: antecedent,
				Consequent: consequent,
				Count:      is.Count,
				Support:    support,
				Confidence: confidence,
				Lift:       confidence / consequentSupport,
			})
		}
	}
	return rules
}

func itemsKey(items []int) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(item))
	}
	return b.String()
}
