package mining

import (
	"math"
	"sort"
)

// Itemset is a frequent set of column indices with its support count.
type Itemset struct {
	Items []int // ascending
	Count int
}

// MinCount converts a relative support threshold into the smallest number of
// transactions an itemset must appear in. It is at least 1.
func MinCount(minSupport float64, total int) int {
	c := int(math.Ceil(minSupport*float64(total) - 1e-9))
	if c < 1 {
		return 1
	}
	return c
}

type fpNode struct {
	item     int
	count    int
	parent   *fpNode
	children map[int]*fpNode
	next     *fpNode // next node holding the same item
}

type weightedPattern struct {
	items []int
	count int
}

type fpTree struct {
	root   *fpNode
	heads  map[int]*fpNode
	counts map[int]int
	order  []int // frequent items, most frequent first
}

// newFPTree builds an FP-tree from weighted patterns, keeping only items whose
// weighted count reaches minCount.
func newFPTree(patterns []weightedPattern, minCount int) *fpTree {
	counts := make(map[int]int)
	for _, p := range patterns {
		for _, item := range p.items {
			counts[item] += p.count
		}
	}

	t := &fpTree{
		root:   &fpNode{item: -1, children: make(map[int]*fpNode)},
		heads:  make(map[int]*fpNode),
		counts: make(map[int]int),
	}
	for item, c := range counts {
		if c >= minCount {
			t.counts[item] = c
			t.order = append(t.order, item)
		}
	}
	sort.Slice(t.order, func(i, j int) bool {
		ci, cj := t.counts[t.order[i]], t.counts[t.order[j]]
		if ci != cj {
			return ci > cj
		}
		return t.order[i] < t.order[j]
	})

	rank := make(map[int]int, len(t.order))
	for i, item := range t.order {
		rank[item] = i
	}

	path := make([]int, 0, len(t.order))
	for _, p := range patterns {
		path = path[:0]
		for _, item := range p.items {
			if _, ok := rank[item]; ok {
				path = append(path, item)
			}
		}
		sort.Slice(path, func(i, j int) bool { return rank[path[i]] < rank[path[j]] })
		t.insert(path, p.count)
	}
	return t
}

func (t *fpTree) insert(path []int, count int) {
	node := t.root
	for _, item := range path {
		child, ok := node.children[item]
		if !ok {
			child = &fpNode{
				item:     item,
				parent:   node,
				children: make(map[int]*fpNode),
				next:     t.heads[item],
			}
			node.children[item] = child
			t.heads[item] = child
		}
		child.count += count
		node = child
	}
}

// mine emits every frequent itemset that extends suffix, growing from the least
// frequent item upward.
func (t *fpTree) mine(suffix []int, minCount, maxLen int, emit func(items []int, count int)) {
	for i := len(t.order) - 1; i >= 0; i-- {
		item := t.order[i]

		set := make([]int, len(suffix)+1)
		copy(set, suffix)
		set[len(suffix)] = item
		emit(set, t.counts[item])

		if maxLen > 0 && len(set) >= maxLen {
			continue
		}

		var base []weightedPattern
		for n := t.heads[item]; n != nil; n = n.next {
			var prefix []int
			for p := n.parent; p != nil && p != t.root; p = p.parent {
				prefix = append(prefix, p.item)
			}
			if len(prefix) > 0 {
				base = append(base, weightedPattern{items: prefix, count: n.count})
			}
		}
		if len(base) == 0 {
			continue
		}

		cond := newFPTree(base, minCount)
		if len(cond.order) > 0 {
			cond.mine(set, minCount, maxLen, emit)
		}
	}
}

// FrequentItemsets returns every itemset contained in at least minCount
// transactions, using FP-growth. maxLen limits itemset size; 0 means unlimited.
// The result is sorted by size, then lexicographically by item index.
func FrequentItemsets(transactions [][]int, minCount, maxLen int) []Itemset {
	if minCount < 1 {
		minCount = 1
	}

	patterns := make([]weightedPattern, len(transactions))
	for i, tx := range transactions {
		patterns[i] = weightedPattern{items: tx, count: 1}
	}

	tree := newFPTree(patterns, minCount)

	var result []Itemset
	tree.mine(nil, minCount, maxLen, func(items []int, count int) {
		sort.Ints(items)
		result = append(result, Itemset{Items: items, Count: count})
	})

	sort.Slice(result, func(i, j int) bool {
		return lessItems(result[i].Items, result[j].Items)
	})
	return result
}

func lessItems(a, b []int) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	for k := range a {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}
