package rules

import (
	"fmt"
	"sort"
	"strings"
)

// SortKey names the metric a rule list is ordered by.
type SortKey string

const (
	SortNone        SortKey = ""
	SortLift        SortKey = "lift"
	SortConfidence  SortKey = "confidence"
	SortOccurrences SortKey = "occurrences"
	SortSupport     SortKey = "support"
)

// ParseSortKey parses a sort key; "none" and "" keep source order.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortLift, SortConfidence, SortOccurrences, SortSupport:
		return k, nil
	case "none":
		return SortNone, nil
	default:
		return SortNone, fmt.Errorf("unknown sort key %q (expected lift, confidence, occurrences, support or none)", s)
	}
}

// Sorted returns a copy of rs ordered by key descending. Ties keep source order.
func Sorted(rs []Rule, key SortKey) []Rule {
	out := make([]Rule, len(rs))
	copy(out, rs)
	if key == SortNone {
		return out
	}

	metric := func(r Rule) float64 {
		switch key {
		case SortConfidence:
			return r.Confidence
		case SortOccurrences:
			return float64(r.Occurrences)
		case SortSupport:
			return r.Support
		default:
			return r.Lift
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return metric(out[i]) > metric(out[j])
	})
	return out
}
