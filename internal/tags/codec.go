package tags

import (
	"fmt"
	"strings"
)

const (
	itemSeparator = "|"
	kindSeparator = ":"
)

// FormatItems encodes a set as "kind:label|kind:label".
func FormatItems(s ItemSet) string {
	parts := make([]string, len(s))
	for i, item := range s {
		parts[i] = item.Kind.String() + kindSeparator + item.Label
	}
	return strings.Join(parts, itemSeparator)
}

// ParseItems decodes the FormatItems representation.
func ParseItems(s string) (ItemSet, error) {
	if s == "" {
		return ItemSet{}, nil
	}
	parts := strings.Split(s, itemSeparator)
	items := make([]Item, 0, len(parts))
	for _, part := range parts {
		kindName, label, ok := strings.Cut(part, kindSeparator)
		if !ok || label == "" {
			return nil, fmt.Errorf("malformed item %q", part)
		}
		kind, err := ParseKind(kindName)
		if err != nil {
			return nil, err
		}
		if kind == KindReviewBin {
			if _, ok := ParseBinName(label); !ok {
				return nil, fmt.Errorf("malformed review bin %q", label)
			}
		}
		items = append(items, Item{Kind: kind, Label: label})
	}
	return NewItemSet(items...), nil
}
