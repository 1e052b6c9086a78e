package tags

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies the domain an item belongs to.
type Kind int

const (
	KindGenre Kind = iota
	KindTheme
	KindReviewBin
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindGenre:
		return "genre"
	case KindTheme:
		return "theme"
	case KindReviewBin:
		return "review_bin"
	default:
		return "unknown"
	}
}

// ParseKind parses the String form of a kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "genre":
		return KindGenre, nil
	case "theme":
		return KindTheme, nil
	case "review_bin":
		return KindReviewBin, nil
	default:
		return 0, fmt.Errorf("unknown item kind %q", s)
	}
}

// Item is a single column of the transaction table: a genre, a theme or a review bin.
// For review bins Label holds the bin name ("80-85").
type Item struct {
	Kind  Kind
	Label string
}

// GenreItem wraps a genre as an item.
func GenreItem(g Genre) Item {
	return Item{Kind: KindGenre, Label: string(g)}
}

// ThemeItem wraps a theme as an item.
func ThemeItem(t Theme) Item {
	return Item{Kind: KindTheme, Label: string(t)}
}

// BinItem wraps a review bin as an item.
func BinItem(b ReviewBin) Item {
	return Item{Kind: KindReviewBin, Label: b.Name()}
}

// Column returns the column name used in persisted one-hot tables.
func (i Item) Column() string {
	if i.Kind == KindReviewBin {
		return binColumnPrefix + i.Label
	}
	return i.Label
}

// DisplayLabel returns the human-readable label.
func (i Item) DisplayLabel() string {
	if i.Kind == KindReviewBin {
		return binLabelPrefix + i.Label
	}
	return i.Label
}

// Bin returns the review bin for a review-bin item.
func (i Item) Bin() (ReviewBin, bool) {
	if i.Kind != KindReviewBin {
		return ReviewBin{}, false
	}
	return ParseBinName(i.Label)
}

func (i Item) less(o Item) bool {
	if i.Kind != o.Kind {
		return i.Kind < o.Kind
	}
	return i.Label < o.Label
}

// ItemSet is a sorted, duplicate-free set of items. Values are never modified after
// construction, so sets may be shared between goroutines.
type ItemSet []Item

// NewItemSet builds a set from the given items.
func NewItemSet(items ...Item) ItemSet {
	set := make(ItemSet, len(items))
	copy(set, items)
	sort.Slice(set, func(i, j int) bool { return set[i].less(set[j]) })

	out := set[:0]
	for i, item := range set {
		if i > 0 && item == set[i-1] {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Contains reports whether the set holds the item.
func (s ItemSet) Contains(item Item) bool {
	i := sort.Search(len(s), func(i int) bool { return !s[i].less(item) })
	return i < len(s) && s[i] == item
}

// ContainsAll reports whether every item is in the set. It is true for no items.
func (s ItemSet) ContainsAll(items []Item) bool {
	for _, item := range items {
		if !s.Contains(item) {
			return false
		}
	}
	return true
}

// Count returns the number of items of the given kind.
func (s ItemSet) Count(kind Kind) int {
	n := 0
	for _, item := range s {
		if item.Kind == kind {
			n++
		}
	}
	return n
}

// Disjoint reports whether the two sets share no item.
func (s ItemSet) Disjoint(o ItemSet) bool {
	for _, item := range s {
		if o.Contains(item) {
			return false
		}
	}
	return true
}

// ReviewBin returns the lowest review bin in the set.
func (s ItemSet) ReviewBin() (ReviewBin, bool) {
	var (
		lowest ReviewBin
		found  bool
	)
	for _, item := range s {
		if bin, ok := item.Bin(); ok && (!found || bin.Low < lowest.Low) {
			lowest, found = bin, true
		}
	}
	return lowest, found
}

// Themes returns the theme items of the set.
func (s ItemSet) Themes() []Theme {
	var themes []Theme
	for _, item := range s {
		if item.Kind == KindTheme {
			themes = append(themes, Theme(item.Label))
		}
	}
	return themes
}

// Genres returns the genre items of the set.
func (s ItemSet) Genres() []Genre {
	var genres []Genre
	for _, item := range s {
		if item.Kind == KindGenre {
			genres = append(genres, Genre(item.Label))
		}
	}
	return genres
}

// DisplayString joins the display labels in alphabetical order.
func (s ItemSet) DisplayString() string {
	labels := make([]string, len(s))
	for i, item := range s {
		labels[i] = item.DisplayLabel()
	}
	sort.Strings(labels)
	return strings.Join(labels, ", ")
}
