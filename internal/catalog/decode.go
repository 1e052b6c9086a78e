package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

var quotedTagPattern = regexp.MustCompile(`'([^']+)'|"([^"]+)"`)

type rawGame struct {
	Name     json.RawMessage `json:"name"`
	Positive json.RawMessage `json:"positive"`
	Negative json.RawMessage `json:"negative"`
	Tags     json.RawMessage `json:"tags"`
}

// Decode parses a catalog document: a JSON object keyed by game ID.
// Malformed fields inside a record degrade to defaults; only a document that is not
// a JSON object is an error. Records whose key is not an integer are counted in
// skipped and dropped.
func Decode(data []byte) (games []Game, skipped int, err error) {
	var records map[string]json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("catalog is not a JSON object keyed by game ID: %w", err)
	}
	if records == nil {
		return nil, 0, errors.New("catalog is not a JSON object keyed by game ID")
	}

	games = make([]Game, 0, len(records))
	for key, raw := range records {
		id, err := strconv.ParseInt(strings.TrimSpace(key), 10, 64)
		if err != nil {
			skipped++
			continue
		}
		games = append(games, decodeGame(id, raw))
	}

	sort.Slice(games, func(i, j int) bool { return games[i].ID < games[j].ID })
	return games, skipped, nil
}

func decodeGame(id int64, raw json.RawMessage) Game {
	game := Game{ID: id}

	var rg rawGame
	if err := json.Unmarshal(raw, &rg); err != nil {
		return game
	}

	var name string
	if json.Unmarshal(rg.Name, &name) == nil {
		game.Name = name
	}
	game.Positive = parseCount(rg.Positive)
	game.Negative = parseCount(rg.Negative)
	game.Tags = ParseTags(rg.Tags)
	return game
}

// parseCount reads a review count given as a number or numeric string.
// Anything else, including negative values, yields 0.
func parseCount(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
	}
	if math.IsNaN(f) || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// ParseTags extracts distinct tag labels from the tag field. A mapping of
// tag to vote count yields its keys, an array yields its string elements and a
// string yields its quoted items (or comma-separated parts when nothing is
// quoted). Malformed data yields no tags.
func ParseTags(raw json.RawMessage) []string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var labels []string
	switch raw[0] {
	case '{':
		var m map[string]json.RawMessage
		if json.Unmarshal(raw, &m) != nil {
			return nil
		}
		for k := range m {
			labels = append(labels, k)
		}
		sort.Strings(labels)
	case '[':
		var items []json.RawMessage
		if json.Unmarshal(raw, &items) != nil {
			return nil
		}
		for _, item := range items {
			var s string
			if json.Unmarshal(item, &s) == nil {
				labels = append(labels, s)
			}
		}
	case '"':
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return nil
		}
		labels = ParseTagString(s)
	default:
		return nil
	}

	return distinct(labels)
}

// ParseTagString parses a textual tag list such as "{'Indie': 12, 'Casual': 3}"
// or "Indie, Casual".
func ParseTagString(s string) []string {
	if matches := quotedTagPattern.FindAllStringSubmatch(s, -1); len(matches) > 0 {
		labels := make([]string, 0, len(matches))
		for _, m := range matches {
			if m[1] != "" {
				labels = append(labels, m[1])
			} else {
				labels = append(labels, m[2])
			}
		}
		return distinct(labels)
	}

	return distinct(strings.Split(s, ","))
}

func distinct(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := labels[:0]
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
