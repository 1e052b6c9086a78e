package tags

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_vocabulary.yaml
var defaultVocabularyYAML []byte

// ErrEmptyVocabulary is returned when a vocabulary file defines no genres or no themes.
var ErrEmptyVocabulary = errors.New("vocabulary must define at least one genre and one theme")

// Genre is a label from the genre vocabulary.
type Genre string

// Theme is a label from the theme vocabulary.
type Theme string

// orderedSet is a fixed, ordered list of labels with constant-time lookup.
type orderedSet[T ~string] struct {
	labels []T
	index  map[T]int
}

func newOrderedSet[T ~string](domain string, labels []string) (orderedSet[T], error) {
	set := orderedSet[T]{
		labels: make([]T, 0, len(labels)),
		index:  make(map[T]int, len(labels)),
	}
	for _, raw := range labels {
		if err := validateLabel(raw); err != nil {
			return orderedSet[T]{}, fmt.Errorf("%s %q: %w", domain, raw, err)
		}
		label := T(raw)
		if _, dup := set.index[label]; dup {
			return orderedSet[T]{}, fmt.Errorf("duplicate %s %q", domain, raw)
		}
		set.index[label] = len(set.labels)
		set.labels = append(set.labels, label)
	}
	return set, nil
}

// Labels returns a copy of the labels in vocabulary order.
func (s orderedSet[T]) Labels() []T {
	out := make([]T, len(s.labels))
	copy(out, s.labels)
	return out
}

// Len returns the number of labels.
func (s orderedSet[T]) Len() int {
	return len(s.labels)
}

// Contains reports whether the label is part of the vocabulary.
func (s orderedSet[T]) Contains(label T) bool {
	_, ok := s.index[label]
	return ok
}

// GenreSet is the ordered genre vocabulary.
type GenreSet = orderedSet[Genre]

// ThemeSet is the ordered theme vocabulary.
type ThemeSet = orderedSet[Theme]

// Vocabulary holds both controlled vocabularies.
type Vocabulary struct {
	Genres GenreSet
	Themes ThemeSet
}

type vocabularyFile struct {
	Genres []string `yaml:"genres"`
	Themes []string `yaml:"themes"`
}

// ParseVocabulary parses a YAML document with "genres" and "themes" lists.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var file vocabularyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Vocabulary{}, fmt.Errorf("failed to parse vocabulary: %w", err)
	}
	if len(file.Genres) == 0 || len(file.Themes) == 0 {
		return Vocabulary{}, ErrEmptyVocabulary
	}

	genres, err := newOrderedSet[Genre]("genre", file.Genres)
	if err != nil {
		return Vocabulary{}, err
	}
	themes, err := newOrderedSet[Theme]("theme", file.Themes)
	if err != nil {
		return Vocabulary{}, err
	}
	return Vocabulary{Genres: genres, Themes: themes}, nil
}

// LoadVocabulary reads a vocabulary file. A missing file is an error.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Vocabulary{}, fmt.Errorf("failed to read vocabulary: %w", err)
	}
	return ParseVocabulary(data)
}

// DefaultVocabulary returns the built-in genre and theme lists.
func DefaultVocabulary() Vocabulary {
	v, err := ParseVocabulary(defaultVocabularyYAML)
	if err != nil {
		panic("tags: invalid embedded vocabulary: " + err.Error())
	}
	return v
}

// validateLabel rejects labels that cannot round-trip through the persisted item codec.
func validateLabel(label string) error {
	if label == "" || strings.TrimSpace(label) != label {
		return errors.New("label must be non-empty without surrounding whitespace")
	}
	if strings.ContainsAny(label, itemSeparator+"\n") {
		return fmt.Errorf("label must not contain %q", itemSeparator)
	}
	return nil
}
