package tags

// Classification is the result of classifying one game's tags, in vocabulary order.
type Classification struct {
	Genres []Genre
	Themes []Theme
}

// Items returns the classification as items.
func (c Classification) Items() []Item {
	items := make([]Item, 0, len(c.Genres)+len(c.Themes))
	for _, g := range c.Genres {
		items = append(items, GenreItem(g))
	}
	for _, t := range c.Themes {
		items = append(items, ThemeItem(t))
	}
	return items
}

// Classifier partitions raw tags into the genre and theme vocabularies.
// Matching is exact and case-sensitive; tags outside both vocabularies are dropped.
type Classifier struct {
	vocab Vocabulary
}

// NewClassifier creates a classifier over the given vocabulary.
func NewClassifier(vocab Vocabulary) *Classifier {
	return &Classifier{vocab: vocab}
}

// Vocabulary returns the classifier's vocabulary.
func (c *Classifier) Vocabulary() Vocabulary {
	return c.vocab
}

// Classify returns the genres and themes present in tags.
func (c *Classifier) Classify(tags []string) Classification {
	present := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		present[t] = struct{}{}
	}

	var result Classification
	for _, g := range c.vocab.Genres.labels {
		if _, ok := present[string(g)]; ok {
			result.Genres = append(result.Genres, g)
		}
	}
	for _, t := range c.vocab.Themes.labels {
		if _, ok := present[string(t)]; ok {
			result.Themes = append(result.Themes, t)
		}
	}
	return result
}

// GenreRow returns one boolean per genre, true where the genre is tagged.
func (c *Classifier) GenreRow(tags []string) []bool {
	row := make([]bool, c.vocab.Genres.Len())
	for _, t := range tags {
		if i, ok := c.vocab.Genres.index[Genre(t)]; ok {
			row[i] = true
		}
	}
	return row
}

// ThemeRow returns one boolean per theme, true where the theme is tagged.
func (c *Classifier) ThemeRow(tags []string) []bool {
	row := make([]bool, c.vocab.Themes.Len())
	for _, t := range tags {
		if i, ok := c.vocab.Themes.index[Theme(t)]; ok {
			row[i] = true
		}
	}
	return row
}

// GenreColumns returns the genre columns in vocabulary order.
func (c *Classifier) GenreColumns() []Item {
	items := make([]Item, c.vocab.Genres.Len())
	for i, g := range c.vocab.Genres.labels {
		items[i] = GenreItem(g)
	}
	return items
}

// ThemeColumns returns the theme columns in vocabulary order.
func (c *Classifier) ThemeColumns() []Item {
	items := make([]Item, c.vocab.Themes.Len())
	for i, t := range c.vocab.Themes.labels {
		items[i] = ThemeItem(t)
	}
	return items
}

// BinColumns returns one column per review bin in ascending order.
func BinColumns() []Item {
	bins := Bins()
	items := make([]Item, len(bins))
	for i, b := range bins {
		items[i] = BinItem(b)
	}
	return items
}
