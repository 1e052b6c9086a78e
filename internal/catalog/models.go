package catalog

// Game is one catalog record as read from the source.
type Game struct {
	ID       int64
	Name     string
	Positive int
	Negative int
	Tags     []string // distinct labels, original casing
}

// Document is one raw catalog file.
type Document struct {
	Name string
	Data []byte
}

// Catalog is the merged set of games from every source document.
type Catalog struct {
	Games     []Game // ascending by ID
	Documents []string
	Skipped   int // records dropped because their key was not an integer ID
}

// ReadOptions selects the catalog documents to read.
type ReadOptions struct {
	Patterns []string // doublestar glob patterns
	Exclude  []string // doublestar glob patterns
	RepoPath string   // read from this git repository instead of the file system
	Revision string   // git revision, default HEAD
}
