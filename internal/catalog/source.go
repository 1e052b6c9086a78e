package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNoCatalogFiles is returned when no document matches the configured patterns.
var ErrNoCatalogFiles = errors.New("no catalog files matched")

// Source supplies raw catalog documents.
type Source interface {
	Documents(ctx context.Context) ([]Document, error)
}

// Compile-time interface conformance checks.
var (
	_ Source = (*FileSource)(nil)
	_ Source = (*GitSource)(nil)
	_ Source = (*StaticSource)(nil)
)

// NewSource returns a git source when a repository is configured and a
// file-system source otherwise.
func NewSource(opts ReadOptions) Source {
	if opts.RepoPath != "" {
		return &GitSource{opts: opts}
	}
	return &FileSource{opts: opts}
}

// FileSource reads catalog shards from the file system.
type FileSource struct {
	opts ReadOptions
}

// Documents expands the glob patterns and reads every matching file.
func (s *FileSource) Documents(ctx context.Context) ([]Document, error) {
	seen := make(map[string]struct{})
	var paths []string
	for _, pattern := range s.opts.Patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid catalog pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok || !matchesFilters(m, nil, s.opts.Exclude) {
				continue
			}
			seen[m] = struct{}{}
			paths = append(paths, m)
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCatalogFiles, strings.Join(s.opts.Patterns, ", "))
	}
	sort.Strings(paths)

	docs := make([]Document, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		docs = append(docs, Document{Name: p, Data: data})
	}
	return docs, nil
}

// GitSource reads catalog shards from a commit of a git repository.
type GitSource struct {
	opts ReadOptions
}

// Documents reads every file in the revision's tree that matches the patterns.
func (s *GitSource) Documents(ctx context.Context) ([]Document, error) {
	repo, err := git.PlainOpen(s.opts.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	revision := s.opts.Revision
	if revision == "" {
		revision = "HEAD"
	}
	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve revision %q: %w", revision, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read commit %s: %w", hash, err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	var docs []Document
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !matchesFilters(f.Name, s.opts.Patterns, s.opts.Exclude) {
			return nil
		}
		contents, err := f.Contents()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", f.Name, err)
		}
		docs = append(docs, Document{Name: revision + ":" + f.Name, Data: []byte(contents)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w at %s: %s", ErrNoCatalogFiles, revision, strings.Join(s.opts.Patterns, ", "))
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// StaticSource serves documents held in memory.
type StaticSource struct {
	Docs []Document
	Err  error
}

// Documents returns the predefined documents or error.
func (s *StaticSource) Documents(_ context.Context) ([]Document, error) {
	return s.Docs, s.Err
}

// matchesFilters checks a path against include and exclude patterns.
// An empty include list accepts every path.
func matchesFilters(path string, include, exclude []string) bool {
	path = strings.ReplaceAll(path, "\\", "/")

	for _, pattern := range exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
	}

	if len(include) == 0 {
		return true
	}

	for _, pattern := range include {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return true
		}
	}
	return false
}
