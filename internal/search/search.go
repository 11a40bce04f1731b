// Package search finds paths under a root by fuzzy-matching their relative
// path against a query. Results feed the tree's filtered rebuild.
package search

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/treykane/cli-files/internal/filetree"
	"github.com/treykane/cli-files/internal/logging"
)

var log = logging.New("search")

const (
	// DefaultMaxResults caps how many matches a search returns.
	DefaultMaxResults = 500
	// substringThreshold switches to plain substring matching for very large
	// trees, where fuzzy scoring gets slow.
	substringThreshold = 20000
)

type Options struct {
	ShowHidden bool
	MaxResults int
}

// Find walks root and returns absolute paths of entries matching query,
// best match first. An empty query returns no results.
func Find(ctx context.Context, root, query string, opts Options) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	paths, err := Collect(ctx, root, opts.ShowHidden)
	if err != nil {
		return nil, err
	}
	matches := Match(query, paths, opts.MaxResults)
	out := make([]string, 0, len(matches))
	for _, rel := range matches {
		out = append(out, filepath.Join(root, filepath.FromSlash(rel)))
	}
	log.Debug("search", "root", root, "query", query, "candidates", len(paths), "matches", len(out))
	return out, nil
}

// Collect lists every entry below root as a slash-separated relative path,
// skipping entries the tree would hide. Unreadable directories are skipped.
func Collect(ctx context.Context, root string, showHidden bool) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("skip unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if filetree.Excluded(d.Name(), showHidden) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &fs.PathError{Op: "search", Path: root, Err: err}
	}
	return paths, nil
}

// Match ranks paths against query. A limit of zero or less uses
// DefaultMaxResults.
func Match(query string, paths []string, limit int) []string {
	if limit <= 0 {
		limit = DefaultMaxResults
	}
	var matches []string
	if len(paths) > substringThreshold {
		lower := strings.ToLower(query)
		for _, p := range paths {
			if len(matches) >= limit {
				break
			}
			if strings.Contains(strings.ToLower(p), lower) {
				matches = append(matches, p)
			}
		}
		return matches
	}
	for _, m := range fuzzy.Find(query, paths) {
		if len(matches) >= limit {
			break
		}
		matches = append(matches, m.Str)
	}
	return matches
}
