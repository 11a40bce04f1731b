package filetree

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnreadableRoot is returned when the root directory cannot be listed.
var ErrUnreadableRoot = errors.New("unreadable root directory")

// BuildOptions controls which entries a build keeps.
type BuildOptions struct {
	// Include, when non-nil, restricts the tree to these paths (absolute or
	// relative to the root), their ancestors, and everything below listed
	// directories. An empty non-nil slice yields an empty tree.
	Include []string
	// ShowHidden keeps dot-files. ".git" is always skipped.
	ShowHidden bool
}

// Excluded reports whether an entry name is left out of trees and searches.
func Excluded(name string, showHidden bool) bool {
	if name == ".git" {
		return true
	}
	return !showHidden && strings.HasPrefix(name, ".")
}

// Build scans root recursively. Unreadable subdirectories are logged and
// kept as empty directories; an unreadable root is an error wrapping
// ErrUnreadableRoot.
func Build(root string, opts BuildOptions) (*Node, error) {
	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrUnreadableRoot, root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableRoot, err)
	}

	b := builder{showHidden: opts.ShowHidden}
	if opts.Include != nil {
		b.setFilter(root, opts.Include)
	}

	node := &Node{Path: root, Name: filepath.Base(root), Dir: true}
	node.Children = b.children(root, entries)
	return node, nil
}

type builder struct {
	showHidden bool
	filtered   bool
	// allow holds listed paths; ancestors holds every directory above one.
	allow     map[string]struct{}
	ancestors map[string]struct{}
}

func (b *builder) setFilter(root string, include []string) {
	b.filtered = true
	b.allow = make(map[string]struct{}, len(include))
	b.ancestors = map[string]struct{}{}
	for _, path := range include {
		if strings.TrimSpace(path) == "" {
			continue
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, path)
		}
		path = filepath.Clean(path)
		if path == root {
			// Listing the root itself keeps everything.
			b.filtered = false
			return
		}
		b.allow[path] = struct{}{}
		for dir := filepath.Dir(path); dir != root && dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			b.ancestors[dir] = struct{}{}
		}
	}
}

// keep reports whether path survives the filter, and whether everything
// below it survives too.
func (b *builder) keep(path string) (keep bool, all bool) {
	if !b.filtered {
		return true, true
	}
	if _, ok := b.allow[path]; ok {
		return true, true
	}
	_, ok := b.ancestors[path]
	return ok, false
}

func (b *builder) children(dir string, entries []os.DirEntry) []*Node {
	nodes := make([]*Node, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if Excluded(name, b.showHidden) {
			continue
		}
		path := filepath.Join(dir, name)
		keep, all := b.keep(path)
		if !keep {
			continue
		}

		node := &Node{Path: path, Name: name, Dir: entry.IsDir()}
		if node.Dir {
			sub, err := os.ReadDir(path)
			if err != nil {
				treeLog.Warn("skip unreadable directory", "path", path, "error", err)
			}
			if all && b.filtered {
				inner := *b
				inner.filtered = false
				node.Children = inner.children(path, sub)
			} else {
				node.Children = b.children(path, sub)
			}
		}
		nodes = append(nodes, node)
	}
	sortNodes(nodes)
	return nodes
}

// sortNodes orders directories before files, each group by case-sensitive
// name.
func sortNodes(nodes []*Node) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Dir != nodes[j].Dir {
			return nodes[i].Dir
		}
		return nodes[i].Name < nodes[j].Name
	})
}
