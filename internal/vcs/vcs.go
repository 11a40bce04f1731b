// Package vcs maps tree paths to version-control display hints.
//
// A Provider takes a Snapshot of the working tree's status; an Overlay built
// from one snapshot answers Hint(path) for every row the tree renders. When
// no provider is available every path is HintClean.
package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnavailable reports that the directory is not under version control or
// the tool is missing.
var ErrUnavailable = errors.New("version control unavailable")

// Hint is the display classification of a path. Higher values take
// precedence when several statuses apply.
type Hint int

const (
	HintClean Hint = iota
	HintIndex
	HintWorktree
	HintUntracked
)

func (h Hint) String() string {
	switch h {
	case HintIndex:
		return "index"
	case HintWorktree:
		return "worktree"
	case HintUntracked:
		return "untracked"
	default:
		return "clean"
	}
}

// Status is a porcelain XY status pair: Index is the staged column and
// Worktree the unstaged one.
type Status struct {
	Index    byte
	Worktree byte
}

// Classify reduces a status pair to a hint using the precedence
// untracked > worktree > index > clean.
func Classify(st Status) Hint {
	if st.Index == '?' || st.Worktree == '?' {
		return HintUntracked
	}
	if changed(st.Worktree) {
		return HintWorktree
	}
	if changed(st.Index) {
		return HintIndex
	}
	return HintClean
}

func changed(code byte) bool {
	switch code {
	case 'M', 'A', 'D', 'R', 'C', 'T', 'U':
		return true
	default:
		return false
	}
}

// Branch summarizes the checked-out branch.
type Branch struct {
	Name        string
	Detached    bool
	HasUpstream bool
	Ahead       int
	Behind      int
}

// Snapshot is the status of one working tree at one moment. Entries are
// keyed by absolute path under Root.
type Snapshot struct {
	Root    string
	Branch  Branch
	Entries map[string]Status
}

// Dirty reports whether any entry differs from HEAD.
func (s Snapshot) Dirty() bool {
	for _, st := range s.Entries {
		if Classify(st) != HintClean {
			return true
		}
	}
	return false
}

// Summary renders the footer text: "git <branch> ↑n ↓n clean|dirty".
func (s Snapshot) Summary() string {
	parts := []string{"git"}
	name := s.Branch.Name
	if s.Branch.Detached || name == "" {
		name = "(detached)"
	}
	parts = append(parts, name)
	if s.Branch.HasUpstream {
		parts = append(parts, fmt.Sprintf("↑%d", s.Branch.Ahead), fmt.Sprintf("↓%d", s.Branch.Behind))
	} else {
		parts = append(parts, "no-upstream")
	}
	if s.Dirty() {
		parts = append(parts, "dirty")
	} else {
		parts = append(parts, "clean")
	}
	return strings.Join(parts, " ")
}

// Provider takes status snapshots.
type Provider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// Overlay answers Hint lookups against one snapshot. The zero value maps
// every path to HintClean.
type Overlay struct {
	root    string
	entries map[string]Hint
	// dirs holds the strongest hint of any entry below each directory.
	dirs map[string]Hint
}

// NewOverlay indexes snap for lookups.
func NewOverlay(snap Snapshot) Overlay {
	o := Overlay{
		root:    filepath.Clean(snap.Root),
		entries: make(map[string]Hint, len(snap.Entries)),
		dirs:    map[string]Hint{},
	}
	for path, st := range snap.Entries {
		hint := Classify(st)
		if hint == HintClean {
			continue
		}
		path = filepath.Clean(path)
		o.entries[path] = max(o.entries[path], hint)
		for dir := filepath.Dir(path); o.within(dir); dir = filepath.Dir(dir) {
			o.dirs[dir] = max(o.dirs[dir], hint)
			if dir == o.root {
				break
			}
		}
	}
	return o
}

// Available reports whether the overlay was built from a snapshot.
func (o Overlay) Available() bool {
	return o.entries != nil
}

// Hint returns the display hint for path. Paths inside an untracked
// directory are untracked; directories take the strongest hint below them.
func (o Overlay) Hint(path string) Hint {
	if o.entries == nil {
		return HintClean
	}
	path = filepath.Clean(path)
	hint := max(o.entries[path], o.dirs[path])
	if hint == HintUntracked {
		return hint
	}
	for dir := filepath.Dir(path); o.within(dir) && dir != o.root; dir = filepath.Dir(dir) {
		if o.entries[dir] == HintUntracked {
			return HintUntracked
		}
	}
	return hint
}

func (o Overlay) within(path string) bool {
	if path == o.root {
		return true
	}
	rel, err := filepath.Rel(o.root, path)
	if err != nil || rel == "." || rel == ".." {
		return false
	}
	// Names like "..data" are children of root, not parents.
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
