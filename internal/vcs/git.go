package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/treykane/cli-files/internal/logging"
)

var log = logging.New("vcs")

// Git reads status from the git working tree containing Dir.
type Git struct {
	Dir string
	// Binary overrides the git executable; empty means "git" on PATH.
	Binary string
}

// Snapshot runs git status and returns entries below Dir keyed by absolute
// path under Dir. Outside a repository it returns an error wrapping
// ErrUnavailable.
func (g Git) Snapshot(ctx context.Context) (Snapshot, error) {
	root := filepath.Clean(g.Dir)

	prefix, err := g.run(ctx, "rev-parse", "--show-prefix")
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s", ErrUnavailable, firstLine(prefix, err))
	}
	prefix = filepath.ToSlash(strings.TrimSpace(prefix))

	out, err := g.run(ctx, "-c", "status.relativePaths=false", "status", "--porcelain=1", "-z", "--branch")
	if err != nil {
		return Snapshot{}, fmt.Errorf("git status: %s: %w", firstLine(out, err), err)
	}

	branch, entries := parsePorcelainZ(out)
	snap := Snapshot{
		Root:    root,
		Branch:  branch,
		Entries: make(map[string]Status, len(entries)),
	}
	for rel, st := range entries {
		if !strings.HasPrefix(rel, prefix) {
			continue
		}
		rel = strings.TrimSuffix(strings.TrimPrefix(rel, prefix), "/")
		if rel == "" {
			continue
		}
		snap.Entries[filepath.Join(root, filepath.FromSlash(rel))] = st
	}
	log.Debug("git snapshot", "root", root, "entries", len(snap.Entries), "branch", branch.Name)
	return snap, nil
}

func (g Git) run(ctx context.Context, args ...string) (string, error) {
	bin := g.Binary
	if bin == "" {
		bin = "git"
	}
	cmd := exec.CommandContext(ctx, bin, append([]string{"-C", g.Dir}, args...)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return strings.TrimSpace(stderr.String()), err
	}
	return stdout.String(), nil
}

// parsePorcelainZ parses `git status --porcelain=1 -z --branch`. Paths are
// relative to the repository root with forward slashes.
func parsePorcelainZ(out string) (Branch, map[string]Status) {
	var branch Branch
	entries := map[string]Status{}

	fields := strings.Split(out, "\x00")
	for i := 0; i < len(fields); i++ {
		field := fields[i]
		if strings.HasPrefix(field, "## ") {
			branch = parseBranchHeader(field)
			continue
		}
		if len(field) < 4 || field[2] != ' ' {
			continue
		}
		st := Status{Index: field[0], Worktree: field[1]}
		entries[field[3:]] = st
		// Renames and copies carry the original path in the next field.
		if st.Index == 'R' || st.Index == 'C' || st.Worktree == 'R' || st.Worktree == 'C' {
			i++
		}
	}
	return branch, entries
}

// parseBranchHeader reads lines like
// "## main...origin/main [ahead 1, behind 2]".
func parseBranchHeader(line string) Branch {
	line = strings.TrimSpace(strings.TrimPrefix(line, "##"))
	var b Branch
	if line == "" {
		return b
	}
	for _, p := range []string{"No commits yet on ", "Initial commit on "} {
		line = strings.TrimPrefix(line, p)
	}
	if strings.HasPrefix(line, "HEAD (no branch)") {
		b.Detached = true
		return b
	}

	name := line
	if i := strings.Index(name, " ["); i >= 0 {
		name = name[:i]
	}
	if i := strings.Index(name, "..."); i >= 0 {
		b.HasUpstream = true
		name = name[:i]
	}
	b.Name = name
	b.Ahead = parseCount(line, "ahead ")
	b.Behind = parseCount(line, "behind ")
	return b
}

func parseCount(line, token string) int {
	idx := strings.Index(line, token)
	if idx < 0 {
		return 0
	}
	start := idx + len(token)
	end := start
	for end < len(line) && line[end] >= '0' && line[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(line[start:end])
	if err != nil {
		return 0
	}
	return n
}

func firstLine(out string, err error) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return err.Error()
	}
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line)
}
