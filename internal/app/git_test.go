package app

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/treykane/cli-files/internal/vcs"
)

func dirtySnapshot(root string) vcs.Snapshot {
	return vcs.Snapshot{
		Root:   root,
		Branch: vcs.Branch{Name: "main"},
		Entries: map[string]vcs.Status{
			filepath.Join(root, "a.txt"):        {Index: ' ', Worktree: 'M'},
			filepath.Join(root, "docs", "n.md"): {Index: '?', Worktree: '?'},
		},
	}
}

func TestGitStatusInstallsOverlayAndSummary(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")
	mustWriteFile(t, filepath.Join(root, "docs", "n.md"), "n")
	m := newTestModel(t, root)
	m.vcs = fakeVCS{snap: dirtySnapshot(root)}

	m.Update(m.refreshGitCmd()())

	if got := m.gitOverlay.Hint(filepath.Join(root, "a.txt")); got != vcs.HintWorktree {
		t.Fatalf("expected worktree hint for a.txt, got %v", got)
	}
	if got := m.gitOverlay.Hint(filepath.Join(root, "docs")); got != vcs.HintUntracked {
		t.Fatalf("expected docs to carry its child's hint, got %v", got)
	}
	if m.gitSummary != "git main no-upstream dirty" {
		t.Fatalf("unexpected summary %q", m.gitSummary)
	}
	if !strings.Contains(m.View(), "git main no-upstream dirty") {
		t.Fatal("expected git summary in footer")
	}
}

func TestGitUnavailableClearsOverlay(t *testing.T) {
	root := t.TempDir()
	mustWriteFile(t, filepath.Join(root, "a.txt"), "a")
	m := newTestModel(t, root)
	m.vcs = fakeVCS{snap: dirtySnapshot(root)}
	m.Update(m.refreshGitCmd()())

	m.vcs = fakeVCS{err: vcs.ErrUnavailable}
	logs := captureLogOutput(t, func() {
		m.Update(m.refreshGitCmd()())
	})
	if m.gitOverlay.Available() {
		t.Fatal("expected overlay cleared outside a repository")
	}
	if got := m.gitOverlay.Hint(filepath.Join(root, "a.txt")); got != vcs.HintClean {
		t.Fatalf("expected clean hint, got %v", got)
	}
	if m.gitSummary != "" {
		t.Fatalf("expected no git summary, got %q", m.gitSummary)
	}
	if logs != "" {
		t.Fatalf("expected no warning for a missing repository, got %q", logs)
	}

	m.vcs = fakeVCS{err: errors.New("index.lock exists")}
	logs = captureLogOutput(t, func() {
		m.Update(m.refreshGitCmd()())
	})
	if !strings.Contains(logs, "index.lock exists") {
		t.Fatalf("expected git failure logged, got %q", logs)
	}
}

func TestStaleGitStatusIgnored(t *testing.T) {
	root := t.TempDir()
	m := newTestModel(t, root)
	m.vcs = fakeVCS{snap: dirtySnapshot(root)}

	stale := m.refreshGitCmd()
	m.refreshGitCmd()
	m.Update(stale())
	if m.gitOverlay.Available() || m.gitSummary != "" {
		t.Fatal("expected stale snapshot dropped")
	}
}

func TestHintLabel(t *testing.T) {
	cases := map[vcs.Hint]string{
		vcs.HintClean:     "",
		vcs.HintIndex:     "+",
		vcs.HintWorktree:  "M",
		vcs.HintUntracked: "?",
	}
	for hint, want := range cases {
		if got := hintLabel(hint); got != want {
			t.Fatalf("%v: expected %q, got %q", hint, want, got)
		}
	}
}
