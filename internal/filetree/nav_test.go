package filetree

import (
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"testing"
)

func TestMoveClampsAtEnds(t *testing.T) {
	root := tempFiles(t, "a.txt", "b.txt", "c.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()

	nav.SelectFirst(tree)
	for i := 0; i < 5; i++ {
		nav.MoveUp(tree, 1)
		if !nav.Selected().Equal(Path{0}) {
			t.Fatalf("move up %d: expected [0], got %v", i, nav.Selected())
		}
	}

	nav.SelectLast(tree)
	for i := 0; i < 5; i++ {
		nav.MoveDown(tree, 1)
		if !nav.Selected().Equal(Path{2}) {
			t.Fatalf("move down %d: expected [2], got %v", i, nav.Selected())
		}
	}
	nav.MoveDown(tree, JumpAmount)
	if !nav.Selected().Equal(Path{2}) {
		t.Fatalf("expected jump to clamp at [2], got %v", nav.Selected())
	}
}

func TestJumpByThree(t *testing.T) {
	root := tempFiles(t, "test.txt", "test2.txt", "test3.txt", "test4.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()

	nav.SelectFirst(tree)
	nav.MoveDown(tree, JumpAmount)
	if !nav.Selected().Equal(Path{3}) {
		t.Fatalf("expected [3] after jump down, got %v", nav.Selected())
	}

	nav.SelectLast(tree)
	nav.MoveUp(tree, JumpAmount)
	if !nav.Selected().Equal(Path{0}) {
		t.Fatalf("expected [0] after jump up, got %v", nav.Selected())
	}
}

func TestVisibleRespectsExpansion(t *testing.T) {
	root := tempFiles(t, "dir/inner/deep.txt", "dir/file.txt", "top.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()

	if got := rowNames(nav.Visible(tree)); !reflect.DeepEqual(got, []string{"dir", "top.txt"}) {
		t.Fatalf("collapsed: got %v", got)
	}

	nav.Toggle(tree, Path{0})
	rows := nav.Visible(tree)
	if got := rowNames(rows); !reflect.DeepEqual(got, []string{"dir", "inner", "file.txt", "top.txt"}) {
		t.Fatalf("expanded: got %v", got)
	}
	if rows[1].Depth != 1 || !rows[1].Path.Equal(Path{0, 0}) {
		t.Fatalf("expected inner at depth 1 path [0 0], got depth %d path %v", rows[1].Depth, rows[1].Path)
	}

	nav.Toggle(tree, Path{0, 0})
	if got := rowNames(nav.Visible(tree)); !reflect.DeepEqual(got, []string{"dir", "inner", "deep.txt", "file.txt", "top.txt"}) {
		t.Fatalf("fully expanded: got %v", got)
	}
}

func TestToggleIsAnInvolution(t *testing.T) {
	root := tempFiles(t, "a/x.txt", "b/y.txt", "c.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.Toggle(tree, Path{1})

	for _, p := range []Path{{0}, {1}, {2}} {
		before := sortedExpanded(nav)
		nav.Toggle(tree, p)
		nav.Toggle(tree, p)
		if after := sortedExpanded(nav); !reflect.DeepEqual(before, after) {
			t.Fatalf("toggle twice on %v: before %v after %v", p, before, after)
		}
	}
}

func sortedExpanded(nav *Nav) []string {
	out := nav.Expanded()
	sort.Strings(out)
	return out
}

func TestToggleIgnoresFiles(t *testing.T) {
	root := tempFiles(t, "only.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()

	nav.Toggle(tree, Path{0})
	if len(nav.Expanded()) != 0 || nav.IsExpanded(tree, Path{0}) {
		t.Fatal("expected toggling a file to do nothing")
	}
}

func TestCollapseMovesHiddenSelectionToDirectory(t *testing.T) {
	root := tempFiles(t, "dir/a.txt", "dir/b.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.SelectFirst(tree)
	nav.ToggleSelected(tree)
	nav.MoveDown(tree, 2)
	if !nav.Selected().Equal(Path{0, 1}) {
		t.Fatalf("expected [0 1], got %v", nav.Selected())
	}

	nav.Toggle(tree, Path{0})
	if !nav.Selected().Equal(Path{0}) {
		t.Fatalf("expected selection on collapsed dir, got %v", nav.Selected())
	}
}

func TestSelectedIsOpenDoesNotChangeExpansion(t *testing.T) {
	root := tempFiles(t, "open/x.txt", "shut/y.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.Toggle(tree, Path{0})

	for _, p := range []Path{{0}, {1}} {
		if !nav.Select(tree, p) {
			t.Fatalf("select %v failed", p)
		}
		before := sortedExpanded(nav)
		open := nav.SelectedIsOpen(tree)
		if after := sortedExpanded(nav); !reflect.DeepEqual(before, after) {
			t.Fatalf("query changed expansion: %v -> %v", before, after)
		}
		if want := p[0] == 0; open != want {
			t.Fatalf("path %v: expected open=%v, got %v", p, want, open)
		}
	}
}

func TestReconcileAfterRefresh(t *testing.T) {
	root := tempFiles(t, "a.txt", "m.txt", "z.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.SelectFirst(tree)
	nav.MoveDown(tree, 1)

	// A new entry sorted before the selection shifts its index; the same
	// file stays selected.
	mustWriteFile(t, filepath.Join(root, "b.txt"), "")
	if err := tree.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	nav.Reconcile(tree)
	if node := nav.SelectedNode(tree); node == nil || node.Name != "m.txt" {
		t.Fatalf("expected m.txt to stay selected, got %+v", node)
	}

	// Removing the selected entry resets to the first row.
	if err := os.Remove(filepath.Join(root, "m.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.Remove(filepath.Join(root, "z.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.Remove(filepath.Join(root, "b.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := tree.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	logs := captureLogOutput(t, func() { nav.Reconcile(tree) })
	if !nav.Selected().Equal(Path{0}) {
		t.Fatalf("expected reset to [0], got %v", nav.Selected())
	}
	if !strings.Contains(logs, "level=DEBUG") {
		t.Fatalf("expected debug log for reset selection, got %q", logs)
	}
}

func TestReconcileKeepsPositionWhenEntryIsGone(t *testing.T) {
	root := tempFiles(t, "a.txt", "b.txt", "c.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.SelectFirst(tree)
	nav.MoveDown(tree, 1)

	if err := os.Remove(filepath.Join(root, "b.txt")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := tree.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	nav.Reconcile(tree)

	if node := nav.SelectedNode(tree); node == nil || node.Name != "c.txt" {
		t.Fatalf("expected c.txt at the same position, got %+v", node)
	}
}

func TestReconcileOnEmptyTreeClearsSelection(t *testing.T) {
	root := tempFiles(t, "a.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.SelectFirst(tree)

	if err := tree.OnlyInclude([]string{}); err != nil {
		t.Fatalf("only include: %v", err)
	}
	nav.Reconcile(tree)
	if nav.Selected() != nil {
		t.Fatalf("expected no selection, got %v", nav.Selected())
	}

	nav.MoveDown(tree, 1)
	nav.MoveUp(tree, JumpAmount)
	nav.SelectLast(tree)
	nav.ToggleSelected(tree)
	if nav.Selected() != nil || nav.SelectedIsOpen(tree) {
		t.Fatal("expected navigation on an empty tree to be a no-op")
	}
}

func TestExpansionSurvivesRebuild(t *testing.T) {
	root := tempFiles(t, "dir/a.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()
	nav.Toggle(tree, Path{0})

	mustWriteFile(t, filepath.Join(root, "aaa", "first.txt"), "")
	if err := tree.Refresh(); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if !nav.IsExpanded(tree, Path{1}) {
		t.Fatal("expected dir to stay expanded at its new position")
	}
	if nav.IsExpanded(tree, Path{0}) {
		t.Fatal("expected new dir to start collapsed")
	}
}

func TestRevealExpandsAncestors(t *testing.T) {
	root := tempFiles(t, "a/b/c/leaf.txt", "z.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()

	if !nav.Reveal(tree, filepath.Join(root, "a", "b", "c", "leaf.txt")) {
		t.Fatal("reveal failed")
	}
	if !nav.Selected().Equal(Path{0, 0, 0, 0}) {
		t.Fatalf("expected [0 0 0 0], got %v", nav.Selected())
	}
	if idx := nav.Index(tree); idx != 3 {
		t.Fatalf("expected leaf at row 3, got %d", idx)
	}
	if nav.Reveal(tree, filepath.Join(root, "missing")) {
		t.Fatal("expected reveal of missing path to fail")
	}
}

func TestPlacementDir(t *testing.T) {
	root := tempFiles(t, "test/test.txt")
	tree := mustLoad(t, root, BuildOptions{})
	nav := NewNav()

	if got := nav.PlacementDir(tree); got != tree.RootPath() {
		t.Fatalf("no selection: expected root, got %s", got)
	}

	nav.SelectFirst(tree)
	if got := nav.PlacementDir(tree); got != tree.RootPath() {
		t.Fatalf("closed dir: expected sibling placement in %s, got %s", tree.RootPath(), got)
	}

	nav.ToggleSelected(tree)
	if got, want := nav.PlacementDir(tree), filepath.Join(tree.RootPath(), "test"); got != want {
		t.Fatalf("open dir: expected %s, got %s", want, got)
	}

	nav.MoveDown(tree, 1)
	if got, want := nav.PlacementDir(tree), filepath.Join(tree.RootPath(), "test"); got != want {
		t.Fatalf("file: expected parent %s, got %s", want, got)
	}
}
