package filetree

import (
	"path/filepath"
)

// JumpAmount is how many rows a jump moves.
const JumpAmount = 3

// Row is one visible line of the tree.
type Row struct {
	Node  *Node
	Path  Path
	Depth int
}

// Nav holds the selection and the set of expanded directories. Expansion is
// keyed by directory path so it survives rebuilds; entries for directories
// that no longer exist are ignored.
type Nav struct {
	selected Path
	// anchor is the filesystem path of the selection, used to follow the
	// same entry across rebuilds.
	anchor   string
	expanded map[string]struct{}
}

func NewNav() *Nav {
	return &Nav{expanded: map[string]struct{}{}}
}

// Selected returns a copy of the selection path; nil when nothing is
// selected.
func (n *Nav) Selected() Path {
	return n.selected.clone()
}

// SelectedNode returns the selected node, or nil.
func (n *Nav) SelectedNode(t *Tree) *Node {
	return t.Resolve(n.selected)
}

// Select sets the selection to p if it is a visible row.
func (n *Nav) Select(t *Tree, p Path) bool {
	if t.Resolve(p) == nil || !n.visible(t, p) {
		return false
	}
	n.set(t, p)
	return true
}

func (n *Nav) set(t *Tree, p Path) {
	n.selected = p.clone()
	n.anchor = ""
	if node := t.Resolve(p); node != nil {
		n.anchor = node.Path
	}
}

// Visible lists rows in pre-order; children of collapsed directories are
// skipped.
func (n *Nav) Visible(t *Tree) []Row {
	if t.Empty() {
		return nil
	}
	var rows []Row
	var walk func(node *Node, prefix Path)
	walk = func(node *Node, prefix Path) {
		for i, child := range node.Children {
			p := append(prefix.clone(), i)
			rows = append(rows, Row{Node: child, Path: p, Depth: len(p) - 1})
			if child.Dir && n.expandedPath(child.Path) {
				walk(child, p)
			}
		}
	}
	walk(t.Root(), nil)
	return rows
}

// SelectFirst selects the first row, or clears the selection on an empty
// tree.
func (n *Nav) SelectFirst(t *Tree) {
	if t.Empty() {
		n.selected, n.anchor = nil, ""
		return
	}
	n.set(t, Path{0})
}

// SelectLast selects the last visible row.
func (n *Nav) SelectLast(t *Tree) {
	rows := n.Visible(t)
	if len(rows) == 0 {
		n.selected, n.anchor = nil, ""
		return
	}
	n.set(t, rows[len(rows)-1].Path)
}

// MoveDown advances count rows, stopping at the last one.
func (n *Nav) MoveDown(t *Tree, count int) {
	n.move(t, count)
}

// MoveUp retreats count rows, stopping at the first one.
func (n *Nav) MoveUp(t *Tree, count int) {
	n.move(t, -count)
}

func (n *Nav) move(t *Tree, delta int) {
	rows := n.Visible(t)
	if len(rows) == 0 {
		n.selected, n.anchor = nil, ""
		return
	}
	idx := n.rowIndex(rows)
	if idx < 0 {
		n.set(t, rows[0].Path)
		return
	}
	idx = clamp(idx+delta, 0, len(rows)-1)
	n.set(t, rows[idx].Path)
}

// Index returns the selection's row index in Visible, or -1.
func (n *Nav) Index(t *Tree) int {
	return n.rowIndex(n.Visible(t))
}

func (n *Nav) rowIndex(rows []Row) int {
	if n.selected == nil {
		return -1
	}
	for i, row := range rows {
		if row.Path.Equal(n.selected) {
			return i
		}
	}
	return -1
}

// Toggle flips expansion of the directory at p. Files are ignored. When a
// collapse hides the selection, the collapsed directory becomes selected.
func (n *Nav) Toggle(t *Tree, p Path) {
	node := t.Resolve(p)
	if node == nil || !node.Dir {
		return
	}
	if _, ok := n.expanded[node.Path]; ok {
		delete(n.expanded, node.Path)
		if len(n.selected) > len(p) && p.Equal(n.selected[:len(p)]) {
			n.set(t, p)
		}
		return
	}
	n.expanded[node.Path] = struct{}{}
}

// ToggleSelected toggles the selected directory.
func (n *Nav) ToggleSelected(t *Tree) {
	n.Toggle(t, n.selected)
}

// IsExpanded reports whether p is a directory that is currently expanded.
func (n *Nav) IsExpanded(t *Tree, p Path) bool {
	node := t.Resolve(p)
	return node != nil && node.Dir && n.expandedPath(node.Path)
}

// SelectedIsOpen reports whether the selection is an expanded directory.
// It only reads the expansion set.
func (n *Nav) SelectedIsOpen(t *Tree) bool {
	return n.IsExpanded(t, n.selected)
}

// Expanded returns the expanded directory paths.
func (n *Nav) Expanded() []string {
	out := make([]string, 0, len(n.expanded))
	for path := range n.expanded {
		out = append(out, path)
	}
	return out
}

func (n *Nav) expandedPath(path string) bool {
	_, ok := n.expanded[path]
	return ok
}

func (n *Nav) visible(t *Tree, p Path) bool {
	for i := 1; i < len(p); i++ {
		if !n.IsExpanded(t, p[:i]) {
			return false
		}
	}
	return true
}

// Reconcile revalidates the selection after the tree was replaced. It keeps
// the same entry if it is still visible, then the same position, and
// otherwise selects the first row.
func (n *Nav) Reconcile(t *Tree) {
	if n.anchor != "" {
		if p, ok := t.Locate(n.anchor); ok && n.visible(t, p) {
			n.selected = p
			return
		}
	}
	if t.Resolve(n.selected) != nil && n.visible(t, n.selected) {
		n.set(t, n.selected)
		return
	}
	if n.selected != nil {
		treeLog.Debug("selection no longer resolves; selecting first", "path", n.anchor)
	}
	n.SelectFirst(t)
}

// Reveal expands every ancestor of path and selects it.
func (n *Nav) Reveal(t *Tree, path string) bool {
	p, ok := t.Locate(path)
	if !ok {
		return false
	}
	for i := 1; i < len(p); i++ {
		if node := t.Resolve(p[:i]); node != nil && node.Dir {
			n.expanded[node.Path] = struct{}{}
		}
	}
	n.set(t, p)
	return true
}

// PlacementDir returns the directory that receives a new entry: the
// selection when it is an expanded directory, otherwise the selection's
// parent. With nothing selected it is the root.
func (n *Nav) PlacementDir(t *Tree) string {
	node := n.SelectedNode(t)
	if node == nil {
		return t.RootPath()
	}
	if node.Dir && n.SelectedIsOpen(t) {
		return node.Path
	}
	return filepath.Dir(node.Path)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
