package filetree

import (
	"path/filepath"
	"strings"
)

// Node is one entry of the tree. A directory node owns its children, which
// are ordered directories first and then by case-sensitive name.
type Node struct {
	Path     string
	Name     string
	Dir      bool
	Children []*Node
}

// Path locates a node by sibling indices from the root. The root itself is
// the empty path and is never a row.
type Path []int

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Parent returns p without its last index.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1:len(p)-1]
}

func (p Path) clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

// Tree is a whole-tree snapshot of a directory. It is only ever replaced by
// a full or filtered rebuild, never edited node by node.
type Tree struct {
	root     *Node
	rootPath string
	opts     BuildOptions
}

// Load builds the tree rooted at root. A non-nil opts.Include produces a
// filtered tree.
func Load(root string, opts BuildOptions) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	node, err := Build(abs, opts)
	if err != nil {
		return nil, err
	}
	return &Tree{root: node, rootPath: abs, opts: opts}, nil
}

// Refresh rescans the whole root and drops any filter. On error the current
// snapshot is kept.
func (t *Tree) Refresh() error {
	opts := t.opts
	opts.Include = nil
	return t.replace(opts)
}

// Rebuild rescans with the current options, keeping any active filter.
func (t *Tree) Rebuild() error {
	return t.replace(t.opts)
}

// OnlyInclude rebuilds the tree keeping only paths, their ancestors and the
// contents of listed directories. An empty list yields an empty filtered
// tree. On error the current snapshot is kept.
func (t *Tree) OnlyInclude(paths []string) error {
	opts := t.opts
	opts.Include = append([]string{}, paths...)
	return t.replace(opts)
}

// SetShowHidden changes whether dot-files are included and rebuilds.
func (t *Tree) SetShowHidden(show bool) error {
	opts := t.opts
	opts.ShowHidden = show
	return t.replace(opts)
}

func (t *Tree) replace(opts BuildOptions) error {
	node, err := Build(t.rootPath, opts)
	if err != nil {
		return err
	}
	t.root = node
	t.opts = opts
	return nil
}

func (t *Tree) Root() *Node {
	return t.root
}

func (t *Tree) RootPath() string {
	return t.rootPath
}

// Filtered reports whether the snapshot was built from an allow-list.
func (t *Tree) Filtered() bool {
	return t.opts.Include != nil
}

func (t *Tree) ShowHidden() bool {
	return t.opts.ShowHidden
}

// Empty reports whether the tree has no rows.
func (t *Tree) Empty() bool {
	return t.root == nil || len(t.root.Children) == 0
}

// Find returns the node for an absolute filesystem path, or nil.
func (t *Tree) Find(path string) *Node {
	p, ok := t.Locate(path)
	if !ok {
		return nil
	}
	return t.Resolve(p)
}

// Resolve returns the node at p, or nil when p indexes past the current
// arity. The empty path resolves to nil because the root is not a row.
func (t *Tree) Resolve(p Path) *Node {
	if t.root == nil || len(p) == 0 {
		return nil
	}
	node := t.root
	for _, idx := range p {
		if idx < 0 || idx >= len(node.Children) {
			return nil
		}
		node = node.Children[idx]
	}
	return node
}

// Locate returns the selection path of an absolute filesystem path.
func (t *Tree) Locate(path string) (Path, bool) {
	if t.root == nil {
		return nil, false
	}
	rel, err := filepath.Rel(t.rootPath, filepath.Clean(path))
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, false
	}

	var p Path
	node := t.root
	for _, name := range strings.Split(rel, string(filepath.Separator)) {
		idx := childIndex(node, name)
		if idx < 0 {
			return nil, false
		}
		p = append(p, idx)
		node = node.Children[idx]
	}
	return p, true
}

func childIndex(node *Node, name string) int {
	for i, child := range node.Children {
		if child.Name == name {
			return i
		}
	}
	return -1
}

func absUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
