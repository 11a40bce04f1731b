// Package filetree models a directory as a navigable tree and turns key
// input into navigation changes and intents for the host.
//
// A FileTree owns a Tree snapshot, the Nav selection state and a KeyMap. It
// never performs file operations or drawing itself: it records intents on a
// queue.Queue that the host drains after every event.
package filetree

import (
	"github.com/treykane/cli-files/internal/logging"
	"github.com/treykane/cli-files/internal/pending"
	"github.com/treykane/cli-files/internal/queue"
)

var treeLog = logging.New("filetree")

// Event is input delivered to the file tree.
type Event interface {
	treeEvent()
}

// KeyEvent is a decoded key in Bubble Tea notation, e.g. "j", "ctrl+n", "G".
type KeyEvent struct {
	Key string
}

func (k KeyEvent) String() string { return k.Key }

// RefreshRequested asks for a rescan after an external change.
//
// The zero value is a plain refresh: the active filter is dropped and the
// full tree comes back. KeepFilter rescans and then reapplies the filter to
// the new entries, so a filtered view survives changes made outside it.
// Rescans after filesystem events use KeepFilter; only the reset action
// drops the filter.
type RefreshRequested struct {
	KeepFilter bool
}

func (KeyEvent) treeEvent()         {}
func (RefreshRequested) treeEvent() {}

// FileTree is the tree component.
type FileTree struct {
	tree    *Tree
	nav     *Nav
	queue   *queue.Queue
	keys    KeyMap
	focused bool
}

// New loads root, selects the first entry and queues its preview.
func New(root string, opts BuildOptions, q *queue.Queue, keys KeyMap) (*FileTree, error) {
	tree, err := Load(root, opts)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = queue.New()
	}
	f := &FileTree{
		tree:    tree,
		nav:     NewNav(),
		queue:   q,
		keys:    keys,
		focused: true,
	}
	f.nav.SelectFirst(tree)
	f.queuePreview()
	treeLog.Debug("loaded tree", "root", tree.RootPath())
	return f, nil
}

func (f *FileTree) Tree() *Tree  { return f.tree }
func (f *FileTree) Nav() *Nav    { return f.nav }
func (f *FileTree) Keys() KeyMap { return f.keys }

func (f *FileTree) Focus(focused bool) { f.focused = focused }
func (f *FileTree) Focused() bool      { return f.focused }

// Selected returns the selected node, or nil.
func (f *FileTree) Selected() *Node {
	return f.nav.SelectedNode(f.tree)
}

// Refresh rescans the root, dropping any filter, and reconciles the
// selection. On error the previous snapshot stays in place.
func (f *FileTree) Refresh() error {
	if err := f.tree.Refresh(); err != nil {
		return err
	}
	f.nav.Reconcile(f.tree)
	return nil
}

// OnlyInclude shows only paths and their ancestors, expanding the ancestors
// so every match is visible, then previews the selection.
func (f *FileTree) OnlyInclude(paths []string) error {
	if err := f.tree.OnlyInclude(paths); err != nil {
		return err
	}
	for _, path := range paths {
		p, ok := f.tree.Locate(absUnder(f.tree.RootPath(), path))
		if !ok {
			continue
		}
		for i := 1; i < len(p); i++ {
			if node := f.tree.Resolve(p[:i]); node != nil && node.Dir {
				f.nav.expanded[node.Path] = struct{}{}
			}
		}
	}
	f.nav.Reconcile(f.tree)
	f.queuePreview()
	return nil
}

// Reveal rescans, then expands to and selects path.
func (f *FileTree) Reveal(path string) error {
	if err := f.tree.Rebuild(); err != nil {
		return err
	}
	if !f.nav.Reveal(f.tree, path) {
		f.nav.Reconcile(f.tree)
	}
	f.queuePreview()
	return nil
}

// SetShowHidden toggles dot-files and rescans.
func (f *FileTree) SetShowHidden(show bool) error {
	if err := f.tree.SetShowHidden(show); err != nil {
		return err
	}
	f.nav.Reconcile(f.tree)
	f.queuePreview()
	return nil
}

// HandleEvent applies ev. It reports whether the event was consumed; an
// unfocused tree consumes nothing. Errors come from rescans and leave the
// previous snapshot in place.
func (f *FileTree) HandleEvent(ev Event) (bool, error) {
	if !f.focused {
		return false, nil
	}
	switch ev := ev.(type) {
	case RefreshRequested:
		var err error
		if ev.KeepFilter {
			err = f.tree.Rebuild()
		} else {
			err = f.tree.Refresh()
		}
		if err != nil {
			return true, err
		}
		f.nav.Reconcile(f.tree)
		return true, nil
	case KeyEvent:
		handled, err := f.handleKey(ev)
		if handled {
			f.queuePreview()
		}
		return handled, err
	default:
		return false, nil
	}
}

func (f *FileTree) handleKey(ev KeyEvent) (bool, error) {
	t, n := f.tree, f.nav

	switch f.keys.Action(ev.Key) {
	case ActionFirst:
		n.SelectFirst(t)
	case ActionLast:
		n.SelectLast(t)
	case ActionDown:
		n.MoveDown(t, 1)
	case ActionUp:
		n.MoveUp(t, 1)
	case ActionJumpDown:
		n.MoveDown(t, JumpAmount)
	case ActionJumpUp:
		n.MoveUp(t, JumpAmount)
	case ActionCommand:
		if node := f.Selected(); node != nil {
			f.queue.Add(queue.OpenInput{Op: queue.Command{To: node.Path}})
		}
	case ActionDelete:
		if node := f.Selected(); node != nil {
			f.queue.Add(queue.OpenPopup{Op: pending.DeleteFile{Path: node.Path}})
		}
	case ActionTogglePreview:
		f.queue.Add(queue.TogglePreviewMode{})
	case ActionSearch:
		f.queue.Add(queue.OpenInput{Op: queue.SearchFiles{}})
	case ActionReset:
		if err := f.Refresh(); err != nil {
			return true, err
		}
	case ActionActivate:
		node := f.Selected()
		switch {
		case node == nil:
		case node.Dir:
			n.ToggleSelected(t)
		default:
			f.queue.Add(queue.OpenFile{Path: node.Path})
		}
	case ActionNewFile:
		f.queue.Add(queue.OpenInput{Op: queue.NewFile{At: n.PlacementDir(t)}})
	case ActionNewDir:
		f.queue.Add(queue.OpenInput{Op: queue.NewDir{At: n.PlacementDir(t)}})
	default:
		return false, nil
	}
	return true, nil
}

func (f *FileTree) queuePreview() {
	if node := f.Selected(); node != nil {
		f.queue.Add(queue.PreviewFile{Path: node.Path})
	}
}
