// watcher.go refreshes the tree when something outside the app changes the
// filesystem.
//
// fsnotify watches are per directory, so startWatcher adds the root and
// every directory below it that the tree would show, and handleFsEvent adds
// directories created later. Events arrive in bursts (an editor save is
// often a create, a write and a rename), so each event restarts a debounce
// timer and only the last timer of a burst rescans. The rescan keeps any
// search filter in place.
package app

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/treykane/cli-files/internal/filetree"
)

// fsEventMsg wraps one relevant fsnotify event.
type fsEventMsg struct {
	event fsnotify.Event
}

// fsErrorMsg wraps a watcher error.
type fsErrorMsg struct {
	err error
}

// watchDebounceMsg fires after a quiet period following the last event.
type watchDebounceMsg struct {
	seq int
}

// startWatcher creates the watcher and starts listening. Failure disables
// watching for the session and is shown in the footer.
func (m *Model) startWatcher() tea.Cmd {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.setStatusError("File watching disabled", err)
		return nil
	}
	if err := watchTree(watcher, m.root, m.tree.Tree().ShowHidden()); err != nil {
		watcher.Close()
		m.setStatusError("File watching disabled", err, "root", m.root)
		return nil
	}
	m.watcher = watcher
	appLog.Debug("watching", "root", m.root, "dirs", len(watcher.WatchList()))
	return waitForFsEvent(watcher)
}

// watchTree adds root and the directories below it. Subdirectories that
// cannot be watched are skipped.
func watchTree(watcher *fsnotify.Watcher, root string, showHidden bool) error {
	if err := watcher.Add(root); err != nil {
		return err
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() || path == root {
			return nil
		}
		if filetree.Excluded(d.Name(), showHidden) {
			return fs.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			appLog.Warn("watch directory", "path", path, "error", err)
			return fs.SkipDir
		}
		return nil
	})
}

// waitForFsEvent blocks on the watcher until one relevant event arrives.
// Chmod-only events are ignored. A closed watcher ends the loop.
func waitForFsEvent(watcher *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Op == fsnotify.Chmod {
					continue
				}
				return fsEventMsg{event: event}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return fsErrorMsg{err: err}
			}
		}
	}
}

func (m *Model) handleFsEvent(msg fsEventMsg) (tea.Model, tea.Cmd) {
	if m.watcher == nil {
		return m, nil
	}
	if msg.event.Has(fsnotify.Create) {
		if info, err := os.Lstat(msg.event.Name); err == nil && info.IsDir() && !filetree.Excluded(info.Name(), m.tree.Tree().ShowHidden()) {
			if err := watchTree(m.watcher, msg.event.Name, m.tree.Tree().ShowHidden()); err != nil {
				appLog.Warn("watch new directory", "path", msg.event.Name, "error", err)
			}
		}
	}
	m.invalidatePreview(msg.event.Name)
	return m, tea.Batch(m.scheduleWatchRefresh(), waitForFsEvent(m.watcher))
}

func (m *Model) handleFsError(msg fsErrorMsg) (tea.Model, tea.Cmd) {
	if m.watcher == nil {
		return m, nil
	}
	if errors.Is(msg.err, fsnotify.ErrEventOverflow) {
		appLog.Warn("watcher overflow; rescanning", "error", msg.err)
		return m, tea.Batch(m.scheduleWatchRefresh(), waitForFsEvent(m.watcher))
	}
	appLog.Warn("watcher error", "error", msg.err)
	return m, waitForFsEvent(m.watcher)
}

// scheduleWatchRefresh restarts the debounce window.
func (m *Model) scheduleWatchRefresh() tea.Cmd {
	m.watchSeq++
	seq := m.watchSeq
	return tea.Tick(m.debounce(), func(time.Time) tea.Msg {
		return watchDebounceMsg{seq: seq}
	})
}

// handleWatchDebounce rescans once a burst of events has settled.
func (m *Model) handleWatchDebounce(msg watchDebounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.watchSeq {
		return m, nil
	}
	if err := m.rescan(); err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
		return m, nil
	}
	if m.refreshPending {
		return m, nil
	}
	m.queuePreviewOfSelection()
	return m, tea.Batch(m.drainQueue(), m.afterTreeChange())
}
