package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/treykane/cli-files/internal/fileops"
	"github.com/treykane/cli-files/internal/filetree"
	"github.com/treykane/cli-files/internal/pending"
	"github.com/treykane/cli-files/internal/queue"
)

// handleKey routes a key press. An armed gate sees every key first; the
// input line comes next, then the tree, then host actions.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if m.gate.Awaiting() {
		return m.handleGateKey(key)
	}
	if m.overlay == overlayInput {
		return m.handleInputKey(msg)
	}

	before := m.tree.Tree().Root()
	handled, err := m.tree.HandleEvent(filetree.KeyEvent{Key: key})
	if err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
	}
	if handled {
		cmds := []tea.Cmd{m.drainQueue()}
		m.adjustTreeOffset()
		if m.tree.Tree().Root() != before {
			m.status = "Refreshed"
			cmds = append(cmds, m.afterTreeChange())
		}
		return m, tea.Batch(cmds...)
	}

	return m.handleHostKey(key)
}

// handleHostKey runs actions the tree does not own.
func (m *Model) handleHostKey(key string) (tea.Model, tea.Cmd) {
	switch m.keys.Action(key) {
	case actionQuit:
		return m, tea.Quit
	case actionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		m.applyLayout(m.calculateLayout())
	case actionCopyPath:
		m.copySelectedPathToClipboard()
	case actionHiddenToggle:
		return m, m.toggleHidden()
	case actionPreviewPageUp:
		m.viewport.ViewUp()
	case actionPreviewPageDown:
		m.viewport.ViewDown()
	}
	return m, nil
}

// handleGateKey feeds the armed gate. Confirm runs the operation and always
// leaves the gate idle, even when the operation fails.
func (m *Model) handleGateKey(key string) (tea.Model, tea.Cmd) {
	op := m.gate.Pending()
	outcome, err := m.gate.HandleKey(filetree.NormalizeKey(key), m.execute)
	switch outcome {
	case pending.Confirmed:
		m.closeOverlay()
		if err != nil {
			m.setStatusError(operationFailure(op), err)
		} else {
			m.status = operationSuccess(op)
		}
		if refreshErr := m.rescan(); refreshErr != nil {
			m.setStatusError("Refresh failed", refreshErr, "root", m.root)
		}
		m.queuePreviewOfSelection()
		return m, tea.Batch(m.drainQueue(), m.afterTreeChange())
	case pending.Cancelled:
		m.closeOverlay()
		m.status = "Cancelled"
	}
	return m, nil
}

// execute performs a confirmed operation.
func (m *Model) execute(op pending.Operation) error {
	switch op := op.(type) {
	case pending.DeleteFile:
		return m.ops.Delete(op.Path)
	default:
		return errors.New("unsupported operation")
	}
}

func operationSuccess(op pending.Operation) string {
	if d, ok := op.(pending.DeleteFile); ok {
		return "Deleted " + d.Path
	}
	return "Done"
}

func operationFailure(op pending.Operation) string {
	if d, ok := op.(pending.DeleteFile); ok {
		return "Delete failed: " + d.Path
	}
	return "Operation failed"
}

// toggleHidden flips dot-file visibility for this session.
func (m *Model) toggleHidden() tea.Cmd {
	show := !m.tree.Tree().ShowHidden()
	if err := m.tree.SetShowHidden(show); err != nil {
		m.setStatusError("Refresh failed", err, "root", m.root)
		return nil
	}
	m.cfg.ShowHidden = show
	m.renderCache = map[string]renderCacheEntry{}
	if show {
		// Dot-directories were skipped when the watcher started.
		if m.watcher != nil {
			if err := watchTree(m.watcher, m.root, true); err != nil {
				appLog.Warn("watch hidden directories", "root", m.root, "error", err)
			}
		}
		m.status = "Showing hidden files"
	} else {
		m.status = "Hiding hidden files"
	}
	return tea.Batch(m.drainQueue(), m.afterTreeChange())
}

// queuePreviewOfSelection re-previews after a refresh the tree did not
// trigger itself, clearing the pane when nothing is selected.
func (m *Model) queuePreviewOfSelection() {
	node := m.tree.Selected()
	if node == nil {
		m.clearPreview()
		return
	}
	m.invalidatePreview(node.Path)
	m.queue.Add(queue.PreviewFile{Path: node.Path})
}

// rescan rebuilds the tree keeping any filter. While the input line holds
// focus the rescan is deferred until it closes.
func (m *Model) rescan() error {
	if !m.tree.Focused() {
		m.refreshPending = true
		return nil
	}
	_, err := m.tree.HandleEvent(filetree.RefreshRequested{KeepFilter: true})
	return err
}

// isOutsideRoot reports errors caused by paths escaping the browsed root.
func isOutsideRoot(err error) bool {
	return errors.Is(err, fileops.ErrOutsideRoot) || errors.Is(err, fileops.ErrRoot)
}
